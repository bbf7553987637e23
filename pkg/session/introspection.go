package session

import "github.com/aretw0/introspection"

// SessionState exposes internal state for observability.
type SessionState struct {
	Phase      string `json:"phase"`
	BufferSize int    `json:"buffer_size"`
	Captures   int    `json:"captures"`
	Appended   int    `json:"appended"`
	Suppressed int    `json:"suppressed"`
}

// State implements introspection.Introspectable.
func (s *Session) State() any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return SessionState{
		Phase:      s.phase.String(),
		BufferSize: len(s.text),
		Captures:   s.capture,
		Appended:   s.appended,
		Suppressed: s.suppressed,
	}
}

// ComponentType implements introspection.Component.
func (s *Session) ComponentType() string {
	return "session"
}

var _ introspection.Introspectable = (*Session)(nil)
var _ introspection.Component = (*Session)(nil)
