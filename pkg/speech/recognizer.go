package speech

import "context"

// Recognizer is the host speech-to-text capability.
type Recognizer interface {
	// Start begins capturing. In continuous mode the recognizer keeps
	// listening across pauses until Stop or a host silence timeout.
	// The returned channel is closed once capture has fully ended.
	Start(ctx context.Context, continuous bool) (<-chan Event, error)

	// Stop asks the recognizer to stop capturing. It is safe to call when idle.
	Stop(ctx context.Context) error
}
