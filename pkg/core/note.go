package core

// Note is the central entity of the domain.
// It is a dictated text identified by the moment it was saved.
// Notes are immutable once stored.
type Note struct {
	Timestamp string `json:"timestamp" yaml:"timestamp"`
	Content   string `json:"content" yaml:"content"`
}
