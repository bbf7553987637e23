// Package core holds the domain of voxnote: notes, the storage port and the
// services that operate on them.
package core

import "fmt"

// EventType represents the type of change in the note store.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change in the note store.
// Key is the raw storage key when emitted by a KeyValue adapter and the note
// timestamp when emitted by Storage.
type Event struct {
	Type EventType
	Key  string
	At   int64 // Unix timestamp
}

// String implements lifecycle.Event.
func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.Key)
}
