package core

import "context"

// KeyValue defines the contract of the host key-value persistence capability.
// Adhering to this interface keeps the core independent of the underlying
// storage (directory, Redis, object store, memory).
type KeyValue interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key. Last write wins.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Keys enumerates every key currently stored, in storage order.
	Keys(ctx context.Context) ([]string, error)

	// Initialize ensures the underlying storage is ready (e.g. create directories, ping a server).
	Initialize(ctx context.Context) error
}

// Watchable defines an interface for stores that can report changes made by
// other processes.
type Watchable interface {
	// Watch emits an Event for every key change matching the glob pattern.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}
