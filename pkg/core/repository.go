package core

import "context"

// Storage keys used by the Service.
const (
	NotesKey      = "notes"
	HighlightsKey = "highlights"
)

// KVStore defines the contract for the local blob storage backing the Service.
// Adhering to this interface keeps the core independent of the
// underlying storage mechanism (files, SQLite, memory).
type KVStore interface {
	// Read returns the blob stored under key, or nil and no error when the key is missing.
	Read(ctx context.Context, key string) ([]byte, error)

	// Write stores data under key, replacing any previous value.
	Write(ctx context.Context, key string, data []byte) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

// Watchable defines an interface for stores that can report external changes.
type Watchable interface {
	// Watch emits an Event whenever a key is changed by someone else.
	// The channel is closed when ctx is cancelled.
	Watch(ctx context.Context) (<-chan Event, error)
}
