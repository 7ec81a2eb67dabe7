package hoard

import "context"

// Backend is the storage medium holding cache entries keyed by string.
// Implementations must be safe for concurrent use; the cache serializes its
// own compound operations but backends may be shared (a disk directory can
// be used by several cache instances at once).
type Backend interface {
	// Get returns the entry for key, or ok=false when it is absent.
	// A corrupt or unreadable stored record is reported as absent.
	Get(ctx context.Context, key string) (*Entry, bool, error)

	// Set stores the entry under key, replacing any previous one.
	Set(ctx context.Context, key string, e *Entry) error

	// Delete removes the entry for key. Absent keys are not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes all entries.
	Clear(ctx context.Context) error

	// Keys returns the keys of all physically present entries.
	Keys(ctx context.Context) ([]string, error)

	// Entries returns a snapshot view of all entries, used for victim
	// selection. Callers must treat the entries as read-only.
	Entries(ctx context.Context) (map[string]*Entry, error)

	// TotalBytes returns the sum of SizeBytes over all stored entries.
	TotalBytes(ctx context.Context) (int64, error)
}
