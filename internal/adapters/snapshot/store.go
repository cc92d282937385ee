package snapshot

import "context"

// Store is the blob-store boundary the panel persists through. One record
// exists per session key; writes are last-writer-wins within a session
// because there is exactly one writer per session per request.
type Store interface {
	// Load returns the snapshot for key, or ErrNotFound when none exists.
	// A stored blob that cannot be decoded surfaces ErrCorrupt.
	Load(ctx context.Context, key string) (*Snapshot, error)

	// Save replaces the snapshot for key.
	Save(ctx context.Context, key string, s *Snapshot) error
}
