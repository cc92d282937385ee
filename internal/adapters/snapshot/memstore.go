package snapshot

import (
	"context"
	"sync"
)

// MemoryStore holds encoded snapshots in memory, keyed by session. It backs
// tests and single-process deployments that accept losing state on restart.
// Blobs are stored encoded so Load exercises the same decode path as the
// durable backends.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blobs: make(map[string][]byte),
	}
}

// Load implements Store.
func (m *MemoryStore) Load(ctx context.Context, key string) (*Snapshot, error) {
	m.mu.RLock()
	data, ok := m.blobs[key]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	return Decode(data)
}

// Save implements Store.
func (m *MemoryStore) Save(ctx context.Context, key string, s *Snapshot) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.blobs[key] = data
	m.mu.Unlock()
	return nil
}

// Corrupt overwrites the blob for key with unparseable bytes. Test hook for
// the decode-failure fallback path.
func (m *MemoryStore) Corrupt(key string) {
	m.mu.Lock()
	m.blobs[key] = []byte("{not json")
	m.mu.Unlock()
}

// Len returns the number of stored sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blobs)
}
