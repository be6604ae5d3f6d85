package store

import (
	"context"
	"sync"
)

// MemoryStore keeps the snapshot in memory only. It backs tests and the
// degraded mode used when the SQLite store cannot be opened: the session
// still works, it just does not survive a restart.
type MemoryStore struct {
	mu   sync.Mutex
	snap *Snapshot
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the stored snapshot, or a default one if nothing was saved
// or the stored version does not match.
func (s *MemoryStore) Load(_ context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap == nil || s.snap.Version != SnapshotVersion {
		return NewSnapshot(), nil
	}
	copied := *s.snap
	return &copied, nil
}

// Save replaces the stored snapshot.
func (s *MemoryStore) Save(_ context.Context, snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *snap
	s.snap = &copied
	return nil
}

// Clear removes the stored snapshot.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = nil
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	return nil
}
