package store

import (
	"context"
	"sync"
	"time"

	"github.com/gridlock-dev/gridlock/pkg/report"
)

// MemoryStore is an in-process snapshot store for development and tests.
// Expired entries are dropped lazily on Get.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	snap      *report.Snapshot
	expiresAt time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Get(ctx context.Context, runID string) (*report.Snapshot, error) {
	s.mu.RLock()
	e, ok := s.entries[runID]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if time.Now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.entries, runID)
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	return e.snap, nil
}

func (s *MemoryStore) Set(ctx context.Context, snap *report.Snapshot, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[snap.RunID] = memoryEntry{snap: snap, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, runID)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// Len returns the number of stored snapshots, including not-yet-collected
// expired entries. Intended for tests.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

var _ Store = (*MemoryStore)(nil)
