package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"shake-ai-wallet/internal/domain/ports/cache"
)

// MemorySnapshotStore is a process-local SnapshotStore. TTLs are honored
// lazily on read.
type MemorySnapshotStore struct {
	mu      sync.RWMutex
	entries map[cache.Key]memEntry
}

type memEntry struct {
	data      []byte
	expiresAt time.Time
}

var _ cache.SnapshotStore = (*MemorySnapshotStore)(nil)

func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{entries: make(map[cache.Key]memEntry)}
}

func (s *MemorySnapshotStore) Put(ctx context.Context, key cache.Key, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}
	s.mu.Lock()
	s.entries[key] = memEntry{data: data, expiresAt: expires}
	s.mu.Unlock()
	return nil
}

func (s *MemorySnapshotStore) Get(ctx context.Context, key cache.Key, out any) (bool, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return false, nil
	}
	if err := json.Unmarshal(e.data, out); err != nil {
		return false, err
	}
	return true, nil
}

func (s *MemorySnapshotStore) Delete(ctx context.Context, keys ...cache.Key) error {
	s.mu.Lock()
	for _, k := range keys {
		delete(s.entries, k)
	}
	s.mu.Unlock()
	return nil
}
