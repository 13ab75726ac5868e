// Package cache holds the in-process invalidation bus and an in-memory
// snapshot store used in dev mode and tests.
package cache

import (
	"sync"

	"shake-ai-wallet/internal/domain/ports/cache"
	"shake-ai-wallet/internal/infra/metrics"
)

// InvalidationBus maps resource keys to monotonically increasing version
// counters. Readers remember the version they fetched at and refetch when
// the current one differs; writers only ever bump. Bumping never blocks
// and never fails.
type InvalidationBus struct {
	mu       sync.RWMutex
	versions map[cache.Key]uint64
}

var _ cache.Bus = (*InvalidationBus)(nil)

func NewInvalidationBus() *InvalidationBus {
	return &InvalidationBus{versions: make(map[cache.Key]uint64)}
}

func (b *InvalidationBus) Invalidate(keys ...cache.Key) {
	b.mu.Lock()
	for _, k := range keys {
		b.versions[k]++
	}
	b.mu.Unlock()
	for _, k := range keys {
		metrics.IncCacheInvalidation(string(k))
	}
}

// Version returns the current version of a key. An unknown key is version 0,
// which matches a reader that has never fetched.
func (b *InvalidationBus) Version(key cache.Key) uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.versions[key]
}
