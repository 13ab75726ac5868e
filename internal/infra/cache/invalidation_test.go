//go:build !integration

package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"shake-ai-wallet/internal/domain/ports/cache"
)

func TestInvalidationBus(t *testing.T) {
	t.Run("unknown keys start at version zero", func(t *testing.T) {
		bus := NewInvalidationBus()
		if v := bus.Version(cache.KeyBalance); v != 0 {
			t.Errorf("expected version 0 for a fresh key, but got %d", v)
		}
	})

	t.Run("invalidate bumps each named key once", func(t *testing.T) {
		bus := NewInvalidationBus()
		bus.Invalidate(cache.KeyBalance, cache.KeyTransactions, cache.KeyPlans)
		for _, k := range []cache.Key{cache.KeyBalance, cache.KeyTransactions, cache.KeyPlans} {
			if v := bus.Version(k); v != 1 {
				t.Errorf("expected version 1 for %s, but got %d", k, v)
			}
		}
	})

	t.Run("versions are monotonic under concurrent bumps", func(t *testing.T) {
		bus := NewInvalidationBus()
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				bus.Invalidate(cache.KeyBalance)
			}()
		}
		wg.Wait()
		if v := bus.Version(cache.KeyBalance); v != 50 {
			t.Errorf("expected version 50, but got %d", v)
		}
	})
}

func TestMemorySnapshotStore(t *testing.T) {
	ctx := context.Background()

	t.Run("round-trips a snapshot", func(t *testing.T) {
		store := NewMemorySnapshotStore()
		if err := store.Put(ctx, cache.KeyBalance, int64(540), time.Minute); err != nil {
			t.Fatalf("put failed: %v", err)
		}
		var got int64
		ok, err := store.Get(ctx, cache.KeyBalance, &got)
		if err != nil || !ok {
			t.Fatalf("expected a stored snapshot, got ok=%v err=%v", ok, err)
		}
		if got != 540 {
			t.Errorf("expected balance 540, but got %d", got)
		}
	})

	t.Run("misses after expiry", func(t *testing.T) {
		store := NewMemorySnapshotStore()
		_ = store.Put(ctx, cache.KeyBalance, int64(1), time.Nanosecond)
		time.Sleep(time.Millisecond)
		var got int64
		if ok, _ := store.Get(ctx, cache.KeyBalance, &got); ok {
			t.Error("expected a miss after TTL expiry")
		}
	})

	t.Run("delete removes snapshots", func(t *testing.T) {
		store := NewMemorySnapshotStore()
		_ = store.Put(ctx, cache.KeyPlans, []string{"a"}, 0)
		_ = store.Delete(ctx, cache.KeyPlans)
		var got []string
		if ok, _ := store.Get(ctx, cache.KeyPlans, &got); ok {
			t.Error("expected a miss after delete")
		}
	})
}
