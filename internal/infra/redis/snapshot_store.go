package redis

import (
	"context"
	"encoding/json"
	"time"

	"shake-ai-wallet/internal/domain/ports/cache"
)

// SnapshotStore keeps wallet snapshots in redis so that restarts (and any
// sibling process serving the same user) reuse the last fetched copy. The
// stored value is always a whole replacement, never an in-place mutation.
type SnapshotStore struct {
	client RedisClient
	ttl    time.Duration
}

var _ cache.SnapshotStore = (*SnapshotStore)(nil)

func NewSnapshotStore(client RedisClient, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{client: client, ttl: ttl}
}

func (s *SnapshotStore) key(k cache.Key) string { return "wallet_snapshot:" + string(k) }

func (s *SnapshotStore) Put(ctx context.Context, key cache.Key, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = s.ttl
	}
	return s.client.Set(ctx, s.key(key), data, ttl)
}

func (s *SnapshotStore) Get(ctx context.Context, key cache.Key, out any) (bool, error) {
	data, err := s.client.Get(ctx, s.key(key))
	if err != nil {
		if IsNil(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal([]byte(data), out); err != nil {
		return false, err
	}
	return true, nil
}

func (s *SnapshotStore) Delete(ctx context.Context, keys ...cache.Key) error {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	return s.client.Del(ctx, full...)
}
