package cache

import (
	"context"
	"time"
)

// Key names a cached resource shared across the application. The set is
// stable: the crediting flow invalidates exactly these, and every reader
// compares versions against the same names.
type Key string

const (
	KeyBalance      Key = "balance"
	KeyTransactions Key = "transactions"
	KeyPlans        Key = "plans"
)

// Invalidator marks cached resources stale. Invalidation is fire-and-forget:
// it has no failure mode and never blocks the caller; a reader that misses a
// bump simply refetches on its next version check.
type Invalidator interface {
	Invalidate(keys ...Key)
}

// VersionSource reports the monotonically increasing version of a resource.
// Readers remember the version they last fetched at and refetch on mismatch.
type VersionSource interface {
	Version(key Key) uint64
}

// Bus combines both sides of the invalidation contract.
type Bus interface {
	Invalidator
	VersionSource
}

// SnapshotStore holds point-in-time JSON snapshots of ledger reads so that
// views can be served without a refetch while their version is current.
// Snapshots are never mutated locally, only replaced.
type SnapshotStore interface {
	Put(ctx context.Context, key Key, value any, ttl time.Duration) error
	// Get unmarshals the stored snapshot into out and reports whether a
	// snapshot was present.
	Get(ctx context.Context, key Key, out any) (bool, error)
	Delete(ctx context.Context, keys ...Key) error
}
