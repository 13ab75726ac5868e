// File: internal/usecase/wallet_uc.go
package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"shake-ai-wallet/internal/domain/model"
	"shake-ai-wallet/internal/domain/ports/adapter"
	cacheports "shake-ai-wallet/internal/domain/ports/cache"
	"shake-ai-wallet/internal/infra/metrics"
)

// Compile-time check
var _ WalletUseCase = (*walletUC)(nil)

// WalletUseCase serves the read side of the wallet: balance, transaction
// history and the plan catalog, each a point-in-time snapshot refetched when
// the invalidation bus says the cached copy is stale. Snapshots are never
// mutated locally; only the ledger changes authoritative values.
type WalletUseCase interface {
	Balance(ctx context.Context) (int64, error)
	Transactions(ctx context.Context) ([]*model.Transaction, error)
	Plans(ctx context.Context) ([]*model.CoinPlan, error)
}

type walletUC struct {
	ledger    adapter.CoinLedger
	bus       cacheports.VersionSource
	snapshots cacheports.SnapshotStore
	ttl       time.Duration
	log       *zerolog.Logger

	mu   sync.Mutex
	seen map[cacheports.Key]uint64 // bus version each snapshot was stored at
}

func NewWalletUseCase(ledger adapter.CoinLedger, bus cacheports.VersionSource, snapshots cacheports.SnapshotStore, ttl time.Duration, logger *zerolog.Logger) *walletUC {
	return &walletUC{
		ledger:    ledger,
		bus:       bus,
		snapshots: snapshots,
		ttl:       ttl,
		log:       logger,
		seen:      make(map[cacheports.Key]uint64),
	}
}

func (u *walletUC) Balance(ctx context.Context) (int64, error) {
	return readCached(ctx, u, cacheports.KeyBalance, u.ledger.Balance)
}

func (u *walletUC) Transactions(ctx context.Context) ([]*model.Transaction, error) {
	return readCached(ctx, u, cacheports.KeyTransactions, u.ledger.Transactions)
}

func (u *walletUC) Plans(ctx context.Context) ([]*model.CoinPlan, error) {
	return readCached(ctx, u, cacheports.KeyPlans, u.ledger.Plans)
}

// readCached serves the snapshot when its stored version still matches the
// bus, otherwise refetches from the ledger and replaces the snapshot.
// Snapshot storage is best effort: a failing store only costs the next read
// a refetch.
func readCached[T any](ctx context.Context, u *walletUC, key cacheports.Key, fetch func(ctx context.Context) (T, error)) (T, error) {
	current := u.bus.Version(key)

	u.mu.Lock()
	stored, fresh := u.seen[key]
	u.mu.Unlock()

	if fresh && stored == current {
		var cached T
		if ok, err := u.snapshots.Get(ctx, key, &cached); err == nil && ok {
			metrics.IncCacheRequest(string(key), "hit")
			return cached, nil
		}
	}
	if fresh && stored != current {
		// Drop the superseded snapshot now; a failed refetch must not
		// leave the stale copy sitting out its TTL.
		if err := u.snapshots.Delete(ctx, key); err != nil {
			u.log.Debug().Err(err).Str("cache", string(key)).Msg("stale snapshot delete failed")
		}
	}

	metrics.IncCacheRequest(string(key), "miss")
	value, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if err := u.snapshots.Put(ctx, key, value, u.ttl); err != nil {
		u.log.Debug().Err(err).Str("cache", string(key)).Msg("snapshot store failed")
	} else {
		u.mu.Lock()
		u.seen[key] = current
		u.mu.Unlock()
	}
	return value, nil
}
