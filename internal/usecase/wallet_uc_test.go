//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"shake-ai-wallet/internal/domain/model"
	cacheports "shake-ai-wallet/internal/domain/ports/cache"
	"shake-ai-wallet/internal/infra/cache"
	"shake-ai-wallet/internal/usecase"
)

func newWalletUC(ledger *usecase.MockLedger, bus *usecase.MockBus) usecase.WalletUseCase {
	return usecase.NewWalletUseCase(ledger, bus, cache.NewMemorySnapshotStore(), time.Minute, usecase.NewTestLogger())
}

func TestWalletUseCase_Balance(t *testing.T) {
	ctx := context.Background()

	t.Run("should fetch once and then serve the snapshot", func(t *testing.T) {
		// --- Arrange ---
		ledger := usecase.NewMockLedger()
		ledger.BalanceFunc = func(ctx context.Context) (int64, error) { return 120, nil }
		bus := usecase.NewMockBus()
		uc := newWalletUC(ledger, bus)

		// --- Act ---
		for i := 0; i < 3; i++ {
			balance, err := uc.Balance(ctx)
			if err != nil || balance != 120 {
				t.Fatalf("read %d: balance=%d err=%v", i, balance, err)
			}
		}

		// --- Assert ---
		if ledger.BalanceCalls != 1 {
			t.Errorf("expected a single ledger fetch, got %d", ledger.BalanceCalls)
		}
	})

	t.Run("should refetch after an invalidation bump", func(t *testing.T) {
		ledger := usecase.NewMockLedger()
		balances := []int64{120, 540}
		ledger.BalanceFunc = func(ctx context.Context) (int64, error) {
			return balances[ledger.BalanceCalls-1], nil
		}
		bus := usecase.NewMockBus()
		uc := newWalletUC(ledger, bus)

		if b, _ := uc.Balance(ctx); b != 120 {
			t.Fatalf("expected initial balance 120, got %d", b)
		}
		bus.Invalidate(cacheports.KeyBalance)
		if b, _ := uc.Balance(ctx); b != 540 {
			t.Errorf("expected refetched balance 540, got %d", b)
		}
		if ledger.BalanceCalls != 2 {
			t.Errorf("expected two ledger fetches, got %d", ledger.BalanceCalls)
		}
	})

	t.Run("should drop the stale snapshot even when the refetch fails", func(t *testing.T) {
		ledger := usecase.NewMockLedger()
		fail := false
		ledger.BalanceFunc = func(ctx context.Context) (int64, error) {
			if fail {
				return 0, errors.New("ledger unavailable")
			}
			return 120, nil
		}
		bus := usecase.NewMockBus()
		store := cache.NewMemorySnapshotStore()
		uc := usecase.NewWalletUseCase(ledger, bus, store, time.Minute, usecase.NewTestLogger())

		if _, err := uc.Balance(ctx); err != nil {
			t.Fatalf("expected the first read to populate the snapshot: %v", err)
		}
		bus.Invalidate(cacheports.KeyBalance)
		fail = true
		if _, err := uc.Balance(ctx); err == nil {
			t.Fatal("expected an error, but got nil")
		}

		var stale int64
		if found, _ := store.Get(ctx, cacheports.KeyBalance, &stale); found {
			t.Error("expected the superseded snapshot to be deleted")
		}
	})

	t.Run("should surface ledger errors and not poison the cache", func(t *testing.T) {
		ledger := usecase.NewMockLedger()
		fail := true
		ledger.BalanceFunc = func(ctx context.Context) (int64, error) {
			if fail {
				return 0, errors.New("ledger unavailable")
			}
			return 7, nil
		}
		bus := usecase.NewMockBus()
		uc := newWalletUC(ledger, bus)

		if _, err := uc.Balance(ctx); err == nil {
			t.Fatal("expected an error, but got nil")
		}
		fail = false
		if b, err := uc.Balance(ctx); err != nil || b != 7 {
			t.Errorf("expected recovery with balance 7, got %d err=%v", b, err)
		}
	})
}

func TestWalletUseCase_TransactionsAndPlans(t *testing.T) {
	ctx := context.Background()

	t.Run("transactions and plans are cached independently", func(t *testing.T) {
		ledger := usecase.NewMockLedger()
		ledger.TransactionsFunc = func(ctx context.Context) ([]*model.Transaction, error) {
			return []*model.Transaction{{ID: "t1", Type: model.TransactionCredit, Amount: 500, BalanceAfter: 540}}, nil
		}
		ledger.Catalog = []*model.CoinPlan{{ID: 2, Name: "Pro", CoinAmount: 500, Price: "₹449", CurrencyCode: "INR"}}
		bus := usecase.NewMockBus()
		uc := newWalletUC(ledger, bus)

		txs, err := uc.Transactions(ctx)
		if err != nil || len(txs) != 1 {
			t.Fatalf("unexpected transactions %v err=%v", txs, err)
		}
		plans, err := uc.Plans(ctx)
		if err != nil || len(plans) != 1 {
			t.Fatalf("unexpected plans %v err=%v", plans, err)
		}

		// Bumping transactions must not evict the plan snapshot.
		bus.Invalidate(cacheports.KeyTransactions)
		_, _ = uc.Transactions(ctx)
		_, _ = uc.Plans(ctx)
		if ledger.TxCalls != 2 {
			t.Errorf("expected two transaction fetches, got %d", ledger.TxCalls)
		}
		if ledger.PlanCalls != 1 {
			t.Errorf("expected one plan fetch, got %d", ledger.PlanCalls)
		}
	})
}
