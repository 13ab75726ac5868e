package adapter

import (
	"context"

	"shake-ai-wallet/internal/domain/model"
)

// CoinLedger is the hex port for the backend ledger. The ledger is the sole
// authority on balances and on whether a checkout session has already been
// credited; PurchaseCoins is safe to call with an already-credited session
// identifier.
type CoinLedger interface {
	// PurchaseCoins credits the coins bought through the given checkout
	// session and returns the new balance.
	PurchaseCoins(ctx context.Context, sessionID string, planID int64) (newBalance int64, err error)

	Balance(ctx context.Context) (int64, error)
	Transactions(ctx context.Context) ([]*model.Transaction, error)
	Plans(ctx context.Context) ([]*model.CoinPlan, error)
}
