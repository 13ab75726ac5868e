package model

import "time"

type TransactionType string

const (
	TransactionCredit       TransactionType = "credit"
	TransactionDebit        TransactionType = "debit"
	TransactionFeatureUsage TransactionType = "feature-usage"
)

// Transaction is one entry of the backend ledger's history. The client holds
// read-only snapshots; only the backend mutates the authoritative record.
type Transaction struct {
	ID           string          `json:"id"`
	Type         TransactionType `json:"type"`
	Amount       int64           `json:"amount"`
	BalanceAfter int64           `json:"balance_after"`
	Timestamp    time.Time       `json:"timestamp"`
	Feature      string          `json:"feature,omitempty"` // label for feature-usage entries
}

// Wallet is the point-in-time snapshot of a user's coin state as last
// fetched from the ledger.
type Wallet struct {
	Balance      int64          `json:"balance"`
	Transactions []*Transaction `json:"transactions"`
	FetchedAt    time.Time      `json:"fetched_at"`
}
