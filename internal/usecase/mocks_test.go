// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"shake-ai-wallet/internal/domain"
	"shake-ai-wallet/internal/domain/model"
	cacheports "shake-ai-wallet/internal/domain/ports/cache"
)

func NewTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// MockLedger is a small in-memory CoinLedger used by unit tests. Behavior
// can be overridden per test through the Func fields.
type MockLedger struct {
	mu sync.Mutex

	PurchaseCoinsFunc func(ctx context.Context, sessionID string, planID int64) (int64, error)
	BalanceFunc       func(ctx context.Context) (int64, error)
	TransactionsFunc  func(ctx context.Context) ([]*model.Transaction, error)
	PlansFunc         func(ctx context.Context) ([]*model.CoinPlan, error)

	PurchaseCalls []model.CallbackParams
	BalanceCalls  int
	TxCalls       int
	PlanCalls     int

	Catalog []*model.CoinPlan
}

func NewMockLedger() *MockLedger { return &MockLedger{} }

func (m *MockLedger) PurchaseCoins(ctx context.Context, sessionID string, planID int64) (int64, error) {
	m.mu.Lock()
	m.PurchaseCalls = append(m.PurchaseCalls, model.CallbackParams{SessionID: sessionID, PlanID: planID})
	fn := m.PurchaseCoinsFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, sessionID, planID)
	}
	return 0, domain.ErrCreditingFailed
}

func (m *MockLedger) Balance(ctx context.Context) (int64, error) {
	m.mu.Lock()
	m.BalanceCalls++
	fn := m.BalanceFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return 0, nil
}

func (m *MockLedger) Transactions(ctx context.Context) ([]*model.Transaction, error) {
	m.mu.Lock()
	m.TxCalls++
	fn := m.TransactionsFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return nil, nil
}

func (m *MockLedger) Plans(ctx context.Context) ([]*model.CoinPlan, error) {
	m.mu.Lock()
	m.PlanCalls++
	fn := m.PlansFunc
	catalog := m.Catalog
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return catalog, nil
}

// PurchaseCount reports how many crediting requests reached the ledger.
func (m *MockLedger) PurchaseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.PurchaseCalls)
}

// MockGateway records the session requests it receives.
type MockGateway struct {
	mu sync.Mutex

	CreateSessionFunc func(ctx context.Context, items []model.CheckoutItem, successURL, cancelURL string, meta map[string]string) (*model.CheckoutSession, error)

	Items      []model.CheckoutItem
	SuccessURL string
	CancelURL  string
	Meta       map[string]string
	Calls      int
}

func (m *MockGateway) Name() string { return "mock" }

func (m *MockGateway) CreateSession(ctx context.Context, items []model.CheckoutItem, successURL, cancelURL string, meta map[string]string) (*model.CheckoutSession, error) {
	m.mu.Lock()
	m.Calls++
	m.Items = items
	m.SuccessURL = successURL
	m.CancelURL = cancelURL
	m.Meta = meta
	fn := m.CreateSessionFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, items, successURL, cancelURL, meta)
	}
	return &model.CheckoutSession{ID: "cs_mock_1", URL: "https://checkout.example.test/cs_mock_1"}, nil
}

// MockBus records invalidations per key.
type MockBus struct {
	mu       sync.Mutex
	versions map[cacheports.Key]uint64
}

func NewMockBus() *MockBus { return &MockBus{versions: make(map[cacheports.Key]uint64)} }

func (b *MockBus) Invalidate(keys ...cacheports.Key) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, k := range keys {
		b.versions[k]++
	}
}

func (b *MockBus) Version(key cacheports.Key) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.versions[key]
}
