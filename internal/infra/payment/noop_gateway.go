package payment

import (
	"context"
	"fmt"
	"sync"

	"shake-ai-wallet/internal/domain/model"
	"shake-ai-wallet/internal/domain/ports/adapter"
)

var _ adapter.CheckoutGateway = (*NoopGateway)(nil)

// NoopGateway is a simple in-memory gateway to use in dev mode and tests.
type NoopGateway struct {
	mu       sync.Mutex
	seq      int64
	sessions map[string][]model.CheckoutItem
}

func NewNoopGateway() *NoopGateway {
	return &NoopGateway{sessions: make(map[string][]model.CheckoutItem)}
}

func (g *NoopGateway) Name() string { return "noop" }

func (g *NoopGateway) CreateSession(ctx context.Context, items []model.CheckoutItem, successURL, cancelURL string, meta map[string]string) (*model.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	id := fmt.Sprintf("cs_noop_%d", g.seq)
	g.sessions[id] = items
	return &model.CheckoutSession{ID: id, URL: "https://example.test/pay/" + id}, nil
}

// Session returns the line items recorded for a minted session.
func (g *NoopGateway) Session(id string) ([]model.CheckoutItem, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	items, ok := g.sessions[id]
	return items, ok
}
