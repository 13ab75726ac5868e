// Package payment holds the checkout gateway adapters: delegated minting via
// the backend, direct Stripe, and an in-memory noop for tests.
package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"shake-ai-wallet/internal/domain"
	"shake-ai-wallet/internal/domain/model"
	"shake-ai-wallet/internal/domain/ports/adapter"
)

// SessionMinter is the slice of the backend client the delegated gateway needs.
type SessionMinter interface {
	CreateCheckoutSession(ctx context.Context, items []model.CheckoutItem, successURL, cancelURL string, meta map[string]string) (string, error)
}

var _ adapter.CheckoutGateway = (*BackendGateway)(nil)

// BackendGateway delegates session minting to the ledger backend, which holds
// the provider credentials. The backend replies with the provider's session
// record embedded as a JSON string payload.
type BackendGateway struct {
	minter SessionMinter
}

func NewBackendGateway(minter SessionMinter) *BackendGateway {
	return &BackendGateway{minter: minter}
}

func (g *BackendGateway) Name() string { return "backend" }

func (g *BackendGateway) CreateSession(ctx context.Context, items []model.CheckoutItem, successURL, cancelURL string, meta map[string]string) (*model.CheckoutSession, error) {
	payload, err := g.minter.CreateCheckoutSession(ctx, items, successURL, cancelURL, meta)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSessionCreationFailed, err)
	}

	var session model.CheckoutSession
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return nil, fmt.Errorf("%w: malformed session payload: %v", domain.ErrSessionCreationFailed, err)
	}
	if session.URL == "" {
		return nil, fmt.Errorf("%w: provider returned no redirect URL", domain.ErrSessionCreationFailed)
	}
	return &session, nil
}
