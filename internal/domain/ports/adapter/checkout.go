package adapter

import (
	"context"

	"shake-ai-wallet/internal/domain/model"
)

// CheckoutGateway is the hex port for the card-payment provider. It mints a
// provider checkout session and returns its opaque identifier together with
// the URL the full browser context must be navigated to (the provider
// requires a top-level redirect, not an in-app navigation).
type CheckoutGateway interface {
	Name() string

	// CreateSession mints a checkout session for the given line items.
	// The success URL may contain model.SessionIDPlaceholder, which the
	// provider substitutes at redirect time.
	CreateSession(ctx context.Context, items []model.CheckoutItem, successURL, cancelURL string, meta map[string]string) (*model.CheckoutSession, error)
}
