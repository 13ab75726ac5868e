// File: internal/usecase/checkout_uc.go
package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"shake-ai-wallet/internal/domain"
	"shake-ai-wallet/internal/domain/model"
	"shake-ai-wallet/internal/domain/ports/adapter"
	"shake-ai-wallet/internal/infra/logging"
	"shake-ai-wallet/internal/infra/metrics"
)

// Compile-time check
var _ CheckoutUseCase = (*checkoutUC)(nil)

type CheckoutUseCase interface {
	// Create mints a provider checkout session for the plan and returns it.
	// The caller must navigate the full browser context to the session URL;
	// re-invocation starts a new, unrelated purchase attempt.
	Create(ctx context.Context, plan *model.CoinPlan) (*model.CheckoutSession, error)
}

type checkoutUC struct {
	gateway adapter.CheckoutGateway
	origin  string // app origin for return URLs
	appName string
	log     *zerolog.Logger
}

func NewCheckoutUseCase(gateway adapter.CheckoutGateway, origin, appName string, logger *zerolog.Logger) *checkoutUC {
	return &checkoutUC{gateway: gateway, origin: strings.TrimRight(origin, "/"), appName: appName, log: logger}
}

func (u *checkoutUC) Create(ctx context.Context, plan *model.CoinPlan) (*model.CheckoutSession, error) {
	if plan.IsZero() || plan.CoinAmount < 0 {
		metrics.IncCheckoutSession(u.gateway.Name(), "invalid_plan")
		return nil, domain.ErrInvalidPlan
	}
	minorUnits, err := plan.PriceMinorUnits()
	if err != nil {
		metrics.IncCheckoutSession(u.gateway.Name(), "invalid_plan")
		return nil, err
	}

	// The provider substitutes the placeholder with the real session ID at
	// redirect time; plan_id rides along so the result page can name the
	// purchased bundle.
	successURL := fmt.Sprintf("%s/#payment-success?session_id=%s&plan_id=%d", u.origin, model.SessionIDPlaceholder, plan.ID)
	cancelURL := u.origin + "/#payment-failure"

	attemptID := uuid.NewString()
	item := model.CheckoutItem{
		ProductName:        plan.Name,
		ProductDescription: fmt.Sprintf("%d coins for your %s account", plan.CoinAmount, u.appName),
		Quantity:           1,
		PriceMinorUnits:    minorUnits,
		Currency:           strings.ToLower(plan.CurrencyCode),
	}

	ctx = logging.WithAttemptID(ctx, attemptID)
	log := logging.With(ctx, u.log)

	session, err := u.gateway.CreateSession(ctx, []model.CheckoutItem{item}, successURL, cancelURL, map[string]string{
		"attempt_id": attemptID,
		"plan_id":    fmt.Sprintf("%d", plan.ID),
	})
	if err != nil {
		metrics.IncCheckoutSession(u.gateway.Name(), "create_failed")
		log.Warn().Err(err).Int64("plan_id", plan.ID).Msg("checkout session creation failed")
		return nil, err
	}
	if session.URL == "" {
		metrics.IncCheckoutSession(u.gateway.Name(), "create_failed")
		return nil, domain.ErrSessionCreationFailed
	}

	metrics.IncCheckoutSession(u.gateway.Name(), "ok")
	log.Info().Int64("plan_id", plan.ID).Int64("amount_minor", minorUnits).Str("session_id", session.ID).Msg("checkout session created")
	return session, nil
}
