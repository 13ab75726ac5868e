// File: internal/usecase/credit_uc.go
package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"shake-ai-wallet/internal/domain/model"
	cacheports "shake-ai-wallet/internal/domain/ports/cache"
	"shake-ai-wallet/internal/infra/logging"
	"shake-ai-wallet/internal/infra/metrics"
)

// SupportNotice is surfaced with every Failed outcome. The external charge
// and the internal credit are not atomic from the client's point of view, so
// a failure here never implies the card was not charged.
const SupportNotice = "If you were charged, please contact support with your payment session details. Your coin balance has not been affected if the error occurred before crediting."

// FragmentSource returns the location fragment the instance was opened with.
// Retry re-reads it, mirroring a presenter that re-parses the still-current
// URL.
type FragmentSource func() string

// CoinPurchaser is the slice of the ledger port the coordinator needs.
type CoinPurchaser interface {
	PurchaseCoins(ctx context.Context, sessionID string, planID int64) (int64, error)
}

// PlanCatalog resolves the purchased plan for display purposes.
type PlanCatalog interface {
	Plans(ctx context.Context) ([]*model.CoinPlan, error)
}

// CallbackParser turns a fragment into callback params; route.ParseCallback
// in production.
type CallbackParser func(fragment string) (model.CallbackParams, bool)

// CreditCoordinator drives the payment-completion reconciliation flow for a
// single result-page instance: Idle → Processing → Credited | Failed.
//
// A one-shot latch guarantees that the crediting request is issued at most
// once per instance no matter how many times Process is invoked; only Retry
// (after Failed) or a fresh instance clears it. The latch is a duplicate
// suppressor, not the idempotency authority — the ledger decides whether a
// session was already credited.
type CreditCoordinator struct {
	ledger  CoinPurchaser
	catalog PlanCatalog
	bus     cacheports.Invalidator
	source  FragmentSource
	parse   CallbackParser
	log     *zerolog.Logger

	mu           sync.Mutex
	latched      bool
	invalidNoted bool
	state        model.CreditingState
	params       model.CallbackParams
	balance      int64
	reason       string
}

func NewCreditCoordinator(ledger CoinPurchaser, catalog PlanCatalog, bus cacheports.Invalidator, source FragmentSource, parse CallbackParser, logger *zerolog.Logger) *CreditCoordinator {
	return &CreditCoordinator{
		ledger:  ledger,
		catalog: catalog,
		bus:     bus,
		source:  source,
		parse:   parse,
		log:     logger,
		state:   model.CreditingIdle,
	}
}

// Process is the mount event. The first call with valid callback params sets
// the latch and issues the single crediting request; every further call on
// the same instance (re-render, duplicate effect trigger) returns the
// current state without touching the network. Absent params leave the
// coordinator at Idle, the terminal "invalid link" state.
func (c *CreditCoordinator) Process(ctx context.Context) model.CreditingState {
	c.mu.Lock()
	if c.latched {
		state := c.state
		c.mu.Unlock()
		return state
	}

	params, ok := c.parse(c.source())
	if !ok {
		// Re-renders of an invalid link are not crediting attempts; note
		// the bad callback once per instance, not once per render.
		if !c.invalidNoted {
			c.invalidNoted = true
			metrics.IncCrediting("skip", "invalid_callback")
		}
		c.mu.Unlock()
		return model.CreditingIdle
	}

	// Latch before issuing: even a reentrant Process during the request
	// must not issue a second one.
	c.latched = true
	c.params = params
	c.state = model.CreditingProcessing
	c.mu.Unlock()

	c.credit(ctx, params)

	c.mu.Lock()
	state := c.state
	c.mu.Unlock()
	return state
}

// credit performs the single ledger call and records the outcome. It runs
// outside the lock so that state stays observable while the call is in
// flight; an unmounted caller simply discards the result.
func (c *CreditCoordinator) credit(ctx context.Context, params model.CallbackParams) {
	ctx = logging.WithSessID(ctx, params.SessionID)
	log := logging.With(ctx, c.log)
	defer logging.TraceDuration(log, "CreditCoordinator.credit")()

	start := time.Now()
	balance, err := c.ledger.PurchaseCoins(ctx, params.SessionID, params.PlanID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = model.CreditingFailed
		c.reason = err.Error()
		metrics.IncCrediting("fail", "ledger_error")
		metrics.ObserveCreditingDuration("fail", time.Since(start).Seconds())
		log.Warn().Err(err).Int64("plan_id", params.PlanID).Msg("coin crediting failed")
		return
	}

	c.state = model.CreditingCredited
	c.balance = balance
	// Exactly once per transition, regardless of how often Credited is
	// observed afterwards. Fire-and-forget: bumping versions cannot fail
	// and never blocks the transition.
	c.bus.Invalidate(cacheports.KeyBalance, cacheports.KeyTransactions, cacheports.KeyPlans)
	metrics.IncCrediting("ok", "")
	metrics.ObserveCreditingDuration("ok", time.Since(start).Seconds())
	log.Info().Int64("plan_id", params.PlanID).Int64("balance", balance).Msg("coins credited")
}

// Retry clears the latch and re-issues the crediting request as a new
// attempt, re-reading the callback params from the still-current fragment.
// It is a no-op unless the coordinator is Failed.
func (c *CreditCoordinator) Retry(ctx context.Context) model.CreditingState {
	c.mu.Lock()
	if c.state != model.CreditingFailed {
		state := c.state
		c.mu.Unlock()
		return state
	}
	c.latched = false
	c.state = model.CreditingIdle
	c.reason = ""
	c.mu.Unlock()

	return c.Process(ctx)
}

// State reports the coordinator's observable state.
func (c *CreditCoordinator) State() model.CreditingState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Balance returns the credited balance once the state is Credited.
func (c *CreditCoordinator) Balance() (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.balance, c.state == model.CreditingCredited
}

// FailureReason returns the stored reason once the state is Failed.
func (c *CreditCoordinator) FailureReason() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reason, c.state == model.CreditingFailed
}

// Params returns the callback pair the instance latched onto.
func (c *CreditCoordinator) Params() (model.CallbackParams, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params, c.latched
}

// CreditedCoins resolves the purchased plan's coin amount for display. When
// the plan has been retired from the catalog between checkout creation and
// return, it reports ok=false and the presenter falls back to a plain
// "coins credited" message.
func (c *CreditCoordinator) CreditedCoins(ctx context.Context) (int64, bool) {
	c.mu.Lock()
	if c.state != model.CreditingCredited {
		c.mu.Unlock()
		return 0, false
	}
	planID := c.params.PlanID
	c.mu.Unlock()

	plans, err := c.catalog.Plans(ctx)
	if err != nil {
		return 0, false
	}
	plan := model.FindPlan(plans, planID)
	if plan == nil {
		return 0, false
	}
	return plan.CoinAmount, true
}
