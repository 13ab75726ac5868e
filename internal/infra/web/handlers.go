package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"shake-ai-wallet/internal/domain"
	"shake-ai-wallet/internal/domain/model"
	"shake-ai-wallet/internal/route"
	"shake-ai-wallet/internal/usecase"
)

// A struct to define the expected JSON request body for creating a checkout.
type checkoutRequest struct {
	PlanID int64 `json:"plan_id"`
}

type checkoutResponse struct {
	SessionID string `json:"session_id"`
	// RedirectURL must be opened as a top-level navigation; the provider
	// rejects embedded contexts.
	RedirectURL string `json:"redirect_url"`
}

func (s *Server) createCheckoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req checkoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		plans, err := s.walletUC.Plans(ctx)
		if err != nil {
			http.Error(w, "Failed to load plan catalog", http.StatusBadGateway)
			return
		}
		plan := model.FindPlan(plans, req.PlanID)
		if plan == nil {
			http.Error(w, "Unknown plan", http.StatusNotFound)
			return
		}

		session, err := s.checkoutUC.Create(ctx, plan)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidPlan):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, domain.ErrSessionCreationFailed):
				http.Error(w, "Payment session could not be created. Please try again or contact support.", http.StatusBadGateway)
			default:
				http.Error(w, "Failed to create checkout session", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, checkoutResponse{SessionID: session.ID, RedirectURL: session.URL})
	}
}

type completeRequest struct {
	// Fragment is the location fragment the browser was redirected back
	// with, e.g. "#payment-success?session_id=cs_123&plan_id=2".
	Fragment string `json:"fragment"`
}

type completeResponse struct {
	State         model.CreditingState `json:"state"`
	Balance       *int64               `json:"balance,omitempty"`
	CoinsAdded    *int64               `json:"coins_added,omitempty"`
	FailureReason string               `json:"failure_reason,omitempty"`
	SupportNotice string               `json:"support_notice,omitempty"`
}

// completePaymentHandler runs the crediting coordinator for one result-page
// instance. Each request is a fresh instance with a fresh latch; a presenter
// retry is simply another request, matching a full page reload.
func (s *Server) completePaymentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req completeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		// No fragment at all is a caller bug, distinct from a fragment
		// whose params turn out to be absent (that one reports Idle).
		if req.Fragment == "" {
			http.Error(w, domain.ErrInvalidCallback.Error(), http.StatusBadRequest)
			return
		}

		co := usecase.NewCreditCoordinator(
			s.ledger,
			planCatalogFunc(s.walletUC.Plans),
			s.bus,
			func() string { return req.Fragment },
			route.ParseCallback,
			s.log,
		)

		resp := completeResponse{State: co.Process(ctx)}
		switch resp.State {
		case model.CreditingCredited:
			if balance, ok := co.Balance(); ok {
				resp.Balance = &balance
			}
			if coins, ok := co.CreditedCoins(ctx); ok {
				resp.CoinsAdded = &coins
			}
		case model.CreditingFailed:
			reason, _ := co.FailureReason()
			resp.FailureReason = reason
			resp.SupportNotice = usecase.SupportNotice
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) balanceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		balance, err := s.walletUC.Balance(r.Context())
		if err != nil {
			http.Error(w, "Failed to read balance", http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int64{"balance": balance})
	}
}

func (s *Server) transactionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		txs, err := s.walletUC.Transactions(r.Context())
		if err != nil {
			http.Error(w, "Failed to read transactions", http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"transactions": txs})
	}
}

func (s *Server) plansHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		plans, err := s.walletUC.Plans(r.Context())
		if err != nil {
			http.Error(w, "Failed to read plans", http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"plans": plans})
	}
}

// planCatalogFunc adapts a Plans method to the coordinator's catalog port.
type planCatalogFunc func(ctx context.Context) ([]*model.CoinPlan, error)

func (f planCatalogFunc) Plans(ctx context.Context) ([]*model.CoinPlan, error) { return f(ctx) }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
