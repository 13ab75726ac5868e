package web

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	cacheports "shake-ai-wallet/internal/domain/ports/cache"
	"shake-ai-wallet/internal/usecase"
)

// Server exposes the wallet core to the presenter: checkout creation,
// payment completion, and the cached wallet reads.
type Server struct {
	checkoutUC usecase.CheckoutUseCase
	walletUC   usecase.WalletUseCase
	ledger     usecase.CoinPurchaser
	bus        cacheports.Invalidator
	apiKey     string
	log        *zerolog.Logger
}

func NewServer(
	checkoutUC usecase.CheckoutUseCase,
	walletUC usecase.WalletUseCase,
	ledger usecase.CoinPurchaser,
	bus cacheports.Invalidator,
	apiKey string,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		checkoutUC: checkoutUC,
		walletUC:   walletUC,
		ledger:     ledger,
		bus:        bus,
		apiKey:     apiKey,
		log:        logger,
	}
}

// Router builds the chi router for the wallet API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Post("/checkout", s.createCheckoutHandler())
		r.Post("/payment/complete", s.completePaymentHandler())
		r.Get("/wallet/balance", s.balanceHandler())
		r.Get("/wallet/transactions", s.transactionsHandler())
		r.Get("/plans", s.plansHandler())
	})

	return r
}

// authMiddleware provides simple Bearer token authentication for the wallet API.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			s.log.Error().Msg("wallet API key is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			http.Error(w, "Unauthorized: Malformed token", http.StatusUnauthorized)
			return
		}

		if tokenParts[1] != s.apiKey {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
