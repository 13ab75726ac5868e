// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shake-ai-wallet/internal/config"
	"shake-ai-wallet/internal/domain/ports/adapter"
	cacheports "shake-ai-wallet/internal/domain/ports/cache"
	"shake-ai-wallet/internal/infra/backend"
	memcache "shake-ai-wallet/internal/infra/cache"
	"shake-ai-wallet/internal/infra/logging"
	"shake-ai-wallet/internal/infra/metrics"
	paygw "shake-ai-wallet/internal/infra/payment"
	red "shake-ai-wallet/internal/infra/redis"
	"shake-ai-wallet/internal/infra/web"
	"shake-ai-wallet/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop gateway, console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Runtime.Dev {
		log.Printf("[DEV MODE] Enabled")
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()
	logger.Info().
		Str("backend", cfg.Backend.BaseURL).
		Str("api_key", logging.Redact(cfg.App.APIKey, cfg.Runtime.Dev)).
		Msg("config loaded")

	// ---- Cache plumbing ----
	bus := memcache.NewInvalidationBus()
	var snapshots cacheports.SnapshotStore
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer redisClient.Close()
		snapshots = red.NewSnapshotStore(redisClient, cfg.Redis.TTL)
		logger.Info().Str("addr", cfg.Redis.URL).Msg("snapshot store: redis")
	} else {
		snapshots = memcache.NewMemorySnapshotStore()
		logger.Info().Msg("snapshot store: in-memory")
	}

	// ---- Ledger client ----
	ledger := backend.NewClient(&cfg.Backend, logger)

	// ---- Checkout gateway (stripe direct -> backend delegated -> noop in dev) ----
	var gateway adapter.CheckoutGateway
	switch {
	case cfg.Runtime.Dev:
		gateway = paygw.NewNoopGateway()
	case cfg.Stripe.APIKey != "":
		gateway = paygw.NewStripeGateway(cfg.Stripe.APIKey)
	default:
		gateway = paygw.NewBackendGateway(ledger)
	}
	logger.Info().Str("gateway", gateway.Name()).Msg("checkout gateway selected")

	// ---- Use cases ----
	walletUC := usecase.NewWalletUseCase(ledger, bus, snapshots, cfg.Redis.TTL, logger)
	checkoutUC := usecase.NewCheckoutUseCase(gateway, cfg.App.Origin, cfg.App.Name, logger)

	// ---- HTTP server ----
	srv := web.NewServer(checkoutUC, walletUC, ledger, bus, cfg.App.APIKey, logger)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: srv.Router(),
	}

	go func() {
		logger.Info().Int("port", cfg.App.Port).Msg("wallet API listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server stopped")
			cancel()
		}
	}()

	// ---- Graceful shutdown ----
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-sig:
		logger.Info().Str("signal", s.String()).Msg("shutting down")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
}
