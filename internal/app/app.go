package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alex-user-go/tripcompare/internal/config"
	"github.com/alex-user-go/tripcompare/internal/handler"
	"github.com/alex-user-go/tripcompare/internal/middleware"
	"github.com/alex-user-go/tripcompare/internal/obs"
	"github.com/alex-user-go/tripcompare/internal/providers"
	"github.com/alex-user-go/tripcompare/internal/reconcile"
	"github.com/alex-user-go/tripcompare/internal/search"
	"github.com/alex-user-go/tripcompare/internal/search/cache"
	"github.com/alex-user-go/tripcompare/internal/search/ratelimit"
)

// Run initializes and runs the application.
func Run(configPath string) error {
	// Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Initialize metrics
	metrics := obs.NewMetrics(logger)

	// Build the provider rosters
	hotelProviders := buildProviders(cfg.Providers.Hotels, cfg.Retry)
	flightProviders := buildProviders(cfg.Providers.Flights, cfg.Retry)

	// One aggregator per vertical; the normalizer decides grouping
	hotels := search.NewAggregator(hotelProviders, reconcile.NormalizeHotel, cfg.SearchTimeout.Std(), metrics, logger)
	flights := search.NewAggregator(flightProviders, reconcile.NormalizeFlight, cfg.SearchTimeout.Std(), metrics, logger)

	// Initialize result cache (Redis when configured, memory otherwise)
	var store cache.Store
	if cfg.Cache.RedisAddr != "" {
		logger.Info("using redis result cache", "addr", cfg.Cache.RedisAddr)
		store = cache.NewRedis(cfg.Cache.RedisAddr, cfg.Cache.TTL.Std())
	} else {
		store = cache.NewMemory(cfg.Cache.TTL.Std())
	}
	defer store.Close()

	// Stale-search guard for clients that pass session_id
	sessions := search.NewSessions(10 * time.Minute)
	defer sessions.Close()

	// Initialize per-IP rate limiter
	limiter := ratelimit.New(cfg.RateLimit.PerIP, cfg.RateLimit.Window.Std())
	defer limiter.Close()

	// Initialize handler
	h := handler.New(hotels, flights, store, sessions, limiter, metrics, logger)

	// Setup routes with logging middleware
	mux := http.NewServeMux()
	mux.HandleFunc("GET /search/hotels", h.HotelsHandler)
	mux.HandleFunc("GET /search/flights", h.FlightsHandler)
	mux.HandleFunc("GET /healthz", obs.HealthHandler(logger))
	mux.HandleFunc("GET /metrics", metrics.MetricsHandler())

	// Wrap with middleware
	wrappedHandler := middleware.Logging(logger)(mux)

	// Configure server
	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      wrappedHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
		return err
	}

	logger.Info("server stopped")
	return nil
}

// buildProviders turns the configured roster into provider clients,
// wrapping flagged ones with the fixed-delay retry.
func buildProviders(roster []config.ProviderConfig, retry config.RetryConfig) []providers.Provider {
	list := make([]providers.Provider, 0, len(roster))
	for _, pc := range roster {
		var p providers.Provider = providers.NewHTTPProvider(pc.ID, pc.URL, pc.Timeout.Std(), pc.RPS)
		if pc.Retry {
			p = providers.WithRetry(p, retry.Attempts, retry.Delay.Std())
		}
		list = append(list, p)
	}
	return list
}
