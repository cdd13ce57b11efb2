package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kart-checkout/internal/catalog"
	"kart-checkout/internal/config"
	"kart-checkout/internal/database"
	"kart-checkout/internal/handler"
	"kart-checkout/internal/metrics"
	"kart-checkout/internal/repository"
	"kart-checkout/internal/router"
	"kart-checkout/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting kart-checkout API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load the pricing catalog once; it is read-only for the life of the process
	rules, err := newCatalogLoader(ctx, cfg, logger).Load(ctx, cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("failed to load pricing catalog: %w", err)
	}
	logger.Info().Int("rule_count", rules.Len()).Strs("codes", rules.Codes()).Msg("pricing catalog loaded")

	// Initialize receipt store when a database is configured
	var receipts repository.ReceiptRepository
	if cfg.Database.Enabled {
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer pool.Close()

		if err := database.EnsureSchema(ctx, pool, logger); err != nil {
			return fmt.Errorf("failed to prepare database schema: %w", err)
		}
		receipts = repository.NewReceiptRepository(pool, logger)
	} else {
		logger.Info().Msg("database disabled, checkouts will not be recorded")
	}

	// Initialize metrics
	var (
		recorder    metrics.CheckoutRecorder
		httpMetrics *metrics.HTTPMetrics
		gatherer    prometheus.Gatherer
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		recorder = metrics.NewCheckoutMetrics(cfg.Metrics.Namespace, reg)
		httpMetrics = metrics.NewHTTPMetrics(cfg.Metrics.Namespace, reg)
		gatherer = reg
	}

	// Initialize services
	checkoutService := service.NewCheckoutService(rules, receipts, recorder, cfg.Checkout.MaxBasketItems, logger)
	ruleService := service.NewRuleService(rules, logger)

	// Initialize HTTP handlers
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, logger)
	ruleHandler := handler.NewRuleHandler(ruleService, logger)

	// Initialize router
	mux := router.New(checkoutHandler, ruleHandler, router.Options{
		APIKey:          cfg.Auth.APIKey,
		AllowedOrigins:  cfg.Server.CORSAllowedOrigins,
		ReceiptsEnabled: receipts != nil,
		Gatherer:        gatherer,
		HTTPMetrics:     httpMetrics,
	}, logger)

	if cfg.Auth.APIKey == "" {
		logger.Warn().Msg("API_KEY not set, API key authentication disabled")
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newCatalogLoader returns a loader that reads from S3 when enabled and
// always falls back to the local file system.
func newCatalogLoader(ctx context.Context, cfg *config.Config, logger zerolog.Logger) catalog.Loader {
	fileLoader := catalog.NewFileLoader(logger)
	if !cfg.S3.Enabled {
		logger.Info().Msg("using local file system for pricing catalog (S3 disabled)")
		return fileLoader
	}

	s3Loader, err := catalog.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 loader, falling back to local file system only")
		return fileLoader
	}

	return catalog.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, logger)
}
