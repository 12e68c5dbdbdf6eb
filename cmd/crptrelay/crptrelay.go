package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crptrelay/internal/api"
	"crptrelay/internal/config"
	"crptrelay/internal/crpt"
	"crptrelay/internal/logger"
	"crptrelay/internal/models"
	"crptrelay/internal/observability"
	"crptrelay/internal/ratelimit"
	"crptrelay/internal/relay"
	"crptrelay/internal/storage"
	"crptrelay/internal/version"
)

var (
	configFile  = flag.String("config", "", "Path to configuration file")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	ver := version.GetInfo()
	if *showVersion {
		fmt.Println(ver.String())
		return
	}

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize structured logging
	log, closer, err := logger.Setup(cfg.Logging, ver)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	if closer != nil {
		defer closer.Close()
	}
	slog.SetDefault(log)

	// Initialize observability (OpenTelemetry)
	otelProvider, err := observability.Setup(cfg.Metrics, cfg.Observability, ver)
	if err != nil {
		slog.Error("Failed to initialize observability", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := otelProvider.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shutdown observability", "error", err)
		}
	}()

	// Initialize the submission journal
	store, err := storage.NewFactory().Create(cfg.Storage)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// Initialize the outbound rate limiter
	limiter, err := newLimiter(cfg.RateLimit)
	if err != nil {
		slog.Error("Failed to initialize rate limiter", "error", err)
		os.Exit(1)
	}
	defer limiter.Shutdown()

	// Wrap the limiter with instrumentation if metrics are enabled
	var activeLimiter ratelimit.Limiter = limiter
	if cfg.Metrics.Enabled {
		instrumented, err := observability.NewInstrumentedLimiter(limiter)
		if err != nil {
			slog.Error("Failed to create instrumented limiter", "error", err)
			os.Exit(1)
		}
		activeLimiter = instrumented
	}

	// Initialize the CRPT client and relay service
	crptClient := crpt.NewClient(cfg.CRPT.BaseURL, cfg.CRPT.Token, cfg.CRPT.Timeout)
	relayService := relay.NewService(activeLimiter, crptClient, store, log)

	// Initialize HTTP handlers with storage for health checks
	handlers := api.NewHandlers(relayService, store)

	// Setup routes with middleware
	routeOpts := []api.RouteOption{}
	if cfg.Observability.Tracing.Enabled {
		routeOpts = append(routeOpts, api.WithOTelMiddleware(cfg.Observability.ServiceName))
	}

	router := api.SetupRoutes(handlers, cfg, routeOpts...)

	// Start metrics server if enabled
	var metricsServer *observability.MetricsServer
	if cfg.Metrics.Enabled {
		metricsServer = observability.NewMetricsServer(cfg.Metrics.Port, cfg.Metrics.Path, otelProvider, log)
		go func() {
			if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
				slog.Error("Metrics server failed", "error", err)
			}
		}()
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Starting server",
			"addr", server.Addr,
			"crpt_base_url", cfg.CRPT.BaseURL,
			"rate_limit", cfg.RateLimit.Limit,
			"rate_window", cfg.RateLimit.Window,
			"strategy", cfg.RateLimit.Strategy)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")

	// Stop admitting new outbound calls first: in-flight waiters fail fast
	// instead of blocking the HTTP drain below.
	activeLimiter.Shutdown()

	// Create a deadline to wait for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown metrics server
	if metricsServer != nil {
		if err := metricsServer.Shutdown(ctx); err != nil {
			slog.Error("Metrics server forced to shutdown", "error", err)
		}
	}

	// Attempt graceful shutdown
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server shutdown complete")
}

// newLimiter builds the configured rate limiter strategy
func newLimiter(cfg models.RateLimitConfig) (ratelimit.Limiter, error) {
	switch cfg.Strategy {
	case models.RateLimitStrategyBucket:
		return ratelimit.NewBucket(cfg.Limit, cfg.Window)
	default:
		return ratelimit.NewWindow(cfg.Limit, cfg.Window)
	}
}
