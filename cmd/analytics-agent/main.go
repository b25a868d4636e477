package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pulsedash/pulse-platform/internal/analytics"
	"github.com/pulsedash/pulse-platform/internal/api"
	"github.com/pulsedash/pulse-platform/internal/scoring"
	"github.com/pulsedash/pulse-platform/pkg/config"
	"github.com/pulsedash/pulse-platform/pkg/health"
	"github.com/pulsedash/pulse-platform/pkg/postgres"
	"github.com/pulsedash/pulse-platform/pkg/redis"
	"github.com/pulsedash/pulse-platform/pkg/venue"
)

func main() {
	// Load configuration with hierarchy: defaults → env → flags
	cfg := config.NewConfig()
	cfg.ServiceName = "analytics-agent"
	cfg.LoadFromEnv()
	cfg.LoadFromFlags()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Set up structured logging
	logLevel := parseLogLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting Pulse Analytics Agent",
		"version", "1.0",
		"service_name", cfg.ServiceName,
		"api_port", cfg.APIPort,
		"redis_host", cfg.RedisAddress(),
		"postgres_host", cfg.PostgresHost,
		"log_level", cfg.LogLevel)

	// Set up context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Load the venue registry; an empty registry still serves, venues just
	// fall back to default capacity and UTC
	venues, err := venue.LoadRegistry(cfg.VenuesFile, cfg.DefaultCapacity, cfg.DefaultTimezone)
	if err != nil {
		logger.Warn("Failed to load venue registry, using defaults",
			"venues_file", cfg.VenuesFile,
			"error", err)
		venues = venue.EmptyRegistry(cfg.DefaultCapacity, cfg.DefaultTimezone)
	} else {
		logger.Info("Loaded venue registry", "venues", venues.Len())
	}

	// Initialize clients
	pgClient := postgres.NewClient(cfg, logger)
	redisClient := redis.NewClient(cfg, logger)

	if err := pgClient.Connect(ctx); err != nil {
		logger.Error("Failed to connect to Postgres", "error", err)
		os.Exit(1)
	}
	if err := redisClient.Ping(ctx); err != nil {
		logger.Error("Failed to ping Redis", "error", err)
		os.Exit(1)
	}

	// Wire the pipeline: history provider → orchestrator → API, with a
	// Redis memo in front of the orchestrator
	history := analytics.NewHistoryStore(pgClient, logger)
	cache := analytics.NewResultCache(redisClient, cfg.CacheTTL, logger)
	orchestrator := analytics.NewOrchestrator(history, scoring.Score, venues, logger)

	apiServer := api.NewServer(orchestrator, cache, redisClient, logger)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.APIPort),
		Handler: apiServer.Handler(),
	}

	// Start health check server
	healthChecker := health.NewChecker(pgClient, logger)
	healthServer := startHealthServer(cfg.HealthPort, healthChecker, logger)

	// Start API server in a goroutine
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting analytics API server", "port", cfg.APIPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
			serverErr <- err
		}
	}()

	// Wait for shutdown signal or server error
	select {
	case <-sigChan:
		logger.Info("Shutdown signal received (SIGTERM/SIGINT)")
	case err := <-serverErr:
		logger.Error("API server failed", "error", err)
	}

	// Graceful shutdown
	logger.Info("Initiating graceful shutdown")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down API server", "error", err)
	}
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down health server", "error", err)
	}

	if err := pgClient.Disconnect(); err != nil {
		logger.Error("Error closing Postgres connection", "error", err)
	}
	if err := redisClient.Close(); err != nil {
		logger.Error("Error closing Redis connection", "error", err)
	}

	logger.Info("Analytics agent shutdown complete")
}

func startHealthServer(port int, checker *health.Checker, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", checker.HandlerFunc())
	mux.HandleFunc("/health/details", checker.DetailedHandlerFunc())

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		logger.Info("Starting health check server", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Health server error", "error", err)
		}
	}()

	return server
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
