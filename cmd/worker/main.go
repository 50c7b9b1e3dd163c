package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/felixgeelhaar/tasklist/internal/app"
	"github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/tasklist/pkg/config"
	"github.com/felixgeelhaar/tasklist/pkg/observability"
)

func main() {
	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:          cfg.LogLevel,
		Format:         observability.LogFormat(cfg.LogFormat),
		ServiceName:    "tasklist-worker",
		ServiceVersion: cfg.ServiceVersion,
	})
	logger.Info("starting tasklist worker")

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	if err := container.EnableEventRelay(ctx); err != nil {
		logger.Error("failed to connect event publisher", "error", err)
		os.Exit(1)
	}
	processor := container.OutboxProcessor

	logger.Info("starting outbox processor",
		"broker", cfg.EventBroker,
		"poll_interval", cfg.OutboxPollInterval,
		"batch_size", cfg.OutboxBatchSize,
		"max_retries", cfg.OutboxMaxRetries,
		"retention_days", cfg.OutboxRetentionDays,
		"cleanup_interval", cfg.OutboxCleanupInterval,
	)
	if err := processor.Start(ctx); err != nil {
		logger.Error("failed to start outbox processor", "error", err)
		os.Exit(1)
	}

	go logStats(ctx, processor, cfg.OutboxStatsInterval, logger)

	if cfg.WorkerHealthAddr != "" {
		startHealthServer(ctx, cfg.WorkerHealthAddr, processor, container.Health, logger)
	}

	// Wait for shutdown
	<-ctx.Done()
	logger.Info("shutting down worker")

	processor.Stop()
	logger.Info("worker stopped")
}

func logStats(ctx context.Context, processor *outbox.Processor, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := processor.GetStats()
			logger.Info("outbox stats",
				"running", stats.IsRunning,
				"published", stats.PublishedCount,
				"failed", stats.FailedCount,
				"dead", stats.DeadCount,
				"cleaned", stats.CleanedCount,
				"lag_seconds", stats.LagSeconds,
				"oldest_message_at", stats.OldestMessageAt,
				"last_processed_at", stats.LastProcessedAt,
				"last_error_at", stats.LastErrorAt,
				"last_error", stats.LastError,
			)
		}
	}
}

// startHealthServer serves /healthz (processor stats) and /readyz (dependency checks).
func startHealthServer(ctx context.Context, addr string, processor *outbox.Processor, health *observability.HealthRegistry, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		stats := processor.GetStats()
		writeJSON(w, http.StatusOK, map[string]any{
			"status":            "ok",
			"running":           stats.IsRunning,
			"published":         stats.PublishedCount,
			"failed":            stats.FailedCount,
			"dead":              stats.DeadCount,
			"last_processed_at": stats.LastProcessedAt,
			"last_error_at":     stats.LastErrorAt,
			"last_error":        stats.LastError,
		})
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		report := health.Check(r.Context())
		status := http.StatusOK
		if report.Status == observability.HealthStatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, report)
	})

	healthSrv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("health server starting", "addr", addr)
		if err := healthSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("health server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := healthSrv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("health server shutdown error", "error", err)
		}
	}()
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
