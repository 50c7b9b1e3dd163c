package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tasklist/adapter/api"
	"github.com/felixgeelhaar/tasklist/internal/app"
	"github.com/felixgeelhaar/tasklist/pkg/observability"
)

const shutdownTimeout = 10 * time.Second

var (
	serveAddr  string
	serveRelay bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Run the HTTP API server until SIGINT or SIGTERM.

With --relay (or OUTBOX_PROCESSOR_ENABLED=true) the outbox processor runs in the
same process instead of the separate worker.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides HTTP_ADDR)")
	serveCmd.Flags().BoolVar(&serveRelay, "relay", false, "relay outbox events in-process")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	shutdownTracing, err := observability.SetupTracing(ctx, observability.TracingConfig{
		Endpoint:       cfg.OTelEndpoint,
		ServiceName:    serviceName,
		ServiceVersion: cfg.ServiceVersion,
	})
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("tracing shutdown failed", "error", err)
		}
	}()

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer container.Close()

	if serveRelay || cfg.OutboxProcessorEnabled {
		if err := container.EnableEventRelay(ctx); err != nil {
			return err
		}
		if err := container.OutboxProcessor.Start(ctx); err != nil {
			return fmt.Errorf("failed to start outbox processor: %w", err)
		}
		logger.Info("outbox processor running in-process", "broker", cfg.EventBroker)
	}

	addr := cfg.HTTPAddr
	if serveAddr != "" {
		addr = serveAddr
	}
	server := api.NewServer(api.ServerConfig{
		Addr:               addr,
		ReadTimeout:        cfg.HTTPReadTimeout,
		WriteTimeout:       cfg.HTTPWriteTimeout,
		IdleTimeout:        cfg.HTTPIdleTimeout,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}, api.NewDependencies(container), logger)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
