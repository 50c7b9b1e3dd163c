package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/tasklist/adapter/cli"
	"github.com/felixgeelhaar/tasklist/pkg/config"
)

func main() {
	// Cancel on SIGINT/SIGTERM so serve can shut down gracefully.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	cli.SetConfig(cfg)
	cli.SetLogger(cli.NewLogger(cfg, ""))

	cli.Execute(ctx)
}
