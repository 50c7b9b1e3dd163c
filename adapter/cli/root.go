// Package cli provides the tasklist command line: serve, migrate, health and version.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tasklist/pkg/config"
	"github.com/felixgeelhaar/tasklist/pkg/observability"
)

const serviceName = "tasklist"

var (
	verbose bool
	logger  *slog.Logger
	cfg     *config.Config
)

type commandContext struct {
	correlationID uuid.UUID
	startedAt     time.Time
}

type commandContextKey struct{}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tasklist",
	Short: "Tasklist - multi-user to-do service",
	Long: `Tasklist serves a JSON API where users register, log in and
manage their own to-do lists.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose && cfg != nil {
			logger = NewLogger(cfg, "debug")
		}
		if logger == nil {
			logger = slog.Default()
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		info := commandContext{
			correlationID: uuid.New(),
			startedAt:     time.Now(),
		}
		cmd.SetContext(context.WithValue(ctx, commandContextKey{}, info))
		logger.Debug("command start",
			"command", cmd.CommandPath(),
			"correlation_id", info.correlationID.String(),
		)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		info, ok := cmd.Context().Value(commandContextKey{}).(commandContext)
		if !ok {
			return
		}
		logger.Debug("command end",
			"command", cmd.CommandPath(),
			"correlation_id", info.correlationID.String(),
			"duration_ms", time.Since(info.startedAt).Milliseconds(),
		)
	},
}

// Execute runs the root command with ctx and exits non-zero on failure.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// AddCommand adds a command to the root command.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// SetLogger sets the CLI logger.
func SetLogger(l *slog.Logger) {
	logger = l
}

// SetConfig sets the configuration commands run with.
func SetConfig(c *config.Config) {
	cfg = c
}

// NewLogger builds the service logger from cfg. A non-empty level overrides LOG_LEVEL.
func NewLogger(c *config.Config, level string) *slog.Logger {
	if level == "" {
		level = c.LogLevel
	}
	return observability.NewLogger(observability.LogConfig{
		Level:          level,
		Format:         observability.LogFormat(c.LogFormat),
		ServiceName:    serviceName,
		ServiceVersion: c.ServiceVersion,
	})
}

func requireConfig() (*config.Config, error) {
	if cfg == nil {
		return nil, errors.New("configuration not loaded")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
