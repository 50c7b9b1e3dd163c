package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tasklist/internal/app"
	"github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded database schema",
	Long: `Apply every embedded migration not yet recorded in schema_migrations.
Uses PostgreSQL when DATABASE_URL is set and SQLite otherwise.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}

		conn, err := app.Connect(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer conn.Close()

		applied, err := migrations.Run(cmd.Context(), conn)
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(applied) == 0 {
			fmt.Fprintln(out, "schema is up to date")
			return nil
		}
		for _, version := range applied {
			fmt.Fprintf(out, "applied %s\n", version)
		}
		logger.Info("migrations applied", "driver", conn.Driver().String(), "count", len(applied))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
