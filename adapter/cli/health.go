package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tasklist/internal/app"
	"github.com/felixgeelhaar/tasklist/pkg/observability"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Run the readiness checks once and print the report",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}

		container, err := app.NewContainer(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer container.Close()

		report := container.Health.Check(cmd.Context())
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}

		if report.Status == observability.HealthStatusUnhealthy {
			return fmt.Errorf("service is %s", report.Status)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
