package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raghavn86/TaskBuddy/internal/cli/formatter"
)

func newMetricsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics PLAN",
		Short: "Show per-collaborator time totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := app.Plans.Metrics(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMetrics(summary))
			return nil
		},
	}
}
