package cli

import "github.com/spf13/cobra"

// NewRootCmd builds the taskbuddy command tree.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "taskbuddy",
		Short: "Shared weekly planner for two collaborators",
	}

	root.AddCommand(
		newPlanCmd(app),
		newItemCmd(app),
		newMetricsCmd(app),
	)

	return root
}
