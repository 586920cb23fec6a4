package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/raghavn86/TaskBuddy/internal/cli/formatter"
	"github.com/raghavn86/TaskBuddy/internal/service"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage plans and templates",
	}

	cmd.AddCommand(
		newPlanCreateCmd(app),
		newPlanCloneCmd(app),
		newPlanListCmd(app),
		newPlanShowCmd(app),
		newPlanRemoveCmd(app),
	)

	return cmd
}

func newPlanCreateCmd(app *App) *cobra.Command {
	var (
		template  bool
		owner     string
		weekStart string
	)

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a new empty plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := service.CreatePlanRequest{
				Name:          args[0],
				IsTemplate:    template,
				OwnerID:       owner,
				Collaborators: app.Config.Collaborators,
			}
			if weekStart != "" {
				d, err := time.Parse("2006-01-02", weekStart)
				if err != nil {
					return fmt.Errorf("invalid week start %q (want YYYY-MM-DD): %w", weekStart, err)
				}
				req.WeekStart = &d
			}

			p, err := app.Plans.CreatePlan(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created plan %s (%s)\n", p.Name, p.ID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&template, "template", false, "Create a reusable template instead of a dated plan")
	cmd.Flags().StringVar(&owner, "owner", "", "Owner identifier")
	cmd.Flags().StringVar(&weekStart, "week-start", "", "ISO week start date (YYYY-MM-DD)")

	return cmd
}

func newPlanCloneCmd(app *App) *cobra.Command {
	var (
		template  bool
		weekStart string
	)

	cmd := &cobra.Command{
		Use:   "clone SOURCE NAME",
		Short: "Clone a plan or instantiate a template",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ws *time.Time
			if weekStart != "" {
				d, err := time.Parse("2006-01-02", weekStart)
				if err != nil {
					return fmt.Errorf("invalid week start %q (want YYYY-MM-DD): %w", weekStart, err)
				}
				ws = &d
			}

			p, err := app.Plans.ClonePlan(cmd.Context(), args[0], args[1], template, ws)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created plan %s (%s)\n", p.Name, p.ID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&template, "template", false, "Clone into a reusable template")
	cmd.Flags().StringVar(&weekStart, "week-start", "", "ISO week start date for the new plan")

	return cmd
}

func newPlanListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List all plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := app.Plans.ListPlans(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlanList(plans))
			return nil
		},
	}
}

func newPlanShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show PLAN",
		Short: "Show a plan's week",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Plans.GetPlan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlanWeek(p))
			return nil
		},
	}
}

func newPlanRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm PLAN",
		Short: "Delete a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Plans.DeletePlan(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted plan %s\n", args[0])
			return nil
		},
	}
}
