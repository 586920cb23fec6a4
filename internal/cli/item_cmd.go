package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/raghavn86/TaskBuddy/internal/cli/formatter"
	"github.com/raghavn86/TaskBuddy/internal/domain"
	"github.com/raghavn86/TaskBuddy/internal/service"
)

// changedStr returns a pointer to v only when the flag was set on the
// command line, keeping "not provided" distinct from an empty value.
func changedStr(flags *pflag.FlagSet, name string, v string) *string {
	if !flags.Changed(name) {
		return nil
	}
	return domain.StrPtr(v)
}

func changedInt(flags *pflag.FlagSet, name string, v int) *int {
	if !flags.Changed(name) {
		return nil
	}
	return domain.IntPtr(v)
}

func newItemCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage plan items",
	}

	cmd.AddCommand(
		newItemAddCmd(app),
		newItemUpdateCmd(app),
		newItemRemoveCmd(app),
		newItemMoveCmd(app),
	)

	return cmd
}

func newItemAddCmd(app *App) *cobra.Command {
	var (
		day, minutes, at         int
		section                  bool
		assignee, category, note string
		color                    string
	)

	cmd := &cobra.Command{
		Use:   "add PLAN TITLE",
		Short: "Add a task or section to a day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := domain.NewItemInput{
				Kind:        domain.ItemTask,
				Title:       args[1],
				DurationMin: minutes,
				Assignee:    assignee,
				CategoryID:  category,
				Note:        note,
			}
			if section {
				input = domain.NewItemInput{
					Kind:  domain.ItemSection,
					Title: args[1],
					Color: color,
				}
			}

			req := service.AddItemRequest{Day: day, Item: input, At: changedInt(cmd.Flags(), "at", at)}

			res, err := app.Plans.AddItem(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s at %s position %d\n",
				res.Item.Title, formatter.DayName(day), res.Item.OrderValue())
			return nil
		},
	}

	cmd.Flags().IntVar(&day, "day", 0, "Day of week (0=Monday .. 6=Sunday)")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "Task duration in minutes")
	cmd.Flags().IntVar(&at, "at", 0, "Insertion index (default append)")
	cmd.Flags().BoolVar(&section, "section", false, "Add a section marker instead of a task")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Collaborator the task is assigned to")
	cmd.Flags().StringVar(&category, "category", "", "Category identifier")
	cmd.Flags().StringVar(&note, "note", "", "Free-text note")
	cmd.Flags().StringVar(&color, "color", "#83a598", "Section display color")
	_ = cmd.MarkFlagRequired("day")

	return cmd
}

func newItemUpdateCmd(app *App) *cobra.Command {
	var (
		day                          int
		title, assignee, note, color string
		category                     string
		minutes                      int
		done, undone                 bool
		clearAssignee, clearCategory bool
	)

	cmd := &cobra.Command{
		Use:   "update PLAN ITEM",
		Short: "Update fields of an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			patch := domain.ItemPatch{
				Title:       changedStr(flags, "title", title),
				DurationMin: changedInt(flags, "minutes", minutes),
				Assignee:    changedStr(flags, "assignee", assignee),
				Note:        changedStr(flags, "note", note),
				Color:       changedStr(flags, "color", color),
				CategoryID:  changedStr(flags, "category", category),
			}
			if done {
				patch.Done = domain.BoolPtr(true)
			}
			if undone {
				patch.Done = domain.BoolPtr(false)
			}
			patch.ClearAssignee = clearAssignee
			patch.ClearCategory = clearCategory

			item, err := app.Plans.UpdateItem(cmd.Context(), args[0], day, args[1], patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", item.Title)
			return nil
		},
	}

	cmd.Flags().IntVar(&day, "day", 0, "Day of week the item lives in")
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "New duration in minutes")
	cmd.Flags().StringVar(&assignee, "assignee", "", "New assignee")
	cmd.Flags().StringVar(&note, "note", "", "New note")
	cmd.Flags().StringVar(&color, "color", "", "New section color")
	cmd.Flags().StringVar(&category, "category", "", "New category identifier")
	cmd.Flags().BoolVar(&done, "done", false, "Mark the task complete")
	cmd.Flags().BoolVar(&undone, "undone", false, "Mark the task incomplete")
	cmd.Flags().BoolVar(&clearAssignee, "clear-assignee", false, "Unassign the task")
	cmd.Flags().BoolVar(&clearCategory, "clear-category", false, "Remove the category")
	_ = cmd.MarkFlagRequired("day")

	return cmd
}

func newItemRemoveCmd(app *App) *cobra.Command {
	var day int

	cmd := &cobra.Command{
		Use:   "rm PLAN ITEM",
		Short: "Delete an item from a day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Plans.DeleteItem(cmd.Context(), args[0], day, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted item %s\n", args[1])
			return nil
		},
	}

	cmd.Flags().IntVar(&day, "day", 0, "Day of week the item lives in")
	_ = cmd.MarkFlagRequired("day")

	return cmd
}

func newItemMoveCmd(app *App) *cobra.Command {
	var (
		from, to, at int
		assignee     string
	)

	cmd := &cobra.Command{
		Use:   "move PLAN ITEM",
		Short: "Reorder an item or move a task to another day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			req := service.MoveItemRequest{
				ItemID:   args[1],
				FromDay:  from,
				ToDay:    to,
				At:       changedInt(flags, "at", at),
				Assignee: changedStr(flags, "assignee", assignee),
			}

			res, err := app.Plans.MoveItem(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to %s position %d\n",
				res.Item.Title, formatter.DayName(to), res.Item.OrderValue())
			return nil
		},
	}

	cmd.Flags().IntVar(&from, "from", 0, "Source day of week")
	cmd.Flags().IntVar(&to, "to", 0, "Target day of week")
	cmd.Flags().IntVar(&at, "at", 0, "Target index (default append)")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Reassign while moving (empty unassigns)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
