package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/glance/internal/render"
	"github.com/teemow/glance/internal/tasks"
	"github.com/teemow/glance/internal/widgets"
)

func newTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List, add and complete tasks",
	}

	cmd.AddCommand(newTasksListCmd())
	cmd.AddCommand(newTasksAddCmd())
	cmd.AddCommand(newTasksToggleCmd())
	return cmd
}

func newTasksListCmd() *cobra.Command {
	var (
		listID string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the tasks of a list (default: the first list)",
		Args:  cobra.NoArgs,
		RunE: withApp(appOptions{}, func(ctx context.Context, cmd *cobra.Command, _ []string, a *app) error {
			w, err := selectList(ctx, a, listID)
			if err != nil {
				return err
			}
			selected := w.Selected()
			if listID != "" {
				selected = listID
			}

			items := w.Items(selected)
			if asJSON {
				return printJSON(cmd, items)
			}
			return render.Fprint(cmd.OutOrStdout(),
				render.New().TaskList(listTitle(a, selected), items, w.Pending(selected)))
		}),
	}

	cmd.Flags().StringVar(&listID, "list", "", "Task list ID")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the tasks as JSON")
	return cmd
}

func newTasksAddCmd() *cobra.Command {
	var listID string

	cmd := &cobra.Command{
		Use:   "add TITLE...",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(appOptions{}, func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
			w, err := selectList(ctx, a, listID)
			if err != nil {
				return err
			}

			task, err := w.Add(ctx, listID, strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("failed to add task: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %q (%s)\n", task.Title, task.ID)
			return nil
		}),
	}

	cmd.Flags().StringVar(&listID, "list", "", "Task list ID (default: the first list)")
	return cmd
}

func newTasksToggleCmd() *cobra.Command {
	var listID string

	cmd := &cobra.Command{
		Use:   "toggle TASK_ID",
		Short: "Complete an open task or reopen a completed one",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(appOptions{}, func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
			w, err := selectList(ctx, a, listID)
			if err != nil {
				return err
			}

			task, err := w.Toggle(ctx, listID, args[0])
			if err != nil {
				return fmt.Errorf("failed to toggle task: %w", err)
			}
			state := "reopened"
			if task.Status == tasks.StatusCompleted {
				state = "completed"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %q\n", state, task.Title)
			return nil
		}),
	}

	cmd.Flags().StringVar(&listID, "list", "", "Task list ID (default: the first list)")
	return cmd
}

// selectList loads the task lists and the tasks of listID, or of the first
// list when listID is empty.
func selectList(ctx context.Context, a *app, listID string) (*widgets.Tasks, error) {
	if err := a.signedIn(ctx); err != nil {
		return nil, err
	}

	w := a.dashboard.Tasks
	if err := w.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load task lists: %w", err)
	}
	if listID != "" {
		if err := w.SelectList(ctx, listID); err != nil {
			return nil, fmt.Errorf("failed to load task list %s: %w", listID, err)
		}
	}
	return w, nil
}

func listTitle(a *app, listID string) string {
	for _, l := range a.dashboard.Store().TaskLists() {
		if l.ID == listID {
			return l.Title
		}
	}
	return listID
}
