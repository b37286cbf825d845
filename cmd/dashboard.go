package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/teemow/glance/internal/render"
	"github.com/teemow/glance/internal/widgets"
)

type dashboardOutput struct {
	widgets.View
	Errors []string `json:"errors,omitempty"`
}

func newDashboardCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show tasks, upcoming events and starred files",
		Long: `Load the three widgets at once and print them. A widget that fails to
load is reported below the others; the command still succeeds.`,
		Args: cobra.NoArgs,
		RunE: withApp(appOptions{}, func(ctx context.Context, cmd *cobra.Command, _ []string, a *app) error {
			if err := a.signedIn(ctx); err != nil {
				return err
			}

			errs := unjoin(a.dashboard.Mount(ctx))
			view := a.dashboard.View()

			if asJSON {
				out := dashboardOutput{View: view}
				for _, err := range errs {
					out.Errors = append(out.Errors, err.Error())
				}
				return printJSON(cmd, out)
			}
			return render.Fprint(cmd.OutOrStdout(), render.New().Dashboard(view, errs))
		}),
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the dashboard as JSON")
	return cmd
}

// unjoin splits an errors.Join result into its parts.
func unjoin(err error) []error {
	if err == nil {
		return nil
	}
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		return joined.Unwrap()
	}
	return []error{err}
}
