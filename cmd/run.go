package cmd

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

type runFunc func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error

// withApp wires the app for a command and tears it down afterwards. The
// context is cancelled on SIGINT and SIGTERM.
func withApp(opts appOptions, fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		a, err := newApp(ctx, cmd, opts)
		if err != nil {
			return err
		}
		defer a.close(context.WithoutCancel(ctx))

		return fn(ctx, cmd, args, a)
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
