package cmd

import (
	"context"
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/glance/internal/logging"
)

func newMCPCmd() *cobra.Command {
	var yolo bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server over stdio",
		Long: `Run the Model Context Protocol (MCP) server on standard input and output
for AI assistants. Sign in with glance login first; the server uses the stored
credential and refreshes it when it is about to expire.

Safety Mode:
  By default only read tools are registered. Use --yolo to enable tasks_add
  and tasks_toggle.

Logs go to standard error.`,
		Args: cobra.NoArgs,
		RunE: withApp(appOptions{}, func(ctx context.Context, _ *cobra.Command, _ []string, a *app) error {
			if err := a.auth.Initialize(ctx); err != nil {
				a.logger.Warn("token client unavailable, credential refresh disabled", logging.Err(err))
			}

			mcpSrv, err := newMCPServer(a.toolEnv(), a.auth, !yolo)
			if err != nil {
				return err
			}
			return runStdioServer(ctx, mcpSrv)
		}),
	}

	cmd.Flags().BoolVar(&yolo, "yolo", false, "Enable write tools (add and toggle tasks). Default is read-only mode.")
	return cmd
}

func runStdioServer(ctx context.Context, mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("server stopped with error: %w", err)
		}
		return nil
	}
}
