package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/teemow/glance/internal/logging"
	"github.com/teemow/glance/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		withMCP bool
		yolo    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP dashboard API",
		Long: `Start the HTTP dashboard API. Sign in with glance login first; the server
uses the stored credential and refreshes it when it is about to expire.

Endpoints:
  GET  /healthz, /readyz, /healthz/detailed
  GET  /api/session
  POST /api/auth/refresh, /api/auth/logout
  GET  /api/dashboard
  GET  /api/tasklists/{listID}/tasks
  POST /api/tasklists/{listID}/tasks
  POST /api/tasklists/{listID}/tasks/{taskID}/toggle

With --mcp the MCP server is also served over streamable HTTP at /mcp.
Prometheus metrics are served on --metrics-addr when it is set.`,
		Args: cobra.NoArgs,
		RunE: withApp(appOptions{exportMetrics: true}, func(ctx context.Context, _ *cobra.Command, _ []string, a *app) error {
			return runServe(ctx, a, withMCP, !yolo)
		}),
	}

	cmd.Flags().String("addr", ":8080", "HTTP server address")
	cmd.Flags().String("metrics-addr", "", "Metrics server address, e.g. :9090 (default: disabled)")
	cmd.Flags().BoolVar(&withMCP, "mcp", false, "Serve the MCP server over streamable HTTP at /mcp")
	cmd.Flags().BoolVar(&yolo, "yolo", false, "Enable MCP write tools (add and toggle tasks). Default is read-only mode.")
	return cmd
}

func runServe(ctx context.Context, a *app, withMCP, readOnly bool) error {
	var mcpHandler http.Handler
	if withMCP {
		mcpSrv, err := newMCPServer(a.toolEnv(), a.auth, readOnly)
		if err != nil {
			return err
		}
		mcpHandler = mcpserver.NewStreamableHTTPServer(mcpSrv, mcpserver.WithEndpointPath(server.MCPPath))
		if readOnly {
			a.logger.Info("MCP tools in read-only mode (use --yolo to enable write tools)")
		}
	}

	srv, err := server.New(server.Config{
		Addr:      a.cfg.Server.Addr,
		Auth:      a.auth,
		Dashboard: a.dashboard,
		MCP:       mcpHandler,
		Logger:    a.logger,
		Metrics:   a.metrics,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	var metricsServer *server.MetricsServer
	switch {
	case a.cfg.Server.MetricsAddr == "":
	case a.provider.PrometheusHandler() == nil:
		a.logger.Info("metrics address ignored, prometheus exporter not active", slog.String("addr", a.cfg.Server.MetricsAddr))
	default:
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:     a.cfg.Server.MetricsAddr,
			Provider: a.provider,
			Logger:   a.logger,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
	}

	// The token client loads in the background; readiness follows it.
	srv.Health().SetReady(false)
	go func() {
		if err := a.auth.Initialize(ctx); err != nil {
			a.logger.Warn("token client unavailable, credential refresh disabled", logging.Err(err))
		}
		srv.Health().SetReady(true)
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ignoreClosed(srv.Start())
	})
	if metricsServer != nil {
		g.Go(func() error {
			return ignoreClosed(metricsServer.Start())
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down", slog.Duration("timeout", a.cfg.Server.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.Server.ShutdownTimeout)
		defer cancel()

		var errs []error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("error shutting down HTTP server: %w", err))
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("error shutting down metrics server: %w", err))
			}
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	a.logger.Info("server gracefully stopped")
	return nil
}

func ignoreClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
