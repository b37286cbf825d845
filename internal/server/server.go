package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/teemow/glance/internal/instrumentation"
	"github.com/teemow/glance/internal/logging"
	"github.com/teemow/glance/internal/widgets"
)

// Config configures the dashboard HTTP server.
type Config struct {
	Addr string

	Auth      Authenticator
	Dashboard *widgets.Dashboard

	// MCP, when set, is mounted at MCPPath.
	MCP http.Handler

	Logger  *slog.Logger
	Metrics *instrumentation.Metrics
}

// MCPPath is where the streamable HTTP MCP endpoint is mounted.
const MCPPath = "/mcp"

// Server is the dashboard HTTP server.
type Server struct {
	listener

	router *chi.Mux
	health *HealthChecker
}

// New builds the router. It does not listen; call Start.
func New(cfg Config) (*Server, error) {
	if cfg.Auth == nil {
		return nil, errors.New("server requires an authenticator")
	}
	if cfg.Dashboard == nil {
		return nil, errors.New("server requires a dashboard")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logging.WithComponent(logger, "http")

	s := &Server{
		listener: listener{name: "dashboard server", logger: logger, addr: cfg.Addr},
		health:   NewHealthChecker(cfg.Auth),
	}

	a := &api{auth: cfg.Auth, dash: cfg.Dashboard, logger: logger}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(logger, cfg.Metrics))
	r.Use(middleware.Recoverer)

	s.health.RegisterHealthEndpoints(r)
	r.Route("/api", a.routes)
	if cfg.MCP != nil {
		r.Handle(MCPPath, cfg.MCP)
	}
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	s.router = r
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// Health returns the health checker.
func (s *Server) Health() *HealthChecker { return s.health }

// Start listens and serves until Shutdown. It returns http.ErrServerClosed
// after a graceful shutdown.
func (s *Server) Start() error {
	return s.serve(&http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	})
}

// Shutdown fails readiness first so load balancers stop routing, then drains
// open requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.health.MarkShuttingDown()
	return s.listener.Shutdown(ctx)
}
