package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/teemow/glance/internal/instrumentation"
	"github.com/teemow/glance/internal/logging"
)

// DefaultMetricsAddr keeps the scrape endpoint off the dashboard port.
const DefaultMetricsAddr = ":9090"

// MetricsServerConfig configures the Prometheus scrape server.
type MetricsServerConfig struct {
	Addr     string
	Provider *instrumentation.Provider
	Logger   *slog.Logger
}

// MetricsServer serves /metrics on its own port.
type MetricsServer struct {
	listener

	handler http.Handler
}

// NewMetricsServer requires an enabled provider using the prometheus
// metrics exporter.
func NewMetricsServer(cfg MetricsServerConfig) (*MetricsServer, error) {
	switch {
	case cfg.Provider == nil:
		return nil, errors.New("instrumentation provider is required for metrics server")
	case !cfg.Provider.Enabled():
		return nil, errors.New("instrumentation provider is not enabled")
	}
	handler := cfg.Provider.PrometheusHandler()
	if handler == nil {
		return nil, errors.New("metrics server requires the prometheus metrics exporter")
	}

	if cfg.Addr == "" {
		cfg.Addr = DefaultMetricsAddr
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &MetricsServer{
		listener: listener{name: "metrics server", logger: logging.WithComponent(logger, "metrics"), addr: cfg.Addr},
		handler:  handler,
	}, nil
}

// Start listens and serves until Shutdown. It returns http.ErrServerClosed
// after a graceful shutdown.
func (s *MetricsServer) Start() error {
	r := chi.NewRouter()
	r.Method(http.MethodGet, "/metrics", s.handler)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{Status: healthStatusOK})
	})

	return s.serve(&http.Server{
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	})
}
