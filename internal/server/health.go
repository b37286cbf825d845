package server

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/teemow/glance/internal/auth"
)

const (
	healthStatusOK           = "ok"
	healthStatusNotReady     = "not ready"
	healthStatusShuttingDown = "shutting down"
)

// SessionReporter reports the sign-in state. *auth.Orchestrator implements it.
type SessionReporter interface {
	Session() auth.Session
}

// HealthChecker backs the liveness and readiness probes. Readiness is
// cleared while serve restores the stored credential and for good once
// shutdown begins.
type HealthChecker struct {
	ready        atomic.Bool
	shuttingDown atomic.Bool

	sessions SessionReporter // optional
	started  time.Time
}

// NewHealthChecker returns a checker that starts out ready.
func NewHealthChecker(sessions SessionReporter) *HealthChecker {
	h := &HealthChecker{sessions: sessions, started: time.Now()}
	h.ready.Store(true)
	return h
}

func (h *HealthChecker) SetReady(ready bool) { h.ready.Store(ready) }

// MarkShuttingDown makes readiness fail from now on.
func (h *HealthChecker) MarkShuttingDown() { h.shuttingDown.Store(true) }

// HealthResponse is the body of /healthz and /readyz.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// DetailedHealthResponse adds uptime and the sign-in state.
type DetailedHealthResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	AuthState string `json:"authState,omitempty"`
	AuthReady bool   `json:"authReady"`
}

// probe evaluates readiness. status is the most specific failure, or ok.
func (h *HealthChecker) probe() (status string, checks map[string]string) {
	checks = map[string]string{"ready": healthStatusOK, "shutdown": healthStatusOK}
	status = healthStatusOK
	if !h.ready.Load() {
		checks["ready"] = healthStatusNotReady
		status = healthStatusNotReady
	}
	if h.shuttingDown.Load() {
		checks["shutdown"] = healthStatusShuttingDown
		status = healthStatusShuttingDown
	}
	return status, checks
}

func statusCode(status string) int {
	if status == healthStatusOK {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}

// LivenessHandler serves /healthz. It only reports that the process answers.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{Status: healthStatusOK})
	})
}

// ReadinessHandler serves /readyz. Every failure reports "not ready"; the
// checks map says which one.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		status, checks := h.probe()
		code := statusCode(status)
		if code != http.StatusOK {
			status = healthStatusNotReady
		}
		writeJSON(w, code, HealthResponse{Status: status, Checks: checks})
	})
}

// DetailedHealthHandler serves /healthz/detailed.
func (h *HealthChecker) DetailedHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		status, _ := h.probe()
		resp := DetailedHealthResponse{
			Status: status,
			Uptime: time.Since(h.started).Truncate(time.Second).String(),
		}
		if h.sessions != nil {
			s := h.sessions.Session()
			resp.AuthState = string(s.State)
			resp.AuthReady = s.Ready
		}
		writeJSON(w, statusCode(status), resp)
	})
}

// RegisterHealthEndpoints mounts the probes on r.
func (h *HealthChecker) RegisterHealthEndpoints(r chi.Router) {
	r.Method(http.MethodGet, "/healthz", h.LivenessHandler())
	r.Method(http.MethodGet, "/readyz", h.ReadinessHandler())
	r.Method(http.MethodGet, "/healthz/detailed", h.DetailedHealthHandler())
}
