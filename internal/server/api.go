package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/teemow/glance/internal/auth"
	"github.com/teemow/glance/internal/credential"
	"github.com/teemow/glance/internal/google"
	"github.com/teemow/glance/internal/logging"
	"github.com/teemow/glance/internal/tasks"
	"github.com/teemow/glance/internal/widgets"
)

// maxBodyBytes bounds request bodies; the only body is a task title.
const maxBodyBytes = 64 << 10

// Authenticator is the part of *auth.Orchestrator the API drives.
type Authenticator interface {
	SessionReporter
	EnsureFresh(ctx context.Context) error
	Refresh(ctx context.Context) error
	Logout(ctx context.Context) error
}

type api struct {
	auth   Authenticator
	dash   *widgets.Dashboard
	logger *slog.Logger
}

type logoutResponse struct {
	auth.Session
	Warning string `json:"warning,omitempty"`
}

type dashboardResponse struct {
	widgets.View
	Errors []string `json:"errors,omitempty"`
}

type taskListResponse struct {
	ListID  string       `json:"listId"`
	Items   []tasks.Task `json:"items"`
	Pending int          `json:"pending"`
}

type addTaskRequest struct {
	Title string `json:"title"`
}

func (a *api) routes(r chi.Router) {
	r.Get("/session", a.session)
	r.Post("/auth/refresh", a.refresh)
	r.Post("/auth/logout", a.logout)
	r.Get("/dashboard", a.dashboard)
	r.Route("/tasklists/{listID}/tasks", func(r chi.Router) {
		r.Get("/", a.listTasks)
		r.Post("/", a.addTask)
		r.Post("/{taskID}/toggle", a.toggleTask)
	})
}

func (a *api) session(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.auth.Session())
}

func (a *api) refresh(w http.ResponseWriter, r *http.Request) {
	if err := a.auth.Refresh(r.Context()); err != nil {
		writeOperationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a.auth.Session())
}

// logout always ends the local session. A failed revocation is reported as a
// warning next to the new session state.
func (a *api) logout(w http.ResponseWriter, r *http.Request) {
	resp := logoutResponse{}
	if err := a.auth.Logout(r.Context()); err != nil {
		a.logger.Warn("logout completed with errors", logging.Err(err))
		resp.Warning = err.Error()
	}
	resp.Session = a.auth.Session()
	writeJSON(w, http.StatusOK, resp)
}

// dashboard refreshes a stale token, mounts every widget and returns the
// view. Widgets that fail are listed in errors; the others are still shown.
func (a *api) dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := a.auth.EnsureFresh(ctx); err != nil {
		writeOperationError(w, err)
		return
	}

	err := a.dash.Mount(ctx)
	switch {
	case err == nil:
	case errors.Is(err, credential.ErrNoCredential), google.IsUnauthorized(err):
		writeOperationError(w, err)
		return
	default:
		a.logger.Warn("dashboard partially loaded", logging.Err(err))
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		View:   a.dash.View(),
		Errors: splitErrors(err),
	})
}

func (a *api) listTasks(w http.ResponseWriter, r *http.Request) {
	listID := chi.URLParam(r, "listID")
	if err := a.dash.Tasks.SelectList(r.Context(), listID); err != nil {
		writeOperationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, taskListResponse{
		ListID:  listID,
		Items:   a.dash.Tasks.Items(listID),
		Pending: a.dash.Tasks.Pending(listID),
	})
}

func (a *api) addTask(w http.ResponseWriter, r *http.Request) {
	var req addTaskRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := a.dash.Tasks.Add(r.Context(), chi.URLParam(r, "listID"), req.Title)
	if err != nil {
		writeOperationError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (a *api) toggleTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	listID := chi.URLParam(r, "listID")

	if err := a.dash.Tasks.SelectList(ctx, listID); err != nil {
		writeOperationError(w, err)
		return
	}
	task, err := a.dash.Tasks.Toggle(ctx, listID, chi.URLParam(r, "taskID"))
	if err != nil {
		writeOperationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}
