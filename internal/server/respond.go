package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/teemow/glance/internal/auth"
	"github.com/teemow/glance/internal/credential"
	"github.com/teemow/glance/internal/google"
	"github.com/teemow/glance/internal/widgets"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFor maps an operation error to the HTTP status reported for it.
func statusFor(err error) int {
	var (
		perr   *auth.ProviderError
		apiErr *google.APIError
	)
	switch {
	case errors.Is(err, credential.ErrNoCredential),
		errors.Is(err, google.ErrInteractionRequired),
		errors.As(err, &perr),
		google.IsUnauthorized(err):
		return http.StatusUnauthorized
	case errors.Is(err, widgets.ErrEmptyTitle),
		errors.Is(err, widgets.ErrNoListSelected):
		return http.StatusBadRequest
	case errors.Is(err, widgets.ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrRequestPending):
		return http.StatusConflict
	case errors.Is(err, auth.ErrNotInitialized):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func writeOperationError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}

// splitErrors flattens an errors.Join result into its messages.
func splitErrors(err error) []string {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var msgs []string
		for _, e := range joined.Unwrap() {
			msgs = append(msgs, e.Error())
		}
		return msgs
	}
	return []string{err.Error()}
}
