package google

import (
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
)

// APIError is the single failure shape surfaced by every remote call.
type APIError struct {
	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int

	// Message is the provider's message when it could be parsed,
	// otherwise "API Error: <status>".
	Message string

	err error
}

func (e *APIError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, so errors.Is(err, context.Canceled) keeps working.
func (e *APIError) Unwrap() error {
	return e.err
}

// NormalizeError converts err into an *APIError. It returns nil for nil.
func NormalizeError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		msg := gerr.Message
		if msg == "" {
			msg = fmt.Sprintf("API Error: %d", gerr.Code)
		}
		return &APIError{StatusCode: gerr.Code, Message: msg, err: err}
	}

	return &APIError{Message: err.Error(), err: err}
}

// IsUnauthorized reports whether err is a normalized 401 response.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 401
}
