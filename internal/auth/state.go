package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/teemow/glance/internal/credential"
)

var (
	// ErrNotInitialized is returned when a token request is made before
	// Initialize completed.
	ErrNotInitialized = errors.New("auth client is not initialized")

	// ErrRequestPending is returned when a token request with a different
	// prompt is already in flight.
	ErrRequestPending = errors.New("another token request is pending")

	// ErrSignedOut is returned by a token request that was still pending when
	// Logout ran. Its grant is discarded.
	ErrSignedOut = fmt.Errorf("signed out while the token request was pending: %w", credential.ErrNoCredential)
)

// ProviderError is a refusal reported by the identity provider, for example
// access_denied when the user cancels the consent screen.
type ProviderError struct {
	Code        string
	Description string
}

func (e *ProviderError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("provider error: %s: %s", e.Code, e.Description)
	}
	return "provider error: " + e.Code
}

// State is the sign-in state derived from the credential store and the
// pending request.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticated   State = "authenticated"
	StateRefreshPending  State = "refresh_pending"
	StateStale           State = "stale"
)

// Session is a token-free view of the current sign-in.
type Session struct {
	State     State                `json:"state"`
	Ready     bool                 `json:"ready"`
	Identity  *credential.Identity `json:"user,omitempty"`
	Scope     string               `json:"scope,omitempty"`
	ExpiresAt *time.Time           `json:"expiresAt,omitempty"`
}
