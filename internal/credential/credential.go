package credential

import (
	"errors"
	"time"
)

// StorageKey is the key the credential is persisted under.
const StorageKey = "google-auth-storage"

// ValidityBuffer is subtracted from the expiry when deciding whether a token is
// still usable, so requests in flight do not race the real expiry.
const ValidityBuffer = 5 * time.Minute

var (
	// ErrNoCredential is returned when a token is requested but none is stored.
	ErrNoCredential = errors.New("no credential stored")

	// ErrNotFound is returned by a Persister when the key does not exist.
	ErrNotFound = errors.New("key not found")
)

// Identity is the Google account the credential was granted for.
type Identity struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// Grant is a freshly issued token as reported by the provider.
type Grant struct {
	AccessToken  string
	RefreshToken string
	Scope        string

	// ExpiresIn is the token lifetime in seconds, counted from the moment the
	// grant is stored.
	ExpiresIn int64
}

// Credential is the persisted authentication state.
type Credential struct {
	AccessToken   string    `json:"accessToken,omitempty"`
	RefreshToken  string    `json:"refreshToken,omitempty"`
	Scope         string    `json:"scope,omitempty"`
	Expiry        time.Time `json:"expiry"`
	Identity      *Identity `json:"user,omitempty"`
	Authenticated bool      `json:"isAuthenticated"`
}

// clone returns a deep copy so callers never share the identity pointer with the store.
func (c Credential) clone() Credential {
	if c.Identity != nil {
		id := *c.Identity
		c.Identity = &id
	}
	return c
}

// validAt reports whether the credential is usable at the given instant.
func (c Credential) validAt(now time.Time) bool {
	if c.Expiry.IsZero() {
		return false
	}
	return now.Before(c.Expiry.Add(-ValidityBuffer))
}
