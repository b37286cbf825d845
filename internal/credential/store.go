package credential

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/teemow/glance/internal/logging"
)

// Store holds the current credential and mirrors every change to a Persister.
// All methods are safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	cred      Credential
	persister Persister
	now       func() time.Time
	logger    *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for expiry calculations.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger sets the logger used by the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a Store and restores any credential previously saved by p.
// A corrupt persisted record is logged and discarded rather than failing startup.
func NewStore(ctx context.Context, p Persister, opts ...Option) (*Store, error) {
	if p == nil {
		p = NewMemoryPersister()
	}

	s := &Store{
		persister: p,
		now:       time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.WithComponent(s.logger, "credential")

	data, err := p.Load(ctx, StorageKey)
	switch {
	case errors.Is(err, ErrNotFound):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		s.logger.Warn("discarding unreadable persisted credential", logging.Err(err))
		return s, nil
	}
	if cred.AccessToken == "" {
		cred = Credential{}
	}
	s.cred = cred

	if cred.Identity != nil {
		s.logger.Debug("restored credential", logging.UserHash(cred.Identity.Email))
	}
	return s, nil
}

// Set records a new grant for identity, computes the absolute expiry and
// marks the store authenticated. When the grant carries no refresh token the
// previously stored one is kept, since silent refreshes do not reissue it.
//
// The in-memory state is updated even when persisting fails; the persistence
// error is returned so the caller can report it. Persisting happens under the
// lock so saves reach the Persister in mutation order.
func (s *Store) Set(ctx context.Context, grant Grant, identity Identity) error {
	if grant.AccessToken == "" {
		return errors.New("access token is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	refresh := grant.RefreshToken
	if refresh == "" {
		refresh = s.cred.RefreshToken
	}
	id := identity
	s.cred = Credential{
		AccessToken:   grant.AccessToken,
		RefreshToken:  refresh,
		Scope:         grant.Scope,
		Expiry:        s.now().Add(time.Duration(grant.ExpiresIn) * time.Second),
		Identity:      &id,
		Authenticated: true,
	}

	if err := s.save(ctx, s.cred); err != nil {
		return err
	}

	s.logger.Info("credential stored",
		logging.UserHash(identity.Email),
		slog.Time("expiry", s.cred.Expiry))
	return nil
}

// Clear wipes the credential and removes the persisted record. It is safe to
// call when nothing is stored.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cred = Credential{}

	if err := s.persister.Delete(ctx, StorageKey); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to delete persisted credential: %w", err)
	}

	s.logger.Info("credential cleared")
	return nil
}

// IsValid reports whether the stored token can still be used, which is the
// case while now < expiry - ValidityBuffer. Without a recorded expiry it is false.
func (s *Store) IsValid() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred.validAt(s.now())
}

// Authenticated reports whether a credential has been stored, regardless of expiry.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred.Authenticated
}

// AccessToken returns the stored access token or "".
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred.AccessToken
}

// RefreshToken returns the stored refresh token or "".
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred.RefreshToken
}

// Identity returns a copy of the stored identity, or nil.
func (s *Store) Identity() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cred.Identity == nil {
		return nil
	}
	id := *s.cred.Identity
	return &id
}

// Current returns a copy of the whole credential.
func (s *Store) Current() Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred.clone()
}

// Token implements oauth2.TokenSource. It never refreshes; refreshing is the
// auth orchestrator's job.
func (s *Store) Token() (*oauth2.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cred.AccessToken == "" {
		return nil, ErrNoCredential
	}
	return &oauth2.Token{
		AccessToken: s.cred.AccessToken,
		TokenType:   "Bearer",
		Expiry:      s.cred.Expiry,
	}, nil
}

func (s *Store) save(ctx context.Context, cred Credential) error {
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("failed to encode credential: %w", err)
	}
	if err := s.persister.Save(ctx, StorageKey, data); err != nil {
		s.logger.Error("failed to persist credential", logging.Err(err))
		return fmt.Errorf("failed to persist credential: %w", err)
	}
	return nil
}
