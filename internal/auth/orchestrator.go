package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/teemow/glance/internal/credential"
	"github.com/teemow/glance/internal/google"
	"github.com/teemow/glance/internal/instrumentation"
	"github.com/teemow/glance/internal/logging"
)

// TokenClient requests and revokes tokens with the identity provider.
// *google.TokenClient implements it.
type TokenClient interface {
	RequestAccessToken(ctx context.Context, req google.TokenRequest) (*google.TokenResponse, error)
	Revoke(ctx context.Context, token string) error
}

// IdentityFetcher looks up the user a token was issued to.
// *google.IdentityClient implements it.
type IdentityFetcher interface {
	FetchIdentity(ctx context.Context, accessToken string) (*credential.Identity, error)
}

// Loader builds the token client. It runs once per successful Initialize.
type Loader func(ctx context.Context) (TokenClient, error)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithMetrics records sign-in and refresh outcomes on m.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithAuditLogger writes login, refresh and logout events to al.
func WithAuditLogger(al *instrumentation.AuditLogger) Option {
	return func(o *Orchestrator) { o.audit = al }
}

// WithLogoutHook runs fn after local state was cleared on logout.
func WithLogoutHook(fn func()) Option {
	return func(o *Orchestrator) { o.onLogout = append(o.onLogout, fn) }
}

type pendingRequest struct {
	prompt google.Prompt
	done   chan struct{}
	err    error
}

// Orchestrator manages the token flow and keeps a credential.Store current.
type Orchestrator struct {
	creds    *credential.Store
	identity IdentityFetcher
	loader   Loader

	logger   *slog.Logger
	metrics  *instrumentation.Metrics
	audit    *instrumentation.AuditLogger
	onLogout []func()

	initMu sync.Mutex

	mu      sync.Mutex
	client  TokenClient
	pending *pendingRequest
	// epoch is bumped by Logout. A grant requested in an earlier epoch is
	// never committed.
	epoch uint64
}

// New creates an Orchestrator. It does not contact the provider until
// Initialize is called.
func New(creds *credential.Store, identity IdentityFetcher, loader Loader, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		creds:    creds,
		identity: identity,
		loader:   loader,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = logging.WithComponent(o.logger, "auth")
	return o
}

// Initialize builds the token client. It is safe to call more than once and
// from several goroutines; after the first success it returns nil at once.
// A failed load can be retried.
func (o *Orchestrator) Initialize(ctx context.Context) error {
	o.initMu.Lock()
	defer o.initMu.Unlock()

	if o.Ready() {
		return nil
	}

	client, err := o.loader(ctx)
	if err != nil {
		o.logger.Error("failed to initialize token client", logging.Err(err))
		return fmt.Errorf("failed to initialize token client: %w", err)
	}

	o.mu.Lock()
	o.client = client
	o.mu.Unlock()

	if o.creds.Authenticated() {
		o.metrics.SessionStarted(ctx)
		o.audit.LogAuthEvent(instrumentation.NewAuthEvent(instrumentation.AuthEventRestore).
			WithUser(o.userEmail()).
			Complete(nil))
	}

	o.logger.Debug("token client initialized")
	return nil
}

// Ready reports whether Initialize completed.
func (o *Orchestrator) Ready() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.client != nil
}

// Login runs the interactive consent flow.
func (o *Orchestrator) Login(ctx context.Context) error {
	return o.request(ctx, google.PromptConsent)
}

// Refresh requests a new token without user interaction. On failure the
// stored credential is kept and the state becomes Stale.
func (o *Orchestrator) Refresh(ctx context.Context) error {
	return o.request(ctx, google.PromptNone)
}

// EnsureFresh refreshes the credential when the user is signed in and the
// token is inside the validity buffer. It does nothing otherwise.
func (o *Orchestrator) EnsureFresh(ctx context.Context) error {
	if !o.creds.Authenticated() || o.creds.IsValid() {
		return nil
	}
	o.logger.Info("credential near expiry, refreshing silently")
	return o.Refresh(ctx)
}

// Logout revokes the current grant and clears local state. Local state is
// cleared even when revocation fails; the revocation error is returned.
func (o *Orchestrator) Logout(ctx context.Context) error {
	event := instrumentation.NewAuthEvent(instrumentation.AuthEventLogout).
		WithUser(o.userEmail()).
		WithSpanContext(ctx)

	o.mu.Lock()
	o.epoch++
	o.mu.Unlock()

	wasAuthenticated := o.creds.Authenticated()

	var revokeErr error
	if token := o.revocableToken(); token != "" {
		o.mu.Lock()
		client := o.client
		o.mu.Unlock()

		if client == nil {
			revokeErr = fmt.Errorf("failed to revoke token: %w", ErrNotInitialized)
		} else if err := client.Revoke(ctx, token); err != nil {
			revokeErr = fmt.Errorf("failed to revoke token: %w", err)
		}
		if revokeErr != nil {
			o.logger.Warn("token revocation failed, clearing local state anyway", logging.Err(revokeErr))
		}
	}

	clearErr := o.creds.Clear(ctx)
	if clearErr != nil {
		clearErr = fmt.Errorf("failed to clear credential: %w", clearErr)
	}

	for _, fn := range o.onLogout {
		fn()
	}

	if wasAuthenticated {
		o.metrics.SessionEnded(ctx)
	}

	err := errors.Join(revokeErr, clearErr)
	o.audit.LogAuthEvent(event.Complete(err))
	return err
}

// State reports the current sign-in state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	pending := o.pending
	o.mu.Unlock()

	authenticated := o.creds.Authenticated()
	switch {
	case authenticated && pending != nil && pending.prompt == google.PromptNone:
		return StateRefreshPending
	case !authenticated:
		return StateUnauthenticated
	case o.creds.IsValid():
		return StateAuthenticated
	default:
		return StateStale
	}
}

// Session returns the current state and identity without any token.
func (o *Orchestrator) Session() Session {
	s := Session{
		State: o.State(),
		Ready: o.Ready(),
	}

	cred := o.creds.Current()
	if cred.Authenticated {
		s.Identity = cred.Identity
		s.Scope = cred.Scope
		if !cred.Expiry.IsZero() {
			expiry := cred.Expiry
			s.ExpiresAt = &expiry
		}
	}
	return s
}

// request enforces the single pending request rule and waits for the outcome.
func (o *Orchestrator) request(ctx context.Context, prompt google.Prompt) error {
	o.mu.Lock()
	if o.client == nil {
		o.mu.Unlock()
		o.logger.Warn("token request before initialization", slog.String("prompt", string(prompt)))
		return ErrNotInitialized
	}

	if p := o.pending; p != nil {
		o.mu.Unlock()
		if p.prompt != prompt {
			return ErrRequestPending
		}
		select {
		case <-p.done:
			return p.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	p := &pendingRequest{prompt: prompt, done: make(chan struct{})}
	o.pending = p
	client := o.client
	epoch := o.epoch
	o.mu.Unlock()

	p.err = o.run(ctx, client, prompt, epoch)

	o.mu.Lock()
	o.pending = nil
	o.mu.Unlock()
	close(p.done)

	return p.err
}

// run performs one token request and commits the result.
func (o *Orchestrator) run(ctx context.Context, client TokenClient, prompt google.Prompt, epoch uint64) error {
	kind := instrumentation.AuthEventLogin
	if prompt == google.PromptNone {
		kind = instrumentation.AuthEventRefresh
	}
	event := instrumentation.NewAuthEvent(kind).WithSpanContext(ctx)
	logger := logging.WithOperation(o.logger, kind)

	wasAuthenticated := o.creds.Authenticated()

	identity, err := o.acquire(ctx, client, prompt, epoch)

	o.recordOutcome(ctx, prompt, err)
	if identity != nil {
		event.WithUser(identity.Email)
	} else {
		event.WithUser(o.userEmail())
	}
	o.audit.LogAuthEvent(event.Complete(err))

	if err != nil {
		logger.Warn("token request failed", logging.Err(err))
		return err
	}

	if !wasAuthenticated {
		o.metrics.SessionStarted(ctx)
	}
	logger.Info("signed in", logging.UserHash(identity.Email))
	return nil
}

// acquire requests a token, fetches the identity and commits both. Nothing is
// written unless every step succeeded and no Logout ran since the request
// started.
func (o *Orchestrator) acquire(ctx context.Context, client TokenClient, prompt google.Prompt, epoch uint64) (*credential.Identity, error) {
	req := google.TokenRequest{Prompt: prompt}
	if prompt == google.PromptNone {
		req.RefreshToken = o.creds.RefreshToken()
	}

	resp, err := client.RequestAccessToken(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	if resp.Error != "" {
		return nil, &ProviderError{Code: resp.Error, Description: resp.ErrorDescription}
	}
	if resp.AccessToken == "" {
		return nil, errors.New("provider returned no access token")
	}

	identity, err := o.identity.FetchIdentity(ctx, resp.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch identity: %w", err)
	}

	grant := credential.Grant{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		Scope:        resp.Scope,
		ExpiresIn:    resp.ExpiresIn,
	}

	// Held across Set so a concurrent Logout either sees the new grant and
	// clears it, or has already bumped the epoch.
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.epoch != epoch {
		return nil, ErrSignedOut
	}
	if err := o.creds.Set(ctx, grant, *identity); err != nil {
		// The in-memory credential is set; only persistence failed.
		o.logger.Error("failed to persist credential", logging.Err(err))
	}

	return identity, nil
}

func (o *Orchestrator) recordOutcome(ctx context.Context, prompt google.Prompt, err error) {
	result := instrumentation.OAuthResultSuccess
	var perr *ProviderError
	switch {
	case err == nil:
	case errors.As(err, &perr) && perr.Code == "access_denied":
		result = instrumentation.OAuthResultDenied
	case errors.As(err, &perr) && perr.Code == "invalid_grant":
		result = instrumentation.OAuthResultExpired
	default:
		result = instrumentation.OAuthResultFailure
	}

	if prompt == google.PromptNone {
		o.metrics.RecordOAuthTokenRefresh(ctx, result)
	} else {
		o.metrics.RecordOAuthAuth(ctx, result)
	}
}

// revocableToken prefers the refresh token: revoking it ends the whole grant
// and works after the access token expired.
func (o *Orchestrator) revocableToken() string {
	if rt := o.creds.RefreshToken(); rt != "" {
		return rt
	}
	return o.creds.AccessToken()
}

func (o *Orchestrator) userEmail() string {
	if id := o.creds.Identity(); id != nil {
		return id.Email
	}
	return ""
}
