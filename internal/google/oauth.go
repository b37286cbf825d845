package google

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/browser"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/teemow/glance/internal/logging"
)

const (
	// DefaultRevokeURL is Google's token revocation endpoint.
	DefaultRevokeURL = "https://oauth2.googleapis.com/revoke"

	// DefaultCallbackAddr binds the loopback redirect listener to a random local port.
	DefaultCallbackAddr = "127.0.0.1:0"

	// CallbackPath is the path of the loopback redirect URI.
	CallbackPath = "/oauth2/callback"
)

// Prompt selects how the provider interacts with the user.
type Prompt string

const (
	// PromptConsent always shows the consent screen.
	PromptConsent Prompt = "consent"

	// PromptNone never shows UI and fails if interaction would be required.
	PromptNone Prompt = "none"
)

// ErrInteractionRequired is returned by a silent request that cannot be served
// without the user, for example when no refresh token is stored.
var ErrInteractionRequired = errors.New("interaction required")

// TokenRequest asks the provider for an access token.
type TokenRequest struct {
	Prompt Prompt

	// RefreshToken is used for PromptNone requests.
	RefreshToken string
}

// TokenResponse mirrors what the provider reports for a token request.
// Error is set when the provider refused the request; the token fields are
// then empty.
type TokenResponse struct {
	AccessToken  string
	RefreshToken string
	Scope        string
	ExpiresIn    int64

	Error            string
	ErrorDescription string
}

// TokenClientConfig configures a TokenClient.
type TokenClientConfig struct {
	ClientID     string
	ClientSecret string

	// Scopes defaults to DashboardScopes.
	Scopes []string

	// Endpoint defaults to Google's OAuth2 endpoint.
	Endpoint oauth2.Endpoint

	// RevokeURL defaults to DefaultRevokeURL.
	RevokeURL string

	// CallbackAddr is the loopback listen address, default DefaultCallbackAddr.
	CallbackAddr string

	// OpenBrowser opens the consent URL. Defaults to the system browser.
	OpenBrowser func(url string) error

	// HTTPClient is used for token exchange and revocation. Defaults to http.DefaultClient.
	HTTPClient *http.Client

	Logger *slog.Logger
}

// TokenClient acquires and revokes Google OAuth2 tokens for an installed application.
type TokenClient struct {
	cfg    TokenClientConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewTokenClient validates cfg and fills in defaults.
func NewTokenClient(cfg TokenClientConfig) (*TokenClient, error) {
	if strings.TrimSpace(cfg.ClientID) == "" {
		return nil, errors.New("google client id is required")
	}
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = DashboardScopes
	}
	if cfg.Endpoint.AuthURL == "" && cfg.Endpoint.TokenURL == "" {
		cfg.Endpoint = google.Endpoint
	}
	if cfg.RevokeURL == "" {
		cfg.RevokeURL = DefaultRevokeURL
	}
	if cfg.CallbackAddr == "" {
		cfg.CallbackAddr = DefaultCallbackAddr
	}
	if cfg.OpenBrowser == nil {
		cfg.OpenBrowser = browser.OpenURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &TokenClient{
		cfg:    cfg,
		logger: logging.WithComponent(logger, "google.oauth"),
		now:    time.Now,
	}, nil
}

func (c *TokenClient) oauthConfig(redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.cfg.ClientID,
		ClientSecret: c.cfg.ClientSecret,
		Endpoint:     c.cfg.Endpoint,
		RedirectURL:  redirectURL,
		Scopes:       c.cfg.Scopes,
	}
}

func (c *TokenClient) clientContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.cfg.HTTPClient)
}

// RequestAccessToken performs one token request and blocks until the provider
// answers or ctx is done. A provider refusal is reported through
// TokenResponse.Error with a nil error; the error return is reserved for
// failures to talk to the provider at all.
func (c *TokenClient) RequestAccessToken(ctx context.Context, req TokenRequest) (*TokenResponse, error) {
	switch req.Prompt {
	case PromptConsent:
		return c.requestConsent(ctx)
	case PromptNone, "":
		return c.requestSilent(ctx, req.RefreshToken)
	default:
		return nil, fmt.Errorf("unsupported prompt %q", req.Prompt)
	}
}

type callbackResult struct {
	code             string
	errorCode        string
	errorDescription string
}

func (c *TokenClient) requestConsent(ctx context.Context) (*TokenResponse, error) {
	ln, err := net.Listen("tcp", c.cfg.CallbackAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to start callback listener: %w", err)
	}

	conf := c.oauthConfig("http://" + ln.Addr().String() + CallbackPath)
	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	authURL := conf.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", string(PromptConsent)),
		oauth2.S256ChallengeOption(verifier),
	)

	results := make(chan callbackResult, 1)
	mux := http.NewServeMux()
	mux.HandleFunc(CallbackPath, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != state {
			http.Error(w, "invalid state", http.StatusBadRequest)
			return
		}

		res := callbackResult{
			code:             q.Get("code"),
			errorCode:        q.Get("error"),
			errorDescription: q.Get("error_description"),
		}
		if res.code == "" && res.errorCode == "" {
			res.errorCode = "invalid_request"
			res.errorDescription = "callback carried neither code nor error"
		}

		if res.errorCode != "" {
			_, _ = io.WriteString(w, "Authorization failed. You can close this window.\n")
		} else {
			_, _ = io.WriteString(w, "Authorization complete. You can close this window.\n")
		}

		select {
		case results <- res:
		default:
		}
	})

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.logger.Warn("callback server stopped", logging.Err(err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	c.logger.Info("waiting for Google consent", slog.String("url", authURL))
	if err := c.cfg.OpenBrowser(authURL); err != nil {
		c.logger.Warn("could not open browser, open the URL manually",
			slog.String("url", authURL), logging.Err(err))
	}

	var res callbackResult
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-results:
	}

	if res.errorCode != "" {
		return &TokenResponse{Error: res.errorCode, ErrorDescription: res.errorDescription}, nil
	}

	tok, err := conf.Exchange(c.clientContext(ctx), res.code, oauth2.VerifierOption(verifier))
	if err != nil {
		return c.providerFailure("failed to exchange authorization code", err)
	}
	return c.responseFromToken(tok), nil
}

func (c *TokenClient) requestSilent(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	if refreshToken == "" {
		return nil, ErrInteractionRequired
	}

	conf := c.oauthConfig("")
	tok, err := conf.TokenSource(c.clientContext(ctx), &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return c.providerFailure("failed to refresh token", err)
	}
	return c.responseFromToken(tok), nil
}

// providerFailure turns an OAuth error response into a TokenResponse and
// anything else into an error.
func (c *TokenClient) providerFailure(msg string, err error) (*TokenResponse, error) {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) && re.ErrorCode != "" {
		return &TokenResponse{Error: re.ErrorCode, ErrorDescription: re.ErrorDescription}, nil
	}
	return nil, fmt.Errorf("%s: %w", msg, err)
}

func (c *TokenClient) responseFromToken(tok *oauth2.Token) *TokenResponse {
	resp := &TokenResponse{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		resp.Scope = scope
	}
	if !tok.Expiry.IsZero() {
		resp.ExpiresIn = int64(tok.Expiry.Sub(c.now()).Round(time.Second) / time.Second)
	}
	return resp
}

// Revoke invalidates token at the provider.
func (c *TokenClient) Revoke(ctx context.Context, token string) error {
	form := url.Values{"token": {token}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.RevokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build revoke request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("token revocation failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
