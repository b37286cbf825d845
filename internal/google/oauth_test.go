package google

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/teemow/glance/internal/logging"
)

// fakeProvider is a minimal OAuth2 token and revocation endpoint.
type fakeProvider struct {
	mu       sync.Mutex
	revoked  []string
	verifier string
	server   *httptest.Server
}

func newFakeProvider(t *testing.T) *fakeProvider {
	t.Helper()
	p := &fakeProvider{}
	mux := http.NewServeMux()

	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		w.Header().Set("Content-Type", "application/json")

		switch r.PostForm.Get("grant_type") {
		case "authorization_code":
			p.mu.Lock()
			p.verifier = r.PostForm.Get("code_verifier")
			p.mu.Unlock()
			if r.PostForm.Get("code") != "good-code" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"bad code"}`))
				return
			}
			_, _ = w.Write([]byte(`{"access_token":"at-1","refresh_token":"rt-1","expires_in":3600,"token_type":"Bearer","scope":"email profile"}`))
		case "refresh_token":
			if r.PostForm.Get("refresh_token") != "rt-1" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Token has been expired or revoked."}`))
				return
			}
			_, _ = w.Write([]byte(`{"access_token":"at-2","expires_in":3599,"token_type":"Bearer"}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"unsupported_grant_type"}`))
		}
	})

	mux.HandleFunc("/revoke", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		token := r.PostForm.Get("token")
		if token == "unknown" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_token"}`))
			return
		}
		p.mu.Lock()
		p.revoked = append(p.revoked, token)
		p.mu.Unlock()
	})

	p.server = httptest.NewServer(mux)
	t.Cleanup(p.server.Close)
	return p
}

func (p *fakeProvider) config(openBrowser func(string) error) TokenClientConfig {
	return TokenClientConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Endpoint: oauth2.Endpoint{
			AuthURL:   p.server.URL + "/auth",
			TokenURL:  p.server.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		RevokeURL:   p.server.URL + "/revoke",
		OpenBrowser: openBrowser,
		Logger:      logging.Discard(),
	}
}

// browserAnswering simulates the user's browser: it follows the consent URL
// straight back to the redirect URI with the given query values.
func browserAnswering(t *testing.T, values url.Values, seen chan<- url.Values) func(string) error {
	return func(authURL string) error {
		u, err := url.Parse(authURL)
		if err != nil {
			return err
		}
		q := u.Query()
		if seen != nil {
			seen <- q
		}

		callback := url.Values{"state": {q.Get("state")}}
		for k, v := range values {
			callback[k] = v
		}

		go func() {
			resp, err := http.Get(q.Get("redirect_uri") + "?" + callback.Encode())
			if err == nil {
				_ = resp.Body.Close()
			}
		}()
		return nil
	}
}

func TestNewTokenClient_RequiresClientID(t *testing.T) {
	_, err := NewTokenClient(TokenClientConfig{})
	assert.Error(t, err)
}

func TestNewTokenClient_Defaults(t *testing.T) {
	c, err := NewTokenClient(TokenClientConfig{ClientID: "id"})
	require.NoError(t, err)
	assert.Equal(t, DashboardScopes, c.cfg.Scopes)
	assert.Equal(t, DefaultRevokeURL, c.cfg.RevokeURL)
	assert.Equal(t, DefaultCallbackAddr, c.cfg.CallbackAddr)
	assert.NotEmpty(t, c.cfg.Endpoint.TokenURL)
}

func TestTokenClient_Consent(t *testing.T) {
	p := newFakeProvider(t)
	seen := make(chan url.Values, 1)
	c, err := NewTokenClient(p.config(browserAnswering(t, url.Values{"code": {"good-code"}}, seen)))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := c.RequestAccessToken(ctx, TokenRequest{Prompt: PromptConsent})
	require.NoError(t, err)
	assert.Empty(t, resp.Error)
	assert.Equal(t, "at-1", resp.AccessToken)
	assert.Equal(t, "rt-1", resp.RefreshToken)
	assert.Equal(t, "email profile", resp.Scope)
	assert.InDelta(t, 3600, resp.ExpiresIn, 2)

	q := <-seen
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.NotEmpty(t, q.Get("code_challenge"))
	assert.NotEmpty(t, q.Get("state"))

	p.mu.Lock()
	defer p.mu.Unlock()
	assert.NotEmpty(t, p.verifier, "PKCE verifier must be sent on exchange")
}

func TestTokenClient_ConsentDenied(t *testing.T) {
	p := newFakeProvider(t)
	c, err := NewTokenClient(p.config(browserAnswering(t, url.Values{"error": {"access_denied"}}, nil)))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := c.RequestAccessToken(ctx, TokenRequest{Prompt: PromptConsent})
	require.NoError(t, err)
	assert.Equal(t, "access_denied", resp.Error)
	assert.Empty(t, resp.AccessToken)
}

func TestTokenClient_ConsentBadCode(t *testing.T) {
	p := newFakeProvider(t)
	c, err := NewTokenClient(p.config(browserAnswering(t, url.Values{"code": {"stale-code"}}, nil)))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := c.RequestAccessToken(ctx, TokenRequest{Prompt: PromptConsent})
	require.NoError(t, err)
	assert.Equal(t, "invalid_grant", resp.Error)
	assert.Equal(t, "bad code", resp.ErrorDescription)
}

func TestTokenClient_ConsentCancelled(t *testing.T) {
	p := newFakeProvider(t)
	browserFailed := errors.New("no display")
	c, err := NewTokenClient(p.config(func(string) error { return browserFailed }))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err = c.RequestAccessToken(ctx, TokenRequest{Prompt: PromptConsent})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTokenClient_Silent(t *testing.T) {
	p := newFakeProvider(t)
	c, err := NewTokenClient(p.config(nil))
	require.NoError(t, err)

	resp, err := c.RequestAccessToken(context.Background(), TokenRequest{Prompt: PromptNone, RefreshToken: "rt-1"})
	require.NoError(t, err)
	assert.Equal(t, "at-2", resp.AccessToken)
	assert.InDelta(t, 3599, resp.ExpiresIn, 2)
}

func TestTokenClient_SilentRevokedGrant(t *testing.T) {
	p := newFakeProvider(t)
	c, err := NewTokenClient(p.config(nil))
	require.NoError(t, err)

	resp, err := c.RequestAccessToken(context.Background(), TokenRequest{Prompt: PromptNone, RefreshToken: "rt-old"})
	require.NoError(t, err)
	assert.Equal(t, "invalid_grant", resp.Error)
}

func TestTokenClient_SilentWithoutRefreshToken(t *testing.T) {
	p := newFakeProvider(t)
	c, err := NewTokenClient(p.config(nil))
	require.NoError(t, err)

	_, err = c.RequestAccessToken(context.Background(), TokenRequest{Prompt: PromptNone})
	assert.ErrorIs(t, err, ErrInteractionRequired)
}

func TestTokenClient_UnsupportedPrompt(t *testing.T) {
	p := newFakeProvider(t)
	c, err := NewTokenClient(p.config(nil))
	require.NoError(t, err)

	_, err = c.RequestAccessToken(context.Background(), TokenRequest{Prompt: "select_account"})
	assert.Error(t, err)
}

func TestTokenClient_Revoke(t *testing.T) {
	p := newFakeProvider(t)
	c, err := NewTokenClient(p.config(nil))
	require.NoError(t, err)

	require.NoError(t, c.Revoke(context.Background(), "at-1"))
	assert.Error(t, c.Revoke(context.Background(), "unknown"))

	p.mu.Lock()
	defer p.mu.Unlock()
	assert.Equal(t, []string{"at-1"}, p.revoked)
}
