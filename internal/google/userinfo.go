package google

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/teemow/glance/internal/credential"
	"github.com/teemow/glance/internal/instrumentation"
)

// IdentityClient fetches the profile of the user a token was issued to.
type IdentityClient struct {
	opts    []option.ClientOption
	metrics *instrumentation.Metrics
}

// NewIdentityClient creates an IdentityClient. Options are appended after the
// HTTP client option, which makes option.WithEndpoint usable in tests.
func NewIdentityClient(opts ...option.ClientOption) *IdentityClient {
	return &IdentityClient{opts: opts}
}

// WithMetrics records every userinfo call on m.
func (c *IdentityClient) WithMetrics(m *instrumentation.Metrics) *IdentityClient {
	c.metrics = m
	return c
}

// FetchIdentity calls the OAuth2 v2 userinfo endpoint with accessToken.
func (c *IdentityClient) FetchIdentity(ctx context.Context, accessToken string) (_ *credential.Identity, err error) {
	if accessToken == "" {
		return nil, errors.New("access token is required")
	}

	ctx, done := instrumentation.TrackGoogleAPI(ctx, c.metrics, instrumentation.ServiceUserinfo, instrumentation.OperationGet)
	defer func() { done(err) }()

	hc := NewHTTPClient(oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))

	opts := append([]option.ClientOption{option.WithHTTPClient(hc)}, c.opts...)
	svc, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo service: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", NormalizeError(err))
	}
	if info.Id == "" || info.Email == "" {
		return nil, errors.New("user info is missing id or email")
	}

	return &credential.Identity{
		ID:      info.Id,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}
