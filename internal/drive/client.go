package drive

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/teemow/glance/internal/google"
	"github.com/teemow/glance/internal/instrumentation"
)

const (
	starredQuery  = "starred = true and trashed = false"
	starredOrder  = "modifiedTime desc"
	starredFields = "files(id,name,mimeType,webViewLink,iconLink,modifiedTime,owners(displayName,emailAddress),size)"

	// MaxStarredFiles caps the number of starred files fetched.
	MaxStarredFiles = 20
)

// Client wraps the Google Drive service
type Client struct {
	service *drive.Service
	metrics *instrumentation.Metrics
}

// NewClient creates a Drive client that authenticates every request with the
// current token from ts.
func NewClient(ctx context.Context, ts oauth2.TokenSource, opts ...option.ClientOption) (*Client, error) {
	all := append([]option.ClientOption{option.WithHTTPClient(google.NewHTTPClient(ts))}, opts...)

	service, err := drive.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &Client{service: service}, nil
}

// WithMetrics records every call on m.
func (c *Client) WithMetrics(m *instrumentation.Metrics) *Client {
	c.metrics = m
	return c
}

// ListStarredFiles returns up to MaxStarredFiles starred, non-trashed files,
// most recently modified first.
func (c *Client) ListStarredFiles(ctx context.Context) (files []File, err error) {
	ctx, done := instrumentation.TrackGoogleAPI(ctx, c.metrics, instrumentation.ServiceDrive, instrumentation.OperationList)
	defer func() { done(err) }()

	fileList, err := c.service.Files.List().
		Q(starredQuery).
		OrderBy(starredOrder).
		PageSize(MaxStarredFiles).
		Fields(googleapi.Field(starredFields)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list starred files: %w", google.NormalizeError(err))
	}

	files = make([]File, 0, len(fileList.Files))
	for _, f := range fileList.Files {
		files = append(files, toFile(f))
	}

	return files, nil
}
