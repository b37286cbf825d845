package common

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/glance/internal/auth"
	"github.com/teemow/glance/internal/instrumentation"
	"github.com/teemow/glance/internal/widgets"
)

// Handler is the mcp-go tool handler signature.
type Handler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// Authenticator is the part of *auth.Orchestrator the tools use.
type Authenticator interface {
	EnsureFresh(ctx context.Context) error
	Session() auth.Session
}

// Env is shared by all tool handlers.
type Env struct {
	Auth      Authenticator
	Dashboard *widgets.Dashboard

	// Metrics and Audit may be nil.
	Metrics *instrumentation.Metrics
	Audit   *instrumentation.AuditLogger
}

// Prepare refreshes a credential that is about to expire. Tools call it
// before reading from Google.
func (e *Env) Prepare(ctx context.Context) error {
	if e.Auth == nil {
		return nil
	}
	return e.Auth.EnsureFresh(ctx)
}
