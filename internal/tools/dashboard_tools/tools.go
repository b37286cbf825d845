package dashboard_tools

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/glance/internal/credential"
	"github.com/teemow/glance/internal/google"
	"github.com/teemow/glance/internal/tools/common"
	"github.com/teemow/glance/internal/widgets"
)

type summaryResult struct {
	widgets.View
	Errors []string `json:"errors,omitempty"`
}

// RegisterDashboardTools registers the dashboard tools.
func RegisterDashboardTools(s *mcpserver.MCPServer, env *common.Env) error {
	if env == nil || env.Dashboard == nil {
		return errors.New("dashboard tools require a dashboard")
	}

	summaryTool := mcp.NewTool("dashboard_summary",
		mcp.WithDescription("Load the whole dashboard: greeting, tasks of the first list, upcoming events and starred files. Widgets that fail are listed under errors."),
	)
	s.AddTool(summaryTool, common.Instrumented("dashboard_summary", env, handleSummary(env)))
	return nil
}

func handleSummary(env *common.Env) common.Handler {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := env.Prepare(ctx); err != nil {
			return common.ErrorResult("Failed to refresh credential", err), nil
		}

		result := summaryResult{}
		err := env.Dashboard.Mount(ctx)
		switch {
		case err == nil:
		case errors.Is(err, credential.ErrNoCredential), google.IsUnauthorized(err):
			return common.ErrorResult("Failed to load dashboard", err), nil
		default:
			if joined, ok := err.(interface{ Unwrap() []error }); ok {
				for _, e := range joined.Unwrap() {
					result.Errors = append(result.Errors, e.Error())
				}
			} else {
				result.Errors = []string{err.Error()}
			}
		}

		result.View = env.Dashboard.View()
		return common.JSONResult(result)
	}
}
