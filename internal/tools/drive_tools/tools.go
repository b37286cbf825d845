package drive_tools

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/glance/internal/tools/common"
)

// RegisterDriveTools registers the drive tools.
func RegisterDriveTools(s *mcpserver.MCPServer, env *common.Env) error {
	if env == nil || env.Dashboard == nil {
		return errors.New("drive tools require a dashboard")
	}

	starredTool := mcp.NewTool("drive_starred",
		mcp.WithDescription("List the starred Google Drive files, most recently modified first"),
	)
	s.AddTool(starredTool, common.Instrumented("drive_starred", env, handleStarred(env)))
	return nil
}

func handleStarred(env *common.Env) common.Handler {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := env.Prepare(ctx); err != nil {
			return common.ErrorResult("Failed to refresh credential", err), nil
		}
		if err := env.Dashboard.Drive.Load(ctx); err != nil {
			return common.ErrorResult("Failed to load starred files", err), nil
		}
		return common.JSONResult(env.Dashboard.View().Files)
	}
}
