package cmd

import (
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/glance/internal/resources"
	"github.com/teemow/glance/internal/tools/calendar_tools"
	"github.com/teemow/glance/internal/tools/common"
	"github.com/teemow/glance/internal/tools/dashboard_tools"
	"github.com/teemow/glance/internal/tools/drive_tools"
	"github.com/teemow/glance/internal/tools/tasks_tools"
)

// newMCPServer builds the MCP server shared by `glance mcp` and
// `glance serve --mcp`. Write tools are left out when readOnly is set.
func newMCPServer(env *common.Env, sessions resources.SessionReporter, readOnly bool) (*mcpserver.MCPServer, error) {
	mcpSrv := mcpserver.NewMCPServer("glance", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false),
	)

	steps := []struct {
		what     string
		register func() error
	}{
		{"dashboard tools", func() error { return dashboard_tools.RegisterDashboardTools(mcpSrv, env) }},
		{"tasks tools", func() error { return tasks_tools.RegisterTasksTools(mcpSrv, env, readOnly) }},
		{"calendar tools", func() error { return calendar_tools.RegisterCalendarTools(mcpSrv, env) }},
		{"drive tools", func() error { return drive_tools.RegisterDriveTools(mcpSrv, env) }},
		{"session resources", func() error {
			return resources.RegisterSessionResources(mcpSrv, sessions, env.Dashboard.Store())
		}},
	}
	for _, step := range steps {
		if err := step.register(); err != nil {
			return nil, fmt.Errorf("failed to register %s: %w", step.what, err)
		}
	}
	return mcpSrv, nil
}

// toolEnv returns the environment the MCP tools read from.
func (a *app) toolEnv() *common.Env {
	return &common.Env{
		Auth:      a.auth,
		Dashboard: a.dashboard,
		Metrics:   a.metrics,
		Audit:     a.audit,
	}
}
