package calendar_tools

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/glance/internal/tools/common"
	"github.com/teemow/glance/internal/widgets"
)

type upcomingResult struct {
	Days  []widgets.DayView `json:"days"`
	Total int               `json:"total"`
}

// RegisterCalendarTools registers the calendar tools.
func RegisterCalendarTools(s *mcpserver.MCPServer, env *common.Env) error {
	if env == nil || env.Dashboard == nil {
		return errors.New("calendar tools require a dashboard")
	}

	upcomingTool := mcp.NewTool("calendar_upcoming",
		mcp.WithDescription("List upcoming events of the primary calendar, grouped by day"),
	)
	s.AddTool(upcomingTool, common.Instrumented("calendar_upcoming", env, handleUpcoming(env)))
	return nil
}

func handleUpcoming(env *common.Env) common.Handler {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := env.Prepare(ctx); err != nil {
			return common.ErrorResult("Failed to refresh credential", err), nil
		}
		if err := env.Dashboard.Calendar.Load(ctx); err != nil {
			return common.ErrorResult("Failed to load events", err), nil
		}

		days := env.Dashboard.View().Days
		total := 0
		for _, d := range days {
			total += len(d.Events)
		}
		return common.JSONResult(upcomingResult{Days: days, Total: total})
	}
}
