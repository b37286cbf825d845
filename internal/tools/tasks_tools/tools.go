package tasks_tools

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/glance/internal/tasks"
	"github.com/teemow/glance/internal/tools/common"
)

type listResult struct {
	Lists   []tasks.TaskList `json:"lists"`
	ListID  string           `json:"listId"`
	Items   []tasks.Task     `json:"items"`
	Pending int              `json:"pending"`
}

// RegisterTasksTools registers the tasks tools. Write tools are skipped in
// read-only mode.
func RegisterTasksTools(s *mcpserver.MCPServer, env *common.Env, readOnly bool) error {
	if env == nil || env.Dashboard == nil {
		return errors.New("tasks tools require a dashboard")
	}

	listTool := mcp.NewTool("tasks_list",
		mcp.WithDescription("List the task lists and the open tasks of one list. Without listId the first list is used."),
		mcp.WithString("listId",
			mcp.Description("ID of the task list to show (default: first list)"),
		),
	)
	s.AddTool(listTool, common.Instrumented("tasks_list", env, handleList(env)))

	if readOnly {
		return nil
	}

	addTool := mcp.NewTool("tasks_add",
		mcp.WithDescription("Add a task to a task list"),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Title of the new task"),
		),
		mcp.WithString("listId",
			mcp.Description("ID of the task list (default: the selected or first list)"),
		),
	)
	s.AddTool(addTool, common.Instrumented("tasks_add", env, handleAdd(env)))

	toggleTool := mcp.NewTool("tasks_toggle",
		mcp.WithDescription("Mark an open task completed, or reopen a completed one"),
		mcp.WithString("listId",
			mcp.Required(),
			mcp.Description("ID of the task list"),
		),
		mcp.WithString("taskId",
			mcp.Required(),
			mcp.Description("ID of the task"),
		),
	)
	s.AddTool(toggleTool, common.Instrumented("tasks_toggle", env, handleToggle(env)))

	return nil
}

func handleList(env *common.Env) common.Handler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := env.Prepare(ctx); err != nil {
			return common.ErrorResult("Failed to refresh credential", err), nil
		}

		w := env.Dashboard.Tasks
		listID := common.StringArg(request.GetArguments(), "listId")
		if err := w.Load(ctx); err != nil {
			return common.ErrorResult("Failed to load task lists", err), nil
		}
		if listID != "" {
			if err := w.SelectList(ctx, listID); err != nil {
				return common.ErrorResult("Failed to load tasks", err), nil
			}
		} else {
			listID = w.Selected()
		}

		return common.JSONResult(listResult{
			Lists:   env.Dashboard.Store().TaskLists(),
			ListID:  listID,
			Items:   w.Items(listID),
			Pending: w.Pending(listID),
		})
	}
}

func handleAdd(env *common.Env) common.Handler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		title, err := common.RequiredStringArg(args, "title")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := env.Prepare(ctx); err != nil {
			return common.ErrorResult("Failed to refresh credential", err), nil
		}

		w := env.Dashboard.Tasks
		listID := common.StringArg(args, "listId")
		if listID == "" && w.Selected() == "" {
			if err := w.Load(ctx); err != nil {
				return common.ErrorResult("Failed to load task lists", err), nil
			}
		}

		task, err := w.Add(ctx, listID, title)
		if err != nil {
			return common.ErrorResult("Failed to add task", err), nil
		}
		return common.JSONResult(task)
	}
}

func handleToggle(env *common.Env) common.Handler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		listID, err := common.RequiredStringArg(args, "listId")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		taskID, err := common.RequiredStringArg(args, "taskId")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := env.Prepare(ctx); err != nil {
			return common.ErrorResult("Failed to refresh credential", err), nil
		}

		w := env.Dashboard.Tasks
		if err := w.SelectList(ctx, listID); err != nil {
			return common.ErrorResult("Failed to load tasks", err), nil
		}
		task, err := w.Toggle(ctx, listID, taskID)
		if err != nil {
			return common.ErrorResult("Failed to toggle task", err), nil
		}
		return common.JSONResult(task)
	}
}
