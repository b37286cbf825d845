package common

import (
	"context"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/glance/internal/instrumentation"
)

// Instrumented wraps a tool handler with a span, the tool invocation metrics
// and an audit record. A result with IsError set counts as a failure.
//
// Usage:
//
//	s.AddTool(tool, common.Instrumented("tasks_list", env, handler))
func Instrumented(toolName string, env *Env, handler Handler) Handler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx, span := instrumentation.StartToolSpan(ctx, toolName)

		start := time.Now()
		invocation := instrumentation.NewToolInvocation(toolName).WithSpanContext(ctx)

		result, err := handler(ctx, request)

		failure := err
		if failure == nil && result != nil && result.IsError {
			failure = errors.New(ResultText(result))
		}

		status := instrumentation.StatusSuccess
		if failure != nil {
			status = instrumentation.StatusError
		}
		instrumentation.EndSpan(span, failure)

		env.Metrics.RecordToolInvocation(ctx, toolName, status, time.Since(start))
		env.Audit.LogToolInvocation(invocation.Complete(failure))

		return result, err
	}
}

// ResultText returns the first text content of result.
func ResultText(result *mcp.CallToolResult) string {
	for _, c := range result.Content {
		if text, ok := c.(mcp.TextContent); ok {
			return text.Text
		}
	}
	return ""
}
