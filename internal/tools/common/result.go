package common

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/glance/internal/credential"
	"github.com/teemow/glance/internal/google"
)

// NotSignedIn is shown instead of the raw error when no usable credential
// exists.
const NotSignedIn = "Not signed in to Google. Run `glance login` in a terminal, then retry."

// JSONResult encodes v as indented JSON text.
func JSONResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// ErrorResult reports err to the client as a tool error, prefixed with msg.
func ErrorResult(msg string, err error) *mcp.CallToolResult {
	if errors.Is(err, credential.ErrNoCredential) ||
		errors.Is(err, google.ErrInteractionRequired) ||
		google.IsUnauthorized(err) {
		return mcp.NewToolResultError(NotSignedIn)
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", msg, err))
}
