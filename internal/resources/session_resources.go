package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/glance/internal/auth"
	"github.com/teemow/glance/internal/store"
)

const (
	// SessionURI is the URI of the session resource.
	SessionURI = "glance://session"

	// TaskListsURI is the URI of the cached task lists resource.
	TaskListsURI = "glance://tasklists"
)

// SessionReporter reports the authentication session.
type SessionReporter interface {
	Session() auth.Session
}

// RegisterSessionResources registers the session and task list resources.
// The task list resource serves what the store holds and never calls Google.
func RegisterSessionResources(s *mcpserver.MCPServer, sessions SessionReporter, st *store.Store) error {
	if sessions == nil || st == nil {
		return fmt.Errorf("session resources require a session reporter and a store")
	}

	sessionResource := mcp.NewResource(
		SessionURI,
		"Google Session",
		mcp.WithResourceDescription("Authentication state and the signed-in Google account. Never includes tokens."),
		mcp.WithMIMEType("application/json"),
	)
	s.AddResource(sessionResource, func(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonContents(request.Params.URI, sessions.Session())
	})

	listsResource := mcp.NewResource(
		TaskListsURI,
		"Task Lists",
		mcp.WithResourceDescription("Task lists loaded by the dashboard, with their loaded state"),
		mcp.WithMIMEType("application/json"),
	)
	s.AddResource(listsResource, func(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonContents(request.Params.URI, taskLists(st))
	})

	return nil
}

type taskListEntry struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Loaded bool   `json:"loaded"`
	Count  int    `json:"count"`
}

func taskLists(st *store.Store) []taskListEntry {
	lists := st.TaskLists()
	entries := make([]taskListEntry, 0, len(lists))
	for _, l := range lists {
		items, loaded := st.Tasks(l.ID)
		entries = append(entries, taskListEntry{
			ID:     l.ID,
			Title:  l.Title,
			Loaded: loaded,
			Count:  len(items),
		})
	}
	return entries
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}
	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
