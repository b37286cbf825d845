package cmd

import (
	"context"
	"encoding/base64"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/glance/internal/config"
	"github.com/teemow/glance/internal/credential"
)

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"dashboard_summary", "Dashboard"},
		{"tasks_toggle", "Google Tasks"},
		{"calendar_upcoming", "Google Calendar"},
		{"drive_starred", "Google Drive"},
		{"gmail_list", "Other"},
		{"plain", "Other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, categoryOf(tt.name))
		})
	}
}

func TestToolsMarkdown(t *testing.T) {
	markdown, err := toolsMarkdown()
	require.NoError(t, err)

	for _, name := range []string{
		"dashboard_summary", "tasks_list", "tasks_add", "tasks_toggle", "calendar_upcoming", "drive_starred",
	} {
		assert.Contains(t, markdown, "### "+name+"\n")
	}
	assert.Contains(t, markdown, "- [Google Tasks](#google-tasks)")
	assert.NotContains(t, markdown, "## Other")
	assert.Less(t, strings.Index(markdown, "## Dashboard"), strings.Index(markdown, "## Google Drive"))
	assert.Contains(t, markdown, "- `title` (required): Title of the new task")
	assert.Contains(t, markdown, "- `listId` (optional):")
	assert.Contains(t, markdown, "`glance://session`")
}

func TestToolMarkdown(t *testing.T) {
	tool := mcp.NewTool("tasks_demo",
		mcp.WithDescription("Demo tool"),
		mcp.WithString("b", mcp.Required()),
		mcp.WithString("a", mcp.Description("First")),
	)

	got := toolMarkdown(tool)
	assert.True(t, strings.HasPrefix(got, "### tasks_demo\n\nDemo tool\n\n**Arguments:**\n"))
	assert.Less(t, strings.Index(got, "`a`"), strings.Index(got, "`b`"))
	assert.Contains(t, got, "- `a` (optional): First")
	assert.Contains(t, got, "- `b` (required): string parameter")

	assert.Equal(t, "### bare\n\n", toolMarkdown(mcp.NewTool("bare")))
}

func TestNewPersister(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	key, err := credential.GenerateKey()
	require.NoError(t, err)

	tests := []struct {
		name      string
		cfg       config.StorageConfig
		wantType  any
		wantClose bool
		wantErr   bool
	}{
		{
			name:     "memory",
			cfg:      config.StorageConfig{Type: config.StorageMemory},
			wantType: &credential.MemoryPersister{},
		},
		{
			name:     "file",
			cfg:      config.StorageConfig{Type: config.StorageFile, Dir: filepath.Join(dir, "file")},
			wantType: &credential.FilePersister{},
		},
		{
			name:      "sqlite",
			cfg:       config.StorageConfig{Type: config.StorageSQLite, SQLitePath: filepath.Join(dir, "glance.db")},
			wantType:  &credential.SQLitePersister{},
			wantClose: true,
		},
		{
			name: "encrypted memory",
			cfg: config.StorageConfig{
				Type:          config.StorageMemory,
				EncryptionKey: base64.StdEncoding.EncodeToString(key),
			},
			wantType: &credential.EncryptedPersister{},
		},
		{
			name:    "bad key",
			cfg:     config.StorageConfig{Type: config.StorageMemory, EncryptionKey: "not base64!"},
			wantErr: true,
		},
		{
			name:    "unknown",
			cfg:     config.StorageConfig{Type: "floppy"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, closer, err := newPersister(ctx, tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, p)
			if tt.wantClose {
				require.NotNil(t, closer)
				assert.NoError(t, closer.Close())
			} else {
				assert.Nil(t, closer)
			}

			require.NoError(t, p.Save(ctx, "k", []byte("v")))
			got, err := p.Load(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, []byte("v"), got)
		})
	}
}

func TestUnjoin(t *testing.T) {
	assert.Nil(t, unjoin(nil))

	single := assert.AnError
	assert.Equal(t, []error{single}, unjoin(single))

	a, b := context.Canceled, context.DeadlineExceeded
	assert.Equal(t, []error{a, b}, unjoin(errors.Join(a, b)))
}
