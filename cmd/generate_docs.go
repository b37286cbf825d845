package cmd

import (
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"

	"github.com/teemow/glance/internal/auth"
	"github.com/teemow/glance/internal/resources"
	"github.com/teemow/glance/internal/tools/common"
	"github.com/teemow/glance/internal/widgets/widgetstest"
)

// toolCategory groups tools by name prefix in the generated reference.
type toolCategory struct {
	prefix string
	title  string
}

// toolCategories is the order sections appear in.
var toolCategories = []toolCategory{
	{"dashboard", "Dashboard"},
	{"tasks", "Google Tasks"},
	{"calendar", "Google Calendar"},
	{"drive", "Google Drive"},
}

const otherCategory = "Other"

func newGenerateDocsCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:    "generate-docs",
		Short:  "Generate the MCP tool reference",
		Long:   "Registers every MCP tool, including the write tools hidden in read-only mode, and prints a markdown reference built from their definitions.",
		Args:   cobra.NoArgs,
		Hidden: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			markdown, err := toolsMarkdown()
			if err != nil {
				return err
			}
			if outputFile == "" {
				_, err = io.WriteString(cmd.OutOrStdout(), markdown)
				return err
			}
			if err := os.WriteFile(outputFile, []byte(markdown), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outputFile, err)
			}
			cmd.PrintErrf("Documentation written to %s\n", outputFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

// toolsMarkdown registers the tools against a fixture dashboard so no
// credential or network access is needed.
func toolsMarkdown() (string, error) {
	fx := widgetstest.New(false, time.Now())
	mcpSrv, err := newMCPServer(&common.Env{Dashboard: fx.Dashboard}, signedOut{}, false)
	if err != nil {
		return "", err
	}

	sections := make(map[string][]mcp.Tool)
	for _, st := range mcpSrv.ListTools() {
		title := categoryOf(st.Tool.Name)
		sections[title] = append(sections[title], st.Tool)
	}

	titles := make([]string, 0, len(toolCategories)+1)
	for _, c := range toolCategories {
		titles = append(titles, c.title)
	}
	titles = append(titles, otherCategory)
	titles = slices.DeleteFunc(titles, func(t string) bool { return len(sections[t]) == 0 })

	var sb strings.Builder
	sb.WriteString("# glance MCP reference\n\n")
	sb.WriteString("Generated from the tool definitions by `glance generate-docs`.\n\n")

	for _, t := range titles {
		fmt.Fprintf(&sb, "- [%s](#%s)\n", t, anchor(t))
	}
	fmt.Fprintf(&sb, "- [Resources](#resources)\n\n")

	sb.WriteString("Tools that change data (`tasks_add`, `tasks_toggle`) are only registered when the server runs with `--yolo`.\n\n")

	for _, t := range titles {
		tools := sections[t]
		sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })

		fmt.Fprintf(&sb, "## %s\n\n", t)
		for _, tool := range tools {
			sb.WriteString(toolMarkdown(tool))
		}
	}

	sb.WriteString("## Resources\n\n")
	fmt.Fprintf(&sb, "- `%s`: sign-in state, user and token expiry\n", resources.SessionURI)
	fmt.Fprintf(&sb, "- `%s`: task lists known to the dashboard and how many tasks each has loaded\n", resources.TaskListsURI)

	return sb.String(), nil
}

type signedOut struct{}

func (signedOut) Session() auth.Session {
	return auth.Session{State: auth.StateUnauthenticated}
}

func categoryOf(toolName string) string {
	prefix, _, _ := strings.Cut(toolName, "_")
	for _, c := range toolCategories {
		if c.prefix == prefix {
			return c.title
		}
	}
	return otherCategory
}

func anchor(title string) string {
	return strings.ToLower(strings.ReplaceAll(title, " ", "-"))
}

// toolMarkdown renders one tool with its arguments sorted by name.
func toolMarkdown(tool mcp.Tool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "### %s\n\n", tool.Name)
	if tool.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", tool.Description)
	}

	props := tool.InputSchema.Properties
	if len(props) == 0 {
		return sb.String()
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	sb.WriteString("**Arguments:**\n\n")
	for _, name := range names {
		prop, _ := props[name].(map[string]any)

		presence := "optional"
		if slices.Contains(tool.InputSchema.Required, name) {
			presence = "required"
		}

		desc, _ := prop["description"].(string)
		if desc == "" {
			typ, _ := prop["type"].(string)
			if typ == "" {
				typ = "any"
			}
			desc = typ + " parameter"
		}
		fmt.Fprintf(&sb, "- `%s` (%s): %s\n", name, presence, desc)
	}
	sb.WriteString("\n")
	return sb.String()
}
