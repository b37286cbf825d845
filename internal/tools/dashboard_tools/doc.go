// Package dashboard_tools provides the dashboard_summary MCP tool. It loads
// all widgets at once and returns the same view the HTTP API and the
// terminal renderer show.
package dashboard_tools
