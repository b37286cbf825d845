// Package calendar_tools provides the calendar_upcoming MCP tool, which
// returns the upcoming events grouped by day with their display labels.
package calendar_tools
