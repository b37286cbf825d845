// Package resources provides MCP resources for the signed-in session.
// Resources are read-only; clients fetch them for context before calling
// the dashboard tools.
package resources
