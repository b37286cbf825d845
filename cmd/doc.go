// Package cmd implements the command-line interface for glance.
//
// This package provides the following commands:
//   - dashboard: Show tasks, upcoming events and starred files (default)
//   - login, logout, refresh, status: Manage the Google credential
//   - tasks: List, add and complete tasks
//   - serve: Run the HTTP dashboard API, optionally with MCP over HTTP
//   - mcp: Run the MCP server over stdio
//   - generate-docs: Generate markdown documentation for all MCP tools
//   - version: Display version information
//
// The dashboard command is the default command when no subcommand is specified.
package cmd
