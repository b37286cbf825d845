// Package tasks_tools provides MCP tools for the tasks widget.
//
// # Available Tools
//
//   - tasks_list: task lists plus the tasks of one list (default: the first)
//   - tasks_add: add a task to a list (not in read-only mode)
//   - tasks_toggle: flip a task between open and completed (not in read-only mode)
//
// Tools read and write through the same controller and store the dashboard
// uses, so a toggle shows up immediately in dashboard_summary.
package tasks_tools
