// Package render draws the dashboard view model for the terminal with
// lipgloss. It is used by the dashboard, tasks and status commands.
//
// Output degrades to plain text when the writer is not a terminal, so the
// same functions serve pipes and tests.
package render
