// Package drive_tools provides the drive_starred MCP tool, which returns the
// starred Drive files with their category, size and age labels.
package drive_tools
