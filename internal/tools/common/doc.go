// Package common provides shared helpers for the MCP tool packages: the
// environment every handler reads from, argument parsing, result encoding and
// the instrumentation wrapper.
package common
