// Package logging builds the process logger and names the attributes glance
// components attach to it.
//
// Every component gets its own scope:
//
//	logger := logging.WithComponent(base, "widgets")
//	logger.Warn("toggle reverted", logging.ListID(listID), logging.TaskID(taskID), logging.Err(err))
//
// Email addresses are never logged in clear; use UserHash. Tokens are never
// logged at all.
package logging
