// Package server exposes the dashboard over HTTP.
//
// The API is a chi router under /api that reads and mutates the dashboard
// through the same widget controllers and auth orchestrator the CLI uses:
//
//	GET  /api/session                               sign-in state, never a token
//	POST /api/auth/refresh                          silent refresh
//	POST /api/auth/logout                           revoke and clear
//	GET  /api/dashboard                             refresh if needed, mount, view
//	GET  /api/tasklists/{listID}/tasks              select a list
//	POST /api/tasklists/{listID}/tasks              add a task
//	POST /api/tasklists/{listID}/tasks/{taskID}/toggle
//
// Errors are returned as {"error": "..."}: 401 without a credential, 400 for
// bad input, 404 for unknown tasks, 409 while another token request is
// pending and 502 when Google fails.
//
// HealthChecker serves /healthz, /readyz and /healthz/detailed. MetricsServer
// serves the Prometheus endpoint on its own port.
package server
