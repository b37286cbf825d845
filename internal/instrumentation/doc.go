// Package instrumentation wires glance to OpenTelemetry.
//
// Provider builds the meter and tracer providers from Config, which is read
// from the OTEL_*, METRICS_EXPORTER, TRACING_EXPORTER,
// INSTRUMENTATION_ENABLED and AUDIT_LOGGING_* environment variables.
// Prometheus is the default metrics exporter; `glance serve` exposes it on
// the metrics address. One-shot commands record into a provider that
// exports nothing.
//
// Metrics carries one instrument per dashboard concern: HTTP requests,
// Google API calls, sign-ins and refreshes, widget loads, optimistic
// rollbacks and MCP tool calls. Label values are kept to bounded sets; see
// RouteLabel and ExtractUserDomain.
//
// TrackGoogleAPI wraps a Google API call in a client span named
// google.<service>.<operation> and records its metric. StartToolSpan does
// the same for MCP tools.
//
// AuditLogger writes sign-in, refresh, restore, sign-out and tool records to
// a separate slog stream.
//
// A nil *Metrics or *AuditLogger records nothing.
package instrumentation
