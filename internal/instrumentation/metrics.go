package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
const (
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrService   = "service"
	attrResult    = "result"
	attrTool      = "tool"
	attrResource  = "resource"
	attrMutation  = "mutation"
)

// Metrics provides methods for recording observability metrics.
//
// A nil *Metrics, or one returned for a disabled provider, records nothing.
type Metrics struct {
	// HTTP metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	// Google API metrics
	googleAPIOperationsTotal   metric.Int64Counter
	googleAPIOperationDuration metric.Float64Histogram

	// OAuth metrics
	oauthAuthTotal         metric.Int64Counter
	oauthTokenRefreshTotal metric.Int64Counter
	authenticated          metric.Int64UpDownCounter

	// Dashboard metrics
	widgetLoadsTotal    metric.Int64Counter
	widgetLoadDuration  metric.Float64Histogram
	optimisticRollbacks metric.Int64Counter

	// MCP Tool metrics
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram
}

// Histogram bucket boundaries in seconds.
var (
	httpBuckets   = []float64{0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0}
	remoteBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0}
)

// instruments creates instruments on one meter and keeps the first error so
// NewMetrics can declare everything before checking.
type instruments struct {
	meter metric.Meter
	err   error
}

func (b *instruments) counter(name, desc, unit string) metric.Int64Counter {
	c, err := b.meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	b.fail(name, err)
	return c
}

func (b *instruments) gauge(name, desc, unit string) metric.Int64UpDownCounter {
	g, err := b.meter.Int64UpDownCounter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	b.fail(name, err)
	return g
}

func (b *instruments) seconds(name, desc string, buckets []float64) metric.Float64Histogram {
	h, err := b.meter.Float64Histogram(name,
		metric.WithDescription(desc),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(buckets...),
	)
	b.fail(name, err)
	return h
}

func (b *instruments) fail(name string, err error) {
	if err != nil && b.err == nil {
		b.err = fmt.Errorf("failed to create %s: %w", name, err)
	}
}

// NewMetrics registers every glance instrument on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	b := &instruments{meter: meter}

	m := &Metrics{
		httpRequestsTotal:   b.counter("http_requests_total", "HTTP requests served by glance serve", "{request}"),
		httpRequestDuration: b.seconds("http_request_duration_seconds", "HTTP request duration", httpBuckets),

		googleAPIOperationsTotal:   b.counter("google_api_operations_total", "Calls made to Google Tasks, Calendar and Drive", "{operation}"),
		googleAPIOperationDuration: b.seconds("google_api_operation_duration_seconds", "Google API call duration", remoteBuckets),

		oauthAuthTotal:         b.counter("oauth_auth_total", "Interactive sign-in attempts by result", "{attempt}"),
		oauthTokenRefreshTotal: b.counter("oauth_token_refresh_total", "Access token refresh attempts by result", "{attempt}"),
		authenticated:          b.gauge("authenticated_sessions", "Signed-in credentials held by this process", "{session}"),

		widgetLoadsTotal:    b.counter("widget_loads_total", "Dashboard widget loads by resource and status", "{load}"),
		widgetLoadDuration:  b.seconds("widget_load_duration_seconds", "Dashboard widget load duration", remoteBuckets),
		optimisticRollbacks: b.counter("optimistic_rollbacks_total", "Local task edits reverted after the remote call failed", "{rollback}"),

		toolInvocationsTotal: b.counter("mcp_tool_invocations_total", "MCP tool calls by tool and status", "{invocation}"),
		toolDuration:         b.seconds("mcp_tool_duration_seconds", "MCP tool execution duration", remoteBuckets),
	}
	if b.err != nil {
		return nil, b.err
	}
	return m, nil
}

// active reports whether m has instruments. The zero Metrics and a nil
// *Metrics both record nothing.
func (m *Metrics) active() bool {
	return m != nil && m.httpRequestsTotal != nil
}

// timed adds one to c and records d on h under the same attributes.
func timed(ctx context.Context, c metric.Int64Counter, h metric.Float64Histogram, d time.Duration, attrs ...attribute.KeyValue) {
	set := metric.WithAttributeSet(attribute.NewSet(attrs...))
	c.Add(ctx, 1, set)
	h.Record(ctx, d.Seconds(), set)
}

// RecordHTTPRequest records one served request. path must be a route
// pattern (see RouteLabel), never the raw URL.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if !m.active() {
		return
	}
	timed(ctx, m.httpRequestsTotal, m.httpRequestDuration, duration,
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	)
}

// RecordGoogleAPIOperation records one call to a Google API, e.g.
// service "tasks", operation "update", status "error".
func (m *Metrics) RecordGoogleAPIOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	if !m.active() {
		return
	}
	timed(ctx, m.googleAPIOperationsTotal, m.googleAPIOperationDuration, duration,
		attribute.String(attrService, service),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	)
}

// RecordOAuthAuth records an interactive sign-in with one of the
// OAuthResult values.
func (m *Metrics) RecordOAuthAuth(ctx context.Context, result string) {
	if !m.active() {
		return
	}
	m.oauthAuthTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))
}

// RecordOAuthTokenRefresh records a silent refresh with one of the
// OAuthResult values.
func (m *Metrics) RecordOAuthTokenRefresh(ctx context.Context, result string) {
	if !m.active() {
		return
	}
	m.oauthTokenRefreshTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))
}

func (m *Metrics) SessionStarted(ctx context.Context) {
	if m.active() {
		m.authenticated.Add(ctx, 1)
	}
}

func (m *Metrics) SessionEnded(ctx context.Context) {
	if m.active() {
		m.authenticated.Add(ctx, -1)
	}
}

// RecordWidgetLoad records one dashboard resource load: tasks, events or
// files.
func (m *Metrics) RecordWidgetLoad(ctx context.Context, resource, status string, duration time.Duration) {
	if !m.active() {
		return
	}
	timed(ctx, m.widgetLoadsTotal, m.widgetLoadDuration, duration,
		attribute.String(attrResource, resource),
		attribute.String(attrStatus, status),
	)
}

// RecordRollback records a reverted optimistic mutation, e.g. "toggle_task".
func (m *Metrics) RecordRollback(ctx context.Context, mutation string) {
	if !m.active() {
		return
	}
	m.optimisticRollbacks.Add(ctx, 1, metric.WithAttributes(attribute.String(attrMutation, mutation)))
}

func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	if !m.active() {
		return
	}
	timed(ctx, m.toolInvocationsTotal, m.toolDuration, duration,
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	)
}
