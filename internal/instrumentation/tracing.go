package instrumentation

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer every glance span is started from.
const TracerName = "github.com/teemow/glance"

// Span attribute keys.
const (
	SpanAttrTool         = "mcp.tool"
	SpanAttrService      = "google.service"
	SpanAttrOperation    = "google.operation"
	SpanAttrResourceType = "glance.resource_type"
	SpanAttrResourceID   = "glance.resource_id"
)

// Resource types used with ResourceAttrs.
const (
	ResourceTypeTaskList = "tasklist"
	ResourceTypeTask     = "task"
	ResourceTypeCalendar = "calendar"
)

// ResourceAttrs describes the Google object an API call touches. An empty
// id yields only the type.
func ResourceAttrs(kind, id string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String(SpanAttrResourceType, kind)}
	if id != "" {
		attrs = append(attrs, attribute.String(SpanAttrResourceID, id))
	}
	return attrs
}

func tracer() trace.Tracer {
	return otel.GetTracerProvider().Tracer(TracerName)
}

// StartToolSpan starts a server span named tool.<name> for an MCP call.
func StartToolSpan(ctx context.Context, toolName string) (context.Context, trace.Span) {
	return tracer().Start(ctx, "tool."+toolName,
		trace.WithAttributes(attribute.String(SpanAttrTool, toolName)),
		trace.WithSpanKind(trace.SpanKindServer),
	)
}

// TrackGoogleAPI starts a client span named google.<service>.<operation> and
// returns a done func that ends it and records the operation metric. m may
// be nil.
//
//	ctx, done := instrumentation.TrackGoogleAPI(ctx, m, ServiceTasks, OperationList)
//	res, err := call(ctx)
//	done(err)
func TrackGoogleAPI(ctx context.Context, m *Metrics, service, operation string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := tracer().Start(ctx, "google."+service+"."+operation,
		trace.WithAttributes(attribute.String(SpanAttrService, service), attribute.String(SpanAttrOperation, operation)),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
	return ctx, func(err error) {
		EndSpan(span, err)
		m.RecordGoogleAPIOperation(ctx, service, operation, statusOf(err), time.Since(start))
	}
}

// EndSpan sets the span status from err and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// SpanIDs returns the trace and span id of the span in ctx, or empty strings
// when there is none.
func SpanIDs(ctx context.Context) (traceID, spanID string) {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return "", ""
	}
	return sc.TraceID().String(), sc.SpanID().String()
}
