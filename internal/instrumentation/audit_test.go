package instrumentation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuditBuffer(cfg AuditLoggingConfig) (*AuditLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	return NewAuditLogger(logger, cfg), &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
	return entry
}

func TestAuditLogger_AuthEventAnonymized(t *testing.T) {
	al, buf := newAuditBuffer(AuditLoggingConfig{Enabled: true})

	al.LogAuthEvent(NewAuthEvent(AuthEventLogin).WithUser("jane@example.com").Complete(nil))

	entry := decodeLine(t, buf)
	assert.Equal(t, "auth_login", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "audit", entry["component"])
	assert.Equal(t, "example.com", entry["user_domain"])
	assert.NotEmpty(t, entry["user_hash"])
	assert.NotContains(t, entry, "user")
	assert.NotContains(t, buf.String(), "jane@example.com")
	assert.Equal(t, true, entry["success"])
}

func TestAuditLogger_AuthEventWithPII(t *testing.T) {
	al, buf := newAuditBuffer(AuditLoggingConfig{Enabled: true, IncludePII: true})

	al.LogAuthEvent(NewAuthEvent(AuthEventRefresh).WithUser("jane@example.com").Complete(errors.New("invalid_grant")))

	entry := decodeLine(t, buf)
	assert.Equal(t, "auth_refresh_failed", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "jane@example.com", entry["user"])
	assert.Equal(t, "invalid_grant", entry["error"])
}

func TestAuditLogger_AuthEventWithoutUser(t *testing.T) {
	al, buf := newAuditBuffer(AuditLoggingConfig{Enabled: true})

	al.LogAuthEvent(NewAuthEvent(AuthEventRestore).Complete(nil))

	entry := decodeLine(t, buf)
	assert.NotContains(t, entry, "user_domain")
	assert.NotContains(t, entry, "user_hash")
}

func TestAuditLogger_SpanContext(t *testing.T) {
	useSpanRecorder(t)
	al, buf := newAuditBuffer(AuditLoggingConfig{Enabled: true})

	ctx, span := StartToolSpan(context.Background(), "drive_starred")
	defer span.End()
	al.LogToolInvocation(NewToolInvocation("drive_starred").WithSpanContext(ctx).Complete(nil))

	entry := decodeLine(t, buf)
	assert.Equal(t, span.SpanContext().TraceID().String(), entry["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), entry["span_id"])
}

func TestAuditLogger_Disabled(t *testing.T) {
	al, buf := newAuditBuffer(AuditLoggingConfig{Enabled: false})

	al.LogAuthEvent(NewAuthEvent(AuthEventLogout).Complete(nil))
	al.LogToolInvocation(NewToolInvocation("tasks_list").Complete(nil))

	assert.Zero(t, buf.Len())
}

func TestAuditLogger_Nil(t *testing.T) {
	var al *AuditLogger
	assert.NotPanics(t, func() {
		al.LogAuthEvent(NewAuthEvent(AuthEventLogin).Complete(nil))
		al.LogToolInvocation(NewToolInvocation("tasks_list").Complete(nil))
	})
}

func TestAuditLogger_ToolInvocation(t *testing.T) {
	al, buf := newAuditBuffer(AuditLoggingConfig{Enabled: true})

	al.LogToolInvocation(NewToolInvocation("tasks_add").Complete(errors.New("list not found")))

	entry := decodeLine(t, buf)
	assert.Equal(t, "tool_failed", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "tasks_add", entry["tool"])
	assert.Equal(t, "list not found", entry["error"])
}
