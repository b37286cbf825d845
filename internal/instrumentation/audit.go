package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"github.com/teemow/glance/internal/logging"
)

// Auth event kinds.
const (
	AuthEventLogin   = "login"
	AuthEventRefresh = "refresh"
	AuthEventLogout  = "logout"
	AuthEventRestore = "restore"
)

// outcome is the timing and result shared by every audit record.
type outcome struct {
	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	TraceID string
	SpanID  string
}

func started() outcome { return outcome{StartTime: time.Now()} }

func (o *outcome) complete(err error) {
	o.Duration = time.Since(o.StartTime)
	o.Success = err == nil
	if err != nil {
		o.Error = err.Error()
	}
}

func (o *outcome) attrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.Duration("duration", o.Duration),
		slog.Bool("success", o.Success),
	}
	if o.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", o.TraceID), slog.String("span_id", o.SpanID))
	}
	if o.Error != "" {
		attrs = append(attrs, slog.String("error", o.Error))
	}
	return attrs
}

// AuthEvent is one credential lifecycle transition: a sign-in, refresh,
// restore from storage or sign-out.
type AuthEvent struct {
	outcome

	Kind string

	// UserEmail is PII. It is only logged when the audit logger is
	// configured with IncludePII.
	UserEmail string
}

func NewAuthEvent(kind string) *AuthEvent {
	return &AuthEvent{Kind: kind, outcome: started()}
}

func (e *AuthEvent) WithUser(email string) *AuthEvent {
	e.UserEmail = email
	return e
}

// WithSpanContext links the event to the span in ctx.
func (e *AuthEvent) WithSpanContext(ctx context.Context) *AuthEvent {
	e.TraceID, e.SpanID = SpanIDs(ctx)
	return e
}

// Complete stamps the duration. A nil err means success.
func (e *AuthEvent) Complete(err error) *AuthEvent {
	e.complete(err)
	return e
}

// UserDomain returns the domain of UserEmail, or "unknown".
func (e *AuthEvent) UserDomain() string {
	return ExtractUserDomain(e.UserEmail)
}

func (e *AuthEvent) logAttrs(includePII bool) []slog.Attr {
	attrs := []slog.Attr{slog.String("event", e.Kind)}
	switch {
	case e.UserEmail == "":
	case includePII:
		attrs = append(attrs, slog.String("user", e.UserEmail))
	default:
		attrs = append(attrs, slog.String("user_domain", e.UserDomain()), logging.UserHash(e.UserEmail))
	}
	return append(attrs, e.attrs()...)
}

// ToolInvocation is one MCP tool call.
type ToolInvocation struct {
	outcome

	Tool string
}

func NewToolInvocation(tool string) *ToolInvocation {
	return &ToolInvocation{Tool: tool, outcome: started()}
}

// WithSpanContext links the invocation to the span in ctx.
func (ti *ToolInvocation) WithSpanContext(ctx context.Context) *ToolInvocation {
	ti.TraceID, ti.SpanID = SpanIDs(ctx)
	return ti
}

// Complete stamps the duration. A nil err means success.
func (ti *ToolInvocation) Complete(err error) *ToolInvocation {
	ti.complete(err)
	return ti
}

// AuditLogger writes auth events and tool calls to a dedicated slog stream.
// A nil *AuditLogger logs nothing.
type AuditLogger struct {
	logger     *slog.Logger
	includePII bool
	enabled    bool
}

func NewAuditLogger(logger *slog.Logger, cfg AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:     logging.WithComponent(logger, "audit"),
		includePII: cfg.IncludePII,
		enabled:    cfg.Enabled,
	}
}

// LogAuthEvent logs e as auth_<kind>, or auth_<kind>_failed at warn level.
func (al *AuditLogger) LogAuthEvent(e *AuthEvent) {
	if al == nil || !al.enabled {
		return
	}
	msg := "auth_" + e.Kind
	if !e.Success {
		msg += "_failed"
	}
	al.log(msg, e.outcome, e.logAttrs(al.includePII))
}

// LogToolInvocation logs ti as tool_executed, or tool_failed at warn level.
func (al *AuditLogger) LogToolInvocation(ti *ToolInvocation) {
	if al == nil || !al.enabled {
		return
	}
	msg := "tool_executed"
	if !ti.Success {
		msg = "tool_failed"
	}
	al.log(msg, ti.outcome, append([]slog.Attr{slog.String("tool", ti.Tool)}, ti.attrs()...))
}

func (al *AuditLogger) log(msg string, o outcome, attrs []slog.Attr) {
	level := slog.LevelInfo
	if !o.Success {
		level = slog.LevelWarn
	}
	al.logger.LogAttrs(context.Background(), level, msg, attrs...)
}
