package instrumentation

import (
	"fmt"
	"os"
	"slices"
	"strconv"
)

// Exporter names accepted by Config.
const (
	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"
)

// Label values shared by metrics and audit records.
const (
	StatusSuccess = "success"
	StatusError   = "error"

	OAuthResultSuccess = "success"
	OAuthResultFailure = "failure"
	OAuthResultDenied  = "denied"
	OAuthResultExpired = "expired"

	ServiceTasks    = "tasks"
	ServiceCalendar = "calendar"
	ServiceDrive    = "drive"
	ServiceUserinfo = "userinfo"
)

var (
	metricsExporters = []string{ExporterPrometheus, ExporterOTLP, ExporterStdout, ExporterNone}
	tracingExporters = []string{ExporterOTLP, ExporterStdout, ExporterNone}
)

// Config selects what telemetry glance collects and where it goes.
type Config struct {
	ServiceName       string
	ServiceVersion    string
	ServiceInstanceID string // defaults to the hostname

	// Enabled false turns every recorder into a no-op.
	Enabled bool

	MetricsExporter string // prometheus, otlp, stdout or none
	TracingExporter string // otlp, stdout or none

	// OTLPEndpoint is host:port without a scheme, e.g. "localhost:4318".
	OTLPEndpoint string
	OTLPInsecure bool

	TraceSamplingRate float64

	AuditLogging AuditLoggingConfig
}

// AuditLoggingConfig controls the sign-in and tool audit stream.
type AuditLoggingConfig struct {
	Enabled bool

	// IncludePII logs full email addresses instead of hashes.
	IncludePII bool
}

// DefaultConfig reads the instrumentation settings from the process
// environment. Telemetry is configured through the standard OTEL_* variables
// rather than the glance config file so collectors can be pointed at a
// running install without editing it.
func DefaultConfig() Config {
	return configFromEnv(os.Getenv)
}

func configFromEnv(getenv func(string) string) Config {
	env := envReader(getenv)
	return Config{
		ServiceName:       env.str("OTEL_SERVICE_NAME", "glance"),
		ServiceVersion:    "unknown",
		ServiceInstanceID: env.str("OTEL_SERVICE_INSTANCE_ID", ""),
		Enabled:           env.boolean("INSTRUMENTATION_ENABLED", true),
		MetricsExporter:   env.str("METRICS_EXPORTER", ExporterPrometheus),
		TracingExporter:   env.str("TRACING_EXPORTER", ExporterNone),
		OTLPEndpoint:      env.str("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTLPInsecure:      env.boolean("OTEL_EXPORTER_OTLP_INSECURE", false),
		TraceSamplingRate: env.float("OTEL_TRACES_SAMPLER_ARG", 0.1),
		AuditLogging: AuditLoggingConfig{
			Enabled:    env.boolean("AUDIT_LOGGING_ENABLED", true),
			IncludePII: env.boolean("AUDIT_LOGGING_INCLUDE_PII", false),
		},
	}
}

// envReader falls back to the default for unset or unparsable values.
type envReader func(string) string

func (e envReader) str(key, def string) string {
	if v := e(key); v != "" {
		return v
	}
	return def
}

func (e envReader) boolean(key string, def bool) bool {
	v, err := strconv.ParseBool(e(key))
	if err != nil {
		return def
	}
	return v
}

func (e envReader) float(key string, def float64) float64 {
	v, err := strconv.ParseFloat(e(key), 64)
	if err != nil {
		return def
	}
	return v
}

// Validate checks exporter names and the sampling rate. Empty exporter
// names mean none.
func (c *Config) Validate() error {
	if c.TraceSamplingRate < 0 || c.TraceSamplingRate > 1 {
		return fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %g", c.TraceSamplingRate)
	}
	if c.MetricsExporter != "" && !slices.Contains(metricsExporters, c.MetricsExporter) {
		return fmt.Errorf("invalid metrics exporter %q, must be one of %v", c.MetricsExporter, metricsExporters)
	}
	if c.TracingExporter != "" && !slices.Contains(tracingExporters, c.TracingExporter) {
		return fmt.Errorf("invalid tracing exporter %q, must be one of %v", c.TracingExporter, tracingExporters)
	}
	if c.OTLPEndpoint == "" && (c.MetricsExporter == ExporterOTLP || c.TracingExporter == ExporterOTLP) {
		return fmt.Errorf("OTLP endpoint is required when using an OTLP exporter")
	}
	return nil
}
