package instrumentation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Provider owns the meter and tracer providers for one glance process and
// hands out the Metrics recorder the Google clients and HTTP server share.
type Provider struct {
	enabled    bool
	metrics    *Metrics
	scrapeable bool
	shutdown   []func(context.Context) error
}

// ProviderOption configures NewProvider.
type ProviderOption func(*providerOptions)

type providerOptions struct {
	logger *slog.Logger
}

// WithProviderLogger sets the logger used for exporter warnings.
func WithProviderLogger(logger *slog.Logger) ProviderOption {
	return func(o *providerOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewProvider builds the telemetry pipeline described by cfg and installs it
// as the global otel provider. A disabled config yields a Provider whose
// Metrics recorder drops everything.
func NewProvider(ctx context.Context, cfg Config, opts ...ProviderOption) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{metrics: &Metrics{}}, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid instrumentation config: %w", err)
	}

	o := providerOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger.With("component", "instrumentation")

	res, err := serviceResource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	p := &Provider{enabled: true}

	meterProvider, err := p.newMeterProvider(ctx, cfg, res, logger)
	if err != nil {
		return nil, err
	}
	p.shutdown = append(p.shutdown, meterProvider.Shutdown)

	tracerProvider, err := newTracerProvider(ctx, cfg, res, logger)
	if err != nil {
		return nil, errors.Join(err, p.Shutdown(ctx))
	}
	p.shutdown = append(p.shutdown, tracerProvider.Shutdown)

	otel.SetMeterProvider(meterProvider)
	otel.SetTracerProvider(tracerProvider)

	p.metrics, err = NewMetrics(meterProvider.Meter(cfg.ServiceName))
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to create metrics recorder: %w", err), p.Shutdown(ctx))
	}
	return p, nil
}

func serviceResource(ctx context.Context, cfg Config) (*resource.Resource, error) {
	instance := cfg.ServiceInstanceID
	if instance == "" {
		instance, _ = os.Hostname()
	}

	attrs := []resource.Option{
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
		),
	}
	if instance != "" {
		attrs = append(attrs, resource.WithAttributes(semconv.ServiceInstanceID(instance)))
	}

	res, err := resource.New(ctx, attrs...)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}

func (p *Provider) newMeterProvider(ctx context.Context, cfg Config, res *resource.Resource, logger *slog.Logger) (*metric.MeterProvider, error) {
	opts := []metric.Option{metric.WithResource(res)}

	switch cfg.MetricsExporter {
	case ExporterNone, "":
		// Instruments still record so tests and one-shot commands can
		// share code paths with serve.
	case ExporterPrometheus:
		exporter, err := prometheus.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
		}
		p.scrapeable = true
		opts = append(opts, metric.WithReader(exporter))
	case ExporterOTLP:
		httpOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.OTLPEndpoint)}
		if cfg.OTLPInsecure {
			httpOpts = append(httpOpts, otlpmetrichttp.WithInsecure())
		}
		exporter, err := otlpmetrichttp.New(ctx, httpOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
		}
		opts = append(opts, metric.WithReader(metric.NewPeriodicReader(exporter)))
	case ExporterStdout:
		logger.Warn("stdout metrics exporter enabled, use for debugging only")
		exporter, err := stdoutmetric.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout metrics exporter: %w", err)
		}
		opts = append(opts, metric.WithReader(metric.NewPeriodicReader(exporter)))
	default:
		return nil, fmt.Errorf("unsupported metrics exporter: %s", cfg.MetricsExporter)
	}

	return metric.NewMeterProvider(opts...), nil
}

func newTracerProvider(ctx context.Context, cfg Config, res *resource.Resource, logger *slog.Logger) (*sdktrace.TracerProvider, error) {
	var exporter sdktrace.SpanExporter
	var err error

	switch cfg.TracingExporter {
	case ExporterNone, "":
		return sdktrace.NewTracerProvider(
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.NeverSample()),
		), nil
	case ExporterOTLP:
		httpOpts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.OTLPEndpoint)}
		if cfg.OTLPInsecure {
			// Spans carry task list ids and Google API hosts.
			logger.Warn("OTLP trace export without TLS", "endpoint", cfg.OTLPEndpoint)
			httpOpts = append(httpOpts, otlptracehttp.WithInsecure())
		}
		exporter, err = otlptracehttp.New(ctx, httpOpts...)
	case ExporterStdout:
		logger.Warn("stdout trace exporter enabled, use for debugging only")
		exporter, err = stdouttrace.New()
	default:
		return nil, fmt.Errorf("unsupported tracing exporter: %s", cfg.TracingExporter)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s trace exporter: %w", cfg.TracingExporter, err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.TraceSamplingRate))),
	), nil
}

// Metrics returns the recorder. It is never nil.
func (p *Provider) Metrics() *Metrics {
	return p.metrics
}

// PrometheusHandler serves the scrape endpoint, or returns nil when metrics
// are not exported through prometheus.
func (p *Provider) PrometheusHandler() http.Handler {
	if !p.scrapeable {
		return nil
	}
	return promhttp.Handler()
}

// Shutdown flushes pending telemetry and stops the exporters.
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	for _, fn := range p.shutdown {
		errs = append(errs, fn(ctx))
	}
	p.shutdown = nil
	return errors.Join(errs...)
}

// Enabled reports whether telemetry is being collected.
func (p *Provider) Enabled() bool {
	return p.enabled
}
