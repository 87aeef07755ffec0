package observability

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc/credentials"

	"github.com/ManishKondoju/CrimeInvestigationGraph/pkg/version"
)

const (
	defaultBatchTimeout = 5 * time.Second
	defaultServiceName  = "casegraph"
)

// TracingOption adjusts InitTracing.
type TracingOption func(*tracingSetup)

type tracingSetup struct {
	sampler  sdktrace.Sampler
	batch    time.Duration
	exporter sdktrace.SpanExporter
}

// WithSampler overrides the ratio sampler derived from SampleRate.
func WithSampler(sampler sdktrace.Sampler) TracingOption {
	return func(s *tracingSetup) { s.sampler = sampler }
}

// WithBatchTimeout bounds the delay before buffered spans are exported.
func WithBatchTimeout(d time.Duration) TracingOption {
	return func(s *tracingSetup) { s.batch = d }
}

// WithSpanExporter replaces the OTLP exporter, mainly for tests.
func WithSpanExporter(exporter sdktrace.SpanExporter) TracingOption {
	return func(s *tracingSetup) { s.exporter = exporter }
}

// InitTracing builds a tracer provider from cfg and installs it globally.
// Disabled tracing, or provider "noop", yields a provider with no
// processors, which records nothing.
func InitTracing(ctx context.Context, cfg TracingConfig, opts ...TracingOption) (*sdktrace.TracerProvider, error) {
	if !cfg.Enabled || strings.EqualFold(cfg.Provider, "noop") {
		return sdktrace.NewTracerProvider(), nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, WrapObservabilityError(ErrExporterConnection, "invalid tracing configuration", err)
	}

	setup := tracingSetup{
		batch:   defaultBatchTimeout,
		sampler: sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRate)),
	}
	for _, opt := range opts {
		opt(&setup)
	}

	res, err := serviceResource(ctx, cfg.ServiceName)
	if err != nil {
		return nil, err
	}
	if setup.exporter == nil {
		if setup.exporter, err = otlpSpanExporter(ctx, cfg); err != nil {
			return nil, err
		}
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(setup.sampler),
		sdktrace.WithBatcher(setup.exporter, sdktrace.WithBatchTimeout(setup.batch)),
	)
	otel.SetTracerProvider(tp)
	return tp, nil
}

// serviceResource describes this process to trace and metric backends.
// resource.New is used rather than merging with resource.Default so the
// semconv schema URLs cannot conflict.
func serviceResource(ctx context.Context, name string) (*resource.Resource, error) {
	if name == "" {
		name = defaultServiceName
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(name), semconv.ServiceVersion(version.Version)),
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
	)
	if err != nil {
		return nil, WrapObservabilityError(ErrExporterConnection, "building service resource", err)
	}
	return res, nil
}

func otlpSpanExporter(ctx context.Context, cfg TracingConfig) (sdktrace.SpanExporter, error) {
	transport := otlptracegrpc.WithTLSCredentials(credentials.NewTLS(nil))
	switch {
	case cfg.TLSCertFile != "":
		creds, err := credentials.NewClientTLSFromFile(cfg.TLSCertFile, "")
		if err != nil {
			return nil, WrapObservabilityError(ErrExporterConnection, "loading OTLP TLS certificate", err)
		}
		transport = otlptracegrpc.WithTLSCredentials(creds)
	case cfg.InsecureMode:
		transport = otlptracegrpc.WithInsecure()
	}

	exp, err := otlptracegrpc.New(ctx, otlptracegrpc.WithEndpoint(cfg.Endpoint), transport)
	if err != nil {
		return nil, NewExporterConnectionError(cfg.Endpoint, err)
	}
	return exp, nil
}

// ShutdownTracing flushes buffered spans. A nil provider is a no-op.
func ShutdownTracing(ctx context.Context, tp *sdktrace.TracerProvider) error {
	if tp == nil {
		return nil
	}
	if err := tp.Shutdown(ctx); err != nil {
		return WrapObservabilityError(ErrShutdownTimeout, "shutting down tracer provider", err)
	}
	return nil
}
