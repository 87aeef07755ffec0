package observability

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MeterName is the instrumentation scope of every casegraph instrument.
const MeterName = "github.com/ManishKondoju/CrimeInvestigationGraph"

// MetricsProvider owns the meter provider and, for the prometheus provider,
// the registry its exporter writes to.
type MetricsProvider struct {
	provider *sdkmetric.MeterProvider
	registry *promclient.Registry
}

// InitMetrics initializes metrics export. Supports "prometheus" and "otlp".
// When metrics are disabled the provider has no readers and records nothing.
func InitMetrics(ctx context.Context, cfg MetricsConfig) (*MetricsProvider, error) {
	if !cfg.Enabled {
		return &MetricsProvider{provider: sdkmetric.NewMeterProvider()}, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, WrapObservabilityError(ErrExporterConnection, "invalid metrics configuration", err)
	}
	res, err := serviceResource(ctx, "")
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(cfg.Provider) {
	case "prometheus":
		registry := promclient.NewRegistry()
		exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
		if err != nil {
			return nil, WrapObservabilityError(ErrMetricsRegistration, "failed to create prometheus exporter", err)
		}
		return &MetricsProvider{
			provider: sdkmetric.NewMeterProvider(sdkmetric.WithResource(res), sdkmetric.WithReader(exporter)),
			registry: registry,
		}, nil

	default:
		exporter, err := otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return nil, NewExporterConnectionError(cfg.Endpoint, err)
		}
		return &MetricsProvider{
			provider: sdkmetric.NewMeterProvider(sdkmetric.WithResource(res), sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter))),
		}, nil
	}
}

// Meter returns the casegraph meter.
func (p *MetricsProvider) Meter() metric.Meter {
	return p.provider.Meter(MeterName)
}

// Handler returns the Prometheus scrape handler, or nil when the provider
// does not export through Prometheus.
func (p *MetricsProvider) Handler() http.Handler {
	if p.registry == nil {
		return nil
	}
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Shutdown flushes and stops the meter provider.
func (p *MetricsProvider) Shutdown(ctx context.Context) error {
	if err := p.provider.Shutdown(ctx); err != nil {
		return WrapObservabilityError(ErrShutdownTimeout, "failed to shutdown meter provider", err)
	}
	return nil
}

// ServeMetrics serves handler on addr at /metrics until ctx is cancelled.
func ServeMetrics(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	if handler == nil {
		return NewObservabilityError(ErrMetricsRegistration, "no scrape handler: metrics provider is not prometheus")
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics", "address", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return WrapObservabilityError(ErrExporterConnection, "metrics server failed", err)
	}
	return nil
}

// RetrievalMetrics records turn, operation and grounding measurements.
type RetrievalMetrics struct {
	turns        metric.Int64Counter
	turnDuration metric.Float64Histogram
	operations   metric.Int64Counter
	opDuration   metric.Float64Histogram
	violations   metric.Int64Counter
}

// NewRetrievalMetrics creates the retrieval instruments on meter.
func NewRetrievalMetrics(meter metric.Meter) (*RetrievalMetrics, error) {
	var (
		m    RetrievalMetrics
		errs []error
		err  error
	)

	m.turns, err = meter.Int64Counter("casegraph.turns",
		metric.WithDescription("Conversation turns answered"),
		metric.WithUnit("{turn}"))
	errs = append(errs, err)

	m.turnDuration, err = meter.Float64Histogram("casegraph.turn.duration",
		metric.WithDescription("Time to answer one turn"),
		metric.WithUnit("ms"))
	errs = append(errs, err)

	m.operations, err = meter.Int64Counter("casegraph.operations",
		metric.WithDescription("Query operations executed"),
		metric.WithUnit("{operation}"))
	errs = append(errs, err)

	m.opDuration, err = meter.Float64Histogram("casegraph.operation.duration",
		metric.WithDescription("Time to execute one query operation"),
		metric.WithUnit("ms"))
	errs = append(errs, err)

	m.violations, err = meter.Int64Counter("casegraph.grounding.violations",
		metric.WithDescription("Ungrounded claims found in generated answers"),
		metric.WithUnit("{claim}"))
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return nil, WrapObservabilityError(ErrMetricsRegistration, "failed to create retrieval instruments", err)
	}
	return &m, nil
}

func (m *RetrievalMetrics) RecordTurn(ctx context.Context, status, source string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("status", status),
		attribute.String("answer_source", source),
	)
	m.turns.Add(ctx, 1, attrs)
	m.turnDuration.Record(ctx, durationMs(duration), attrs)
}

func (m *RetrievalMetrics) RecordOperation(ctx context.Context, kind, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("status", status),
	)
	m.operations.Add(ctx, 1, attrs)
	m.opDuration.Record(ctx, durationMs(duration), attrs)
}

func (m *RetrievalMetrics) RecordViolations(ctx context.Context, count int) {
	if count <= 0 {
		return
	}
	m.violations.Add(ctx, int64(count))
}

func durationMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
