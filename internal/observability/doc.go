// Package observability provides the logging, tracing, metrics and health
// infrastructure of casegraph.
//
// # Logging
//
// Components log through log/slog. NewLogger builds a JSON or text handler
// from LoggingConfig with sensitive attributes redacted, and TracedLogger adds
// trace_id and span_id from the active span:
//
//	logger, err := observability.NewLogger(cfg.Logging, os.Stderr)
//	traced := observability.NewTracedLogger(logger.Handler(), session.ID, "chat")
//	traced.Info(ctx, "turn answered", "turn_id", resp.TurnID)
//
// # Tracing
//
// InitTracing installs an OpenTelemetry tracer provider exporting over OTLP
// gRPC. With tracing disabled it returns a provider that records nothing.
//
// # Metrics
//
// InitMetrics creates a meter provider backed by the Prometheus exporter or an
// OTLP metric exporter. RetrievalMetrics records per-turn and per-operation
// measurements under the "casegraph." prefix and is the engine's Recorder.
// ServeMetrics exposes the Prometheus registry over HTTP.
//
// # Health
//
// HealthMonitor aggregates the health of registered components, such as the
// graph store and the name index, into one overall state.
package observability
