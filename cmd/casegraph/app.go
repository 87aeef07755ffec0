package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/ManishKondoju/CrimeInvestigationGraph/cmd/casegraph/internal"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/config"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/engine"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/entity"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/generator"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/graph"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/observability"
)

const shutdownTimeout = 5 * time.Second

// newGraphClient opens the graph store client. Tests replace it.
var newGraphClient = func(cfg graph.GraphClientConfig) (graph.GraphClient, error) {
	return graph.NewNeo4jClient(cfg)
}

// app is the wired runtime of one command invocation.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	tracing *sdktrace.TracerProvider
	metrics *observability.MetricsProvider
	client  graph.GraphClient
	index   *entity.Refresher
	engine  *engine.Engine
	monitor *observability.HealthMonitor
}

type appOptions struct {
	// requireStore fails startup when the graph store cannot be reached.
	requireStore bool
}

func newApp(ctx context.Context, cfg *config.Config, logOut io.Writer, opts appOptions) (_ *app, err error) {
	logger, err := observability.NewLogger(cfg.Logging, logOut)
	if err != nil {
		return nil, internal.WrapError(internal.ExitConfigError, "invalid logging configuration", err)
	}

	a := &app{cfg: cfg, logger: logger}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	if a.tracing, err = observability.InitTracing(ctx, cfg.Tracing); err != nil {
		return nil, err
	}
	if a.metrics, err = observability.InitMetrics(ctx, cfg.Metrics); err != nil {
		return nil, err
	}
	recorder, err := observability.NewRetrievalMetrics(a.metrics.Meter())
	if err != nil {
		return nil, err
	}

	base, err := newGraphClient(cfg.Graph.ClientConfig())
	if err != nil {
		return nil, internal.WrapError(internal.ExitConfigError, "invalid graph configuration", err)
	}
	tracer := a.tracing.Tracer("casegraph")
	a.client = graph.NewTracedGraphClient(base, tracer)

	if err := a.client.Connect(ctx); err != nil {
		if opts.requireStore {
			return nil, internal.WrapError(internal.ExitStoreUnavailable, graphrag.MessageUnavailable, err)
		}
		logger.Warn("graph store unreachable", "uri", cfg.Graph.URI, "error", err)
	}

	gen, err := generator.New(cfg.Generator, logger)
	if err != nil {
		return nil, internal.WrapError(internal.ExitConfigError, "invalid generator configuration", err)
	}

	a.index = entity.NewRefresher(entity.NewGraphLoader(a.client), cfg.Entity.RefreshInterval, logger)
	a.engine, err = engine.New(cfg.Config, engine.Dependencies{
		Client:    a.client,
		Generator: gen,
		Index:     a.index,
		Tracer:    tracer,
		Metrics:   recorder,
		Logger:    logger,
	})
	if err != nil {
		return nil, internal.WrapError(internal.ExitConfigError, "invalid engine configuration", err)
	}

	a.monitor = observability.NewHealthMonitor(a.metrics.Meter(), logger)
	a.monitor.Register("graph", a.client)
	a.monitor.Register("index", a.index)
	return a, nil
}

// Close releases the store connection and flushes telemetry.
func (a *app) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if a.client != nil {
		if err := a.client.Close(ctx); err != nil {
			a.logger.Warn("failed to close graph client", "error", err)
		}
	}
	if a.metrics != nil {
		if err := a.metrics.Shutdown(ctx); err != nil {
			a.logger.Warn("failed to flush metrics", "error", err)
		}
	}
	if err := observability.ShutdownTracing(ctx, a.tracing); err != nil {
		a.logger.Warn("failed to flush traces", "error", err)
	}
}
