package graph

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/types"
)

const (
	attrQueryName   = attribute.Key("casegraph.graph.query_name")
	attrParamCount  = attribute.Key("casegraph.graph.param_count")
	attrRecordCount = attribute.Key("casegraph.graph.record_count")
	attrHealthState = attribute.Key("casegraph.graph.health")
)

type queryNameKey struct{}

// WithQueryName labels the queries issued with ctx so spans can be told apart.
func WithQueryName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, queryNameKey{}, name)
}

func queryNameFrom(ctx context.Context) string {
	if name, ok := ctx.Value(queryNameKey{}).(string); ok {
		return name
	}
	return "unnamed"
}

// TracedGraphClient wraps a GraphClient with OpenTelemetry spans.
//
// Span names:
//   - Connect: "casegraph.graph.connect"
//   - Query: "casegraph.graph.query"
//   - Health: "casegraph.graph.health"
type TracedGraphClient struct {
	inner  GraphClient
	tracer trace.Tracer
}

// NewTracedGraphClient wraps inner with tracing.
func NewTracedGraphClient(inner GraphClient, tracer trace.Tracer) *TracedGraphClient {
	return &TracedGraphClient{inner: inner, tracer: tracer}
}

// Connect establishes the inner connection inside a span.
func (c *TracedGraphClient) Connect(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "casegraph.graph.connect")
	defer span.End()

	if err := c.inner.Connect(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

// Close closes the inner client. Not traced.
func (c *TracedGraphClient) Close(ctx context.Context) error {
	return c.inner.Close(ctx)
}

// Health reports the inner client's health inside a span.
func (c *TracedGraphClient) Health(ctx context.Context) types.HealthStatus {
	ctx, span := c.tracer.Start(ctx, "casegraph.graph.health")
	defer span.End()

	status := c.inner.Health(ctx)
	span.SetAttributes(attrHealthState.String(status.State.String()))
	return status
}

// Query executes the inner query inside a span. The Cypher text itself is not
// attached; parameters may carry names typed by the user.
func (c *TracedGraphClient) Query(ctx context.Context, cypher string, params map[string]any) (QueryResult, error) {
	ctx, span := c.tracer.Start(ctx, "casegraph.graph.query",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attrQueryName.String(queryNameFrom(ctx)),
			attrParamCount.Int(len(params)),
		),
	)
	defer span.End()

	result, err := c.inner.Query(ctx, cypher, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return result, err
	}

	span.SetAttributes(attrRecordCount.Int(len(result.Records)))
	span.SetStatus(codes.Ok, "")
	return result, nil
}

var _ GraphClient = (*TracedGraphClient)(nil)
