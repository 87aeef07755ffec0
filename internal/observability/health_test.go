package observability

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/types"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func staticChecker(status types.HealthStatus) HealthCheckerFunc {
	return func(context.Context) types.HealthStatus { return status }
}

func TestHealthMonitor_CheckAll(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	monitor := NewHealthMonitor(provider.Meter(MeterName), discardLogger())
	monitor.Register("graph", staticChecker(types.Healthy("connected")))
	monitor.Register("index", staticChecker(types.Degraded("name index not loaded")))

	results := monitor.CheckAll(context.Background())
	require.Len(t, results, 2)
	assert.True(t, results["graph"].IsHealthy())
	assert.Equal(t, types.HealthStateDegraded, results["index"].State)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	gauge, ok := rm.ScopeMetrics[0].Metrics[0].Data.(metricdata.Gauge[int64])
	require.True(t, ok)

	values := make(map[string]int64)
	for _, p := range gauge.DataPoints {
		name, _ := p.Attributes.Value(attribute.Key("component"))
		values[name.AsString()] = p.Value
	}
	assert.Equal(t, map[string]int64{"graph": 1, "index": 0}, values)
}

func TestHealthMonitor_Check(t *testing.T) {
	monitor := NewHealthMonitor(nil, nil)
	monitor.Register("graph", staticChecker(types.Unhealthy("connection refused")))

	status, err := monitor.Check(context.Background(), "graph")
	require.NoError(t, err)
	assert.True(t, status.IsUnhealthy())

	_, err = monitor.Check(context.Background(), "cache")
	assert.ErrorContains(t, err, `"cache" is not registered`)
}

func TestOverall(t *testing.T) {
	tests := []struct {
		name    string
		results map[string]types.HealthStatus
		want    types.HealthState
		message string
	}{
		{
			name:    "no components",
			results: map[string]types.HealthStatus{},
			want:    types.HealthStateHealthy,
		},
		{
			name: "all healthy",
			results: map[string]types.HealthStatus{
				"graph": types.Healthy(""),
				"index": types.Healthy(""),
			},
			want: types.HealthStateHealthy,
		},
		{
			name: "degraded index",
			results: map[string]types.HealthStatus{
				"graph": types.Healthy(""),
				"index": types.Degraded(""),
			},
			want:    types.HealthStateDegraded,
			message: "[index]",
		},
		{
			name: "unhealthy wins",
			results: map[string]types.HealthStatus{
				"graph": types.Unhealthy(""),
				"index": types.Degraded(""),
			},
			want:    types.HealthStateUnhealthy,
			message: "[graph index]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overall(tt.results)
			assert.Equal(t, tt.want, got.State)
			if tt.message != "" {
				assert.Contains(t, got.Message, tt.message)
			}
		})
	}
}
