package observability

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/types"
)

// HealthChecker is implemented by components that report their health.
type HealthChecker interface {
	Health(ctx context.Context) types.HealthStatus
}

// HealthCheckerFunc adapts a function to HealthChecker.
type HealthCheckerFunc func(ctx context.Context) types.HealthStatus

func (f HealthCheckerFunc) Health(ctx context.Context) types.HealthStatus {
	return f(ctx)
}

type componentState struct {
	checker    HealthChecker
	lastStatus types.HealthStatus
}

// HealthMonitor checks registered components, records a health gauge per
// component and logs state transitions. It is safe for concurrent use.
type HealthMonitor struct {
	gauge      metric.Int64Gauge
	logger     *slog.Logger
	components map[string]*componentState
	mu         sync.RWMutex
}

// NewHealthMonitor creates a monitor. A nil meter disables the gauge.
func NewHealthMonitor(meter metric.Meter, logger *slog.Logger) *HealthMonitor {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter(MeterName)
	}
	if logger == nil {
		logger = slog.Default()
	}
	gauge, err := meter.Int64Gauge("casegraph.health.status",
		metric.WithDescription("1 when the component is healthy, 0 otherwise"))
	if err != nil {
		gauge, _ = noop.NewMeterProvider().Meter(MeterName).Int64Gauge("casegraph.health.status")
	}
	return &HealthMonitor{
		gauge:      gauge,
		logger:     logger.With("component", "health"),
		components: make(map[string]*componentState),
	}
}

// Register adds or replaces a monitored component.
func (h *HealthMonitor) Register(name string, checker HealthChecker) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Start unhealthy so the first healthy check logs a recovery.
	h.components[name] = &componentState{
		checker:    checker,
		lastStatus: types.NewHealthStatus(types.HealthStateUnhealthy, "not yet checked"),
	}
}

// Check runs the health check of one component.
func (h *HealthMonitor) Check(ctx context.Context, name string) (types.HealthStatus, error) {
	h.mu.RLock()
	state, exists := h.components[name]
	h.mu.RUnlock()

	if !exists {
		return types.HealthStatus{}, fmt.Errorf("component %q is not registered", name)
	}

	status := state.checker.Health(ctx)
	h.update(ctx, name, state, status)
	return status, nil
}

// CheckAll runs every registered check without holding the lock.
func (h *HealthMonitor) CheckAll(ctx context.Context) map[string]types.HealthStatus {
	h.mu.RLock()
	snapshot := make(map[string]*componentState, len(h.components))
	for name, state := range h.components {
		snapshot[name] = state
	}
	h.mu.RUnlock()

	results := make(map[string]types.HealthStatus, len(snapshot))
	for name, state := range snapshot {
		status := state.checker.Health(ctx)
		results[name] = status
		h.update(ctx, name, state, status)
	}
	return results
}

// Overall folds component results into the worst state, naming the
// components that are not healthy.
func Overall(results map[string]types.HealthStatus) types.HealthStatus {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	worst := types.HealthStateHealthy
	var failing []string
	for _, name := range names {
		st := results[name].State
		if st == types.HealthStateHealthy {
			continue
		}
		failing = append(failing, name)
		if st.WorseThan(worst) {
			worst = st
		}
	}

	if len(failing) == 0 {
		return types.Healthy("all components healthy")
	}
	return types.NewHealthStatus(worst, fmt.Sprintf("not healthy: %v", failing))
}

func (h *HealthMonitor) update(ctx context.Context, name string, state *componentState, status types.HealthStatus) {
	h.mu.Lock()
	previous := state.lastStatus.State
	state.lastStatus = status
	h.mu.Unlock()

	var value int64
	if status.IsHealthy() {
		value = 1
	}
	h.gauge.Record(ctx, value, metric.WithAttributes(attribute.String("component", name)))

	if previous == status.State {
		return
	}
	args := []any{
		"checked_component", name,
		"previous_state", string(previous),
		"current_state", string(status.State),
		"message", status.Message,
	}
	switch {
	case previous == types.HealthStateHealthy:
		h.logger.ErrorContext(ctx, "component health degraded", args...)
	case status.IsHealthy():
		h.logger.InfoContext(ctx, "component health recovered", args...)
	default:
		h.logger.WarnContext(ctx, "component health state changed", args...)
	}
}
