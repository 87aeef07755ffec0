// Package executor runs query operations against the graph store with bounded
// parallelism, a deadline per operation and failure isolation.
package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/analytics"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/graph"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/query"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/types"
)

// Status is the outcome class of one operation.
type Status string

const (
	StatusOK      Status = "ok"
	StatusEmpty   Status = "empty"
	StatusFailed  Status = "failed"
	StatusTimeout Status = "timeout"
)

// Succeeded reports whether the operation produced a usable (possibly empty) result.
func (s Status) Succeeded() bool {
	return s == StatusOK || s == StatusEmpty
}

// Outcome is the result of executing one operation.
type Outcome struct {
	Operation  query.Operation
	Status     Status
	Records    []map[string]any
	Statements []query.Statement
	Err        error
	Duration   time.Duration
}

// AnalyticsRunner computes analytics operations.
type AnalyticsRunner interface {
	Run(ctx context.Context, op query.Operation) (analytics.Result, error)
}

// Config bounds execution.
type Config struct {
	// Workers is the maximum number of operations in flight.
	Workers int
	// OperationTimeout is the deadline applied to each operation.
	OperationTimeout time.Duration
}

// DefaultConfig returns the executor defaults.
func DefaultConfig() Config {
	return Config{Workers: 4, OperationTimeout: 10 * time.Second}
}

// Executor dispatches operations. It is safe for concurrent use.
type Executor struct {
	client    graph.GraphClient
	analytics AnalyticsRunner
	cfg       Config
	logger    *slog.Logger
}

// New creates an executor. runner may be nil, in which case analytics
// operations fail individually.
func New(client graph.GraphClient, runner AnalyticsRunner, cfg Config, logger *slog.Logger) *Executor {
	def := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = def.OperationTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		client:    client,
		analytics: runner,
		cfg:       cfg,
		logger:    logger.With("component", "executor"),
	}
}

// Execute runs every operation and returns one outcome per operation, in plan
// order. A failing or timed-out operation never aborts the others.
//
// The returned error is non-nil only when the whole turn is lost: the caller's
// context ended, or every operation failed and at least one failure shows the
// store is unreachable.
func (e *Executor) Execute(ctx context.Context, ops []query.Operation) ([]Outcome, error) {
	outcomes := make([]Outcome, len(ops))

	var g errgroup.Group
	g.SetLimit(e.cfg.Workers)
	for i, op := range ops {
		g.Go(func() error {
			outcomes[i] = e.run(ctx, op)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return outcomes, err
	}
	if storeUnavailable(outcomes) {
		return outcomes, types.NewRetryableError(types.STORE_UNAVAILABLE, "graph store unreachable for every operation")
	}
	return outcomes, nil
}

func (e *Executor) run(ctx context.Context, op query.Operation) Outcome {
	start := time.Now()
	out := Outcome{Operation: op}

	opCtx, cancel := context.WithTimeout(ctx, e.cfg.OperationTimeout)
	defer cancel()
	opCtx = graph.WithQueryName(opCtx, string(op.Kind))

	var err error
	if op.Kind.IsAnalytics() {
		out.Records, out.Statements, err = e.runAnalytics(opCtx, op)
	} else {
		out.Records, out.Statements, err = e.runQuery(opCtx, op)
	}
	out.Duration = time.Since(start)

	switch {
	case err == nil && len(out.Records) == 0:
		out.Status = StatusEmpty
	case err == nil:
		out.Status = StatusOK
	case ctx.Err() == nil && (graph.IsTimeout(err) || errors.Is(opCtx.Err(), context.DeadlineExceeded)):
		out.Status = StatusTimeout
		out.Err = err
		out.Records = nil
	default:
		out.Status = StatusFailed
		out.Err = err
		out.Records = nil
	}

	if out.Err != nil {
		e.logger.WarnContext(ctx, "operation did not complete",
			"operation", op.ID,
			"kind", string(op.Kind),
			"status", string(out.Status),
			"duration_ms", out.Duration.Milliseconds(),
			"error", out.Err,
		)
	} else {
		e.logger.DebugContext(ctx, "operation completed",
			"operation", op.ID,
			"kind", string(op.Kind),
			"records", len(out.Records),
			"duration_ms", out.Duration.Milliseconds(),
		)
	}
	return out
}

func (e *Executor) runQuery(ctx context.Context, op query.Operation) ([]map[string]any, []query.Statement, error) {
	stmt, err := query.Render(op)
	if err != nil {
		return nil, nil, err
	}
	stmts := []query.Statement{stmt}

	res, err := e.client.Query(ctx, stmt.Cypher, stmt.Params)
	if err != nil {
		return nil, stmts, err
	}
	return res.Records, stmts, nil
}

func (e *Executor) runAnalytics(ctx context.Context, op query.Operation) ([]map[string]any, []query.Statement, error) {
	if e.analytics == nil {
		return nil, nil, types.NewError(types.INVALID_OPERATION, fmt.Sprintf("no analytics runner for %s", op.Kind))
	}
	res, err := e.analytics.Run(ctx, op)
	if err != nil {
		return nil, res.Statements, err
	}
	return res.Records, res.Statements, nil
}

// storeUnavailable reports whether no operation succeeded and the store
// itself was unreachable.
func storeUnavailable(outcomes []Outcome) bool {
	if len(outcomes) == 0 {
		return false
	}
	unreachable := false
	for _, o := range outcomes {
		if o.Status.Succeeded() {
			return false
		}
		if graph.IsConnectionError(o.Err) {
			unreachable = true
		}
	}
	return unreachable
}
