package graph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/types"
)

// Neo4jClient is the GraphClient backed by a Neo4j driver. The driver owns
// the connection pool; every Query borrows one session and returns it before
// the call completes.
type Neo4jClient struct {
	cfg    GraphClientConfig
	driver neo4j.DriverWithContext
}

// NewNeo4jClient validates cfg. Call Connect before issuing queries.
func NewNeo4jClient(cfg GraphClientConfig) (*Neo4jClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ConnectRetries = max(cfg.ConnectRetries, 1)
	return &Neo4jClient{cfg: cfg}, nil
}

const firstRetryDelay = 100 * time.Millisecond

// Connect dials the store and verifies connectivity, retrying with a
// doubling delay bounded by ConnectionTimeout.
func (c *Neo4jClient) Connect(ctx context.Context) error {
	var lastErr error
	wait := firstRetryDelay
	for attempt := 1; attempt <= c.cfg.ConnectRetries; attempt++ {
		drv, err := c.dial(ctx)
		if err == nil {
			c.driver = drv
			return nil
		}
		lastErr = err
		if attempt == c.cfg.ConnectRetries {
			break
		}

		timer := time.NewTimer(min(wait, c.cfg.ConnectionTimeout))
		select {
		case <-ctx.Done():
			timer.Stop()
			return types.WrapError(ErrCodeGraphConnectionFailed, "connect cancelled", ctx.Err())
		case <-timer.C:
		}
		wait *= 2
	}
	if ctx.Err() != nil {
		return types.WrapError(ErrCodeGraphConnectionFailed, "connect cancelled", ctx.Err())
	}
	return types.WrapRetryableError(ErrCodeGraphConnectionFailed,
		fmt.Sprintf("no connection to %s after %d attempts", c.cfg.URI, c.cfg.ConnectRetries), lastErr)
}

func (c *Neo4jClient) dial(ctx context.Context) (neo4j.DriverWithContext, error) {
	drv, err := neo4j.NewDriverWithContext(c.cfg.URI,
		neo4j.BasicAuth(c.cfg.Username, c.cfg.Password, ""),
		func(nc *neo4j.Config) {
			if c.cfg.MaxConnectionPoolSize > 0 {
				nc.MaxConnectionPoolSize = c.cfg.MaxConnectionPoolSize
			}
			nc.ConnectionAcquisitionTimeout = c.cfg.ConnectionTimeout
			nc.MaxTransactionRetryTime = c.cfg.MaxTransactionRetryTime
		})
	if err != nil {
		return nil, err
	}
	if err := drv.VerifyConnectivity(ctx); err != nil {
		_ = drv.Close(ctx)
		return nil, err
	}
	return drv, nil
}

// Close shuts the driver down. Closing an unconnected client is a no-op.
func (c *Neo4jClient) Close(ctx context.Context) error {
	drv := c.driver
	if drv == nil {
		return nil
	}
	c.driver = nil
	if err := drv.Close(ctx); err != nil {
		return types.WrapError(ErrCodeGraphConnectionClosed, "closing neo4j driver", err)
	}
	return nil
}

const healthCheckTimeout = 5 * time.Second

// Health checks connectivity with a short deadline.
func (c *Neo4jClient) Health(ctx context.Context) types.HealthStatus {
	if c.driver == nil {
		return types.Unhealthy("no open connection to the case graph")
	}
	checkCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	if err := c.driver.VerifyConnectivity(checkCtx); err != nil {
		return types.Unhealthy(fmt.Sprintf("case graph unreachable: %v", err))
	}
	return types.Healthy("case graph reachable at " + c.cfg.URI)
}

// Query runs cypher in a managed read transaction.
func (c *Neo4jClient) Query(ctx context.Context, cypher string, params map[string]any) (QueryResult, error) {
	if c.driver == nil {
		return QueryResult{}, types.NewError(ErrCodeGraphConnectionClosed, "query on closed client")
	}

	began := time.Now()
	sess := c.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: c.cfg.Database,
		AccessMode:   neo4j.AccessModeRead,
	})
	defer sess.Close(ctx)

	out, err := neo4j.ExecuteRead(ctx, sess, func(tx neo4j.ManagedTransaction) (QueryResult, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return QueryResult{}, err
		}
		recs, err := res.Collect(ctx)
		if err != nil {
			return QueryResult{}, err
		}
		return flattenRecords(recs), nil
	})
	if err != nil {
		return QueryResult{}, classifyQueryError(err)
	}
	out.Summary.ExecutionTime = time.Since(began)
	return out, nil
}

// classifyQueryError separates store unreachability and deadline expiry from
// ordinary query failures such as syntax errors.
func classifyQueryError(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return types.WrapRetryableError(ErrCodeGraphQueryTimeout, "query deadline exceeded", err)
	case neo4j.IsConnectivityError(err):
		return types.WrapRetryableError(ErrCodeGraphConnectionLost, "graph store unreachable", err)
	default:
		return types.WrapError(ErrCodeGraphQueryFailed, "query execution failed", err)
	}
}

// flattenRecords turns driver records into column maps of plain values.
func flattenRecords(recs []*neo4j.Record) QueryResult {
	qr := QueryResult{Columns: []string{}, Records: make([]map[string]any, len(recs))}
	if len(recs) > 0 {
		qr.Columns = recs[0].Keys
	}
	for n, rec := range recs {
		row := make(map[string]any, len(rec.Keys))
		for col, name := range rec.Keys {
			row[name] = flattenValue(rec.Values[col])
		}
		qr.Records[n] = row
	}
	return qr
}

// flattenValue converts driver-specific temporal and graph values into
// strings, numbers and slices.
func flattenValue(v any) any {
	switch val := v.(type) {
	case dbtype.Date:
		return val.Time().Format("2006-01-02")
	case dbtype.LocalDateTime:
		return val.Time().Format("2006-01-02T15:04:05")
	case dbtype.LocalTime:
		return val.Time().Format("15:04:05")
	case time.Time:
		return val.Format(time.RFC3339)
	case dbtype.Node:
		return flattenProps(val.Props)
	case dbtype.Relationship:
		return flattenProps(val.Props)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = flattenValue(item)
		}
		return out
	case map[string]any:
		return flattenProps(val)
	default:
		return v
	}
}

func flattenProps(props map[string]any) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = flattenValue(v)
	}
	return out
}
