package graph

import (
	"context"
	"sync"
	"time"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/types"
)

// MockCall is one recorded call on MockGraphClient.
type MockCall struct {
	Method string
	Args   []any
	At     time.Time
}

// QueryResponder computes the rows for a statement. Prefer it over queued
// results when operations run concurrently and arrive in any order.
type QueryResponder func(cypher string, params map[string]any) (QueryResult, error)

// MockGraphClient is an in-memory GraphClient for tests. Query answers from,
// in order of preference: the configured error, the responder, the queue of
// results added with AddQueryResult, and finally an empty result.
type MockGraphClient struct {
	mu sync.Mutex

	connected  bool
	health     types.HealthStatus
	calls      []MockCall
	queue      []QueryResult
	responder  QueryResponder
	queryErr   error
	connectErr error
	delay      time.Duration
}

// NewMockGraphClient returns a disconnected mock that reports healthy once
// connected.
func NewMockGraphClient() *MockGraphClient {
	return &MockGraphClient{health: types.Healthy("mock graph client")}
}

func (m *MockGraphClient) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Connect")
	if m.connectErr != nil {
		return m.connectErr
	}
	m.connected = true
	return nil
}

func (m *MockGraphClient) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Close")
	m.connected = false
	return nil
}

func (m *MockGraphClient) Health(ctx context.Context) types.HealthStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.connected {
		return types.Unhealthy("not connected")
	}
	return m.health
}

func (m *MockGraphClient) Query(ctx context.Context, cypher string, params map[string]any) (QueryResult, error) {
	m.mu.Lock()
	m.record("Query", cypher, params)
	if !m.connected {
		m.mu.Unlock()
		return QueryResult{}, types.NewError(ErrCodeGraphConnectionClosed, "not connected")
	}
	delay, queryErr, responder := m.delay, m.queryErr, m.responder
	var next *QueryResult
	if queryErr == nil && responder == nil && len(m.queue) > 0 {
		next = &m.queue[0]
		m.queue = m.queue[1:]
	}
	m.mu.Unlock()

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return QueryResult{}, types.WrapRetryableError(ErrCodeGraphQueryTimeout, "query deadline exceeded", ctx.Err())
		}
	}

	switch {
	case queryErr != nil:
		return QueryResult{}, queryErr
	case responder != nil:
		return responder(cypher, params)
	case next != nil:
		return *next, nil
	}
	return QueryResult{Records: []map[string]any{}, Columns: []string{}}, nil
}

// record must be called with m.mu held.
func (m *MockGraphClient) record(method string, args ...any) {
	m.calls = append(m.calls, MockCall{Method: method, Args: args, At: time.Now()})
}

// AddQueryResult queues a result for the next unanswered Query.
func (m *MockGraphClient) AddQueryResult(result QueryResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, result)
}

// SetResponder answers every Query with fn.
func (m *MockGraphClient) SetResponder(fn QueryResponder) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responder = fn
}

// SetQueryError makes every Query fail with err. Nil clears it.
func (m *MockGraphClient) SetQueryError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryErr = err
}

// SetQueryDelay delays every Query by d, honouring context cancellation.
func (m *MockGraphClient) SetQueryDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// SetConnectError makes Connect fail with err.
func (m *MockGraphClient) SetConnectError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectErr = err
}

// SetHealthStatus sets the status reported while connected.
func (m *MockGraphClient) SetHealthStatus(status types.HealthStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.health = status
}

// GetCallsByMethod returns the recorded calls of one method, oldest first.
func (m *MockGraphClient) GetCallsByMethod(method string) []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []MockCall
	for _, c := range m.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// Rows builds a QueryResult from column names and positional rows.
func Rows(columns []string, rows ...[]any) QueryResult {
	result := QueryResult{Records: make([]map[string]any, 0, len(rows)), Columns: columns}
	for _, row := range rows {
		rec := make(map[string]any, len(columns))
		for i, col := range columns {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		result.Records = append(result.Records, rec)
	}
	return result
}

var (
	_ GraphClient = (*MockGraphClient)(nil)
	_ GraphClient = (*Neo4jClient)(nil)
)
