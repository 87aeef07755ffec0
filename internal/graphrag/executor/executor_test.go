package executor

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/analytics"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/graph"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/query"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/schema"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/types"
)

var crew = query.Anchor{Type: schema.NodeTypeOrganization, ID: "O001", Name: "West Side Crew"}

func connected(t *testing.T) *graph.MockGraphClient {
	t.Helper()
	client := graph.NewMockGraphClient()
	require.NoError(t, client.Connect(context.Background()))
	return client
}

type stubRunner struct {
	records []map[string]any
	err     error
	calls   atomic.Int32
}

func (s *stubRunner) Run(ctx context.Context, op query.Operation) (analytics.Result, error) {
	s.calls.Add(1)
	if s.err != nil {
		return analytics.Result{}, s.err
	}
	return analytics.Result{Records: s.records, Statements: []query.Statement{{Cypher: "MATCH (p:Person) RETURN p"}}}, nil
}

func TestExecute_IsolatesFailures(t *testing.T) {
	client := connected(t)
	client.SetResponder(func(cypher string, params map[string]any) (graph.QueryResult, error) {
		switch {
		case strings.Contains(cypher, "PARTY_TO"):
			return graph.QueryResult{}, types.NewError(graph.ErrCodeGraphQueryFailed, "syntax error")
		case strings.Contains(cypher, "MEMBER_OF"):
			return graph.Rows([]string{"member"}, []any{"Marcus Johnson"}, []any{"Tyrone Williams"}), nil
		default:
			return graph.QueryResult{}, nil
		}
	})

	ops := []query.Operation{
		query.OneHop(crew, query.RelationMembership, 25).WithID("op1"),
		query.OneHop(crew, query.RelationIncidents, 25).WithID("op2"),
		query.EntityAttributes(crew).WithID("op3"),
	}
	outcomes, err := New(client, nil, DefaultConfig(), nil).Execute(context.Background(), ops)
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	assert.Equal(t, "op1", outcomes[0].Operation.ID)
	assert.Equal(t, StatusOK, outcomes[0].Status)
	assert.Len(t, outcomes[0].Records, 2)
	require.Len(t, outcomes[0].Statements, 1)
	assert.Equal(t, "O001", outcomes[0].Statements[0].Params["anchor_key"])

	assert.Equal(t, StatusFailed, outcomes[1].Status)
	assert.Error(t, outcomes[1].Err)
	assert.Nil(t, outcomes[1].Records)

	assert.Equal(t, StatusEmpty, outcomes[2].Status)
	assert.NoError(t, outcomes[2].Err)
}

func TestExecute_TimeoutIsPerOperation(t *testing.T) {
	client := connected(t)
	client.SetQueryDelay(200 * time.Millisecond)
	runner := &stubRunner{records: []map[string]any{{"name": "Marcus Johnson", "influence_score": 2.5}}}

	ops := []query.Operation{
		query.EntityAttributes(crew).WithID("op1"),
		query.Analytics(query.KindInfluence, 15).WithID("op2"),
	}
	exec := New(client, runner, Config{Workers: 2, OperationTimeout: 20 * time.Millisecond}, nil)
	outcomes, err := exec.Execute(context.Background(), ops)
	require.NoError(t, err)

	assert.Equal(t, StatusTimeout, outcomes[0].Status)
	assert.Equal(t, StatusOK, outcomes[1].Status)
	assert.Equal(t, int32(1), runner.calls.Load())
}

func TestExecute_StoreUnavailable(t *testing.T) {
	client := graph.NewMockGraphClient() // never connected

	ops := []query.Operation{
		query.EntityAttributes(crew).WithID("op1"),
		query.NodeCounts().WithID("op2"),
	}
	outcomes, err := New(client, nil, DefaultConfig(), nil).Execute(context.Background(), ops)
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.STORE_UNAVAILABLE))
	assert.True(t, types.IsRetryable(err))
	assert.Len(t, outcomes, 2)
}

func TestExecute_AllFailedWithoutConnectionLossIsNotFatal(t *testing.T) {
	client := connected(t)
	client.SetQueryError(types.NewError(graph.ErrCodeGraphQueryFailed, "bad query"))

	outcomes, err := New(client, nil, DefaultConfig(), nil).Execute(context.Background(), []query.Operation{
		query.NodeCounts().WithID("op1"),
	})
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, outcomes[0].Status)
}

func TestExecute_AnalyticsWithoutRunner(t *testing.T) {
	outcomes, err := New(connected(t), nil, DefaultConfig(), nil).Execute(context.Background(), []query.Operation{
		query.Analytics(query.KindBridges, 5).WithID("op1"),
		query.NodeCounts().WithID("op2"),
	})
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, outcomes[0].Status)
	assert.True(t, types.HasCode(outcomes[0].Err, types.INVALID_OPERATION))
	assert.Equal(t, StatusEmpty, outcomes[1].Status)
}

func TestExecute_CanceledContext(t *testing.T) {
	client := connected(t)
	client.SetQueryDelay(time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(client, nil, DefaultConfig(), nil).Execute(ctx, []query.Operation{query.NodeCounts().WithID("op1")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecute_BoundedParallelism(t *testing.T) {
	client := connected(t)
	var inFlight, peak atomic.Int32
	client.SetResponder(func(string, map[string]any) (graph.QueryResult, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		inFlight.Add(-1)
		return graph.Rows([]string{"n"}, []any{int64(1)}), nil
	})

	var ops []query.Operation
	for i := 0; i < 7; i++ {
		ops = append(ops, query.NodeCounts().WithID("op"))
	}
	outcomes, err := New(client, nil, Config{Workers: 2}, nil).Execute(context.Background(), ops)
	require.NoError(t, err)
	assert.Len(t, outcomes, 7)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}
