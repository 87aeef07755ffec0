package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManishKondoju/CrimeInvestigationGraph/cmd/casegraph/internal"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/config"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/engine"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/facts"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/graph"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/query"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/types"
)

// caseResponder answers the name index queries and the queries planned for
// questions about the West Side Crew.
func caseResponder(cypher string, _ map[string]any) (graph.QueryResult, error) {
	switch {
	case strings.Contains(cypher, "RETURN o.id AS id, o.name AS name"):
		return graph.Rows([]string{"id", "name"}, []any{"O001", "West Side Crew"}), nil
	case strings.Contains(cypher, "RETURN p.id AS id, p.name AS name, p.alias AS alias"):
		return graph.Rows([]string{"id", "name", "alias"},
			[]any{"P001", "Marcus Johnson", "MJ"},
			[]any{"P002", "Tyrone Williams", nil},
		), nil
	case strings.Contains(cypher, "MEMBER_OF]->(a:Organization)"):
		return graph.Rows([]string{"organization", "id", "member", "age", "rank"},
			[]any{"West Side Crew", "P001", "Marcus Johnson", int64(27), "leader"},
			[]any{"West Side Crew", "P002", "Tyrone Williams", int64(31), nil},
		), nil
	case strings.Contains(cypher, "MATCH (n:Organization)"):
		return graph.Rows([]string{"id", "name", "type", "territory"},
			[]any{"O001", "West Side Crew", "Organization", "West Side"},
		), nil
	}
	return graph.QueryResult{}, nil
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Graph.Password = "test"
	cfg.Logging.Level = "error"
	return cfg
}

// useMockClient routes newApp to a mock graph client for the test.
func useMockClient(t *testing.T, client *graph.MockGraphClient) {
	t.Helper()
	orig := newGraphClient
	newGraphClient = func(graph.GraphClientConfig) (graph.GraphClient, error) {
		return client, nil
	}
	t.Cleanup(func() { newGraphClient = orig })
}

func newTestApp(t *testing.T, client *graph.MockGraphClient, requireStore bool) *app {
	t.Helper()
	useMockClient(t, client)

	a, err := newApp(context.Background(), testConfig(), io.Discard, appOptions{requireStore: requireStore})
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func TestNewApp_StoreUnavailable(t *testing.T) {
	client := graph.NewMockGraphClient()
	client.SetConnectError(types.NewRetryableError(graph.ErrCodeGraphConnectionFailed, "dial tcp: connection refused"))
	useMockClient(t, client)

	_, err := newApp(context.Background(), testConfig(), io.Discard, appOptions{requireStore: true})

	require.Error(t, err)
	assert.Equal(t, internal.ExitStoreUnavailable, internal.ExitCode(err))
}

func TestNewApp_StoreOptional(t *testing.T) {
	client := graph.NewMockGraphClient()
	client.SetConnectError(types.NewRetryableError(graph.ErrCodeGraphConnectionFailed, "dial tcp: connection refused"))
	a := newTestApp(t, client, false)

	results := a.monitor.CheckAll(context.Background())
	require.Contains(t, results, "graph")
	require.Contains(t, results, "index")
	assert.Equal(t, types.HealthStateDegraded, results["index"].State)
}

func TestNewApp_HealthReflectsStore(t *testing.T) {
	client := graph.NewMockGraphClient()
	client.SetHealthStatus(types.Degraded("replica lagging"))
	a := newTestApp(t, client, true)

	results := a.monitor.CheckAll(context.Background())
	assert.Equal(t, types.HealthStateDegraded, results["graph"].State)
	assert.Equal(t, "replica lagging", results["graph"].Message)
}

func TestChatLoop(t *testing.T) {
	client := graph.NewMockGraphClient()
	client.SetResponder(caseResponder)
	a := newTestApp(t, client, true)

	ctx := context.Background()
	_, err := a.engine.RefreshIndex(ctx)
	require.NoError(t, err)

	in := strings.NewReader("Tell me about the West Side Crew\n\nShow me their members\nexit\nWho is MJ?\n")
	var out bytes.Buffer

	require.NoError(t, chatLoop(ctx, a.engine, a.logger, in, &out, false))

	text := out.String()
	assert.Contains(t, text, "West Side Crew")
	assert.Contains(t, text, "Tyrone Williams")
	assert.NotContains(t, text, "casegraph> ")
}

func TestChatLoop_ContinuesAfterStoreError(t *testing.T) {
	client := graph.NewMockGraphClient()
	client.SetResponder(caseResponder)
	a := newTestApp(t, client, true)

	ctx := context.Background()
	_, err := a.engine.RefreshIndex(ctx)
	require.NoError(t, err)

	client.SetQueryError(types.NewRetryableError(graph.ErrCodeGraphConnectionLost, "bolt: connection reset by peer"))

	in := strings.NewReader("Tell me about the West Side Crew\nWho are the members of the West Side Crew?\n")
	var out bytes.Buffer

	require.NoError(t, chatLoop(ctx, a.engine, a.logger, in, &out, false))
	assert.Equal(t, 2, strings.Count(out.String(), graphrag.MessageUnavailable))
}

func TestAnalyticsCommands_Operations(t *testing.T) {
	want := map[string][]query.Kind{
		"influence": {query.KindInfluence},
		"bridges":   {query.KindBridges},
		"hidden":    {query.KindHiddenCommunities},
		"hubs":      {query.KindDegree},
		"hotspots":  {query.KindHotspots},
		"locations": {query.KindLocationRisk},
		"stats":     {query.KindNodeCounts, query.KindRelationCounts, query.KindNetworkStats},
	}

	require.Len(t, analyticsCommands, len(want))
	for _, ac := range analyticsCommands {
		t.Run(ac.use, func(t *testing.T) {
			kinds, ok := want[ac.use]
			require.True(t, ok, "unexpected subcommand %s", ac.use)

			ops := ac.ops(7)
			require.Len(t, ops, len(kinds))
			for i, op := range ops {
				assert.Equal(t, kinds[i], op.Kind)
			}
		})
	}
}

func TestRenderResponse(t *testing.T) {
	resp := &engine.Response{
		TurnID:   "turn-1",
		Question: "Who leads the West Side Crew?",
		Answer:   "Marcus Johnson leads the West Side Crew.",
		Status:   engine.StatusOK,
		QueryLog: []facts.LoggedQuery{
			{OperationID: "op1", Name: "members of West Side Crew", Status: "ok", RowCount: 2, DurationMS: 12},
			{OperationID: "op2", Name: "incidents of West Side Crew", Status: "timeout", Error: "query timed out"},
		},
	}

	t.Run("text with queries", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, renderResponse(&out, internal.FormatText, resp, true))

		text := out.String()
		assert.Contains(t, text, "Marcus Johnson leads the West Side Crew.")
		assert.Contains(t, text, "members of West Side Crew")
		assert.Contains(t, text, "timeout (query timed out)")
	})

	t.Run("text without queries", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, renderResponse(&out, internal.FormatText, resp, false))
		assert.NotContains(t, out.String(), "op1")
	})

	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, renderResponse(&out, internal.FormatJSON, resp, false))

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
		assert.Equal(t, "turn-1", decoded["turn_id"])
		assert.Len(t, decoded["query_log"], 2)
	})
}

func TestRenderBundle(t *testing.T) {
	b := &facts.Bundle{
		ResultSets: []facts.ResultSet{
			{Name: "location risk", Records: []facts.Record{
				{"location": "Englewood", "risk_score": 87.5, "risk_level": "critical"},
				{"location": "Austin", "risk_score": 40.0, "risk_level": "medium"},
			}},
			{Name: "hidden communities", Status: "empty"},
		},
		QueryLog: []facts.LoggedQuery{
			{OperationID: "op1", Name: "location risk", Status: "ok", RowCount: 2},
			{OperationID: "op2", Name: "hidden communities", Status: "empty"},
			{OperationID: "op3", Name: "bridges", Status: "failed", Error: "query failed"},
		},
	}

	var out bytes.Buffer
	require.NoError(t, renderBundle(&out, internal.FormatText, b))

	text := out.String()
	assert.Contains(t, text, "location risk (2)")
	assert.Contains(t, text, "RISK LEVEL")
	assert.Contains(t, text, "Englewood")
	assert.Contains(t, text, "critical")
	assert.Contains(t, text, "none found")
	assert.Contains(t, text, "bridges: failed")
}

func TestRedactConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Generator.APIKey = "sk-secret"

	redactedCfg := redactConfig(cfg)

	assert.Equal(t, redacted, redactedCfg.Graph.Password)
	assert.Equal(t, redacted, redactedCfg.Generator.APIKey)
	assert.Equal(t, "test", cfg.Graph.Password, "original must not change")
}
