package facts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/executor"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/graph"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/query"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/schema"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/types"
)

var crew = query.Anchor{Type: schema.NodeTypeOrganization, ID: "O001", Name: "West Side Crew"}

func sampleOutcomes() []executor.Outcome {
	members := query.OneHop(crew, query.RelationMembership, 25).WithID("op1")
	evidence := query.OneHop(crew, query.RelationIncidents, 25).WithID("op2")
	risk := query.Analytics(query.KindInfluence, 15).WithID("op3")
	broken := query.NodeCounts().WithID("op4")

	return []executor.Outcome{
		{
			Operation: members,
			Status:    executor.StatusOK,
			Records: []map[string]any{
				{"member": "Marcus Johnson", "age": int64(27), "rank": "leader"},
				{"member": "Tyrone Williams", "age": 31, "rank": nil},
				{"member": "Marcus Johnson", "age": int64(27), "rank": "leader"},
			},
			Statements: []query.Statement{{Cypher: "MATCH ...", Params: map[string]any{"anchor_key": "O001", "limit": int64(25)}}},
			Duration:   12 * time.Millisecond,
		},
		{
			Operation:  evidence,
			Status:     executor.StatusEmpty,
			Statements: []query.Statement{{Cypher: "MATCH ..."}},
		},
		{
			Operation: risk,
			Status:    executor.StatusOK,
			Records: []map[string]any{
				{"name": "Marcus Johnson", "influence_score": 3.0, "incidents": int64(4), "ratio": 0.25},
				{"name": "Tyrone Williams", "influence_score": 2.5, "crime_types": []string{"THEFT", "BATTERY"}},
			},
		},
		{
			Operation: broken,
			Status:    executor.StatusFailed,
			Err:       types.WrapError(graph.ErrCodeGraphQueryFailed, "Neo.ClientError.Statement.SyntaxError: Invalid input 'RETRUN'", errors.New("raw")),
		},
	}
}

func TestAssemble(t *testing.T) {
	b := Assemble("turn-1", "Show me their members", sampleOutcomes())

	assert.Equal(t, "turn-1", b.TurnID)
	assert.False(t, b.NoData)

	// The failed operation is logged but contributes no result set.
	require.Len(t, b.ResultSets, 3)
	require.Len(t, b.QueryLog, 4)

	members := b.ResultSets[0]
	assert.Equal(t, "op1", members.OperationID)
	assert.Equal(t, "membership: West Side Crew", members.Name)
	require.Len(t, members.Records, 2, "identical records collapse")
	assert.Equal(t, int64(31), members.Records[1]["age"])

	empty, ok := b.ResultSet("op2")
	require.True(t, ok)
	assert.True(t, empty.IsEmpty())
	assert.NotNil(t, empty.Records)

	ranking, _ := b.ResultSet("op3")
	assert.Equal(t, []any{"THEFT", "BATTERY"}, ranking.Records[1]["crime_types"])

	assert.Equal(t, 2, b.QueryLog[0].RowCount)
	assert.Equal(t, int64(12), b.QueryLog[0].DurationMS)
	assert.Equal(t, int64(25), b.QueryLog[0].Statements[0].Params["limit"])

	failed := b.QueryLog[3]
	assert.Equal(t, executor.StatusFailed, failed.Status)
	assert.Equal(t, "operation failed (GRAPH_QUERY_FAILED)", failed.Error)
	assert.NotContains(t, failed.Error, "SyntaxError")

	assert.Equal(t, 4, b.RecordCount())
}

func TestAssemble_NoData(t *testing.T) {
	op := query.NodeCounts().WithID("op1")
	b := Assemble("t", "how many?", []executor.Outcome{
		{Operation: op, Status: executor.StatusTimeout, Err: context.DeadlineExceeded},
	})
	assert.True(t, b.NoData)
	assert.Empty(t, b.ResultSets)
	assert.Equal(t, "operation timed out", b.QueryLog[0].Error)

	b = Assemble("t", "how many?", []executor.Outcome{{Operation: op, Status: executor.StatusEmpty}})
	assert.True(t, b.NoData)
	assert.Len(t, b.ResultSets, 1)
}

func TestTransparency_RoundTrip(t *testing.T) {
	b := Assemble("turn-7", "Who runs the West Side Crew?", sampleOutcomes())

	data, err := MarshalTransparency(b)
	require.NoError(t, err)

	parsed, err := ParseTransparency(data)
	require.NoError(t, err)
	assert.Equal(t, b, parsed)

	// Whole-valued floats keep their type.
	ranking, _ := parsed.ResultSet("op3")
	assert.IsType(t, float64(0), ranking.Records[0]["influence_score"])
	assert.IsType(t, int64(0), ranking.Records[0]["incidents"])

	again, err := MarshalTransparency(parsed)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}

func TestRecord_JSON(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{"sorted keys", Record{"b": int64(1), "a": "x"}, `{"a":"x","b":1}`},
		{"whole float", Record{"score": 3.0}, `{"score":3.0}`},
		{"fraction", Record{"score": 0.25}, `{"score":0.25}`},
		{"exponent", Record{"tiny": 1e-9}, `{"tiny":1e-09}`},
		{"list", Record{"l": []any{int64(1), 2.0, "x", nil}}, `{"l":[1,2.0,"x",null]}`},
		{"nested", Record{"m": map[string]any{"z": true, "a": 1.5}}, `{"m":{"a":1.5,"z":true}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.rec.MarshalJSON()
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))

			var back Record
			require.NoError(t, back.UnmarshalJSON(data))
			assert.Equal(t, tt.rec, back)
		})
	}
}

func TestNormalizeRecord(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	r := NormalizeRecord(map[string]any{
		"i":  int32(4),
		"f":  float32(0.5),
		"ts": ts,
		"ss": []string{"a"},
	})
	assert.Equal(t, Record{"i": int64(4), "f": 0.5, "ts": "2024-03-01T12:00:00Z", "ss": []any{"a"}}, r)
}

func TestRenderText(t *testing.T) {
	b := Assemble("t", "q", sampleOutcomes())
	text := RenderText(b)

	assert.Contains(t, text, "membership: West Side Crew (2 records)")
	assert.Contains(t, text, "age: 27; member: Marcus Johnson; rank: leader")
	assert.Contains(t, text, "age: 31; member: Tyrone Williams")
	assert.Contains(t, text, "incidents: West Side Crew (0 records)\n  none found")
	assert.Contains(t, text, "influence_score: 2.5")
	assert.Contains(t, text, "crime_types: THEFT, BATTERY")
	assert.Contains(t, text, "Not available: node counts")

	assert.Equal(t, NoDataMessage, RenderText(&Bundle{NoData: true}))
}
