package graphrag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/executor"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/facts"
)

func TestBundleAttributes(t *testing.T) {
	tests := []struct {
		name   string
		bundle *facts.Bundle
		want   map[attribute.Key]attribute.Value
	}{
		{
			name:   "nil bundle",
			bundle: nil,
			want:   map[attribute.Key]attribute.Value{},
		},
		{
			name: "counts failed operations and records",
			bundle: &facts.Bundle{
				TurnID: "turn-7",
				ResultSets: []facts.ResultSet{
					{Records: []facts.Record{{"name": "Marcus Johnson"}, {"name": "Tyrone Williams"}}},
					{Records: []facts.Record{}},
				},
				QueryLog: []facts.LoggedQuery{
					{Status: executor.StatusOK},
					{Status: executor.StatusEmpty},
					{Status: executor.StatusTimeout},
				},
			},
			want: map[attribute.Key]attribute.Value{
				AttrTurnID:         attribute.StringValue("turn-7"),
				AttrOperationCount: attribute.IntValue(3),
				AttrFailedCount:    attribute.IntValue(1),
				AttrRecordCount:    attribute.IntValue(2),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := map[attribute.Key]attribute.Value{}
			for _, kv := range BundleAttributes(tt.bundle) {
				got[kv.Key] = kv.Value
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSpanNamesSharePrefix(t *testing.T) {
	for _, name := range []string{SpanTurn, SpanRecognize, SpanPlan, SpanExecute, SpanGenerate} {
		assert.Regexp(t, `^casegraph\.[a-z]+$`, name)
	}
}
