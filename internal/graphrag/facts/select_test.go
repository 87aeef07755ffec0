package facts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect(t *testing.T) {
	b := Assemble("t1", "Who are the members of the West Side Crew?", sampleOutcomes())

	tests := []struct {
		name string
		path string
		want []any
	}{
		{
			name: "record field across result sets",
			path: "$.result_sets[0].records[*].member",
			want: []any{"Marcus Johnson", "Tyrone Williams"},
		},
		{
			name: "integers stay integers",
			path: "$.result_sets[0].records[0].age",
			want: []any{json.Number("27")},
		},
		{
			name: "query log ids",
			path: "$.query_log[*].operation_id",
			want: []any{"op1", "op2", "op3", "op4"},
		},
		{
			name: "no match",
			path: "$.result_sets[*].records[*].nickname",
			want: []any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Select(b, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelect_InvalidPath(t *testing.T) {
	b := Assemble("t1", "q", sampleOutcomes())
	_, err := Select(b, "$.result_sets[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSONPath")
}

func TestSelect_NilBundle(t *testing.T) {
	_, err := Select(nil, "$.query_log")
	require.Error(t, err)
}
