package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/conversation"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/entity"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/intent"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/query"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/schema"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/types"
)

var (
	crew   = entity.Candidate{Type: schema.NodeTypeOrganization, Text: "West Side Crew", ID: "O001", Name: "West Side Crew"}
	marcus = entity.Candidate{Type: schema.NodeTypePerson, Text: "Marcus Johnson", ID: "P001", Name: "Marcus Johnson"}
	ghost  = entity.Candidate{Type: schema.NodeTypePerson, Text: "Keisha Brown", Name: "Keisha Brown"}
	tyrone = entity.Candidate{Type: schema.NodeTypePerson, Text: "Tyrone Williams", ID: "P002", Name: "Tyrone Williams"}
	block  = entity.Candidate{Type: schema.NodeTypeLocation, Text: "014XX N ASHLAND AVE", ID: "014XX N ASHLAND AVE", Name: "014XX N ASHLAND AVE"}
)

func set(cs ...entity.Candidate) entity.Set {
	var s entity.Set
	for _, c := range cs {
		s.Add(c)
	}
	return s
}

func kinds(ops []query.Operation) []query.Kind {
	out := make([]query.Kind, len(ops))
	for i, op := range ops {
		out[i] = op.Kind
	}
	return out
}

// A follow-up question resolves "their" to the previous organization and
// yields exactly one membership traversal bound to it.
func TestPlan_FollowUpMembership(t *testing.T) {
	session := conversation.NewSession()
	tk := session.Begin()
	require.NoError(t, session.Commit(tk, conversation.Turn{
		Question:   "Who runs the West Side Crew?",
		Recognized: set(crew),
	}))

	question := "Show me their members"
	res := conversation.Resolve(question, entity.Set{}, session.Context())
	assert.Equal(t, set(crew), res.Effective)

	in := intent.NewClassifier(2, 3).Classify(question, res.Effective)
	ops, err := New(DefaultConfig()).Plan(in)
	require.NoError(t, err)
	require.Len(t, ops, 1)

	op := ops[0]
	assert.Equal(t, "op1", op.ID)
	assert.Equal(t, query.KindRelation, op.Kind)
	assert.Equal(t, query.RelationMembership, op.Relation)
	assert.Equal(t, query.Anchor{Type: schema.NodeTypeOrganization, ID: "O001", Name: "West Side Crew"}, op.Anchor)
}

func TestPlan(t *testing.T) {
	p := New(DefaultConfig())

	tests := []struct {
		name  string
		in    intent.Intent
		kinds []query.Kind
	}{
		{
			name:  "entity lookup per entity",
			in:    intent.EntityLookup{Entities: set(marcus, crew)},
			kinds: []query.Kind{query.KindEntityAttributes, query.KindEntityAttributes},
		},
		{
			name: "unsupported relation falls back to attributes",
			in: intent.RelationLookup{
				Entities:  set(crew),
				Relations: []query.Relation{query.RelationFamily},
			},
			kinds: []query.Kind{query.KindEntityAttributes},
		},
		{
			name: "relation cues fan out",
			in: intent.RelationLookup{
				Entities:  set(marcus),
				Relations: []query.Relation{query.RelationAssociates, query.RelationOwnership, query.RelationIncidents},
			},
			kinds: []query.Kind{query.KindRelation, query.KindRelation, query.KindRelation},
		},
		{
			name:  "traversal",
			in:    intent.Traversal{Origins: []entity.Candidate{marcus}, Depth: 2},
			kinds: []query.Kind{query.KindTraversal},
		},
		{
			name:  "graph-wide co-occurrence",
			in:    intent.CoOccurrence{CrossOrgOnly: true},
			kinds: []query.Kind{query.KindCoOccurrence},
		},
		{
			name:  "path",
			in:    intent.PathBetween{From: marcus, To: tyrone},
			kinds: []query.Kind{query.KindShortestPath, query.KindEntityAttributes, query.KindEntityAttributes},
		},
		{
			name:  "influence",
			in:    intent.InfluenceRanking{},
			kinds: []query.Kind{query.KindInfluence},
		},
		{
			name:  "bridges",
			in:    intent.BridgeDetection{},
			kinds: []query.Kind{query.KindBridges},
		},
		{
			name:  "hidden",
			in:    intent.HiddenCommunity{},
			kinds: []query.Kind{query.KindHiddenCommunities},
		},
		{
			name:  "degree",
			in:    intent.DegreeRanking{},
			kinds: []query.Kind{query.KindDegree},
		},
		{
			name:  "hotspots",
			in:    intent.HotspotScan{},
			kinds: []query.Kind{query.KindHotspots, query.KindLocationRisk},
		},
		{
			name:  "location risk",
			in:    intent.HotspotScan{Locations: []entity.Candidate{block}},
			kinds: []query.Kind{query.KindLocationRisk, query.KindRelation},
		},
		{
			name:  "aggregate",
			in:    intent.Aggregate{Facets: []query.Facet{query.FacetWeapons}},
			kinds: []query.Kind{query.KindNodeCounts, query.KindRelationCounts, query.KindNetworkStats, query.KindListing},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops, err := p.Plan(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.kinds, kinds(ops))
			for i, op := range ops {
				assert.Equal(t, "op"+string(rune('1'+i)), op.ID)
			}
		})
	}
}

func TestPlan_UnresolvedEntityStillPlanned(t *testing.T) {
	ops, err := New(DefaultConfig()).Plan(intent.RelationLookup{
		Entities:  set(ghost),
		Relations: []query.Relation{query.RelationIncidents},
	})
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Empty(t, ops[0].Anchor.ID)
	assert.Equal(t, "Keisha Brown", ops[0].Anchor.Name)

	stmt, err := query.Render(ops[0])
	require.NoError(t, err)
	assert.Contains(t, stmt.Cypher, "toLower")
}

func TestPlan_CapsOperationCount(t *testing.T) {
	p := New(Config{MaxOperations: 7})
	ops, err := p.Plan(intent.Aggregate{Facets: []query.Facet{
		query.FacetWeapons, query.FacetVehicles, query.FacetEvidence,
		query.FacetInvestigators, query.FacetOrganizations, query.FacetRepeatOffenders,
	}})
	require.NoError(t, err)
	assert.Len(t, ops, 7)
	assert.Equal(t, "op7", ops[6].ID)
}

func TestPlan_RankingsUseTopN(t *testing.T) {
	ops, err := New(Config{TopN: 5}).Plan(intent.InfluenceRanking{})
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, 5, ops[0].Limit)
}

func TestPlan_NilIntent(t *testing.T) {
	_, err := New(DefaultConfig()).Plan(nil)
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.INVALID_OPERATION))
}
