package analytics

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/graph"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/query"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/schema"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/types"
)

// influenceGraph has A with 3 incidents and 2 acquaintances and B with 1
// incident and 5 acquaintances.
func influenceGraph() ([]Person, []Party, []Acquaintance) {
	persons := []Person{{ID: "A", Name: "Alpha"}, {ID: "B", Name: "Bravo"}}
	for i := 1; i <= 5; i++ {
		persons = append(persons, Person{ID: fmt.Sprintf("C%d", i), Name: fmt.Sprintf("Contact %d", i)})
	}
	parties := []Party{
		{PersonID: "A", CrimeID: "X1", CrimeType: "THEFT"},
		{PersonID: "A", CrimeID: "X2", CrimeType: "THEFT"},
		{PersonID: "A", CrimeID: "X3", CrimeType: "BATTERY"},
		{PersonID: "B", CrimeID: "X1", CrimeType: "THEFT"},
	}
	acq := []Acquaintance{{A: "A", B: "C1"}, {A: "A", B: "C2"}}
	for i := 1; i <= 5; i++ {
		acq = append(acq, Acquaintance{A: "B", B: fmt.Sprintf("C%d", i)})
	}
	return persons, parties, acq
}

func TestInfluence_Scenario(t *testing.T) {
	persons, parties, acq := influenceGraph()
	scores := Influence(persons, parties, acq, DefaultConfig().Influence)

	require.Len(t, scores, 7)
	assert.Equal(t, "B", scores[0].PersonID)
	assert.Equal(t, 3.0, scores[0].Score)
	assert.Equal(t, "A", scores[1].PersonID)
	assert.Equal(t, 2.5, scores[1].Score)
	assert.Equal(t, 3, scores[1].Incidents)
	assert.Equal(t, 2, scores[1].Acquaintances)

	// C1 and C2 both know A and B and tie at 1.0; identifier breaks the tie.
	assert.Equal(t, "C1", scores[2].PersonID)
	assert.Equal(t, "C2", scores[3].PersonID)
}

func TestInfluence_Deterministic(t *testing.T) {
	persons, parties, acq := influenceGraph()
	first := Influence(persons, parties, acq, DefaultConfig().Influence)

	for i := 0; i < 20; i++ {
		// Reversed input order must not change the output.
		rp := append([]Person(nil), persons...)
		for l, r := 0, len(rp)-1; l < r; l, r = l+1, r-1 {
			rp[l], rp[r] = rp[r], rp[l]
		}
		assert.Equal(t, first, Influence(rp, parties, acq, DefaultConfig().Influence))
	}
}

func TestInfluence_CustomWeights(t *testing.T) {
	persons, parties, acq := influenceGraph()
	scores := Influence(persons, parties, acq, InfluenceConfig{IncidentWeight: 1, AcquaintanceWeight: 0})
	assert.Equal(t, "A", scores[0].PersonID)
	assert.Equal(t, 3.0, scores[0].Score)
}

func TestBridges(t *testing.T) {
	persons := []Person{{ID: "P1", Name: "Bridge"}, {ID: "P2", Name: "Local"}, {ID: "M1"}, {ID: "M2"}, {ID: "M3"}}
	acq := []Acquaintance{
		{A: "M1", B: "P1"}, {A: "M2", B: "P1"}, {A: "M3", B: "P1"},
		{A: "M1", B: "P2"}, {A: "M3", B: "P2"},
	}
	members := []Membership{
		{PersonID: "M1", OrganizationID: "O1", Organization: "West Side Crew"},
		{PersonID: "M2", OrganizationID: "O2", Organization: "Latin Kings"},
		{PersonID: "M3", OrganizationID: "O1", Organization: "West Side Crew"},
		{PersonID: "P2", OrganizationID: "O1", Organization: "West Side Crew"},
	}

	for _, min := range []int{0, 1, 2} {
		bridges := Bridges(persons, nil, acq, members, min)
		require.Len(t, bridges, 1, "min=%d", min)
		assert.Equal(t, "P1", bridges[0].PersonID)
		assert.Equal(t, 2, bridges[0].Score())
		assert.Equal(t, []string{"Latin Kings", "West Side Crew"}, bridges[0].Organizations)
		for _, b := range bridges {
			assert.GreaterOrEqual(t, b.Score(), 2)
		}
	}

	assert.Empty(t, Bridges(persons, nil, acq, members, 3))
}

func TestHiddenCommunities(t *testing.T) {
	persons := []Person{{ID: "P2", Name: "Second"}, {ID: "P1", Name: "First"}, {ID: "P3"}, {ID: "M1"}}
	parties := []Party{
		{PersonID: "P2", CrimeID: "K1", CrimeType: "ROBBERY"},
		{PersonID: "P1", CrimeID: "K1", CrimeType: "ROBBERY"},
		{PersonID: "P1", CrimeID: "K2", CrimeType: "BURGLARY"},
		{PersonID: "P2", CrimeID: "K2", CrimeType: "BURGLARY"},
		{PersonID: "P3", CrimeID: "K1", CrimeType: "ROBBERY"},
		{PersonID: "M1", CrimeID: "K1", CrimeType: "ROBBERY"},
		{PersonID: "M1", CrimeID: "K2", CrimeType: "BURGLARY"},
	}
	members := []Membership{{PersonID: "M1", OrganizationID: "O1", Organization: "West Side Crew"}}

	pairs := HiddenCommunities(persons, parties, members, 2)
	require.Len(t, pairs, 1)
	p := pairs[0]
	assert.Equal(t, "P1", p.PersonA)
	assert.Equal(t, "P2", p.PersonB)
	assert.Equal(t, "First", p.NameA)
	assert.Equal(t, 2, p.Shared)
	assert.Equal(t, []string{"BURGLARY", "ROBBERY"}, p.IncidentTypes)

	for _, pair := range HiddenCommunities(persons, parties, members, 1) {
		assert.NotEqual(t, "M1", pair.PersonA)
		assert.NotEqual(t, "M1", pair.PersonB)
		assert.Less(t, pair.PersonA, pair.PersonB)
	}
}

func TestDegrees(t *testing.T) {
	entries := Degrees([]EdgeCount{
		{PersonID: "P2", Name: "Two", Relation: "PARTY_TO", Count: 3},
		{PersonID: "P1", Name: "One", Relation: "KNOWS", Count: 2},
		{PersonID: "P1", Name: "One", Relation: "MEMBER_OF", Count: 1},
		{PersonID: "P3", Name: "Three", Relation: "", Count: 0},
	})

	require.Len(t, entries, 3)
	assert.Equal(t, []string{"P1", "P2", "P3"}, []string{entries[0].PersonID, entries[1].PersonID, entries[2].PersonID})
	assert.Equal(t, int64(3), entries[0].Degree)
	assert.Equal(t, map[string]int64{"KNOWS": 2, "MEMBER_OF": 1}, entries[0].ByRelation)
	assert.Equal(t, int64(0), entries[2].Degree)
}

func TestRiskScore_Scenario(t *testing.T) {
	cfg := DefaultConfig().Risk

	score := RiskScore(25, 15, 10, cfg)
	assert.Equal(t, 61.0, score)
	assert.Equal(t, RiskHigh, Band(score, cfg))

	assert.Equal(t, 30.0, RiskScore(100, 0, 0, cfg), "volume is capped")
	assert.Equal(t, 0.0, RiskScore(0, 0, 0, cfg))
}

func TestBand(t *testing.T) {
	cfg := DefaultConfig().Risk
	tests := []struct {
		score float64
		want  string
	}{
		{100, RiskCritical},
		{70, RiskCritical},
		{69.9, RiskHigh},
		{50, RiskHigh},
		{49.9, RiskMedium},
		{30, RiskMedium},
		{29.9, RiskLow},
		{0, RiskLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Band(tt.score, cfg), "score %v", tt.score)
	}
}

func TestIncident_Unsolved(t *testing.T) {
	assert.True(t, Incident{Status: "open"}.Unsolved())
	assert.False(t, Incident{Status: "open", ArrestMade: true}.Unsolved())
	assert.False(t, Incident{Status: "Solved"}.Unsolved())
}

func clusteredIncidents() []Incident {
	var out []Incident
	add := func(prefix string, n int, lat, lon float64) {
		for i := 0; i < n; i++ {
			out = append(out, Incident{
				CrimeID:   fmt.Sprintf("%s%02d", prefix, i),
				CrimeType: "THEFT",
				Severity:  "high",
				Status:    "open",
				District:  "012",
				Location:  prefix,
				Latitude:  lat + float64(i)*0.0003,
				Longitude: lon,
				Located:   true,
			})
		}
	}
	add("north", 10, 41.88, -87.63)
	add("south", 6, 41.75, -87.60)
	out = append(out,
		Incident{CrimeID: "z1", Latitude: 41.95, Longitude: -87.70, Located: true},
		Incident{CrimeID: "z2", Latitude: 41.65, Longitude: -87.55, Located: true},
		Incident{CrimeID: "z3", Latitude: 42.00, Longitude: -87.90, Located: true},
		Incident{CrimeID: "z4"},
	)
	return out
}

func TestHotspots(t *testing.T) {
	cfg := DefaultConfig()
	spots := Hotspots(clusteredIncidents(), cfg.Hotspot, cfg.Risk)

	require.Len(t, spots, 2)
	assert.Equal(t, 10, spots[0].Incidents)
	assert.Equal(t, 6, spots[1].Incidents)
	assert.Greater(t, spots[0].RiskScore, spots[1].RiskScore)
	assert.Equal(t, RiskCritical, spots[0].RiskLevel)
	assert.Equal(t, "THEFT", spots[0].PrimaryCrime)
	assert.Equal(t, 10, spots[0].Severe)
	assert.Equal(t, 0.0, spots[0].ArrestRate())

	// The same input in a different order yields the same output.
	in := clusteredIncidents()
	for l, r := 0, len(in)-1; l < r; l, r = l+1, r-1 {
		in[l], in[r] = in[r], in[l]
	}
	assert.Equal(t, spots, Hotspots(in, cfg.Hotspot, cfg.Risk))
}

func TestHotspots_TooFewIncidents(t *testing.T) {
	cfg := DefaultConfig()
	assert.Empty(t, Hotspots(clusteredIncidents()[:10], cfg.Hotspot, cfg.Risk))
}

func TestConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 0.5, cfg.Influence.IncidentWeight)
	assert.Equal(t, 2, cfg.Bridge.MinOrganizations)
	assert.Equal(t, 0.005, cfg.Hotspot.Radius)
	assert.Equal(t, []string{"severe", "high", "critical"}, cfg.Risk.SevereLevels)

	bad := DefaultConfig()
	bad.Risk.HighAt = 90
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.Hotspot.Radius = -1
	assert.Error(t, bad.Validate())
}

// snapshotResponder serves the fixed snapshot queries from in-memory rows.
func snapshotResponder(tables map[string]graph.QueryResult) graph.QueryResponder {
	return func(cypher string, _ map[string]any) (graph.QueryResult, error) {
		switch {
		case strings.Contains(cypher, "[r]-()"):
			return tables["edges"], nil
		case strings.Contains(cypher, "OCCURRED_AT"):
			return tables["incidents"], nil
		case strings.Contains(cypher, "PARTY_TO"):
			return tables["parties"], nil
		case strings.Contains(cypher, "KNOWS"):
			return tables["knows"], nil
		case strings.Contains(cypher, "MEMBER_OF"):
			return tables["members"], nil
		default:
			return tables["persons"], nil
		}
	}
}

func newRunner(t *testing.T, tables map[string]graph.QueryResult) (*Runner, *graph.MockGraphClient) {
	t.Helper()
	client := graph.NewMockGraphClient()
	require.NoError(t, client.Connect(context.Background()))
	client.SetResponder(snapshotResponder(tables))
	return NewRunner(client, Config{}, nil), client
}

func TestRunner_Influence(t *testing.T) {
	persons, parties, acq := influenceGraph()
	tables := map[string]graph.QueryResult{
		"persons": graph.Rows([]string{"id", "name"}),
		"parties": graph.Rows([]string{"person_id", "crime_id", "crime_type"}),
		"knows":   graph.Rows([]string{"a", "b"}),
	}
	for _, p := range persons {
		tables["persons"] = appendRow(tables["persons"], p.ID, p.Name)
	}
	for _, p := range parties {
		tables["parties"] = appendRow(tables["parties"], p.PersonID, p.CrimeID, p.CrimeType)
	}
	for _, a := range acq {
		tables["knows"] = appendRow(tables["knows"], a.A, a.B)
	}

	runner, client := newRunner(t, tables)
	res, err := runner.Run(context.Background(), query.Analytics(query.KindInfluence, 2).WithID("op1"))
	require.NoError(t, err)

	require.Len(t, res.Records, 2)
	assert.Equal(t, "Bravo", res.Records[0]["name"])
	assert.Equal(t, 3.0, res.Records[0]["influence_score"])
	assert.Equal(t, int64(1), res.Records[0]["rank"])
	assert.Equal(t, "Alpha", res.Records[1]["name"])
	assert.Len(t, res.Statements, 3)
	assert.Len(t, client.GetCallsByMethod("Query"), 3)
}

func TestRunner_LocationRiskAnchored(t *testing.T) {
	incidents := graph.Rows([]string{"crime_id", "crime_type", "severity", "status", "arrest_made", "location", "district", "latitude", "longitude"})
	for i := 0; i < 25; i++ {
		severity := "low"
		if i < 15 {
			severity = "severe"
		}
		arrest := i >= 10
		incidents = appendRow(incidents, fmt.Sprintf("C%02d", i), "BATTERY", severity, "open", arrest,
			"014XX N ASHLAND AVE", "012", 41.906, -87.667)
	}
	incidents = appendRow(incidents, "C99", "THEFT", "low", "open", false, "0000X W MADISON ST", "001", 41.881, -87.628)

	runner, _ := newRunner(t, map[string]graph.QueryResult{"incidents": incidents})

	op := query.Analytics(query.KindLocationRisk, 1)
	op.Anchor = query.Anchor{Type: schema.NodeTypeLocation, Name: "014xx n ashland ave"}
	res, err := runner.Run(context.Background(), op)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	rec := res.Records[0]
	assert.Equal(t, "014XX N ASHLAND AVE", rec["location"])
	assert.Equal(t, int64(25), rec["incident_count"])
	assert.Equal(t, 61.0, rec["risk_score"])
	assert.Equal(t, RiskHigh, rec["risk_level"])

	// Unanchored returns every location, riskiest first.
	res, err = runner.Run(context.Background(), query.Analytics(query.KindLocationRisk, 10))
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "014XX N ASHLAND AVE", res.Records[0]["location"])
}

func TestRunner_Errors(t *testing.T) {
	runner, client := newRunner(t, nil)

	_, err := runner.Run(context.Background(), query.NodeCounts())
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.INVALID_OPERATION))

	client.SetResponder(nil)
	client.SetQueryError(types.NewError(graph.ErrCodeGraphQueryFailed, "boom"))
	_, err = runner.Run(context.Background(), query.Analytics(query.KindDegree, 5))
	require.Error(t, err)
	assert.True(t, types.HasCode(err, graph.ErrCodeGraphQueryFailed))
}

func appendRow(r graph.QueryResult, values ...any) graph.QueryResult {
	row := graph.Rows(r.Columns, values)
	r.Records = append(r.Records, row.Records...)
	return r
}
