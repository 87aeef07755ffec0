package analytics

import (
	"context"
	"fmt"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/graph"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/query"
)

// Person is a Person node.
type Person struct {
	ID   string
	Name string
}

// Party is one PARTY_TO edge from a person to a crime.
type Party struct {
	PersonID  string
	CrimeID   string
	CrimeType string
}

// Acquaintance is one undirected KNOWS edge with A < B.
type Acquaintance struct {
	A string
	B string
}

// Membership is one MEMBER_OF edge.
type Membership struct {
	PersonID       string
	OrganizationID string
	Organization   string
}

// EdgeCount is the number of edges of one label incident to a person.
type EdgeCount struct {
	PersonID string
	Name     string
	Relation string
	Count    int64
}

// Incident is a located crime.
type Incident struct {
	CrimeID    string
	CrimeType  string
	Severity   string
	Status     string
	ArrestMade bool
	Location   string
	District   string
	Latitude   float64
	Longitude  float64
	// Located is false when the location carries no usable coordinates.
	Located bool
}

var (
	personsStatement = query.Statement{Cypher: `MATCH (p:Person)
RETURN p.id AS id, p.name AS name
ORDER BY id`}

	partiesStatement = query.Statement{Cypher: `MATCH (p:Person)-[:PARTY_TO]->(c:Crime)
RETURN DISTINCT p.id AS person_id, c.id AS crime_id, c.type AS crime_type`}

	acquaintancesStatement = query.Statement{Cypher: `MATCH (a:Person)-[:KNOWS]-(b:Person)
WHERE a.id < b.id
RETURN DISTINCT a.id AS a, b.id AS b`}

	membershipsStatement = query.Statement{Cypher: `MATCH (p:Person)-[:MEMBER_OF]->(o:Organization)
RETURN DISTINCT p.id AS person_id, o.id AS organization_id, o.name AS organization`}

	edgeCountsStatement = query.Statement{Cypher: `MATCH (p:Person)
OPTIONAL MATCH (p)-[r]-()
RETURN p.id AS id, p.name AS name, type(r) AS relation, count(r) AS edges`}

	incidentsStatement = query.Statement{Cypher: `MATCH (c:Crime)-[:OCCURRED_AT]->(l:Location)
RETURN c.id AS crime_id, c.type AS crime_type, c.severity AS severity, c.status AS status,
       c.arrest_made AS arrest_made, l.name AS location, l.district AS district,
       l.latitude AS latitude, l.longitude AS longitude`}
)

// snapshotReader runs the fixed snapshot queries and records which ones it ran.
type snapshotReader struct {
	client graph.GraphClient
}

func (s snapshotReader) run(ctx context.Context, stmt query.Statement, name string) ([]map[string]any, error) {
	res, err := s.client.Query(graph.WithQueryName(ctx, name), stmt.Cypher, stmt.Params)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", name, err)
	}
	return res.Records, nil
}

func (s snapshotReader) persons(ctx context.Context) ([]Person, error) {
	rows, err := s.run(ctx, personsStatement, "snapshot_persons")
	if err != nil {
		return nil, err
	}
	out := make([]Person, 0, len(rows))
	for _, r := range rows {
		if id := str(r["id"]); id != "" {
			out = append(out, Person{ID: id, Name: str(r["name"])})
		}
	}
	return out, nil
}

func (s snapshotReader) parties(ctx context.Context) ([]Party, error) {
	rows, err := s.run(ctx, partiesStatement, "snapshot_parties")
	if err != nil {
		return nil, err
	}
	out := make([]Party, 0, len(rows))
	for _, r := range rows {
		out = append(out, Party{PersonID: str(r["person_id"]), CrimeID: str(r["crime_id"]), CrimeType: str(r["crime_type"])})
	}
	return out, nil
}

func (s snapshotReader) acquaintances(ctx context.Context) ([]Acquaintance, error) {
	rows, err := s.run(ctx, acquaintancesStatement, "snapshot_acquaintances")
	if err != nil {
		return nil, err
	}
	out := make([]Acquaintance, 0, len(rows))
	for _, r := range rows {
		out = append(out, Acquaintance{A: str(r["a"]), B: str(r["b"])})
	}
	return out, nil
}

func (s snapshotReader) memberships(ctx context.Context) ([]Membership, error) {
	rows, err := s.run(ctx, membershipsStatement, "snapshot_memberships")
	if err != nil {
		return nil, err
	}
	out := make([]Membership, 0, len(rows))
	for _, r := range rows {
		out = append(out, Membership{
			PersonID:       str(r["person_id"]),
			OrganizationID: str(r["organization_id"]),
			Organization:   str(r["organization"]),
		})
	}
	return out, nil
}

func (s snapshotReader) edgeCounts(ctx context.Context) ([]EdgeCount, error) {
	rows, err := s.run(ctx, edgeCountsStatement, "snapshot_edge_counts")
	if err != nil {
		return nil, err
	}
	out := make([]EdgeCount, 0, len(rows))
	for _, r := range rows {
		n, _ := num(r["edges"])
		out = append(out, EdgeCount{
			PersonID: str(r["id"]),
			Name:     str(r["name"]),
			Relation: str(r["relation"]),
			Count:    int64(n),
		})
	}
	return out, nil
}

func (s snapshotReader) incidents(ctx context.Context) ([]Incident, error) {
	rows, err := s.run(ctx, incidentsStatement, "snapshot_incidents")
	if err != nil {
		return nil, err
	}
	out := make([]Incident, 0, len(rows))
	for _, r := range rows {
		lat, okLat := num(r["latitude"])
		lon, okLon := num(r["longitude"])
		arrest, _ := r["arrest_made"].(bool)
		out = append(out, Incident{
			CrimeID:    str(r["crime_id"]),
			CrimeType:  str(r["crime_type"]),
			Severity:   str(r["severity"]),
			Status:     str(r["status"]),
			ArrestMade: arrest,
			Location:   str(r["location"]),
			District:   str(r["district"]),
			Latitude:   lat,
			Longitude:  lon,
			Located:    okLat && okLon && !(lat == 0 && lon == 0),
		})
	}
	return out, nil
}

func str(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func num(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	case float64:
		return x, true
	case float32:
		return float64(x), true
	default:
		return 0, false
	}
}
