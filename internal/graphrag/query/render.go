package query

import (
	"fmt"
	"strings"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/schema"
)

// DefaultLimit caps rows for operations that carry no explicit limit.
const DefaultLimit = 25

type relationKey struct {
	anchor   schema.NodeType
	relation Relation
}

// relationPatterns holds the one-hop Cypher for each supported anchor type
// and relation cue. The anchor is always bound to variable a.
var relationPatterns = map[relationKey]string{
	{schema.NodeTypeOrganization, RelationMembership}: `MATCH (b:Person)-[r:MEMBER_OF]->(a:Organization)
WHERE %s
RETURN a.name AS organization, b.id AS id, b.name AS member, b.age AS age, r.rank AS rank
ORDER BY member
LIMIT $limit`,

	{schema.NodeTypePerson, RelationMembership}: `MATCH (a:Person)-[r:MEMBER_OF]->(b:Organization)
WHERE %s
RETURN a.name AS person, b.id AS organization_id, b.name AS organization, b.territory AS territory, b.threat_level AS threat_level, r.rank AS rank
ORDER BY organization
LIMIT $limit`,

	{schema.NodeTypePerson, RelationIncidents}: `MATCH (a:Person)-[r:PARTY_TO]->(b:Crime)
WHERE %s
OPTIONAL MATCH (b)-[:OCCURRED_AT]->(l:Location)
RETURN a.name AS person, b.id AS crime_id, b.type AS crime_type, b.date AS date, b.severity AS severity, b.status AS status, r.role AS role, l.name AS location
ORDER BY date DESC, crime_id
LIMIT $limit`,

	{schema.NodeTypeOrganization, RelationIncidents}: `MATCH (a:Organization)<-[:MEMBER_OF]-(p:Person)-[:PARTY_TO]->(b:Crime)
WHERE %s
RETURN a.name AS organization, p.name AS member, b.id AS crime_id, b.type AS crime_type, b.date AS date, b.severity AS severity
ORDER BY date DESC, crime_id, member
LIMIT $limit`,

	{schema.NodeTypeLocation, RelationIncidents}: `MATCH (b:Crime)-[:OCCURRED_AT]->(a:Location)
WHERE %s
RETURN a.name AS location, a.district AS district, b.id AS crime_id, b.type AS crime_type, b.date AS date, b.severity AS severity, b.status AS status
ORDER BY date DESC, crime_id
LIMIT $limit`,

	{schema.NodeTypePerson, RelationAssociates}: `MATCH (a:Person)-[r:KNOWS]-(b:Person)
WHERE %s
RETURN DISTINCT a.name AS person, b.id AS id, b.name AS associate, r.relationship AS relationship, r.strength AS strength
ORDER BY associate
LIMIT $limit`,

	{schema.NodeTypePerson, RelationFamily}: `MATCH (a:Person)-[r:FAMILY_REL]-(b:Person)
WHERE %s
RETURN DISTINCT a.name AS person, b.id AS id, b.name AS relative, r.relationship AS relationship
ORDER BY relative
LIMIT $limit`,

	{schema.NodeTypePerson, RelationOwnership}: `MATCH (a:Person)-[:OWNS]->(b)
WHERE (b:Weapon OR b:Vehicle) AND %s
RETURN a.name AS owner, labels(b)[0] AS item_type, b.id AS item_id, b.type AS weapon_type, b.make AS make, b.model AS model, b.license_plate AS license_plate
ORDER BY item_type, item_id
LIMIT $limit`,

	{schema.NodeTypePerson, RelationEvidence}: `MATCH (b:Evidence)-[r:LINKS_TO]->(a:Person)
WHERE %s
RETURN a.name AS person, b.id AS evidence_id, b.type AS evidence_type, b.description AS description, r.match_type AS match_type, r.confidence AS confidence
ORDER BY evidence_id
LIMIT $limit`,
}

// SupportsRelation reports whether a one-hop pattern exists for the pair.
func SupportsRelation(anchor schema.NodeType, rel Relation) bool {
	_, ok := relationPatterns[relationKey{anchor, rel}]
	return ok
}

var listingStatements = map[Facet]string{
	FacetWeapons: `MATCH (c:Crime)-[:USED_WEAPON]->(w:Weapon)
OPTIONAL MATCH (p:Person)-[:OWNS]->(w)
RETURN w.id AS weapon_id, w.type AS weapon_type, w.make AS make, w.model AS model, w.recovered AS recovered, count(DISTINCT c) AS crimes, collect(DISTINCT p.name) AS owners
ORDER BY crimes DESC, weapon_id
LIMIT $limit`,

	FacetVehicles: `MATCH (c:Crime)-[:INVOLVED_VEHICLE]->(v:Vehicle)
RETURN v.id AS vehicle_id, v.make AS make, v.model AS model, v.color AS color, v.license_plate AS license_plate, v.reported_stolen AS reported_stolen, count(DISTINCT c) AS crimes
ORDER BY crimes DESC, vehicle_id
LIMIT $limit`,

	FacetEvidence: `MATCH (c:Crime)-[:HAS_EVIDENCE]->(e:Evidence)
OPTIONAL MATCH (e)-[:LINKS_TO]->(p:Person)
RETURN e.id AS evidence_id, e.type AS evidence_type, e.description AS description, e.verified AS verified, c.id AS crime_id, collect(DISTINCT p.name) AS linked_persons
ORDER BY evidence_id
LIMIT $limit`,

	FacetInvestigators: `MATCH (i:Investigator)
OPTIONAL MATCH (c:Crime)-[:INVESTIGATED_BY]->(i)
RETURN i.id AS investigator_id, i.name AS investigator, i.department AS department, i.specialization AS specialization, i.active_cases AS active_cases, i.cases_solved AS cases_solved, count(c) AS assigned_crimes
ORDER BY assigned_crimes DESC, investigator
LIMIT $limit`,

	FacetOrganizations: `MATCH (o:Organization)
OPTIONAL MATCH (p:Person)-[:MEMBER_OF]->(o)
WITH o, p ORDER BY p.name
RETURN o.id AS organization_id, o.name AS organization, o.type AS type, o.territory AS territory, o.threat_level AS threat_level, count(p) AS members, collect(p.name)[0..10] AS member_names
ORDER BY members DESC, organization
LIMIT $limit`,

	FacetRepeatOffenders: `MATCH (p:Person)-[:PARTY_TO]->(c:Crime)
WITH p, count(DISTINCT c) AS crimes, collect(DISTINCT c.type) AS crime_types
WHERE crimes >= 2
RETURN p.id AS id, p.name AS name, crimes, crime_types
ORDER BY crimes DESC, name
LIMIT $limit`,

	FacetTriangles: `MATCH (a:Person)-[:KNOWS]-(b:Person)-[:KNOWS]-(c:Person)-[:KNOWS]-(a)
WHERE a.id < b.id AND b.id < c.id
RETURN DISTINCT a.name AS person1, b.name AS person2, c.name AS person3
ORDER BY person1, person2, person3
LIMIT $limit`,
}

// Render converts a non-analytics operation into a parameterized statement.
func Render(op Operation) (Statement, error) {
	switch op.Kind {
	case KindEntityAttributes:
		return renderAttributes(op)
	case KindRelation:
		return renderRelation(op)
	case KindTraversal:
		return renderTraversal(op)
	case KindCoOccurrence:
		return renderCoOccurrence(op)
	case KindShortestPath:
		return renderShortestPath(op)
	case KindNodeCounts:
		return Statement{Cypher: `MATCH (n)
RETURN labels(n)[0] AS label, count(*) AS count
ORDER BY label`}, nil
	case KindRelationCounts:
		return Statement{Cypher: `MATCH ()-[r]->()
RETURN type(r) AS relation, count(*) AS count
ORDER BY relation`}, nil
	case KindNetworkStats:
		return Statement{Cypher: `MATCH (p:Person)
WITH count(p) AS persons
OPTIONAL MATCH (:Person)-[k:KNOWS]->(:Person)
WITH persons, count(k) AS acquaintances
OPTIONAL MATCH (o:Organization)
WITH persons, acquaintances, count(o) AS organizations
RETURN persons, acquaintances, organizations,
  CASE WHEN persons > 1 THEN round(2.0 * acquaintances / (persons * (persons - 1)), 4) ELSE 0.0 END AS density,
  CASE WHEN persons > 0 THEN round(2.0 * acquaintances / persons, 2) ELSE 0.0 END AS avg_connections`}, nil
	case KindListing:
		cypher, ok := listingStatements[op.Facet]
		if !ok {
			return Statement{}, fmt.Errorf("unknown listing facet: %q", op.Facet)
		}
		return Statement{Cypher: cypher, Params: map[string]any{"limit": limitOf(op)}}, nil
	default:
		if op.Kind.IsAnalytics() {
			return Statement{}, fmt.Errorf("operation kind %s is computed by analytics, not rendered", op.Kind)
		}
		return Statement{}, fmt.Errorf("unknown operation kind: %q", op.Kind)
	}
}

func renderAttributes(op Operation) (Statement, error) {
	label, err := nodeLabel(op.Anchor.Type)
	if err != nil {
		return Statement{}, err
	}

	params := map[string]any{}
	cond := anchorCondition("n", op.Anchor, "anchor", params)

	columns := []string{
		fmt.Sprintf("n.%s AS id", op.Anchor.Type.KeyProperty()),
		fmt.Sprintf("n.%s AS name", op.Anchor.Type.NameProperty()),
		fmt.Sprintf("'%s' AS type", label),
	}
	for _, attr := range op.Anchor.Type.Attributes() {
		columns = append(columns, fmt.Sprintf("n.%s AS %s", sanitizeProperty(attr), sanitizeProperty(attr)))
	}

	cypher := fmt.Sprintf("MATCH (n:%s)\nWHERE %s\nRETURN %s\nLIMIT 5", label, cond, strings.Join(columns, ", "))
	return Statement{Cypher: cypher, Params: params}, nil
}

func renderRelation(op Operation) (Statement, error) {
	pattern, ok := relationPatterns[relationKey{op.Anchor.Type, op.Relation}]
	if !ok {
		return Statement{}, fmt.Errorf("relation %q is not defined for %s", op.Relation, op.Anchor.Type)
	}

	params := map[string]any{"limit": limitOf(op)}
	cond := anchorCondition("a", op.Anchor, "anchor", params)
	return Statement{Cypher: fmt.Sprintf(pattern, cond), Params: params}, nil
}

func renderTraversal(op Operation) (Statement, error) {
	depth := clampDepth(op.Depth)
	params := map[string]any{"limit": limitOf(op)}

	// The depth bound cannot be a parameter in Cypher; it is an int clamped above.
	var start string
	switch op.Anchor.Type {
	case schema.NodeTypePerson:
		start = fmt.Sprintf(`MATCH path = (a:Person)-[:KNOWS*1..%d]-(b:Person)
WHERE %s AND b <> a
WITH a.name AS origin, b, min(length(path)) AS hops`, depth, anchorCondition("a", op.Anchor, "anchor", params))
	case schema.NodeTypeOrganization:
		// Members are the origin; hops count acquaintance edges from any member.
		start = fmt.Sprintf(`MATCH (org:Organization)<-[:MEMBER_OF]-(a:Person)
WHERE %s
MATCH path = (a)-[:KNOWS*1..%d]-(b:Person)
WHERE NOT (b)-[:MEMBER_OF]->(org)
WITH org.name AS origin, b, min(length(path)) AS hops`, anchorCondition("org", op.Anchor, "anchor", params), depth)
	default:
		return Statement{}, fmt.Errorf("traversal requires a Person or Organization anchor, got %s", op.Anchor.Type)
	}

	cypher := start + `
OPTIONAL MATCH (b)-[:MEMBER_OF]->(o:Organization)
RETURN origin, b.id AS id, b.name AS name, hops, collect(DISTINCT o.name) AS organizations
ORDER BY hops, name
LIMIT $limit`
	return Statement{Cypher: cypher, Params: params}, nil
}

func renderCoOccurrence(op Operation) (Statement, error) {
	params := map[string]any{"limit": limitOf(op)}

	where := "p1.id < p2.id"
	if !op.Anchor.IsZero() {
		if op.Anchor.Type != schema.NodeTypePerson {
			return Statement{}, fmt.Errorf("co-occurrence focus must be a Person, got %s", op.Anchor.Type)
		}
		where += fmt.Sprintf(" AND (%s OR %s)",
			anchorCondition("p1", op.Anchor, "anchor", params),
			anchorCondition("p2", op.Anchor, "anchor", params))
	}

	filter := ""
	if op.CrossOrgOnly {
		filter = "\nWHERE gang_status = 'different'"
	}

	cypher := fmt.Sprintf(`MATCH (p1:Person)-[:PARTY_TO]->(c:Crime)<-[:PARTY_TO]-(p2:Person)
WHERE %s
WITH p1, p2, count(DISTINCT c) AS shared_crimes, collect(DISTINCT c.type) AS crime_types
OPTIONAL MATCH (p1)-[:MEMBER_OF]->(o1:Organization)
WITH p1, p2, shared_crimes, crime_types, collect(DISTINCT o1.name) AS orgs1
OPTIONAL MATCH (p2)-[:MEMBER_OF]->(o2:Organization)
WITH p1, p2, shared_crimes, crime_types, orgs1, collect(DISTINCT o2.name) AS orgs2
WITH p1, p2, shared_crimes, crime_types, orgs1, orgs2,
  CASE WHEN any(o IN orgs1 WHERE o IN orgs2) THEN 'same' ELSE 'different' END AS gang_status%s
RETURN p1.id AS person1_id, p1.name AS person1, orgs1 AS person1_organizations,
  p2.id AS person2_id, p2.name AS person2, orgs2 AS person2_organizations,
  shared_crimes, crime_types, gang_status
ORDER BY shared_crimes DESC, person1, person2
LIMIT $limit`, where, filter)
	return Statement{Cypher: cypher, Params: params}, nil
}

func renderShortestPath(op Operation) (Statement, error) {
	if op.Anchor.Type != schema.NodeTypePerson || op.Target.Type != schema.NodeTypePerson {
		return Statement{}, fmt.Errorf("shortest path requires two Person anchors")
	}

	params := map[string]any{}
	condA := anchorCondition("a", op.Anchor, "from", params)
	condB := anchorCondition("b", op.Target, "to", params)

	cypher := fmt.Sprintf(`MATCH (a:Person), (b:Person)
WHERE %s AND %s AND a <> b
MATCH path = shortestPath((a)-[:KNOWS*..%d]-(b))
RETURN a.name AS from, b.name AS to, length(path) AS hops, [n IN nodes(path) | n.name] AS path_names`,
		condA, condB, MaxPathLength)
	return Statement{Cypher: cypher, Params: params}, nil
}

// anchorCondition renders a predicate binding variable v to the anchor and
// records the bound parameter under prefix.
func anchorCondition(v string, a Anchor, prefix string, params map[string]any) string {
	if a.ID != "" {
		key := prefix + "_key"
		params[key] = a.ID
		return fmt.Sprintf("%s.%s = $%s", v, a.Type.KeyProperty(), key)
	}
	key := prefix + "_name"
	params[key] = strings.ToLower(strings.TrimSpace(a.Name))
	return fmt.Sprintf("toLower(%s.%s) = $%s", v, a.Type.NameProperty(), key)
}

func nodeLabel(nt schema.NodeType) (string, error) {
	if !nt.IsValid() {
		return "", fmt.Errorf("unknown node type: %q", nt)
	}
	return string(nt), nil
}

func clampDepth(depth int) int {
	if depth < 1 {
		return 1
	}
	if depth > MaxTraversalDepth {
		return MaxTraversalDepth
	}
	return depth
}

func limitOf(op Operation) int64 {
	if op.Limit <= 0 {
		return DefaultLimit
	}
	return int64(op.Limit)
}

// sanitizeProperty keeps property names to lowercase identifier characters.
func sanitizeProperty(prop string) string {
	prop = strings.ToLower(prop)
	result := strings.Builder{}
	for _, r := range prop {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			result.WriteRune(r)
		} else {
			result.WriteRune('_')
		}
	}
	return result.String()
}
