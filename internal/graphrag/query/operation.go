package query

import (
	"fmt"
	"strings"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/schema"
)

// Kind identifies the shape of a retrieval operation.
type Kind string

const (
	KindEntityAttributes Kind = "entity_attributes"
	KindRelation         Kind = "relation"
	KindTraversal        Kind = "traversal"
	KindCoOccurrence     Kind = "co_occurrence"
	KindShortestPath     Kind = "shortest_path"
	KindNodeCounts       Kind = "node_counts"
	KindRelationCounts   Kind = "relation_counts"
	KindNetworkStats     Kind = "network_stats"
	KindListing          Kind = "listing"

	KindInfluence         Kind = "influence_ranking"
	KindBridges           Kind = "bridge_detection"
	KindHiddenCommunities Kind = "hidden_communities"
	KindDegree            Kind = "degree_ranking"
	KindHotspots          Kind = "hotspot_regions"
	KindLocationRisk      Kind = "location_risk"
)

// IsAnalytics reports whether the operation is computed by the analytics
// module from a graph snapshot rather than rendered to a single statement.
func (k Kind) IsAnalytics() bool {
	switch k {
	case KindInfluence, KindBridges, KindHiddenCommunities, KindDegree, KindHotspots, KindLocationRisk:
		return true
	default:
		return false
	}
}

// Relation is a one-hop relation cue. The concrete edge pattern depends on
// the anchor's node type.
type Relation string

const (
	RelationMembership Relation = "membership"
	RelationIncidents  Relation = "incidents"
	RelationAssociates Relation = "associates"
	RelationFamily     Relation = "family"
	RelationOwnership  Relation = "ownership"
	RelationEvidence   Relation = "evidence"
)

// Facet is a topic listing that is not bound to any entity.
type Facet string

const (
	FacetWeapons         Facet = "weapons"
	FacetVehicles        Facet = "vehicles"
	FacetEvidence        Facet = "evidence"
	FacetInvestigators   Facet = "investigators"
	FacetOrganizations   Facet = "organizations"
	FacetRepeatOffenders Facet = "repeat_offenders"
	FacetTriangles       Facet = "triangles"
)

// MaxTraversalDepth bounds every variable-length pattern regardless of configuration.
const MaxTraversalDepth = 3

// MaxPathLength bounds shortest-path searches between two persons.
const MaxPathLength = 6

// Anchor binds an operation to one entity. ID is empty when the mention could
// not be resolved against the name index; the operation then matches by name
// and is expected to return nothing if the entity does not exist.
type Anchor struct {
	Type schema.NodeType `json:"type"`
	ID   string          `json:"id,omitempty"`
	Name string          `json:"name"`
}

// IsZero reports whether no anchor is set.
func (a Anchor) IsZero() bool {
	return a.Type == "" && a.ID == "" && a.Name == ""
}

// String renders the anchor for logs and result-set names.
func (a Anchor) String() string {
	if a.ID != "" && a.ID != a.Name {
		return fmt.Sprintf("%s %s (%s)", a.Type, a.Name, a.ID)
	}
	return fmt.Sprintf("%s %s", a.Type, a.Name)
}

// Operation is an immutable description of one retrieval step. It is passed
// by value; none of its fields are reference types.
type Operation struct {
	ID           string   `json:"id"`
	Kind         Kind     `json:"kind"`
	Name         string   `json:"name"`
	Anchor       Anchor   `json:"anchor"`
	Target       Anchor   `json:"target"`
	Relation     Relation `json:"relation,omitempty"`
	Facet        Facet    `json:"facet,omitempty"`
	Depth        int      `json:"depth,omitempty"`
	Limit        int      `json:"limit,omitempty"`
	CrossOrgOnly bool     `json:"cross_org_only,omitempty"`
}

// WithID returns a copy of op carrying id.
func (op Operation) WithID(id string) Operation {
	op.ID = id
	return op
}

// Describe summarizes the operation for the query log.
func (op Operation) Describe() string {
	var b strings.Builder
	b.WriteString(string(op.Kind))
	if !op.Anchor.IsZero() {
		fmt.Fprintf(&b, " anchor=%q", op.Anchor.Name)
	}
	if !op.Target.IsZero() {
		fmt.Fprintf(&b, " target=%q", op.Target.Name)
	}
	if op.Relation != "" {
		fmt.Fprintf(&b, " relation=%s", op.Relation)
	}
	if op.Facet != "" {
		fmt.Fprintf(&b, " facet=%s", op.Facet)
	}
	if op.Depth > 0 {
		fmt.Fprintf(&b, " depth=%d", op.Depth)
	}
	if op.CrossOrgOnly {
		b.WriteString(" cross_org_only")
	}
	return b.String()
}

// Statement is a rendered, parameterized Cypher query.
type Statement struct {
	Cypher string         `json:"cypher"`
	Params map[string]any `json:"params,omitempty"`
}

// EntityAttributes looks up the attributes of one entity.
func EntityAttributes(a Anchor) Operation {
	return Operation{
		Kind:   KindEntityAttributes,
		Name:   "attributes: " + a.Name,
		Anchor: a,
	}
}

// OneHop traverses a single relation from an anchored entity.
func OneHop(a Anchor, rel Relation, limit int) Operation {
	return Operation{
		Kind:     KindRelation,
		Name:     fmt.Sprintf("%s: %s", rel, a.Name),
		Anchor:   a,
		Relation: rel,
		Limit:    limit,
	}
}

// Traversal walks acquaintance edges up to depth hops from a person, or from
// every member of an organization.
func Traversal(a Anchor, depth, limit int) Operation {
	return Operation{
		Kind:   KindTraversal,
		Name:   fmt.Sprintf("network within %d hops: %s", depth, a.Name),
		Anchor: a,
		Depth:  depth,
		Limit:  limit,
	}
}

// CoOccurrence pairs persons who were parties to the same incident. The
// anchor is optional; when set, only pairs containing it are returned.
func CoOccurrence(a Anchor, crossOrgOnly bool, limit int) Operation {
	name := "co-offenders"
	if crossOrgOnly {
		name = "co-offenders across organizations"
	}
	if !a.IsZero() {
		name += ": " + a.Name
	}
	return Operation{
		Kind:         KindCoOccurrence,
		Name:         name,
		Anchor:       a,
		CrossOrgOnly: crossOrgOnly,
		Limit:        limit,
	}
}

// ShortestPath finds the shortest acquaintance chain between two persons.
func ShortestPath(from, to Anchor) Operation {
	return Operation{
		Kind:   KindShortestPath,
		Name:   fmt.Sprintf("path: %s to %s", from.Name, to.Name),
		Anchor: from,
		Target: to,
	}
}

// NodeCounts counts nodes per type across the graph.
func NodeCounts() Operation {
	return Operation{Kind: KindNodeCounts, Name: "node counts"}
}

// RelationCounts counts edges per relation label across the graph.
func RelationCounts() Operation {
	return Operation{Kind: KindRelationCounts, Name: "relation counts"}
}

// NetworkStats summarizes the acquaintance network.
func NetworkStats() Operation {
	return Operation{Kind: KindNetworkStats, Name: "network statistics"}
}

// Listing lists records for a topic facet.
func Listing(f Facet, limit int) Operation {
	return Operation{
		Kind:  KindListing,
		Name:  "listing: " + strings.ReplaceAll(string(f), "_", " "),
		Facet: f,
		Limit: limit,
	}
}

// Analytics invokes one of the analytics computations.
func Analytics(kind Kind, limit int) Operation {
	return Operation{
		Kind:  kind,
		Name:  strings.ReplaceAll(string(kind), "_", " "),
		Limit: limit,
	}
}
