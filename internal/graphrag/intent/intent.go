package intent

import (
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/entity"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/query"
)

// Intent is a closed set of question shapes. Each variant carries its own
// payload; the planner switches over them exhaustively.
type Intent interface {
	// Name is the stable identifier used in logs and responses.
	Name() string
	isIntent()
}

// EntityLookup asks about one or more entities without a relation cue.
type EntityLookup struct {
	Entities entity.Set
}

// RelationLookup asks for one-hop neighbours of the entities along the cued relations.
type RelationLookup struct {
	Entities  entity.Set
	Relations []query.Relation
}

// Traversal asks for the acquaintance network around persons, or around an
// organization's members, up to Depth hops.
type Traversal struct {
	Origins []entity.Candidate
	Depth   int
}

// CoOccurrence asks which persons appear together on incidents.
type CoOccurrence struct {
	// Focus restricts the pairs to these persons; empty means graph-wide.
	Focus        []entity.Candidate
	CrossOrgOnly bool
}

// PathBetween asks how two persons are connected.
type PathBetween struct {
	From entity.Candidate
	To   entity.Candidate
}

// InfluenceRanking asks for the most influential persons.
type InfluenceRanking struct{}

// BridgeDetection asks for persons connecting several organizations.
type BridgeDetection struct{}

// HiddenCommunity asks for unaffiliated persons who offend together.
type HiddenCommunity struct{}

// DegreeRanking asks for the best-connected persons.
type DegreeRanking struct{}

// HotspotScan asks for dangerous areas, optionally around named locations.
type HotspotScan struct {
	Locations []entity.Candidate
}

// Aggregate asks a global question with no entity bound.
type Aggregate struct {
	Facets []query.Facet
}

func (EntityLookup) Name() string     { return "entity_lookup" }
func (RelationLookup) Name() string   { return "relation_lookup" }
func (Traversal) Name() string        { return "traversal" }
func (CoOccurrence) Name() string     { return "co_occurrence" }
func (PathBetween) Name() string      { return "path_between" }
func (InfluenceRanking) Name() string { return "influence_ranking" }
func (BridgeDetection) Name() string  { return "bridge_detection" }
func (HiddenCommunity) Name() string  { return "hidden_community" }
func (DegreeRanking) Name() string    { return "degree_ranking" }
func (HotspotScan) Name() string      { return "hotspot_scan" }
func (Aggregate) Name() string        { return "aggregate" }

func (EntityLookup) isIntent()     {}
func (RelationLookup) isIntent()   {}
func (Traversal) isIntent()        {}
func (CoOccurrence) isIntent()     {}
func (PathBetween) isIntent()      {}
func (InfluenceRanking) isIntent() {}
func (BridgeDetection) isIntent()  {}
func (HiddenCommunity) isIntent()  {}
func (DegreeRanking) isIntent()    {}
func (HotspotScan) isIntent()      {}
func (Aggregate) isIntent()        {}
