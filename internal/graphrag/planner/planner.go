// Package planner turns a classified intent into an ordered list of query
// operations.
package planner

import (
	"fmt"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/entity"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/intent"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/query"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/types"
)

// Config bounds the size of a plan.
type Config struct {
	// MaxOperations caps the operations emitted per turn.
	MaxOperations int
	// ResultLimit is the row limit for entity-bound operations.
	ResultLimit int
	// TopN is the row limit for rankings and listings.
	TopN int
}

// DefaultConfig returns the planner defaults.
func DefaultConfig() Config {
	return Config{MaxOperations: 7, ResultLimit: query.DefaultLimit, TopN: 15}
}

// Planner synthesizes operations. It holds no per-turn state.
type Planner struct {
	cfg Config
}

// New creates a planner, filling unset limits with defaults.
func New(cfg Config) *Planner {
	def := DefaultConfig()
	if cfg.MaxOperations <= 0 {
		cfg.MaxOperations = def.MaxOperations
	}
	if cfg.ResultLimit <= 0 {
		cfg.ResultLimit = def.ResultLimit
	}
	if cfg.TopN <= 0 {
		cfg.TopN = def.TopN
	}
	return &Planner{cfg: cfg}
}

// Plan returns the operations for in, numbered op1..opN in execution-log
// order. An unresolvable entity still yields an operation; it simply matches
// nothing in the store.
func (p *Planner) Plan(in intent.Intent) ([]query.Operation, error) {
	var ops []query.Operation

	switch v := in.(type) {
	case intent.EntityLookup:
		for _, c := range v.Entities.All() {
			ops = append(ops, query.EntityAttributes(anchor(c)))
		}

	case intent.RelationLookup:
		for _, c := range v.Entities.All() {
			bound := false
			for _, rel := range v.Relations {
				if query.SupportsRelation(c.Type, rel) {
					ops = append(ops, query.OneHop(anchor(c), rel, p.cfg.ResultLimit))
					bound = true
				}
			}
			if !bound {
				ops = append(ops, query.EntityAttributes(anchor(c)))
			}
		}

	case intent.Traversal:
		for _, c := range v.Origins {
			ops = append(ops, query.Traversal(anchor(c), v.Depth, p.cfg.ResultLimit))
		}

	case intent.CoOccurrence:
		if len(v.Focus) == 0 {
			ops = append(ops, query.CoOccurrence(query.Anchor{}, v.CrossOrgOnly, p.cfg.ResultLimit))
		}
		for _, c := range v.Focus {
			ops = append(ops, query.CoOccurrence(anchor(c), v.CrossOrgOnly, p.cfg.ResultLimit))
		}

	case intent.PathBetween:
		from, to := anchor(v.From), anchor(v.To)
		ops = append(ops,
			query.ShortestPath(from, to),
			query.EntityAttributes(from),
			query.EntityAttributes(to),
		)

	case intent.InfluenceRanking:
		ops = append(ops, query.Analytics(query.KindInfluence, p.cfg.TopN))

	case intent.BridgeDetection:
		ops = append(ops, query.Analytics(query.KindBridges, p.cfg.TopN))

	case intent.HiddenCommunity:
		ops = append(ops, query.Analytics(query.KindHiddenCommunities, p.cfg.TopN))

	case intent.DegreeRanking:
		ops = append(ops, query.Analytics(query.KindDegree, p.cfg.TopN))

	case intent.HotspotScan:
		if len(v.Locations) == 0 {
			ops = append(ops,
				query.Analytics(query.KindHotspots, p.cfg.TopN),
				query.Analytics(query.KindLocationRisk, p.cfg.TopN),
			)
		}
		for _, c := range v.Locations {
			risk := query.Analytics(query.KindLocationRisk, 1)
			risk.Anchor = anchor(c)
			risk.Name += ": " + c.Name
			ops = append(ops, risk, query.OneHop(anchor(c), query.RelationIncidents, p.cfg.ResultLimit))
		}

	case intent.Aggregate:
		ops = append(ops, query.NodeCounts(), query.RelationCounts(), query.NetworkStats())
		for _, f := range v.Facets {
			ops = append(ops, query.Listing(f, p.cfg.TopN))
		}

	default:
		return nil, types.NewError(types.INVALID_OPERATION, fmt.Sprintf("no plan for intent %T", in))
	}

	if len(ops) > p.cfg.MaxOperations {
		ops = ops[:p.cfg.MaxOperations]
	}
	for i := range ops {
		ops[i] = ops[i].WithID(fmt.Sprintf("op%d", i+1))
	}
	return ops, nil
}

func anchor(c entity.Candidate) query.Anchor {
	return query.Anchor{Type: c.Type, ID: c.ID, Name: c.Name}
}
