package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/entity"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/graph"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/query"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/types"
)

// Result is the output of one analytics operation.
type Result struct {
	Records []map[string]any
	// Statements lists the snapshot queries actually executed.
	Statements []query.Statement
}

// Runner executes analytics operations against a graph client.
type Runner struct {
	client graph.GraphClient
	cfg    Config
	logger *slog.Logger
}

// NewRunner creates a runner. cfg is completed with defaults.
func NewRunner(client graph.GraphClient, cfg Config, logger *slog.Logger) *Runner {
	cfg.ApplyDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{client: client, cfg: cfg, logger: logger.With("component", "analytics")}
}

// Run computes op, which must have an analytics kind.
func (r *Runner) Run(ctx context.Context, op query.Operation) (Result, error) {
	snap := snapshotReader{client: r.client}
	var (
		res Result
		err error
	)

	switch op.Kind {
	case query.KindInfluence:
		res, err = r.influence(ctx, snap)
	case query.KindBridges:
		res, err = r.bridges(ctx, snap)
	case query.KindHiddenCommunities:
		res, err = r.hidden(ctx, snap)
	case query.KindDegree:
		res, err = r.degrees(ctx, snap)
	case query.KindHotspots:
		res, err = r.hotspots(ctx, snap)
	case query.KindLocationRisk:
		res, err = r.locationRisk(ctx, snap, op.Anchor)
	default:
		return Result{}, types.NewError(types.INVALID_OPERATION, fmt.Sprintf("%s is not an analytics operation", op.Kind))
	}
	if err != nil {
		return Result{}, err
	}

	if op.Limit > 0 && len(res.Records) > op.Limit {
		res.Records = res.Records[:op.Limit]
	}
	r.logger.DebugContext(ctx, "analytics computed",
		"operation", op.ID,
		"kind", string(op.Kind),
		"records", len(res.Records),
	)
	return res, nil
}

func (r *Runner) influence(ctx context.Context, snap snapshotReader) (Result, error) {
	var (
		persons []Person
		parties []Party
		acq     []Acquaintance
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { persons, err = snap.persons(gctx); return })
	g.Go(func() (err error) { parties, err = snap.parties(gctx); return })
	g.Go(func() (err error) { acq, err = snap.acquaintances(gctx); return })
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	scores := Influence(persons, parties, acq, r.cfg.Influence)
	records := make([]map[string]any, len(scores))
	for i, s := range scores {
		records[i] = map[string]any{
			"rank":            int64(i + 1),
			"id":              s.PersonID,
			"name":            s.Name,
			"incidents":       int64(s.Incidents),
			"acquaintances":   int64(s.Acquaintances),
			"influence_score": s.Score,
		}
	}
	return Result{
		Records:    records,
		Statements: []query.Statement{personsStatement, partiesStatement, acquaintancesStatement},
	}, nil
}

func (r *Runner) bridges(ctx context.Context, snap snapshotReader) (Result, error) {
	var (
		persons []Person
		parties []Party
		acq     []Acquaintance
		members []Membership
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { persons, err = snap.persons(gctx); return })
	g.Go(func() (err error) { parties, err = snap.parties(gctx); return })
	g.Go(func() (err error) { acq, err = snap.acquaintances(gctx); return })
	g.Go(func() (err error) { members, err = snap.memberships(gctx); return })
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	bridges := Bridges(persons, parties, acq, members, r.cfg.Bridge.MinOrganizations)
	records := make([]map[string]any, len(bridges))
	for i, b := range bridges {
		records[i] = map[string]any{
			"rank":                    int64(i + 1),
			"id":                      b.PersonID,
			"name":                    b.Name,
			"own_organization":        nullable(b.OwnOrganization),
			"bridge_score":            int64(b.Score()),
			"connected_organizations": stringList(b.Organizations),
			"incidents":               int64(b.Incidents),
		}
	}
	return Result{
		Records:    records,
		Statements: []query.Statement{personsStatement, partiesStatement, acquaintancesStatement, membershipsStatement},
	}, nil
}

func (r *Runner) hidden(ctx context.Context, snap snapshotReader) (Result, error) {
	var (
		persons []Person
		parties []Party
		members []Membership
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { persons, err = snap.persons(gctx); return })
	g.Go(func() (err error) { parties, err = snap.parties(gctx); return })
	g.Go(func() (err error) { members, err = snap.memberships(gctx); return })
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	pairs := HiddenCommunities(persons, parties, members, r.cfg.Hidden.MinSharedIncidents)
	records := make([]map[string]any, len(pairs))
	for i, p := range pairs {
		records[i] = map[string]any{
			"person1_id":       p.PersonA,
			"person1":          p.NameA,
			"person2_id":       p.PersonB,
			"person2":          p.NameB,
			"shared_incidents": int64(p.Shared),
			"incident_types":   stringList(p.IncidentTypes),
		}
	}
	return Result{
		Records:    records,
		Statements: []query.Statement{personsStatement, partiesStatement, membershipsStatement},
	}, nil
}

func (r *Runner) degrees(ctx context.Context, snap snapshotReader) (Result, error) {
	counts, err := snap.edgeCounts(ctx)
	if err != nil {
		return Result{}, err
	}

	entries := Degrees(counts)
	records := make([]map[string]any, len(entries))
	for i, e := range entries {
		records[i] = map[string]any{
			"rank":   int64(i + 1),
			"id":     e.PersonID,
			"name":   e.Name,
			"degree": e.Degree,
		}
		for rel, n := range e.ByRelation {
			records[i][strings.ToLower(rel)] = n
		}
	}
	return Result{Records: records, Statements: []query.Statement{edgeCountsStatement}}, nil
}

func (r *Runner) hotspots(ctx context.Context, snap snapshotReader) (Result, error) {
	incidents, err := snap.incidents(ctx)
	if err != nil {
		return Result{}, err
	}

	spots := Hotspots(incidents, r.cfg.Hotspot, r.cfg.Risk)
	records := make([]map[string]any, len(spots))
	for i, h := range spots {
		records[i] = map[string]any{
			"hotspot":        int64(i + 1),
			"latitude":       h.Latitude,
			"longitude":      h.Longitude,
			"incident_count": int64(h.Incidents),
			"severe_count":   int64(h.Severe),
			"unsolved_count": int64(h.Unsolved),
			"arrest_rate":    h.ArrestRate(),
			"risk_score":     h.RiskScore,
			"risk_level":     h.RiskLevel,
			"primary_crime":  nullable(h.PrimaryCrime),
			"district":       nullable(h.District),
		}
	}
	return Result{Records: records, Statements: []query.Statement{incidentsStatement}}, nil
}

func (r *Runner) locationRisk(ctx context.Context, snap snapshotReader, anchor query.Anchor) (Result, error) {
	incidents, err := snap.incidents(ctx)
	if err != nil {
		return Result{}, err
	}

	risks := LocationRisks(incidents, r.cfg.Risk)
	var records []map[string]any
	for _, lr := range risks {
		if !anchor.IsZero() && !matchesLocation(anchor, lr.Location) {
			continue
		}
		records = append(records, map[string]any{
			"location":       lr.Location,
			"district":       nullable(lr.District),
			"latitude":       lr.Latitude,
			"longitude":      lr.Longitude,
			"incident_count": int64(lr.Incidents),
			"severe_count":   int64(lr.Severe),
			"unsolved_count": int64(lr.Unsolved),
			"risk_score":     lr.RiskScore,
			"risk_level":     lr.RiskLevel,
		})
	}
	return Result{Records: records, Statements: []query.Statement{incidentsStatement}}, nil
}

func matchesLocation(a query.Anchor, name string) bool {
	if a.ID != "" && a.ID == name {
		return true
	}
	return entity.NormalizePhrase(a.Name) == entity.NormalizePhrase(name)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func stringList(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
