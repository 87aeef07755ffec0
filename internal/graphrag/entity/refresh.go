package entity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/graph"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/schema"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/types"
)

// Loader builds a fresh name index from the store.
type Loader interface {
	Load(ctx context.Context) (*NameIndex, error)
}

// Index queries. Persons carry an optional single alias property.
const (
	organizationNamesQuery = `MATCH (o:Organization)
RETURN o.id AS id, o.name AS name
ORDER BY name`
	locationNamesQuery = `MATCH (l:Location)
RETURN l.name AS id, l.name AS name
ORDER BY name`
	personNamesQuery = `MATCH (p:Person)
RETURN p.id AS id, p.name AS name, p.alias AS alias
ORDER BY id`
)

// GraphLoader loads the name index with three read queries.
type GraphLoader struct {
	client graph.GraphClient
}

// NewGraphLoader creates a loader reading from client.
func NewGraphLoader(client graph.GraphClient) *GraphLoader {
	return &GraphLoader{client: client}
}

// Load implements Loader.
func (l *GraphLoader) Load(ctx context.Context) (*NameIndex, error) {
	var entries []Entry

	sources := []struct {
		nodeType schema.NodeType
		cypher   string
	}{
		{schema.NodeTypeOrganization, organizationNamesQuery},
		{schema.NodeTypeLocation, locationNamesQuery},
		{schema.NodeTypePerson, personNamesQuery},
	}

	for _, src := range sources {
		qctx := graph.WithQueryName(ctx, "name_index."+strings.ToLower(string(src.nodeType)))
		result, err := l.client.Query(qctx, src.cypher, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s names: %w", src.nodeType, err)
		}
		for _, rec := range result.Records {
			entry := Entry{
				Type: src.nodeType,
				ID:   stringField(rec, "id"),
				Name: stringField(rec, "name"),
			}
			if alias := stringField(rec, "alias"); alias != "" && !strings.EqualFold(alias, entry.Name) {
				entry.Aliases = []string{alias}
			}
			entries = append(entries, entry)
		}
	}

	return NewNameIndex(entries), nil
}

func stringField(rec map[string]any, key string) string {
	if v, ok := rec[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// Refresher owns the current name index. Readers never block on a refresh
// and always see a complete index; a failed refresh keeps the previous one.
type Refresher struct {
	loader   Loader
	interval time.Duration
	logger   *slog.Logger

	current atomic.Pointer[NameIndex]
	loaded  atomic.Bool
	group   singleflight.Group
}

// NewRefresher creates a refresher that starts with an empty index.
func NewRefresher(loader Loader, interval time.Duration, logger *slog.Logger) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Refresher{
		loader:   loader,
		interval: interval,
		logger:   logger.With("component", "entity_index"),
	}
	r.current.Store(EmptyIndex())
	return r
}

// Index returns the most recently built index. It is never nil.
func (r *Refresher) Index() *NameIndex {
	return r.current.Load()
}

// Refresh rebuilds the index now. Concurrent callers share one load.
func (r *Refresher) Refresh(ctx context.Context) (*NameIndex, error) {
	v, err, _ := r.group.Do("refresh", func() (any, error) {
		idx, err := r.loader.Load(ctx)
		if err != nil {
			return nil, err
		}
		r.current.Store(idx)
		r.loaded.Store(true)
		return idx, nil
	})
	if err != nil {
		r.logger.Warn("name index refresh failed, keeping previous index",
			"error", err,
			"built_at", r.Index().BuiltAt(),
		)
		return r.Index(), err
	}

	idx := v.(*NameIndex)
	r.logger.Debug("name index refreshed",
		"organizations", idx.Count(schema.NodeTypeOrganization),
		"locations", idx.Count(schema.NodeTypeLocation),
		"persons", idx.Count(schema.NodeTypePerson),
	)
	return idx, nil
}

// Run refreshes on the configured interval until ctx is cancelled. A
// non-positive interval disables scheduled refreshes.
func (r *Refresher) Run(ctx context.Context) {
	if r.interval <= 0 {
		return
	}
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = r.Refresh(ctx)
		}
	}
}

// Health reports degraded until the first successful load. Recognition still
// works before then, limited to the lexicon and heuristics.
func (r *Refresher) Health(ctx context.Context) types.HealthStatus {
	if !r.loaded.Load() {
		return types.Degraded("name index not loaded")
	}
	idx := r.Index()
	return types.Healthy(fmt.Sprintf("%d organizations, %d locations, %d persons indexed at %s",
		idx.Count(schema.NodeTypeOrganization),
		idx.Count(schema.NodeTypeLocation),
		idx.Count(schema.NodeTypePerson),
		idx.BuiltAt().Format(time.RFC3339),
	))
}
