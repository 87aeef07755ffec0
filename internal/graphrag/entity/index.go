package entity

import (
	"strings"
	"time"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/schema"
)

// Entry is one known entity in the name index.
type Entry struct {
	Type    schema.NodeType `json:"type"`
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Aliases []string        `json:"aliases,omitempty"`
}

// NameIndex maps folded names to known entities. It is immutable once built
// and safe to share between goroutines.
type NameIndex struct {
	phrases   map[string]Entry
	persons   map[string]Entry
	aliases   map[string]Entry
	maxTokens int
	builtAt   time.Time
	counts    map[schema.NodeType]int
}

// phrasePriority decides which entry keeps a phrase claimed by several.
var phrasePriority = map[schema.NodeType]int{
	schema.NodeTypeOrganization: 3,
	schema.NodeTypeLocation:     2,
	schema.NodeTypePerson:       1,
}

// NewNameIndex builds an index from entries. Organization and location names
// and every alias become dictionary phrases; person full names are kept for
// binding heuristic matches.
func NewNameIndex(entries []Entry) *NameIndex {
	idx := &NameIndex{
		phrases: make(map[string]Entry),
		persons: make(map[string]Entry),
		aliases: make(map[string]Entry),
		builtAt: time.Now(),
		counts:  make(map[schema.NodeType]int),
	}

	for _, e := range entries {
		if strings.TrimSpace(e.Name) == "" {
			continue
		}
		idx.counts[e.Type]++

		switch e.Type {
		case schema.NodeTypeOrganization, schema.NodeTypeLocation:
			idx.addPhrase(NormalizePhrase(e.Name), e)
		case schema.NodeTypePerson:
			idx.persons[NormalizePhrase(e.Name)] = e
		}

		for _, alias := range e.Aliases {
			key := NormalizePhrase(alias)
			if key == "" {
				continue
			}
			idx.aliases[key] = e
			idx.addPhrase(key, e)
		}
	}
	return idx
}

func (idx *NameIndex) addPhrase(key string, e Entry) {
	if key == "" {
		return
	}
	if existing, ok := idx.phrases[key]; ok && phrasePriority[existing.Type] >= phrasePriority[e.Type] {
		return
	}
	idx.phrases[key] = e
	if n := len(strings.Fields(key)); n > idx.maxTokens {
		idx.maxTokens = n
	}
}

// EmptyIndex returns an index with no entries.
func EmptyIndex() *NameIndex {
	return NewNameIndex(nil)
}

// lookupPhrase returns the dictionary entry for a folded phrase.
func (idx *NameIndex) lookupPhrase(key string) (Entry, bool) {
	if idx == nil {
		return Entry{}, false
	}
	e, ok := idx.phrases[key]
	return e, ok
}

// LookupPerson returns the person whose full name folds to the same key.
func (idx *NameIndex) LookupPerson(name string) (Entry, bool) {
	if idx == nil {
		return Entry{}, false
	}
	e, ok := idx.persons[NormalizePhrase(name)]
	return e, ok
}

// ResolveAlias returns the entity a known alias refers to.
func (idx *NameIndex) ResolveAlias(alias string) (Entry, bool) {
	if idx == nil {
		return Entry{}, false
	}
	e, ok := idx.aliases[NormalizePhrase(alias)]
	return e, ok
}

// Aliases returns every alias key with the canonical name it refers to.
func (idx *NameIndex) Aliases() map[string]string {
	out := make(map[string]string)
	if idx == nil {
		return out
	}
	for key, e := range idx.aliases {
		out[key] = e.Name
	}
	return out
}

// MaxPhraseTokens is the token length of the longest dictionary phrase.
func (idx *NameIndex) MaxPhraseTokens() int {
	if idx == nil {
		return 0
	}
	return idx.maxTokens
}

// Count returns how many entries of a type the index was built from.
func (idx *NameIndex) Count(t schema.NodeType) int {
	if idx == nil {
		return 0
	}
	return idx.counts[t]
}

// BuiltAt returns when the index was built.
func (idx *NameIndex) BuiltAt() time.Time {
	if idx == nil {
		return time.Time{}
	}
	return idx.builtAt
}
