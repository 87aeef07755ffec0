package entity

import (
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/schema"
)

// Candidate is an entity mention found in question text.
type Candidate struct {
	Type schema.NodeType `json:"type"`
	// Text is the mention as written.
	Text string `json:"text"`
	// ID is empty when the mention could not be bound to a known node.
	ID string `json:"id,omitempty"`
	// Name is the canonical name when bound, otherwise the mention text.
	Name string `json:"name"`
}

// Resolved reports whether the candidate is bound to a known node.
func (c Candidate) Resolved() bool {
	return c.ID != ""
}

func (c Candidate) key() string {
	if c.ID != "" {
		return string(c.Type) + "#" + c.ID
	}
	return string(c.Type) + ":" + NormalizePhrase(c.Name)
}

// Set holds disjoint candidate lists per entity type, in order of appearance.
type Set struct {
	Persons       []Candidate `json:"persons,omitempty"`
	Organizations []Candidate `json:"organizations,omitempty"`
	Locations     []Candidate `json:"locations,omitempty"`
}

// IsEmpty reports whether the set holds no candidates.
func (s Set) IsEmpty() bool {
	return s.Len() == 0
}

// Len returns the total number of candidates.
func (s Set) Len() int {
	return len(s.Persons) + len(s.Organizations) + len(s.Locations)
}

// OfType returns the candidates of one type.
func (s Set) OfType(t schema.NodeType) []Candidate {
	switch t {
	case schema.NodeTypePerson:
		return s.Persons
	case schema.NodeTypeOrganization:
		return s.Organizations
	case schema.NodeTypeLocation:
		return s.Locations
	default:
		return nil
	}
}

// All returns every candidate: persons, then organizations, then locations.
func (s Set) All() []Candidate {
	out := make([]Candidate, 0, s.Len())
	out = append(out, s.Persons...)
	out = append(out, s.Organizations...)
	out = append(out, s.Locations...)
	return out
}

// Names returns the canonical names of every candidate.
func (s Set) Names() []string {
	all := s.All()
	names := make([]string, len(all))
	for i, c := range all {
		names[i] = c.Name
	}
	return names
}

// Clone returns a copy that shares no slices with s.
func (s Set) Clone() Set {
	return Set{
		Persons:       append([]Candidate(nil), s.Persons...),
		Organizations: append([]Candidate(nil), s.Organizations...),
		Locations:     append([]Candidate(nil), s.Locations...),
	}
}

// Add appends c to the list for its type unless an equal candidate is present.
func (s *Set) Add(c Candidate) {
	for _, existing := range s.OfType(c.Type) {
		if existing.key() == c.key() {
			return
		}
	}
	switch c.Type {
	case schema.NodeTypePerson:
		s.Persons = append(s.Persons, c)
	case schema.NodeTypeOrganization:
		s.Organizations = append(s.Organizations, c)
	case schema.NodeTypeLocation:
		s.Locations = append(s.Locations, c)
	}
}

// RecognizedTypes are the node types a Set can hold.
var RecognizedTypes = []schema.NodeType{
	schema.NodeTypePerson,
	schema.NodeTypeOrganization,
	schema.NodeTypeLocation,
}
