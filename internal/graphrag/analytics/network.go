package analytics

import (
	"math"
	"sort"
)

// InfluenceScore is one person's influence ranking entry.
type InfluenceScore struct {
	PersonID      string
	Name          string
	Incidents     int
	Acquaintances int
	Score         float64
}

// Influence scores every person as
// IncidentWeight*incidents + AcquaintanceWeight*distinct acquaintances,
// sorted by score descending with ties broken by identifier.
func Influence(persons []Person, parties []Party, acquaintances []Acquaintance, cfg InfluenceConfig) []InfluenceScore {
	crimes := crimesByPerson(parties)
	neighbours := neighbourSets(acquaintances)

	out := make([]InfluenceScore, 0, len(persons))
	for _, p := range persons {
		inc := len(crimes[p.ID])
		acq := len(neighbours[p.ID])
		out = append(out, InfluenceScore{
			PersonID:      p.ID,
			Name:          p.Name,
			Incidents:     inc,
			Acquaintances: acq,
			Score:         round(cfg.IncidentWeight*float64(inc)+cfg.AcquaintanceWeight*float64(acq), 2),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].PersonID < out[j].PersonID
	})
	return out
}

// Bridge is a person whose acquaintances are members of several organizations.
type Bridge struct {
	PersonID        string
	Name            string
	OwnOrganization string
	Organizations   []string
	Incidents       int
}

// Score is the number of distinct organizations reached.
func (b Bridge) Score() int {
	return len(b.Organizations)
}

// Bridges reports persons reaching members of at least minOrgs distinct
// organizations through one acquaintance hop. minOrgs below 2 is treated as 2.
func Bridges(persons []Person, parties []Party, acquaintances []Acquaintance, memberships []Membership, minOrgs int) []Bridge {
	if minOrgs < 2 {
		minOrgs = 2
	}
	crimes := crimesByPerson(parties)
	neighbours := neighbourSets(acquaintances)
	orgsOf := map[string]map[string]string{}
	for _, m := range memberships {
		if orgsOf[m.PersonID] == nil {
			orgsOf[m.PersonID] = map[string]string{}
		}
		orgsOf[m.PersonID][m.OrganizationID] = m.Organization
	}

	var out []Bridge
	for _, p := range persons {
		reached := map[string]string{}
		for q := range neighbours[p.ID] {
			for id, name := range orgsOf[q] {
				reached[id] = name
			}
		}
		if len(reached) < minOrgs {
			continue
		}
		out = append(out, Bridge{
			PersonID:        p.ID,
			Name:            p.Name,
			OwnOrganization: firstName(orgsOf[p.ID]),
			Organizations:   sortedValues(reached),
			Incidents:       len(crimes[p.ID]),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score() != out[j].Score() {
			return out[i].Score() > out[j].Score()
		}
		if out[i].Incidents != out[j].Incidents {
			return out[i].Incidents > out[j].Incidents
		}
		return out[i].PersonID < out[j].PersonID
	})
	return out
}

// HiddenPair is two unaffiliated persons who share incidents. PersonA < PersonB.
type HiddenPair struct {
	PersonA       string
	PersonB       string
	NameA         string
	NameB         string
	Shared        int
	IncidentTypes []string
}

// HiddenCommunities pairs persons who were both party to at least minShared
// incidents while neither holds any organization membership.
func HiddenCommunities(persons []Person, parties []Party, memberships []Membership, minShared int) []HiddenPair {
	member := map[string]bool{}
	for _, m := range memberships {
		member[m.PersonID] = true
	}
	names := map[string]string{}
	for _, p := range persons {
		names[p.ID] = p.Name
	}

	byCrime := map[string]map[string]bool{}
	crimeType := map[string]string{}
	for _, pt := range parties {
		if member[pt.PersonID] || pt.PersonID == "" {
			continue
		}
		if byCrime[pt.CrimeID] == nil {
			byCrime[pt.CrimeID] = map[string]bool{}
		}
		byCrime[pt.CrimeID][pt.PersonID] = true
		crimeType[pt.CrimeID] = pt.CrimeType
	}

	type pairKey struct{ a, b string }
	shared := map[pairKey]map[string]bool{}
	for crime, set := range byCrime {
		ids := sortedKeys(set)
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				k := pairKey{ids[i], ids[j]}
				if shared[k] == nil {
					shared[k] = map[string]bool{}
				}
				shared[k][crime] = true
			}
		}
	}

	var out []HiddenPair
	for k, crimes := range shared {
		if len(crimes) < minShared {
			continue
		}
		typeSet := map[string]bool{}
		for c := range crimes {
			if t := crimeType[c]; t != "" {
				typeSet[t] = true
			}
		}
		out = append(out, HiddenPair{
			PersonA:       k.a,
			PersonB:       k.b,
			NameA:         names[k.a],
			NameB:         names[k.b],
			Shared:        len(crimes),
			IncidentTypes: sortedKeys(typeSet),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Shared != out[j].Shared {
			return out[i].Shared > out[j].Shared
		}
		if out[i].PersonA != out[j].PersonA {
			return out[i].PersonA < out[j].PersonA
		}
		return out[i].PersonB < out[j].PersonB
	})
	return out
}

// DegreeEntry is one person's degree.
type DegreeEntry struct {
	PersonID string
	Name     string
	Degree   int64
	// ByRelation breaks the degree down per edge label.
	ByRelation map[string]int64
}

// Degrees sums incident edges of every label per person, sorted by degree
// descending with ties broken by identifier.
func Degrees(counts []EdgeCount) []DegreeEntry {
	idx := map[string]*DegreeEntry{}
	var order []string
	for _, c := range counts {
		e, ok := idx[c.PersonID]
		if !ok {
			e = &DegreeEntry{PersonID: c.PersonID, Name: c.Name, ByRelation: map[string]int64{}}
			idx[c.PersonID] = e
			order = append(order, c.PersonID)
		}
		if c.Relation != "" && c.Count > 0 {
			e.Degree += c.Count
			e.ByRelation[c.Relation] += c.Count
		}
	}

	out := make([]DegreeEntry, 0, len(order))
	for _, id := range order {
		out = append(out, *idx[id])
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Degree != out[j].Degree {
			return out[i].Degree > out[j].Degree
		}
		return out[i].PersonID < out[j].PersonID
	})
	return out
}

func crimesByPerson(parties []Party) map[string]map[string]bool {
	out := map[string]map[string]bool{}
	for _, p := range parties {
		if out[p.PersonID] == nil {
			out[p.PersonID] = map[string]bool{}
		}
		out[p.PersonID][p.CrimeID] = true
	}
	return out
}

func neighbourSets(acquaintances []Acquaintance) map[string]map[string]bool {
	out := map[string]map[string]bool{}
	add := func(a, b string) {
		if out[a] == nil {
			out[a] = map[string]bool{}
		}
		out[a][b] = true
	}
	for _, e := range acquaintances {
		if e.A == "" || e.B == "" || e.A == e.B {
			continue
		}
		add(e.A, e.B)
		add(e.B, e.A)
	}
	return out
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedValues(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// firstName returns the lexicographically smallest value, or "".
func firstName(m map[string]string) string {
	vals := sortedValues(m)
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
