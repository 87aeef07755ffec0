package intent

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/entity"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/query"
)

// cue matches any of a list of words or phrases on word boundaries. A
// trailing '*' matches any word suffix; spaces match any whitespace.
type cue struct {
	re *regexp.Regexp
}

func cues(terms ...string) cue {
	parts := make([]string, len(terms))
	for i, t := range terms {
		stem := strings.HasSuffix(t, "*")
		t = strings.TrimSuffix(t, "*")
		p := strings.ReplaceAll(regexp.QuoteMeta(t), " ", `\s+`)
		if stem {
			p += `\w*`
		}
		parts[i] = p
	}
	return cue{re: regexp.MustCompile(`(?i)(?:^|\b|\s)(?:` + strings.Join(parts, "|") + `)\b`)}
}

func (c cue) in(s string) bool {
	return c.re.MatchString(s)
}

var (
	pathCue = cues("between", "path", "connected to", "linked to", "link to", "chain to", "route to")

	depthPattern = regexp.MustCompile(`(?i)\b(\d+|one|two|three|four|five|six)[\s-]+(?:degrees?|hops?|steps?|links?)\b`)
	traversalCue = cues("degrees of separation", "extended network", "network", "hops away", "within")
	togetherCue  = cues("together", "co-offend*", "cooffend*", "collaborat*", "partners in crime", "worked with", "teamed up", "accomplice*", "crimes with")
	crossOrgCue  = cues(append([]string{"different gang*", "different organization*", "different crew*", "different group*", "rival*", "across gang*", "across organization*", "other gang*", "another gang", "opposing gang*"},
		notSameGroup()...)...)
	influenceCue = cues("influen*", "most important", "most powerful", "key player*", "kingpin*")
	bridgeCue    = cues("bridge*", "broker*", "multiple gangs", "multiple organizations", "several gangs", "several organizations", "many gangs", "between gangs", "across gangs")
	hiddenCue    = cues("hidden", "ring", "rings", "not in a gang", "not in any gang", "not in gang*", "unaffiliated", "no gang", "without a gang", "covert", "undeclared")
	degreeCue    = cues("most connected", "best connected", "well connected", "hub*", "most connections", "most relationships", "central figure*")
	hotspotCue   = cues("hotspot*", "hot spot*", "dangerous", "danger", "risk*", "crime cluster*", "high-crime", "high crime")

	numberWords = map[string]int{"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6}
)

var relationCues = []struct {
	relation query.Relation
	cue      cue
}{
	{query.RelationMembership, cues("member*", "belong*", "affiliat*", "runs", "run by", "leads", "leader*", "in charge", "boss", "part of", "which gang", "what gang", "which crew", "what crew", "which organization", "'s gang", "'s crew", "his gang", "her gang", "their gang", "roster")},
	{query.RelationIncidents, cues("crime*", "incident*", "arrest*", "involved in", "offen*", "history", "record*", "committed", "charged", "happened", "occurred", "cases", "activity")},
	{query.RelationAssociates, cues("know*", "associate*", "connection*", "connected", "friend*", "contact*", "acquaint*", "hangs out")},
	{query.RelationFamily, cues("family", "brother*", "sister*", "cousin*", "relative*", "mother", "father", "sibling*", "related to")},
	{query.RelationOwnership, cues("own*", "weapon*", "gun*", "firearm*", "vehicle*", "car", "cars", "drive*", "armed")},
	{query.RelationEvidence, cues("evidence", "forensic*", "dna", "fingerprint*", "proof")},
}

var facetCues = []struct {
	facet query.Facet
	cue   cue
}{
	{query.FacetWeapons, cues("weapon*", "gun*", "firearm*", "armed")},
	{query.FacetVehicles, cues("vehicle*", "car", "cars", "license plate*")},
	{query.FacetEvidence, cues("evidence", "forensic*", "dna", "fingerprint*")},
	{query.FacetInvestigators, cues("investigator*", "detective*", "officer*", "caseload*")},
	{query.FacetOrganizations, cues("gang*", "organization*", "crews")},
	{query.FacetRepeatOffenders, cues("repeat offender*", "recidiv*", "most arrests", "most crimes", "most incidents", "worst offender*")},
	{query.FacetTriangles, cues("triangle*", "triad*", "three-way", "mutual connection*", "mutual acquaintance*")},
}

// notSameGroup expands "not in the same gang" style phrasings, with and
// without the article.
func notSameGroup() []string {
	var out []string
	for _, neg := range []string{"not", "aren't", "isn't", "weren't", "wasn't", "never"} {
		for _, prep := range []string{"in", "from", "of"} {
			for _, article := range []string{"the ", ""} {
				for _, group := range []string{"gang*", "organization*", "crew*", "group*"} {
					out = append(out, neg+" "+prep+" "+article+"same "+group)
				}
			}
		}
	}
	return out
}

// Classifier maps a question and its resolved entities to one Intent.
type Classifier struct {
	defaultDepth int
	maxDepth     int
}

// NewClassifier creates a classifier. maxDepth is clamped to the global
// traversal bound; defaultDepth is clamped to maxDepth.
func NewClassifier(defaultDepth, maxDepth int) *Classifier {
	if maxDepth <= 0 || maxDepth > query.MaxTraversalDepth {
		maxDepth = query.MaxTraversalDepth
	}
	if defaultDepth <= 0 {
		defaultDepth = 2
	}
	if defaultDepth > maxDepth {
		defaultDepth = maxDepth
	}
	return &Classifier{defaultDepth: defaultDepth, maxDepth: maxDepth}
}

// Classify returns the single intent for question. Cues are tested in a fixed
// priority order; the first match wins.
func (c *Classifier) Classify(question string, entities entity.Set) Intent {
	q := strings.ReplaceAll(question, "’", "'")
	persons := entities.Persons

	switch {
	case len(persons) >= 2 && pathCue.in(q):
		return PathBetween{From: persons[0], To: persons[1]}

	case len(persons)+len(entities.Organizations) >= 1 && (depthPattern.MatchString(q) || traversalCue.in(q)):
		origins := append(append([]entity.Candidate{}, persons...), entities.Organizations...)
		return Traversal{Origins: origins, Depth: c.depth(q)}

	case togetherCue.in(q) && crossOrgCue.in(q):
		return CoOccurrence{Focus: persons, CrossOrgOnly: true}

	case influenceCue.in(q):
		return InfluenceRanking{}

	case bridgeCue.in(q):
		return BridgeDetection{}

	case hiddenCue.in(q):
		return HiddenCommunity{}

	case degreeCue.in(q):
		return DegreeRanking{}

	case togetherCue.in(q):
		return CoOccurrence{Focus: persons}

	case hotspotCue.in(q) && len(persons) == 0 && len(entities.Organizations) == 0:
		return HotspotScan{Locations: entities.Locations}
	}

	if entities.IsEmpty() {
		return Aggregate{Facets: facets(q)}
	}
	if rels := relations(q); len(rels) > 0 {
		return RelationLookup{Entities: entities, Relations: rels}
	}
	return EntityLookup{Entities: entities}
}

// depth parses "within N hops" style phrasing, falling back to the default.
func (c *Classifier) depth(q string) int {
	m := depthPattern.FindStringSubmatch(q)
	if m == nil {
		return c.defaultDepth
	}
	word := strings.ToLower(m[1])
	n, ok := numberWords[word]
	if !ok {
		var err error
		if n, err = strconv.Atoi(word); err != nil {
			return c.defaultDepth
		}
	}
	switch {
	case n < 1:
		return 1
	case n > c.maxDepth:
		return c.maxDepth
	default:
		return n
	}
}

func relations(q string) []query.Relation {
	var out []query.Relation
	for _, rc := range relationCues {
		if rc.cue.in(q) {
			out = append(out, rc.relation)
		}
	}
	return out
}

func facets(q string) []query.Facet {
	var out []query.Facet
	for _, fc := range facetCues {
		if fc.cue.in(q) {
			out = append(out, fc.facet)
		}
	}
	return out
}
