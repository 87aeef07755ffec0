package conversation

import (
	"regexp"
	"strings"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/entity"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/schema"
)

type cueSet struct {
	pattern *regexp.Regexp
	types   []schema.NodeType
}

func compileCues(words []string, types ...schema.NodeType) cueSet {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return cueSet{
		pattern: regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`),
		types:   types,
	}
}

// Phrase cues are checked before bare pronouns so "that gang" refers only to
// organizations.
var (
	organizationCues = compileCues([]string{
		"this gang", "that gang", "the gang", "this crew", "that crew", "the crew",
		"this organization", "that organization", "this group", "that group",
	}, schema.NodeTypeOrganization)

	personCues = compileCues([]string{
		"he", "him", "his", "she", "her", "hers", "this person", "that person",
		"this guy", "that guy", "this suspect", "that suspect",
	}, schema.NodeTypePerson)

	locationCues = compileCues([]string{
		"this location", "that location", "this area", "that area",
		"this block", "that block", "this address", "that address",
	}, schema.NodeTypeLocation)

	generalCues = compileCues([]string{
		"they", "their", "theirs", "them", "these", "those", "this", "it", "its",
	}, entity.RecognizedTypes...)

	resetPattern = regexp.MustCompile(`(?i)^\s*(?:/new|/reset|new investigation|start (?:a )?new investigation|start over|reset)\s*[.!]?\s*$`)
)

// Resolution is the effective entity set for one turn.
type Resolution struct {
	// Effective is what the planner binds operations to.
	Effective entity.Set
	// Referenced lists the types an anaphoric cue pointed at.
	Referenced []schema.NodeType
	// Substituted is set when any entity came from the prior context.
	Substituted bool
}

// Resolve combines newly recognized entities with the prior context. For each
// type referenced by a cue that has no new entity of that type, the prior
// context's entities of that type are substituted.
func Resolve(question string, recognized entity.Set, prior entity.Set) Resolution {
	referenced := ReferencedTypes(question)
	res := Resolution{
		Effective:  recognized.Clone(),
		Referenced: referenced,
	}

	for _, t := range referenced {
		if len(recognized.OfType(t)) > 0 {
			continue
		}
		for _, c := range prior.OfType(t) {
			res.Effective.Add(c)
			res.Substituted = true
		}
	}
	return res
}

// ReferencedTypes returns the entity types the question's anaphoric cues point
// at, in a fixed order.
func ReferencedTypes(question string) []schema.NodeType {
	remaining := question
	seen := map[schema.NodeType]bool{}

	for _, cues := range []cueSet{organizationCues, locationCues, personCues} {
		if cues.pattern.MatchString(remaining) {
			for _, t := range cues.types {
				seen[t] = true
			}
			remaining = cues.pattern.ReplaceAllString(remaining, " ")
		}
	}
	if generalCues.pattern.MatchString(remaining) {
		for _, t := range generalCues.types {
			seen[t] = true
		}
	}

	var out []schema.NodeType
	for _, t := range entity.RecognizedTypes {
		if seen[t] {
			out = append(out, t)
		}
	}
	return out
}

// IsResetSignal reports whether the input asks to start a new investigation.
func IsResetSignal(input string) bool {
	return resetPattern.MatchString(input)
}
