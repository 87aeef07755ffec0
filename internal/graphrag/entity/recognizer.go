package entity

import (
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/schema"
)

// maxPersonTokens bounds a single person-name span during segmentation.
const maxPersonTokens = 4

// Recognizer extracts entity candidates from question text.
type Recognizer struct {
	lexicon *Lexicon
}

// NewRecognizer creates a recognizer. A nil lexicon uses the embedded default.
func NewRecognizer(lexicon *Lexicon) *Recognizer {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	return &Recognizer{lexicon: lexicon}
}

// Lexicon returns the word lists the recognizer uses.
func (r *Recognizer) Lexicon() *Lexicon {
	return r.lexicon
}

// Recognize returns the disjoint candidate sets found in text. No match is
// an empty set, never an error.
func (r *Recognizer) Recognize(text string, idx *NameIndex) Set {
	tokens := Tokenize(text)
	covered := make([]bool, len(tokens))

	var found Set
	r.matchDictionary(tokens, covered, idx, &found)
	r.matchPersons(tokens, covered, idx, &found)
	return found
}

// matchDictionary scans left to right for the longest index phrase starting
// at each position.
func (r *Recognizer) matchDictionary(tokens []Token, covered []bool, idx *NameIndex, found *Set) {
	maxLen := idx.MaxPhraseTokens()
	for i := 0; i < len(tokens); {
		matched := 0
		for n := min(maxLen, len(tokens)-i); n >= 1; n-- {
			key, ok := spanKey(tokens, i, i+n)
			if !ok {
				continue
			}
			entry, ok := idx.lookupPhrase(key)
			if !ok {
				continue
			}
			found.Add(Candidate{
				Type: entry.Type,
				Text: joinTokens(tokens, i, i+n),
				ID:   entry.ID,
				Name: entry.Name,
			})
			matched = n
			break
		}

		if matched == 0 {
			i++
			continue
		}
		for k := i; k < i+matched; k++ {
			covered[k] = true
		}
		i += matched
	}
}

// matchPersons finds runs of two or more capitalized, non-excluded tokens
// outside dictionary matches.
func (r *Recognizer) matchPersons(tokens []Token, covered []bool, idx *NameIndex, found *Set) {
	eligible := func(k int) bool {
		return !covered[k] && tokens[k].Capitalized() && !r.lexicon.IsExcluded(tokens[k].Text)
	}

	for i := 0; i < len(tokens); {
		if !eligible(i) {
			i++
			continue
		}
		j := i + 1
		for j < len(tokens) && eligible(j) && !tokens[j].BreakBefore {
			j++
		}
		if j-i >= 2 {
			r.segmentRun(tokens, i, j, idx, found)
		}
		i = j
	}
}

// segmentRun splits a capitalized run into known person names where the index
// allows it. Whatever cannot be split is kept as one unresolved candidate.
func (r *Recognizer) segmentRun(tokens []Token, start, end int, idx *NameIndex, found *Set) {
	for i := start; i < end; {
		took := 0
		for n := min(maxPersonTokens, end-i); n >= 2; n-- {
			text := joinTokens(tokens, i, i+n)
			if entry, ok := idx.LookupPerson(text); ok {
				found.Add(Candidate{Type: schema.NodeTypePerson, Text: text, ID: entry.ID, Name: entry.Name})
				took = n
				break
			}
		}
		if took == 0 {
			if end-i >= 2 {
				text := joinTokens(tokens, i, end)
				found.Add(Candidate{Type: schema.NodeTypePerson, Text: text, Name: text})
			}
			return
		}
		i += took
	}
}
