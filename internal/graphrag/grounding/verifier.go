package grounding

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/entity"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/facts"
)

// Verifier checks answers against fact bundles.
type Verifier struct {
	lexicon *entity.Lexicon
}

// NewVerifier creates a verifier. A nil lexicon selects the embedded default.
func NewVerifier(lexicon *entity.Lexicon) *Verifier {
	if lexicon == nil {
		lexicon = entity.DefaultLexicon()
	}
	return &Verifier{lexicon: lexicon}
}

// Verify returns nil when every claim in answer is supported by the bundle,
// or an *UngroundedClaimError listing the claims that are not. aliases maps
// folded alias phrases to canonical names; an alias is supported when its
// canonical name is.
func (v *Verifier) Verify(answer string, bundle *facts.Bundle, aliases map[string]string) error {
	ev := collectEvidence(bundle)

	var missing []Claim
	seen := make(map[Claim]struct{})
	add := func(c Claim) {
		if _, ok := seen[c]; ok {
			return
		}
		seen[c] = struct{}{}
		missing = append(missing, c)
	}

	for _, name := range v.EntityClaims(answer) {
		if !ev.hasPhrase(name, aliases) {
			add(Claim{Kind: ClaimEntity, Text: name})
		}
	}
	for _, n := range numberClaims(answer) {
		if !ev.hasNumber(n) {
			add(Claim{Kind: ClaimNumber, Text: n.text})
		}
	}

	if len(missing) == 0 {
		return nil
	}
	return &UngroundedClaimError{Claims: missing}
}

// EntityClaims extracts the proper-noun phrases of an answer: runs of
// capitalized words not separated by punctuation, without leading filler
// such as "Based" or "The". A lone capitalized word is a claim unless the
// lexicon knows it as a common word, wherever it appears in the sentence.
func (v *Verifier) EntityClaims(answer string) []string {
	tokens := entity.Tokenize(answer)
	var claims []string

	i := 0
	for i < len(tokens) {
		if !tokens[i].Capitalized() {
			i++
			continue
		}
		j := i + 1
		for j < len(tokens) && tokens[j].Capitalized() && !tokens[j].BreakBefore {
			j++
		}

		start := i
		for start < j && v.lexicon.IsAnswerStopword(tokens[start].Text) {
			start++
		}
		if start < j {
			if claim, ok := v.claimFor(tokens, start, j); ok {
				claims = append(claims, claim)
			}
		}
		i = j
	}
	return claims
}

func (v *Verifier) claimFor(tokens []entity.Token, i, j int) (string, bool) {
	if j-i == 1 {
		word := tokens[i].Text
		if v.lexicon.IsExcluded(word) || v.lexicon.IsAnswerStopword(word) {
			return "", false
		}
		if utf8.RuneCountInString(word) < 2 {
			return "", false
		}
	}
	parts := make([]string, 0, j-i)
	for _, t := range tokens[i:j] {
		parts = append(parts, t.Text)
	}
	return strings.Join(parts, " "), true
}

// evidence is everything an answer may legitimately cite.
type evidence struct {
	phrases []string
	numbers []float64
}

func collectEvidence(b *facts.Bundle) *evidence {
	ev := &evidence{}
	if b == nil {
		return ev
	}
	ev.addText(b.Question)
	ev.addNumber(float64(b.RecordCount()))
	ev.addNumber(float64(len(b.ResultSets)))
	for _, q := range b.QueryLog {
		ev.addText(q.Name)
	}
	for _, rs := range b.ResultSets {
		ev.addText(rs.Name)
		ev.addNumber(float64(len(rs.Records)))
		for _, r := range rs.Records {
			for k, val := range r {
				ev.addText(strings.ReplaceAll(k, "_", " "))
				ev.addValue(val)
			}
		}
	}
	return ev
}

func (ev *evidence) addText(s string) {
	if p := entity.NormalizePhrase(s); p != "" {
		ev.phrases = append(ev.phrases, " "+p+" ")
	}
	for _, d := range digitRuns(s) {
		ev.addNumber(d)
	}
}

func (ev *evidence) addNumber(f float64) {
	ev.numbers = append(ev.numbers, f)
}

func (ev *evidence) addValue(v any) {
	switch t := v.(type) {
	case string:
		ev.addText(t)
	case int64:
		ev.addNumber(float64(t))
	case float64:
		if !math.IsNaN(t) && !math.IsInf(t, 0) {
			ev.addNumber(t)
		}
	case []any:
		ev.addNumber(float64(len(t)))
		for _, item := range t {
			ev.addValue(item)
		}
	case map[string]any:
		for k, item := range t {
			ev.addText(strings.ReplaceAll(k, "_", " "))
			ev.addValue(item)
		}
	case facts.Record:
		ev.addValue(map[string]any(t))
	}
}

func (ev *evidence) hasPhrase(name string, aliases map[string]string) bool {
	key := entity.NormalizePhrase(name)
	if key == "" {
		return true
	}
	if ev.containsPhrase(key) {
		return true
	}
	if canonical, ok := aliases[key]; ok {
		return ev.containsPhrase(entity.NormalizePhrase(canonical))
	}
	return false
}

func (ev *evidence) containsPhrase(key string) bool {
	needle := " " + key + " "
	for _, p := range ev.phrases {
		if strings.Contains(p, needle) {
			return true
		}
	}
	return false
}

func (ev *evidence) hasNumber(n number) bool {
	for _, f := range ev.numbers {
		if n.matches(f) {
			return true
		}
	}
	return false
}

// number is a numeric claim with the precision it was written at.
type number struct {
	text     string
	value    float64
	decimals int
	percent  bool
}

func (n number) matches(f float64) bool {
	f = math.Abs(f)
	if roundTo(f, n.decimals) == n.value {
		return true
	}
	if n.percent {
		return roundTo(f*100, n.decimals) == n.value
	}
	return false
}

func roundTo(f float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(f*p) / p
}

// numberClaims scans an answer for standalone numbers. Digits that are part
// of an identifier such as P001, 014XX or 2nd are not claims.
func numberClaims(text string) []number {
	var out []number
	i := 0
	for i < len(text) {
		if !isDigit(text[i]) {
			i++
			continue
		}
		start := i
		if start > 0 {
			prev, _ := utf8.DecodeLastRuneInString(text[:start])
			if unicode.IsLetter(prev) || prev == '_' {
				i = skipWord(text, i)
				continue
			}
		}

		j := i
		for j < len(text) && isDigit(text[j]) {
			j++
		}
		for j < len(text) && text[j] == ',' && threeDigits(text, j+1) {
			j += 4
		}
		decimals := 0
		if j+1 < len(text) && text[j] == '.' && isDigit(text[j+1]) {
			k := j + 1
			for k < len(text) && isDigit(text[k]) {
				k++
			}
			decimals = k - j - 1
			j = k
		}
		if j < len(text) {
			next, _ := utf8.DecodeRuneInString(text[j:])
			if unicode.IsLetter(next) || next == '_' {
				i = skipWord(text, j)
				continue
			}
		}

		if listMarker(text, start, j) {
			i = j + 1
			continue
		}

		literal := text[start:j]
		value, err := strconv.ParseFloat(strings.ReplaceAll(literal, ",", ""), 64)
		if err != nil {
			i = j
			continue
		}
		n := number{text: literal, value: value, decimals: decimals}
		if j < len(text) && text[j] == '%' {
			n.percent = true
			n.text = literal + "%"
			j++
		}
		out = append(out, n)
		i = j
	}
	return out
}

// digitRuns returns every maximal digit sequence in s, with decimals.
func digitRuns(s string) []float64 {
	var out []float64
	i := 0
	for i < len(s) {
		if !isDigit(s[i]) {
			i++
			continue
		}
		j := i
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j+1 < len(s) && s[j] == '.' && isDigit(s[j+1]) {
			j++
			for j < len(s) && isDigit(s[j]) {
				j++
			}
		}
		if f, err := strconv.ParseFloat(s[i:j], 64); err == nil {
			out = append(out, f)
		}
		i = j
	}
	return out
}

// listMarker reports whether text[start:end] numbers a list item, as in
// "2. Tyrone Williams" at the start of a line.
func listMarker(text string, start, end int) bool {
	if end+1 >= len(text) || (text[end] != '.' && text[end] != ')') || text[end+1] != ' ' {
		return false
	}
	line := strings.LastIndexByte(text[:start], '\n') + 1
	return strings.TrimSpace(text[line:start]) == ""
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func threeDigits(s string, i int) bool {
	if i+3 > len(s) {
		return false
	}
	if !isDigit(s[i]) || !isDigit(s[i+1]) || !isDigit(s[i+2]) {
		return false
	}
	return i+3 == len(s) || !isDigit(s[i+3])
}

func skipWord(s string, i int) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		i += size
	}
	return i
}
