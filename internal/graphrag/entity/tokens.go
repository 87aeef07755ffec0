package entity

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Token is a word in the source text with its byte offsets.
type Token struct {
	Text  string
	Start int
	End   int
	// BreakBefore is set when punctuation other than whitespace separates this
	// token from the previous one. Names never span a break.
	BreakBefore bool
}

// Capitalized reports whether the token starts with an upper-case letter.
func (t Token) Capitalized() bool {
	r, _ := utf8.DecodeRuneInString(t.Text)
	return unicode.IsUpper(r)
}

// Fold returns the case-folded form used for all index lookups.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// NormalizePhrase folds a multi-word name into its index key.
func NormalizePhrase(s string) string {
	tokens := Tokenize(s)
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = Fold(t.Text)
	}
	return strings.Join(parts, " ")
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isJoiner(r rune) bool {
	return r == '\'' || r == '’' || r == '-'
}

// Tokenize splits text into words. Apostrophes and hyphens inside a word are
// kept; a trailing possessive 's is dropped.
func Tokenize(text string) []Token {
	var tokens []Token
	sawBreak := false
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isWordRune(r) {
			if !unicode.IsSpace(r) {
				sawBreak = true
			}
			i += size
			continue
		}

		start := i
		end := i
		for end < len(text) {
			r, size := utf8.DecodeRuneInString(text[end:])
			if isWordRune(r) {
				end += size
				continue
			}
			if isJoiner(r) && end+size < len(text) {
				next, _ := utf8.DecodeRuneInString(text[end+size:])
				if isWordRune(next) {
					end += size
					continue
				}
			}
			break
		}

		word := text[start:end]
		for _, suffix := range []string{"'s", "’s"} {
			if strings.HasSuffix(word, suffix) && len(word) > len(suffix) {
				word = word[:len(word)-len(suffix)]
			}
		}

		tokens = append(tokens, Token{
			Text:        word,
			Start:       start,
			End:         start + len(word),
			BreakBefore: sawBreak && len(tokens) > 0,
		})
		sawBreak = false
		i = end
	}
	return tokens
}

// joinTokens renders tokens[i:j] as their original words separated by spaces.
func joinTokens(tokens []Token, i, j int) string {
	parts := make([]string, 0, j-i)
	for _, t := range tokens[i:j] {
		parts = append(parts, t.Text)
	}
	return strings.Join(parts, " ")
}

// spanKey folds tokens[i:j] into an index key, or returns false when the span
// crosses a punctuation break.
func spanKey(tokens []Token, i, j int) (string, bool) {
	parts := make([]string, 0, j-i)
	for k := i; k < j; k++ {
		if k > i && tokens[k].BreakBefore {
			return "", false
		}
		parts = append(parts, Fold(tokens[k].Text))
	}
	return strings.Join(parts, " "), true
}
