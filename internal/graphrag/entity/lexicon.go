package entity

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var defaultLexiconYAML []byte

// Lexicon holds the closed word lists used by recognition and grounding.
type Lexicon struct {
	Exclusions      map[string][]string `yaml:"exclusions"`
	AnswerStopwords []string            `yaml:"answer_stopwords"`

	excluded  map[string]bool
	stopwords map[string]bool
}

// DefaultLexicon returns the embedded lexicon.
func DefaultLexicon() *Lexicon {
	lex, err := ParseLexicon(defaultLexiconYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded lexicon is invalid: %v", err))
	}
	return lex
}

// LoadLexicon reads a lexicon file. Its lists are added to the embedded defaults.
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon %s: %w", path, err)
	}
	extra, err := ParseLexicon(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse lexicon %s: %w", path, err)
	}

	lex := DefaultLexicon()
	for group, words := range extra.Exclusions {
		lex.Exclusions[group] = append(lex.Exclusions[group], words...)
	}
	lex.AnswerStopwords = append(lex.AnswerStopwords, extra.AnswerStopwords...)
	lex.index()
	return lex, nil
}

// ParseLexicon decodes a lexicon from YAML.
func ParseLexicon(data []byte) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, err
	}
	if lex.Exclusions == nil {
		lex.Exclusions = map[string][]string{}
	}
	lex.index()
	return &lex, nil
}

// nameFormingGroups are exclusion groups whose words regularly appear inside
// organization and location names, so they are not stripped from answers.
var nameFormingGroups = map[string]bool{"places": true, "domain": true}

func (l *Lexicon) index() {
	l.excluded = make(map[string]bool)
	l.stopwords = make(map[string]bool, len(l.AnswerStopwords))
	for group, words := range l.Exclusions {
		for _, w := range words {
			lw := strings.ToLower(w)
			l.excluded[lw] = true
			if !nameFormingGroups[group] {
				l.stopwords[lw] = true
			}
		}
	}
	for _, w := range l.AnswerStopwords {
		l.stopwords[strings.ToLower(w)] = true
	}
}

// IsExcluded reports whether a capitalized word can never be part of a person name.
func (l *Lexicon) IsExcluded(word string) bool {
	return l.excluded[strings.ToLower(word)]
}

// IsAnswerStopword reports whether a capitalized word in generated text is a
// common word that cannot start a name.
func (l *Lexicon) IsAnswerStopword(word string) bool {
	return l.stopwords[strings.ToLower(word)]
}
