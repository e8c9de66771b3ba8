// Package lexicon holds the bilingual synonym table and the set of
// domain-salient terms used by query expansion.
package lexicon

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default_lexicon.yaml
var defaultLexiconYAML []byte

// Lexicon is immutable once built and safe for concurrent use.
type Lexicon struct {
	synonyms      map[string][]string
	important     map[string]struct{}
	importantList []string
}

type lexiconFile struct {
	Synonyms       map[string][]string `yaml:"synonyms"`
	ImportantTerms []string            `yaml:"important_terms"`
}

var (
	defaultOnce sync.Once
	defaultLex  *Lexicon
)

// Default returns the embedded lexicon, parsed on first use.
func Default() *Lexicon {
	defaultOnce.Do(func() {
		lex, err := Parse(defaultLexiconYAML)
		if err != nil {
			panic(fmt.Sprintf("lexicon: embedded default is invalid: %v", err))
		}
		defaultLex = lex
	})
	return defaultLex
}

// Load reads a lexicon from a YAML file. An empty path returns Default().
func Load(path string) (*Lexicon, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon: %w", err)
	}
	return Parse(data)
}

// Parse builds a lexicon from YAML. Keys and important terms are lowercased;
// synonym lists keep their order and duplicates.
func Parse(data []byte) (*Lexicon, error) {
	var f lexiconFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon: %w", err)
	}
	if len(f.Synonyms) == 0 && len(f.ImportantTerms) == 0 {
		return nil, fmt.Errorf("lexicon is empty")
	}
	return New(f.Synonyms, f.ImportantTerms), nil
}

// New builds a lexicon from in-memory tables. The inputs are copied.
func New(synonyms map[string][]string, importantTerms []string) *Lexicon {
	lex := &Lexicon{
		synonyms:  make(map[string][]string, len(synonyms)),
		important: make(map[string]struct{}, len(importantTerms)),
	}
	for term, syns := range synonyms {
		key := strings.ToLower(strings.TrimSpace(term))
		if key == "" {
			continue
		}
		lex.synonyms[key] = slices.Clone(syns)
	}
	for _, term := range importantTerms {
		t := strings.ToLower(strings.TrimSpace(term))
		if t == "" {
			continue
		}
		if _, ok := lex.important[t]; !ok {
			lex.important[t] = struct{}{}
			lex.importantList = append(lex.importantList, t)
		}
	}
	return lex
}

// Synonyms returns the ordered synonyms for a normalized term, or nil.
func (l *Lexicon) Synonyms(term string) []string {
	return slices.Clone(l.synonyms[term])
}

// HasSynonyms reports whether the term has a synonym entry.
func (l *Lexicon) HasSynonyms(term string) bool {
	_, ok := l.synonyms[term]
	return ok
}

// IsImportant reports whether the normalized term is domain-salient.
func (l *Lexicon) IsImportant(term string) bool {
	_, ok := l.important[term]
	return ok
}

// ImportantTerms returns the important terms in declaration order.
func (l *Lexicon) ImportantTerms() []string {
	return slices.Clone(l.importantList)
}

// Size returns the number of synonym entries.
func (l *Lexicon) Size() int {
	return len(l.synonyms)
}
