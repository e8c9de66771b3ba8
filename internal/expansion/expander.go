// Package expansion turns a raw user query into the term sets used for
// retrieval: lexicon-based synonym expansion, key phrases and keywords.
package expansion

import (
	"slices"
	"strings"

	"github.com/hyperjump/hotelrag/internal/lexicon"
)

// Options controls how a query is expanded.
type Options struct {
	// MaxSynonyms caps the synonyms accepted per matched token.
	MaxSynonyms int `json:"max_synonyms" yaml:"max_synonyms"`
	// IncludeOriginal adds every query token to the term set.
	IncludeOriginal bool `json:"include_original" yaml:"include_original"`
	// LanguageMix allows synonyms written in a different script than the token.
	LanguageMix bool `json:"language_mix" yaml:"language_mix"`
}

// DefaultOptions returns MaxSynonyms 3 with original tokens and mixed scripts enabled.
func DefaultOptions() Options {
	return Options{MaxSynonyms: 3, IncludeOriginal: true, LanguageMix: true}
}

// ExpandedQuery is the result of expanding one query. Terms keeps insertion
// order, so equal input always yields an equal Expanded string.
type ExpandedQuery struct {
	Original       string   `json:"original"`
	Expanded       string   `json:"expanded"`
	Terms          []string `json:"terms"`
	ImportantTerms []string `json:"important_terms"`
	HasExpansion   bool     `json:"has_expansion"`
}

// Clone returns a deep copy.
func (q ExpandedQuery) Clone() ExpandedQuery {
	q.Terms = slices.Clone(q.Terms)
	q.ImportantTerms = slices.Clone(q.ImportantTerms)
	return q
}

// QueryExpander is implemented by Expander and CachedExpander.
type QueryExpander interface {
	Expand(query string) ExpandedQuery
	ExpandWith(query string, opts Options) ExpandedQuery
}

// Expander expands queries against a lexicon. It holds no mutable state.
type Expander struct {
	lex  *lexicon.Lexicon
	opts Options
}

// Option configures an Expander.
type Option func(*Expander)

// WithOptions sets the options used by Expand.
func WithOptions(opts Options) Option {
	return func(e *Expander) {
		e.opts = opts
	}
}

// New creates an Expander. A nil lexicon uses lexicon.Default().
func New(lex *lexicon.Lexicon, opts ...Option) *Expander {
	if lex == nil {
		lex = lexicon.Default()
	}
	e := &Expander{lex: lex, opts: DefaultOptions()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Options returns the options used by Expand.
func (e *Expander) Options() Options { return e.opts }

// Lexicon returns the lexicon the expander reads from.
func (e *Expander) Lexicon() *lexicon.Lexicon { return e.lex }

// Expand expands query with the expander's options.
func (e *Expander) Expand(query string) ExpandedQuery {
	return e.ExpandWith(query, e.opts)
}

// ExpandWith expands query with explicit options.
func (e *Expander) ExpandWith(query string, opts Options) ExpandedQuery {
	tokens := Tokenize(query)
	terms := newOrderedSet(len(tokens) * 4)
	var important []string

	for _, token := range tokens {
		if opts.IncludeOriginal {
			terms.add(token)
		}
		if e.lex.IsImportant(token) {
			important = append(important, token)
			terms.add(token)
		}
		if !e.lex.HasSynonyms(token) {
			continue
		}
		tokenCyrillic := IsCyrillic(token)
		accepted := 0
		for _, syn := range e.lex.Synonyms(token) {
			if accepted >= opts.MaxSynonyms {
				break
			}
			if !opts.LanguageMix && IsCyrillic(syn) != tokenCyrillic {
				continue
			}
			terms.add(syn)
			accepted++
		}
	}

	return ExpandedQuery{
		Original:       query,
		Expanded:       strings.Join(terms.items, " "),
		Terms:          terms.items,
		ImportantTerms: important,
		HasExpansion:   len(terms.items) > len(tokens),
	}
}

// Tokenize lowercases the query and splits it on whitespace runs.
func Tokenize(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// IsCyrillic reports whether s contains any rune in the Cyrillic block (U+0400–U+04FF).
func IsCyrillic(s string) bool {
	for _, r := range s {
		if r >= 0x0400 && r <= 0x04FF {
			return true
		}
	}
	return false
}

type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet(capacity int) *orderedSet {
	return &orderedSet{seen: make(map[string]struct{}, capacity), items: make([]string, 0, capacity)}
}

func (s *orderedSet) add(v string) {
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}
