// Package ranking computes lexical relevance of candidate chunk text:
// a BM25-style keyword score and a phrase containment bonus.
package ranking

import (
	"regexp"
	"strings"

	"github.com/hyperjump/hotelrag/pkg/utils"
)

// KeywordScorer scores text against keywords with saturated term frequency and
// length normalization. It is stateless and safe for concurrent use.
type KeywordScorer struct {
	params BM25Params
}

// NewKeywordScorer creates a scorer. Invalid parameters take their defaults;
// a B of 0 is kept and turns length normalization off.
func NewKeywordScorer(params BM25Params) *KeywordScorer {
	params.ApplyDefaults()
	return &KeywordScorer{params: params}
}

// Params returns the scorer parameters.
func (s *KeywordScorer) Params() BM25Params { return s.params }

// Matcher counts whole-word occurrences of one keyword.
type Matcher struct {
	keyword string
	re      *regexp.Regexp
}

// CompileKeywords builds matchers for keywords. Keywords are lowercased and
// regex metacharacters are escaped. Empty keywords yield a matcher that never matches.
func CompileKeywords(keywords []string) []Matcher {
	matchers := make([]Matcher, len(keywords))
	for i, kw := range keywords {
		kw = strings.ToLower(kw)
		matchers[i] = Matcher{keyword: kw}
		if kw != "" {
			matchers[i].re = regexp.MustCompile(regexp.QuoteMeta(kw))
		}
	}
	return matchers
}

// Count returns the whole-word occurrences in lowercased text.
func (m Matcher) Count(lowerText string) int {
	if m.re == nil {
		return 0
	}
	return utils.CountWholeWords(m.re, lowerText)
}

// Keyword returns the normalized keyword.
func (m Matcher) Keyword() string { return m.keyword }

// Score returns the normalized keyword score of text in [0, 1].
// An empty keyword list scores 0.
func (s *KeywordScorer) Score(text string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	return s.ScoreMatchers(text, CompileKeywords(keywords))
}

// ScoreMatchers is Score with precompiled keywords, for scoring many texts
// against the same query.
func (s *KeywordScorer) ScoreMatchers(text string, matchers []Matcher) float64 {
	if len(matchers) == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	docLength := float64(len(strings.Fields(lower)))
	k1, b := s.params.K1, s.params.B
	lengthNorm := 1 - b + b*(docLength/s.params.AvgLength)

	score := 0.0
	for _, m := range matchers {
		tf := float64(m.Count(lower))
		if tf > 0 {
			score += tf * (k1 + 1) / (tf + k1*lengthNorm)
		}
	}
	return min(score/(float64(len(matchers))*normalizationPerKeyword), 1.0)
}

// TermFrequency returns how often keyword occurs in text as a whole word, ignoring case.
func TermFrequency(text, keyword string) int {
	return CompileKeywords([]string{keyword})[0].Count(strings.ToLower(text))
}
