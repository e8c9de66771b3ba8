package search

import (
	"github.com/hyperjump/hotelrag/internal/models"
	"github.com/hyperjump/hotelrag/internal/ranking"
)

// HybridSearcher scores semantic candidates lexically and reranks them.
// Keyword scoring runs over each candidate's own text only, so cost grows with
// the candidate count rather than the corpus.
type HybridSearcher struct {
	scorer  *ranking.KeywordScorer
	weights Weights
}

// NewHybridSearcher creates a searcher. A nil scorer uses default BM25 parameters.
func NewHybridSearcher(scorer *ranking.KeywordScorer, weights Weights) *HybridSearcher {
	if scorer == nil {
		scorer = ranking.NewKeywordScorer(ranking.DefaultBM25Params())
	}
	return &HybridSearcher{scorer: scorer, weights: weights}
}

// Weights returns the merge weights.
func (h *HybridSearcher) Weights() Weights { return h.weights }

// KeywordScores returns, per candidate, the keyword score plus phrase bonus capped at 1.
func (h *HybridSearcher) KeywordScores(keywords, phrases []string, results []models.SemanticResult) []models.KeywordScore {
	matchers := ranking.CompileKeywords(keywords)
	scores := make([]models.KeywordScore, len(results))
	for i, r := range results {
		kw := h.scorer.ScoreMatchers(r.TextChunk, matchers)
		bonus := ranking.PhraseBonus(r.TextChunk, phrases)
		scores[i] = models.KeywordScore{
			DocumentID:   r.DocumentID,
			ChunkIndex:   r.ChunkIndex,
			KeywordScore: min(kw+bonus, 1.0),
		}
	}
	return scores
}

// PerformHybridSearch scores every candidate and merges with the searcher's weights.
func (h *HybridSearcher) PerformHybridSearch(keywords, phrases []string, results []models.SemanticResult) []models.ScoredResult {
	return Merge(results, h.KeywordScores(keywords, phrases, results), h.weights)
}

var defaultHybrid = NewHybridSearcher(nil, DefaultWeights())

// PerformHybridSearch reranks with default BM25 parameters and weights.
func PerformHybridSearch(keywords, phrases []string, results []models.SemanticResult) []models.ScoredResult {
	return defaultHybrid.PerformHybridSearch(keywords, phrases, results)
}
