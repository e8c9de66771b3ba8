// Package search merges semantic similarity with lexical relevance and runs
// the end-to-end hotel document search pipeline.
package search

import (
	"math"
	"sort"

	"github.com/hyperjump/hotelrag/internal/models"
)

// Weights are the coefficients of the hybrid score. They need not sum to 1.
type Weights struct {
	Semantic float64 `json:"semantic_weight" yaml:"semantic_weight"`
	Keyword  float64 `json:"keyword_weight" yaml:"keyword_weight"`
}

// DefaultWeights returns 0.7 semantic, 0.3 keyword.
func DefaultWeights() Weights {
	return Weights{Semantic: 0.7, Keyword: 0.3}
}

type chunkKey struct {
	documentID string
	chunkIndex int
}

// Merge combines semantic results with keyword scores into new ScoredResults
// sorted by hybrid score, highest first. Results without a keyword score get 0.
// When several keyword scores share an identity, the last one wins. Equal
// hybrid scores keep their input order. The inputs are not modified.
func Merge(results []models.SemanticResult, keywordScores []models.KeywordScore, w Weights) []models.ScoredResult {
	byChunk := make(map[chunkKey]float64, len(keywordScores))
	for _, ks := range keywordScores {
		byChunk[chunkKey{ks.DocumentID, ks.ChunkIndex}] = ks.KeywordScore
	}

	merged := make([]models.ScoredResult, len(results))
	for i, r := range results {
		kw := byChunk[chunkKey{r.DocumentID, r.ChunkIndex}]
		if math.IsNaN(kw) {
			kw = 0
		}
		hybrid := r.Similarity*w.Semantic + kw*w.Keyword
		merged[i] = models.ScoredResult{
			SemanticResult:        r,
			KeywordScore:          kw,
			HybridScore:           hybrid,
			OriginalSemanticScore: r.Similarity,
		}
		merged[i].Similarity = hybrid
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].HybridScore > merged[j].HybridScore
	})
	return merged
}
