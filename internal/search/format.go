package search

import (
	"fmt"
	"math"
	"strings"

	"github.com/hyperjump/hotelrag/internal/models"
	"github.com/hyperjump/hotelrag/pkg/utils"
)

// DefaultExcerptLength is the excerpt size in runes when none is configured.
const DefaultExcerptLength = 500

// FormatResults turns ranked results into response items with 1-based ranks,
// excerpts and scores rounded to two decimals.
func FormatResults(results []models.ScoredResult, excerptLength int) []models.SearchResultItem {
	if excerptLength <= 0 {
		excerptLength = DefaultExcerptLength
	}
	items := make([]models.SearchResultItem, len(results))
	for i, r := range results {
		items[i] = models.SearchResultItem{
			Rank:          i + 1,
			DocumentID:    r.DocumentID,
			ChunkIndex:    r.ChunkIndex,
			FileName:      r.FileName,
			DocumentType:  r.DocumentType,
			Excerpt:       utils.Truncate(r.TextChunk, excerptLength),
			Relevance:     round2(r.Similarity),
			HybridScore:   round2(r.HybridScore),
			KeywordScore:  round2(r.KeywordScore),
			SemanticScore: round2(r.OriginalSemanticScore),
		}
	}
	return items
}

// Summarize describes a result list in a few lines.
func Summarize(items []models.SearchResultItem) string {
	if len(items) == 0 {
		return "No relevant documents found for this query."
	}
	var types, files []string
	seenType, seenFile := map[string]bool{}, map[string]bool{}
	for _, it := range items {
		if !seenType[it.DocumentType] {
			seenType[it.DocumentType] = true
			types = append(types, it.DocumentType)
		}
		if !seenFile[it.FileName] {
			seenFile[it.FileName] = true
			files = append(files, it.FileName)
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d relevant excerpt(s) from %d document(s).\n", len(items), len(files))
	fmt.Fprintf(&b, "Document types: %s.\n", strings.Join(types, ", "))
	fmt.Fprintf(&b, "Top result: %q with %d%% relevance.", items[0].FileName, int(math.Round(items[0].Relevance*100)))
	return b.String()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
