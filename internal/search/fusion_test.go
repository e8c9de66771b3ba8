package search

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperjump/hotelrag/internal/models"
)

func semantic(doc string, idx int, sim float64) models.SemanticResult {
	return models.SemanticResult{DocumentID: doc, ChunkIndex: idx, TextChunk: doc + " text", Similarity: sim}
}

func TestMerge(t *testing.T) {
	results := []models.SemanticResult{
		semantic("a", 0, 0.9),
		semantic("b", 0, 0.5),
		semantic("c", 1, 0.6),
	}
	scores := []models.KeywordScore{
		{DocumentID: "b", ChunkIndex: 0, KeywordScore: 1.0},
		{DocumentID: "c", ChunkIndex: 0, KeywordScore: 1.0}, // different chunk of c
	}

	merged := Merge(results, scores, DefaultWeights())
	require.Len(t, merged, 3)

	// b: 0.5*0.7+1*0.3=0.65, a: 0.9*0.7=0.63, c: 0.6*0.7=0.42
	assert.Equal(t, "b", merged[0].DocumentID)
	assert.InDelta(t, 0.65, merged[0].HybridScore, 1e-9)
	assert.Equal(t, 1.0, merged[0].KeywordScore)
	assert.Equal(t, "a", merged[1].DocumentID)
	assert.InDelta(t, 0.63, merged[1].HybridScore, 1e-9)
	assert.Equal(t, "c", merged[2].DocumentID)
	assert.Equal(t, 0.0, merged[2].KeywordScore, "missing keyword score defaults to 0")

	for _, m := range merged {
		assert.Equal(t, m.HybridScore, m.Similarity)
	}
	assert.Equal(t, 0.5, merged[0].OriginalSemanticScore)
	assert.Equal(t, 0.5, results[1].Similarity, "inputs are not mutated")
}

func TestMerge_Ordering(t *testing.T) {
	results := []models.SemanticResult{
		semantic("a", 0, 0.4),
		semantic("b", 0, 0.9),
	}
	scores := []models.KeywordScore{{DocumentID: "a", ChunkIndex: 0, KeywordScore: 1}}
	merged := Merge(results, scores, DefaultWeights())
	// a: 0.28+0.3=0.58, b: 0.63
	assert.Equal(t, []string{"b", "a"}, []string{merged[0].DocumentID, merged[1].DocumentID})

	merged = Merge(results, scores, Weights{Semantic: 0.3, Keyword: 0.7})
	assert.Equal(t, []string{"a", "b"}, []string{merged[0].DocumentID, merged[1].DocumentID})
}

func TestMerge_StableTies(t *testing.T) {
	results := []models.SemanticResult{
		semantic("x", 0, 0.8),
		semantic("first", 0, 0.5),
		semantic("second", 0, 0.5),
		semantic("third", 2, 0.5),
	}
	merged := Merge(results, nil, DefaultWeights())
	got := make([]string, len(merged))
	for i, m := range merged {
		got[i] = m.DocumentID
	}
	assert.Equal(t, []string{"x", "first", "second", "third"}, got)
}

func TestMerge_SemanticOnlyWeightsMatchSimilaritySort(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	results := make([]models.SemanticResult, 50)
	scores := make([]models.KeywordScore, 50)
	for i := range results {
		results[i] = semantic(string(rune('a'+i%26)), i, float64(rng.Intn(10))/10)
		scores[i] = models.KeywordScore{DocumentID: results[i].DocumentID, ChunkIndex: i, KeywordScore: rng.Float64()}
	}
	want := append([]models.SemanticResult(nil), results...)
	sort.SliceStable(want, func(i, j int) bool { return want[i].Similarity > want[j].Similarity })

	merged := Merge(results, scores, Weights{Semantic: 1, Keyword: 0})
	require.Len(t, merged, len(want))
	for i := range want {
		assert.Equal(t, want[i].DocumentID, merged[i].DocumentID)
		assert.Equal(t, want[i].ChunkIndex, merged[i].ChunkIndex)
	}
}

func TestMerge_ConvexCombination(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 200; i++ {
		sim, kw := rng.Float64(), rng.Float64()
		merged := Merge(
			[]models.SemanticResult{semantic("d", 0, sim)},
			[]models.KeywordScore{{DocumentID: "d", ChunkIndex: 0, KeywordScore: kw}},
			DefaultWeights(),
		)
		h := merged[0].HybridScore
		assert.GreaterOrEqual(t, h, min(sim, kw)-1e-12)
		assert.LessOrEqual(t, h, max(sim, kw)+1e-12)
	}
}

func TestMerge_CompositeKeyIsExact(t *testing.T) {
	results := []models.SemanticResult{semantic("a_1", 2, 0.5), semantic("a", 12, 0.5)}
	scores := []models.KeywordScore{{DocumentID: "a", ChunkIndex: 12, KeywordScore: 1}}
	merged := Merge(results, scores, DefaultWeights())
	assert.Equal(t, "a", merged[0].DocumentID)
	assert.Equal(t, 0.0, merged[1].KeywordScore)
}

func TestMerge_LastDuplicateKeywordScoreWins(t *testing.T) {
	scores := []models.KeywordScore{
		{DocumentID: "a", ChunkIndex: 0, KeywordScore: 0.2},
		{DocumentID: "a", ChunkIndex: 0, KeywordScore: 0.8},
	}
	merged := Merge([]models.SemanticResult{semantic("a", 0, 0)}, scores, DefaultWeights())
	assert.Equal(t, 0.8, merged[0].KeywordScore)
}

func TestMerge_Empty(t *testing.T) {
	assert.Empty(t, Merge(nil, nil, DefaultWeights()))
}
