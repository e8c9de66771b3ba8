package embedding

import (
	"context"
	"hash/fnv"

	"github.com/hyperjump/hotelrag/pkg/utils"
)

const (
	wordWeight    = 1.0
	trigramWeight = 0.5
)

// HashingEmbedder maps words and character trigrams into a fixed number of
// buckets with signed feature hashing. Embeddings are deterministic and
// L2-normalized, so cosine similarity reduces to a dot product.
type HashingEmbedder struct {
	dimensions int
}

// NewHashingEmbedder returns an embedder producing vectors of the given size.
func NewHashingEmbedder(dimensions int) *HashingEmbedder {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &HashingEmbedder{dimensions: dimensions}
}

// Embed returns the hashed feature vector of text. Text without any letters
// or digits yields the zero vector.
func (e *HashingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vec := make([]float32, e.dimensions)
	for _, w := range Words(text) {
		e.add(vec, "w:"+w, wordWeight)
		for _, g := range Trigrams(w) {
			e.add(vec, "g:"+g, trigramWeight)
		}
	}
	utils.NormalizeL2(vec)
	return vec, nil
}

func (e *HashingEmbedder) add(vec []float32, feature string, weight float32) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()
	idx := int(sum % uint64(e.dimensions))
	// top bit picks the sign so colliding features tend to cancel
	if sum>>63 == 1 {
		weight = -weight
	}
	vec[idx] += weight
}

// EmbedBatch embeds each text in order.
func (e *HashingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		emb, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = emb
	}
	return out, nil
}

// Dimensions returns the embedding size.
func (e *HashingEmbedder) Dimensions() int { return e.dimensions }

// Close is a no-op.
func (e *HashingEmbedder) Close() error { return nil }
