// Package embedding turns text into fixed-size vectors for semantic search.
package embedding

import "context"

// Embedder produces vector embeddings for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}

// DefaultDimensions is used when a non-positive dimension is requested.
const DefaultDimensions = 256
