// Package vector stores chunk embeddings and answers nearest-neighbour queries.
package vector

import "context"

// Filter reports whether an ID may appear in search results.
type Filter func(id string) bool

// Index defines vector storage and similarity search.
type Index interface {
	// Upsert adds vectors, replacing any existing vector with the same ID.
	Upsert(ctx context.Context, ids []string, vectors [][]float32) error
	// Search returns up to k hits accepted by filter (nil accepts all), best first.
	Search(ctx context.Context, query []float32, k int, filter Filter) ([]Hit, error)
	Remove(ctx context.Context, ids []string) error
	Save(path string) error
	Load(path string) error
	Len() int
	Dimensions() int
}

// Hit is a single search result. ID is a chunk ID.
type Hit struct {
	ID    string
	Score float64 // cosine similarity
}

// SetFilter accepts IDs contained in set.
func SetFilter(set map[string]struct{}) Filter {
	return func(id string) bool {
		_, ok := set[id]
		return ok
	}
}
