// Package semantic answers hotel-scoped semantic queries from the vector index
// and hydrates the hits with chunk text and document attributes.
package semantic

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hyperjump/hotelrag/internal/embedding"
	"github.com/hyperjump/hotelrag/internal/models"
	"github.com/hyperjump/hotelrag/internal/storage"
	"github.com/hyperjump/hotelrag/internal/vector"
	"github.com/hyperjump/hotelrag/pkg/utils"
)

const defaultHydrateWorkers = 8

// ChunkStore is the part of storage the provider reads from.
type ChunkStore interface {
	ChunkIDsForHotel(ctx context.Context, hotelID string, documentTypes []string) (map[string]struct{}, error)
	GetChunkWithDocument(ctx context.Context, id string) (*models.ChunkWithDocument, error)
}

// Provider implements semantic search over indexed hotel chunks.
type Provider struct {
	embedder embedding.Embedder
	index    vector.Index
	store    ChunkStore
	workers  int
	logger   *zap.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the provider logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Provider) { p.logger = utils.LoggerOrNop(logger) }
}

// WithHydrateWorkers bounds concurrent chunk lookups.
func WithHydrateWorkers(n int) Option {
	return func(p *Provider) {
		if n > 0 {
			p.workers = n
		}
	}
}

// NewProvider creates a semantic provider.
func NewProvider(embedder embedding.Embedder, index vector.Index, store ChunkStore, opts ...Option) *Provider {
	p := &Provider{
		embedder: embedder,
		index:    index,
		store:    store,
		workers:  defaultHydrateWorkers,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SearchSemantic returns up to q.Limit chunks of q.HotelID ordered by
// similarity. Similarities are clamped to [0, 1]. Chunks present in the index
// but missing from storage are skipped.
func (p *Provider) SearchSemantic(ctx context.Context, q models.SemanticQuery) ([]models.SemanticResult, error) {
	if q.Limit <= 0 {
		return []models.SemanticResult{}, nil
	}
	allowed, err := p.store.ChunkIDsForHotel(ctx, q.HotelID, q.DocumentTypes)
	if err != nil {
		return nil, fmt.Errorf("list hotel chunks: %w", err)
	}
	if len(allowed) == 0 {
		return []models.SemanticResult{}, nil
	}

	queryVec, err := p.embedder.Embed(ctx, q.Text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	hits, err := p.index.Search(ctx, queryVec, q.Limit, vector.SetFilter(allowed))
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	results, err := p.hydrate(ctx, hits)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("semantic search",
		zap.String("hotel_id", q.HotelID),
		zap.Int("allowed_chunks", len(allowed)),
		zap.Int("hits", len(hits)),
		zap.Int("results", len(results)))
	return results, nil
}

func (p *Provider) hydrate(ctx context.Context, hits []vector.Hit) ([]models.SemanticResult, error) {
	slots := make([]*models.SemanticResult, len(hits))
	var mu sync.Mutex
	var stale []string

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, hit := range hits {
		g.Go(func() error {
			chunk, err := p.store.GetChunkWithDocument(gctx, hit.ID)
			if errors.Is(err, storage.ErrNotFound) {
				mu.Lock()
				stale = append(stale, hit.ID)
				mu.Unlock()
				return nil
			}
			if err != nil {
				return fmt.Errorf("load chunk %s: %w", hit.ID, err)
			}
			slots[i] = &models.SemanticResult{
				DocumentID:   chunk.DocumentID,
				ChunkIndex:   chunk.ChunkIndex,
				TextChunk:    chunk.Content,
				Similarity:   utils.Clamp01(hit.Score),
				FileName:     chunk.FileName,
				DocumentType: chunk.DocumentType,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(stale) > 0 {
		p.logger.Warn("vector index references missing chunks", zap.Strings("chunk_ids", stale))
	}

	results := make([]models.SemanticResult, 0, len(hits))
	for _, r := range slots {
		if r != nil {
			results = append(results, *r)
		}
	}
	return results, nil
}
