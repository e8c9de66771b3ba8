package search

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/hotelrag/internal/config"
	"github.com/hyperjump/hotelrag/internal/expansion"
	"github.com/hyperjump/hotelrag/internal/models"
	"github.com/hyperjump/hotelrag/internal/security"
	"github.com/hyperjump/hotelrag/pkg/utils"
)

// SemanticSearcher returns semantic candidates for a hotel-scoped query.
type SemanticSearcher interface {
	SearchSemantic(ctx context.Context, query models.SemanticQuery) ([]models.SemanticResult, error)
}

// Gate screens a query before retrieval.
type Gate interface {
	ValidateString(message string) security.Verdict
}

// Engine runs the full pipeline: gate, expansion, semantic candidates,
// hybrid rerank, importance boost and truncation.
type Engine struct {
	semantic SemanticSearcher
	expander expansion.QueryExpander
	hybrid   *HybridSearcher
	gate     Gate
	config   *config.SearchConfig
	logger   *zap.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithGate screens every query with g before searching.
func WithGate(g Gate) EngineOption {
	return func(e *Engine) {
		e.gate = g
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *zap.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = utils.LoggerOrNop(logger)
	}
}

// NewEngine creates a search engine with the given dependencies.
func NewEngine(
	semantic SemanticSearcher,
	expander expansion.QueryExpander,
	hybrid *HybridSearcher,
	cfg *config.SearchConfig,
	opts ...EngineOption,
) *Engine {
	if cfg == nil {
		c := config.Config{}
		config.ApplyDefaults(&c)
		cfg = &c.Search
	}
	if hybrid == nil {
		hybrid = NewHybridSearcher(nil, Weights{Semantic: cfg.SemanticWeight, Keyword: cfg.KeywordWeight})
	}
	e := &Engine{
		semantic: semantic,
		expander: expander,
		hybrid:   hybrid,
		config:   cfg,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Search runs a hotel document search. A query stopped by the gate is not an
// error: the response is marked blocked and carries no results.
func (e *Engine) Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResponse, error) {
	start := time.Now()
	if err := req.Validate(e.config.DefaultTopK, e.config.MaxTopK); err != nil {
		return nil, err
	}

	resp := &models.SearchResponse{Query: req.Query, Results: []models.SearchResultItem{}}

	if e.gate != nil {
		if verdict := e.gate.ValidateString(req.Query); verdict.Blocked {
			resp.Blocked = true
			resp.BlockReason = verdict.Reason
			resp.Summary = "Query was blocked: " + verdict.Reason
			resp.QueryTime = time.Since(start).Milliseconds()
			return resp, nil
		}
	}

	expanded := e.expander.Expand(req.Query)
	keywords := expansion.ExtractKeywords(req.Query)
	phrases := expansion.ExtractKeyPhrases(req.Query)
	resp.ExpandedQuery = expanded.Expanded
	resp.Keywords = keywords
	resp.KeyPhrases = phrases
	resp.ImportantTerms = expanded.ImportantTerms

	e.logger.Debug("query analyzed",
		zap.String("hotel_id", req.HotelID),
		zap.String("expanded", expanded.Expanded),
		zap.Bool("has_expansion", expanded.HasExpansion),
		zap.Strings("keywords", keywords),
		zap.Strings("phrases", phrases))

	text := req.Query
	if expanded.HasExpansion {
		text = expanded.Expanded
	}
	candidates, err := e.semantic.SearchSemantic(ctx, models.SemanticQuery{
		HotelID:       req.HotelID,
		Text:          text,
		Limit:         req.TopK * max(e.config.CandidateMultiplier, 1),
		DocumentTypes: req.DocumentTypes,
	})
	if err != nil {
		return nil, fmt.Errorf("semantic search failed: %w", err)
	}

	results := e.hybrid.PerformHybridSearch(keywords, phrases, candidates)
	if e.config.ImportanceBoostOrDefault() && len(expanded.ImportantTerms) > 0 {
		ApplyImportanceBoost(results, expanded.ImportantTerms)
	}
	if len(results) > req.TopK {
		results = results[:req.TopK]
	}

	resp.Results = FormatResults(results, e.config.ExcerptLength)
	resp.Total = len(resp.Results)
	resp.Summary = Summarize(resp.Results)
	resp.QueryTime = time.Since(start).Milliseconds()

	e.logger.Debug("search completed",
		zap.Int("candidates", len(candidates)),
		zap.Int("results", resp.Total),
		zap.Int64("query_time_ms", resp.QueryTime))
	return resp, nil
}

// ApplyImportanceBoost multiplies each result's relevance by the importance
// boost of its text and re-sorts by relevance, keeping ties in order.
func ApplyImportanceBoost(results []models.ScoredResult, importantTerms []string) {
	for i := range results {
		results[i].Similarity *= expansion.ImportanceBoost(results[i].TextChunk, importantTerms)
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
}
