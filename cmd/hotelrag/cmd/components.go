package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/hyperjump/hotelrag/internal/config"
	"github.com/hyperjump/hotelrag/internal/embedding"
	"github.com/hyperjump/hotelrag/internal/expansion"
	"github.com/hyperjump/hotelrag/internal/extract"
	"github.com/hyperjump/hotelrag/internal/indexer"
	"github.com/hyperjump/hotelrag/internal/lexicon"
	"github.com/hyperjump/hotelrag/internal/ranking"
	"github.com/hyperjump/hotelrag/internal/search"
	"github.com/hyperjump/hotelrag/internal/security"
	"github.com/hyperjump/hotelrag/internal/semantic"
	"github.com/hyperjump/hotelrag/internal/storage"
	"github.com/hyperjump/hotelrag/internal/vector"
)

// components is the wired application graph shared by serve, search, index,
// delete and status.
type components struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    *storage.SQLiteStorage
	embedder *embedding.CachedEmbedder
	vectors  *vector.MemoryIndex
	expander *expansion.CachedExpander
	gate     *security.InputValidator
	hybrid   *search.HybridSearcher
	engine   *search.Engine
	indexer  *indexer.Indexer
}

func newComponents(cfg *config.Config, logger *zap.Logger) (*components, error) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	c := &components{cfg: cfg, logger: logger, store: store}
	if err := c.init(); err != nil {
		_ = store.Close()
		return nil, err
	}
	return c, nil
}

func (c *components) init() error {
	cfg := c.cfg
	embedder, err := embedding.NewCachedEmbedder(embedding.NewHashingEmbedder(cfg.Embedding.Dimensions), cfg.Embedding.CacheSize)
	if err != nil {
		return err
	}
	c.embedder = embedder

	c.vectors, err = vector.NewMemoryIndex(embedder.Dimensions())
	if err != nil {
		return fmt.Errorf("failed to initialize vector index: %w", err)
	}
	if err := c.vectors.Load(cfg.Storage.VectorIndexPath); err != nil {
		return fmt.Errorf("failed to load vector index: %w", err)
	}
	c.logger.Debug("vector index loaded",
		zap.String("path", cfg.Storage.VectorIndexPath),
		zap.Int("vectors", c.vectors.Len()))

	c.expander, err = newExpander(cfg)
	if err != nil {
		return err
	}
	c.gate = newGate(cfg, c.logger)

	scorer := ranking.NewKeywordScorer(ranking.BM25Params{K1: cfg.Keyword.K1, B: cfg.Keyword.BOrDefault(), AvgLength: cfg.Keyword.AvgLength})
	c.hybrid = search.NewHybridSearcher(scorer, search.Weights{Semantic: cfg.Search.SemanticWeight, Keyword: cfg.Search.KeywordWeight})

	provider := semantic.NewProvider(embedder, c.vectors, c.store, semantic.WithLogger(c.logger))
	engineOpts := []search.EngineOption{search.WithLogger(c.logger)}
	if cfg.Security.EnabledOrDefault() {
		engineOpts = append(engineOpts, search.WithGate(c.gate))
	}
	c.engine = search.NewEngine(provider, c.expander, c.hybrid, &cfg.Search, engineOpts...)
	c.indexer = indexer.NewIndexer(c.store, embedder, c.vectors, extract.NewExtractor(), &cfg.Indexer, indexer.WithLogger(c.logger))
	return nil
}

func newExpander(cfg *config.Config) (*expansion.CachedExpander, error) {
	lex := lexicon.Default()
	if cfg.Lexicon.Path != "" {
		var err error
		if lex, err = lexicon.Load(cfg.Lexicon.Path); err != nil {
			return nil, err
		}
	}
	inner := expansion.New(lex, expansion.WithOptions(expansion.Options{
		MaxSynonyms:     cfg.Expansion.MaxSynonymsOrDefault(),
		IncludeOriginal: cfg.Expansion.IncludeOriginalOrDefault(),
		LanguageMix:     cfg.Expansion.LanguageMixOrDefault(),
	}))
	return expansion.NewCachedExpander(inner, cfg.Expansion.CacheSize)
}

func newGate(cfg *config.Config, logger *zap.Logger) *security.InputValidator {
	return security.NewInputValidator(
		security.WithLogger(logger),
		security.WithMaxLength(cfg.Security.MaxLength),
	)
}

// saveVectors persists the vector index next to the database.
func (c *components) saveVectors() error {
	if err := c.vectors.Save(c.cfg.Storage.VectorIndexPath); err != nil {
		return fmt.Errorf("failed to save vector index: %w", err)
	}
	return nil
}

// Close releases the embedder cache and the database.
func (c *components) Close() {
	if c.embedder != nil {
		_ = c.embedder.Close()
	}
	if err := c.store.Close(); err != nil {
		c.logger.Warn("failed to close storage", zap.Error(err))
	}
}
