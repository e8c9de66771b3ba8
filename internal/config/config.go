// Package config provides configuration loading and structs for the hotelrag service.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Lexicon   LexiconConfig   `yaml:"lexicon"`
	Expansion ExpansionConfig `yaml:"expansion"`
	Keyword   KeywordConfig   `yaml:"keyword"`
	Search    SearchConfig    `yaml:"search"`
	Security  SecurityConfig  `yaml:"security"`
	Indexer   IndexerConfig   `yaml:"indexer"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds paths for the database and the vector index.
type StorageConfig struct {
	DatabasePath    string `yaml:"database_path"`
	VectorIndexPath string `yaml:"vector_index_path"`
}

// EmbeddingConfig holds embedder settings.
type EmbeddingConfig struct {
	Dimensions int `yaml:"dimensions"`
	CacheSize  int `yaml:"cache_size"`
}

// LexiconConfig points at an optional lexicon override. Empty uses the built-in lexicon.
type LexiconConfig struct {
	Path string `yaml:"path"`
}

// ExpansionConfig holds query expansion options.
type ExpansionConfig struct {
	MaxSynonyms     *int  `yaml:"max_synonyms"`
	IncludeOriginal *bool `yaml:"include_original"`
	LanguageMix     *bool `yaml:"language_mix"`
	CacheSize       int   `yaml:"cache_size"`
}

// KeywordConfig holds BM25 parameters.
type KeywordConfig struct {
	K1        float64  `yaml:"k1"`
	B         *float64 `yaml:"b"`
	AvgLength float64  `yaml:"avg_length"`
}

// SearchConfig holds hybrid ranking and result shaping settings.
type SearchConfig struct {
	SemanticWeight      float64 `yaml:"semantic_weight"`
	KeywordWeight       float64 `yaml:"keyword_weight"`
	DefaultTopK         int     `yaml:"default_top_k"`
	MaxTopK             int     `yaml:"max_top_k"`
	CandidateMultiplier int     `yaml:"candidate_multiplier"`
	ExcerptLength       int     `yaml:"excerpt_length"`
	ImportanceBoost     *bool   `yaml:"importance_boost"`
}

// SecurityConfig holds input gate settings.
type SecurityConfig struct {
	Enabled   *bool `yaml:"enabled"`
	MaxLength int   `yaml:"max_length"`
}

// IndexerConfig holds chunking and ingestion settings.
type IndexerConfig struct {
	ChunkSize    int      `yaml:"chunk_size"`
	ChunkOverlap *int     `yaml:"chunk_overlap"`
	Workers      int      `yaml:"workers"`
	Extensions   []string `yaml:"extensions"`
}

// Load reads and parses the config file at path, applies defaults, and expands paths.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	cfg.expandPaths(filepath.Dir(path))
	return &cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields the defaults.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	cfg = &Config{}
	ApplyDefaults(cfg)
	cfg.expandPaths(filepath.Dir(path))
	return cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) expandPaths(configDir string) {
	c.Storage.DatabasePath = expandPath(c.Storage.DatabasePath, configDir)
	c.Storage.VectorIndexPath = expandPath(c.Storage.VectorIndexPath, configDir)
	if c.Lexicon.Path != "" {
		c.Lexicon.Path = expandPath(c.Lexicon.Path, configDir)
	}
}

// expandPath converts a path to absolute. Paths starting with "./" are relative
// to configDir; "~/" and other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	path = strings.TrimPrefix(path, "~/")
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}

// IncludeOriginalOrDefault reports whether original tokens are kept; true when unset.
func (e *ExpansionConfig) IncludeOriginalOrDefault() bool {
	return boolOr(e.IncludeOriginal, true)
}

// LanguageMixOrDefault reports whether cross-script synonyms are allowed; true when unset.
func (e *ExpansionConfig) LanguageMixOrDefault() bool {
	return boolOr(e.LanguageMix, true)
}

// ImportanceBoostOrDefault reports whether important-term boosting is on; true when unset.
func (s *SearchConfig) ImportanceBoostOrDefault() bool {
	return boolOr(s.ImportanceBoost, true)
}

// EnabledOrDefault reports whether the input gate runs; true when unset.
func (s *SecurityConfig) EnabledOrDefault() bool {
	return boolOr(s.Enabled, true)
}

// MaxSynonymsOrDefault returns the per-token synonym cap; 3 when unset or negative.
func (e *ExpansionConfig) MaxSynonymsOrDefault() int {
	return nonNegativeOr(e.MaxSynonyms, 3)
}

// BOrDefault returns the BM25 length normalization strength; 0.75 when unset
// or outside [0, 1].
func (k *KeywordConfig) BOrDefault() float64 {
	if k.B == nil || *k.B < 0 || *k.B > 1 {
		return 0.75
	}
	return *k.B
}

// ChunkOverlapOrDefault returns the chunk overlap in runes; 200 when unset or negative.
func (i *IndexerConfig) ChunkOverlapOrDefault() int {
	return nonNegativeOr(i.ChunkOverlap, 200)
}

func boolOr(b *bool, def bool) bool {
	if b != nil {
		return *b
	}
	return def
}

func nonNegativeOr(n *int, def int) int {
	if n == nil || *n < 0 {
		return def
	}
	return *n
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path[2:])
	}
	return path
}
