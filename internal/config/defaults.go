package config

// DefaultConfigPath is where the CLI looks for a config file when none is given.
const DefaultConfigPath = "~/.hotelrag/config.yaml"

// ApplyDefaults sets default values for any zero values in cfg. Pointer fields
// are left alone; their OrDefault accessors resolve an unset value.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "~/.hotelrag/data/db/hotelrag.db"
	}
	if cfg.Storage.VectorIndexPath == "" {
		cfg.Storage.VectorIndexPath = "~/.hotelrag/data/vectors/index.bin"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 256
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 4096
	}
	if cfg.Expansion.CacheSize == 0 {
		cfg.Expansion.CacheSize = 1024
	}
	if cfg.Keyword.K1 == 0 {
		cfg.Keyword.K1 = 1.5
	}
	if cfg.Keyword.AvgLength == 0 {
		cfg.Keyword.AvgLength = 1500
	}
	if cfg.Search.SemanticWeight == 0 && cfg.Search.KeywordWeight == 0 {
		cfg.Search.SemanticWeight = 0.7
		cfg.Search.KeywordWeight = 0.3
	}
	if cfg.Search.DefaultTopK == 0 {
		cfg.Search.DefaultTopK = 3
	}
	if cfg.Search.MaxTopK == 0 {
		cfg.Search.MaxTopK = 10
	}
	if cfg.Search.CandidateMultiplier == 0 {
		cfg.Search.CandidateMultiplier = 3
	}
	if cfg.Search.ExcerptLength == 0 {
		cfg.Search.ExcerptLength = 500
	}
	if cfg.Security.MaxLength == 0 {
		cfg.Security.MaxLength = 2000
	}
	if cfg.Indexer.ChunkSize == 0 {
		cfg.Indexer.ChunkSize = 1000
	}
	if cfg.Indexer.Workers == 0 {
		cfg.Indexer.Workers = 4
	}
	if cfg.Indexer.Extensions == nil {
		cfg.Indexer.Extensions = []string{".txt", ".md", ".pdf", ".docx", ".xlsx"}
	}
}
