package models

// SemanticResult is a candidate chunk returned by the semantic search provider.
// Similarity is expected in [0, 1], higher meaning more similar.
type SemanticResult struct {
	DocumentID   string  `json:"document_id"`
	ChunkIndex   int     `json:"chunk_index"`
	TextChunk    string  `json:"text_chunk"`
	Similarity   float64 `json:"similarity"`
	FileName     string  `json:"file_name,omitempty"`
	DocumentType string  `json:"document_type,omitempty"`
}

// KeywordScore is the lexical relevance of one chunk.
type KeywordScore struct {
	DocumentID   string  `json:"document_id"`
	ChunkIndex   int     `json:"chunk_index"`
	KeywordScore float64 `json:"keyword_score"`
}

// ScoredResult is a reranked candidate. Similarity carries the current relevance
// (the hybrid score, later adjusted by importance boosting); the provider's
// similarity is kept in OriginalSemanticScore.
type ScoredResult struct {
	SemanticResult
	KeywordScore          float64 `json:"keyword_score"`
	HybridScore           float64 `json:"hybrid_score"`
	OriginalSemanticScore float64 `json:"original_semantic_score"`
}

// SearchResultItem is one entry of a search response.
type SearchResultItem struct {
	Rank          int     `json:"rank"`
	DocumentID    string  `json:"document_id"`
	ChunkIndex    int     `json:"chunk_index"`
	FileName      string  `json:"file_name,omitempty"`
	DocumentType  string  `json:"document_type,omitempty"`
	Excerpt       string  `json:"excerpt"`
	Relevance     float64 `json:"relevance"`
	HybridScore   float64 `json:"hybrid_score"`
	KeywordScore  float64 `json:"keyword_score"`
	SemanticScore float64 `json:"semantic_score"`
}

// SearchResponse is the outcome of an engine search. When Blocked is set the
// query never reached retrieval and Results is empty.
type SearchResponse struct {
	Query          string             `json:"query"`
	ExpandedQuery  string             `json:"expanded_query,omitempty"`
	Keywords       []string           `json:"keywords,omitempty"`
	KeyPhrases     []string           `json:"key_phrases,omitempty"`
	ImportantTerms []string           `json:"important_terms,omitempty"`
	Blocked        bool               `json:"blocked"`
	BlockReason    string             `json:"block_reason,omitempty"`
	Results        []SearchResultItem `json:"results"`
	Total          int                `json:"total"`
	Summary        string             `json:"summary"`
	QueryTime      int64              `json:"query_time_ms"`
}

// SemanticQuery asks the semantic provider for candidates of one hotel.
type SemanticQuery struct {
	HotelID       string   `json:"hotel_id"`
	Text          string   `json:"text"`
	Limit         int      `json:"limit"`
	DocumentTypes []string `json:"document_types,omitempty"`
}
