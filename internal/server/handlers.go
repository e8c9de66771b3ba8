package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/hotelrag/internal/expansion"
	"github.com/hyperjump/hotelrag/internal/models"
	"github.com/hyperjump/hotelrag/internal/search"
	"github.com/hyperjump/hotelrag/internal/security"
	"github.com/hyperjump/hotelrag/internal/storage"
)

const maxListLimit = 100

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type statusResponse struct {
	Documents      int64          `json:"documents"`
	Chunks         int64          `json:"chunks"`
	Vectors        int            `json:"vectors"`
	DiskUsageBytes int64          `json:"disk_usage_bytes,omitempty"`
	Security       security.Stats `json:"security"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	docs, err := s.deps.Store.CountDocuments(ctx)
	if err != nil {
		s.fail(w, "status: count documents failed", err)
		return
	}
	chunks, err := s.deps.Store.CountChunks(ctx)
	if err != nil {
		s.fail(w, "status: count chunks failed", err)
		return
	}
	resp := statusResponse{Documents: docs, Chunks: chunks, Security: s.deps.Gate.Stats()}
	if s.deps.VectorCount != nil {
		resp.Vectors = s.deps.VectorCount()
	}
	if len(s.deps.DataPaths) > 0 {
		if n, err := storage.Footprint(s.deps.DataPaths...); err == nil {
			resp.DiskUsageBytes = n
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

type validateRequest struct {
	Message any `json:"message"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.respondJSON(w, http.StatusOK, s.deps.Gate.Validate(req.Message))
}

func (s *Server) handleSecurityStats(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.deps.Gate.Stats())
}

func (s *Server) handleSecurityReset(w http.ResponseWriter, r *http.Request) {
	s.deps.Gate.ResetStats()
	s.logger.Info("security statistics reset")
	s.respondJSON(w, http.StatusOK, s.deps.Gate.Stats())
}

type expandRequest struct {
	Query           string `json:"query"`
	MaxSynonyms     *int   `json:"max_synonyms,omitempty"`
	IncludeOriginal *bool  `json:"include_original,omitempty"`
	LanguageMix     *bool  `json:"language_mix,omitempty"`
}

type expandResponse struct {
	expansion.ExpandedQuery
	Keywords   []string `json:"keywords"`
	KeyPhrases []string `json:"key_phrases"`
}

func (s *Server) handleExpand(w http.ResponseWriter, r *http.Request) {
	var req expandRequest
	if !s.decode(w, r, &req) {
		return
	}
	opts := expansion.DefaultOptions()
	if req.MaxSynonyms != nil {
		opts.MaxSynonyms = *req.MaxSynonyms
	}
	if req.IncludeOriginal != nil {
		opts.IncludeOriginal = *req.IncludeOriginal
	}
	if req.LanguageMix != nil {
		opts.LanguageMix = *req.LanguageMix
	}
	s.respondJSON(w, http.StatusOK, expandResponse{
		ExpandedQuery: s.deps.Expander.ExpandWith(req.Query, opts),
		Keywords:      nonNil(expansion.ExtractKeywords(req.Query)),
		KeyPhrases:    nonNil(expansion.ExtractKeyPhrases(req.Query)),
	})
}

type rerankRequest struct {
	Keywords        []string                `json:"keywords"`
	Phrases         []string                `json:"phrases"`
	SemanticResults []models.SemanticResult `json:"semantic_results"`
	Weights         *search.Weights         `json:"weights,omitempty"`
}

type rerankResponse struct {
	Results []models.ScoredResult `json:"results"`
	Total   int                   `json:"total"`
}

func (s *Server) handleRerank(w http.ResponseWriter, r *http.Request) {
	var req rerankRequest
	if !s.decode(w, r, &req) {
		return
	}
	weights := s.deps.Hybrid.Weights()
	if req.Weights != nil {
		weights = *req.Weights
	}
	scores := s.deps.Hybrid.KeywordScores(req.Keywords, req.Phrases, req.SemanticResults)
	results := search.Merge(req.SemanticResults, scores, weights)
	s.respondJSON(w, http.StatusOK, rerankResponse{Results: results, Total: len(results)})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.logger.Debug("search request", zap.String("hotel_id", req.HotelID), zap.Int("top_k", req.TopK))
	resp, err := s.deps.Engine.Search(r.Context(), &req)
	if err != nil {
		s.respondErr(w, "search failed", err)
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	offset, _ := strconv.Atoi(q.Get("offset"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	docs, err := s.deps.Store.ListDocuments(r.Context(), q.Get("hotel_id"), max(offset, 0), limit)
	if err != nil {
		s.fail(w, "list documents failed", err)
		return
	}
	if docs == nil {
		docs = []*models.Document{}
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"documents": docs, "total": len(docs)})
}

func (s *Server) handleIndexDocument(w http.ResponseWriter, r *http.Request) {
	var req models.DocumentRequest
	if !s.decode(w, r, &req) {
		return
	}
	doc, err := s.deps.Indexer.IndexDocument(r.Context(), &req)
	if err != nil {
		s.respondErr(w, "indexing failed", err)
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]string{
		"id":       doc.ID,
		"hotel_id": doc.HotelID,
		"status":   "indexed",
	})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.deps.Store.GetDocument(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondErr(w, "get document failed", err)
		return
	}
	s.respondJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.deps.Indexer.DeleteDocument(r.Context(), id); err != nil {
		s.respondErr(w, "deletion failed", err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"id": id, "status": "deleted"})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// respondErr maps domain errors to status codes.
func (s *Server) respondErr(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidRequest):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	default:
		s.fail(w, msg, err)
	}
}

func (s *Server) fail(w http.ResponseWriter, msg string, err error) {
	s.logger.Error(msg, zap.Error(err))
	s.respondError(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
