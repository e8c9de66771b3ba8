// Package server exposes the hotel document search core over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/hotelrag/internal/config"
	"github.com/hyperjump/hotelrag/internal/expansion"
	"github.com/hyperjump/hotelrag/internal/indexer"
	"github.com/hyperjump/hotelrag/internal/search"
	"github.com/hyperjump/hotelrag/internal/security"
	"github.com/hyperjump/hotelrag/internal/storage"
	"github.com/hyperjump/hotelrag/pkg/utils"
)

// Deps are the components served by the API.
type Deps struct {
	Engine   *search.Engine
	Expander expansion.QueryExpander
	Hybrid   *search.HybridSearcher
	Gate     *security.InputValidator
	Indexer  *indexer.Indexer
	Store    storage.Storage
	// VectorCount reports the number of indexed vectors; optional.
	VectorCount func() int
	// DataPaths are measured for the status disk usage figure.
	DataPaths []string
}

// Server is the HTTP server for the hotelrag API.
type Server struct {
	deps   Deps
	logger *zap.Logger
	server *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(deps Deps, cfg *config.ServerConfig, logger *zap.Logger) *Server {
	if deps.Hybrid == nil {
		deps.Hybrid = search.NewHybridSearcher(nil, search.DefaultWeights())
	}
	if deps.Gate == nil {
		deps.Gate = security.NewInputValidator(security.WithLogger(logger))
	}
	if cfg == nil {
		c := config.Config{}
		config.ApplyDefaults(&c)
		cfg = &c.Server
	}
	srv := &Server{
		deps:   deps,
		logger: utils.LoggerOrNop(logger),
	}
	srv.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Get("/health", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Post("/validate", s.handleValidate)
		r.Get("/security/stats", s.handleSecurityStats)
		r.Post("/security/stats/reset", s.handleSecurityReset)
		r.Post("/expand", s.handleExpand)
		r.Post("/rerank", s.handleRerank)
		r.Post("/search", s.handleSearch)
		r.Get("/documents", s.handleListDocuments)
		r.Post("/documents", s.handleIndexDocument)
		r.Get("/documents/{id}", s.handleGetDocument)
		r.Delete("/documents/{id}", s.handleDeleteDocument)
	})
	return r
}

// requestLogger logs each request at debug level through zap.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

// Start starts the HTTP server and blocks until it stops. It returns
// http.ErrServerClosed after Stop, including when Stop ran first.
func (s *Server) Start() error {
	s.logger.Info("Starting server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
