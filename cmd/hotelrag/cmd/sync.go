package cmd

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// folderSync mirrors a watched folder into one hotel's documents.
type folderSync struct {
	c            *components
	hotelID      string
	documentType string

	// serializes vector index saves
	mu sync.Mutex
}

func (s *folderSync) FileChanged(ctx context.Context, path string) {
	doc, err := s.c.indexer.IndexFile(ctx, s.hotelID, path, s.documentType)
	if err != nil {
		s.c.logger.Warn("failed to index changed file", zap.String("path", path), zap.Error(err))
		return
	}
	s.c.logger.Debug("synced file", zap.String("path", path), zap.String("doc_id", doc.ID))
	s.persist()
}

func (s *folderSync) FileRemoved(ctx context.Context, path string) {
	if err := s.c.indexer.RemoveFile(ctx, s.hotelID, path); err != nil {
		s.c.logger.Warn("failed to remove document", zap.String("path", path), zap.Error(err))
		return
	}
	s.persist()
}

func (s *folderSync) TreeRemoved(ctx context.Context, path string) {
	n, err := s.c.indexer.RemoveTree(ctx, s.hotelID, path)
	if err != nil {
		s.c.logger.Warn("failed to remove directory documents", zap.String("path", path), zap.Error(err))
	}
	if n > 0 {
		s.persist()
	}
}

func (s *folderSync) persist() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.c.saveVectors(); err != nil {
		s.c.logger.Error("failed to persist vectors", zap.Error(err))
	}
}
