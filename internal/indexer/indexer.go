// Package indexer ingests hotel documents: preprocessing, chunking, embedding,
// and writing to the document store and vector index.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/hyperjump/hotelrag/internal/config"
	"github.com/hyperjump/hotelrag/internal/embedding"
	"github.com/hyperjump/hotelrag/internal/extract"
	"github.com/hyperjump/hotelrag/internal/fileid"
	"github.com/hyperjump/hotelrag/internal/models"
	"github.com/hyperjump/hotelrag/internal/storage"
	"github.com/hyperjump/hotelrag/internal/vector"
	"github.com/hyperjump/hotelrag/pkg/utils"
)

const (
	metaSourcePath  = "source_path"
	metaSourceMtime = "source_mtime"
	metaSourceSize  = "source_size"
)

// Indexer writes documents to storage and the vector index.
type Indexer struct {
	store      storage.Storage
	embedder   embedding.Embedder
	index      vector.Index
	extractor  *extract.Extractor
	chunker    *Chunker
	workers    int
	extensions []string
	logger     *zap.Logger
}

// Option configures an Indexer.
type Option func(*Indexer)

// WithLogger sets the indexer logger.
func WithLogger(l *zap.Logger) Option {
	return func(idx *Indexer) { idx.logger = utils.LoggerOrNop(l) }
}

// NewIndexer creates an indexer. A nil cfg uses the default indexer settings.
func NewIndexer(
	store storage.Storage,
	embedder embedding.Embedder,
	index vector.Index,
	extractor *extract.Extractor,
	cfg *config.IndexerConfig,
	opts ...Option,
) *Indexer {
	if cfg == nil {
		c := config.Config{}
		config.ApplyDefaults(&c)
		cfg = &c.Indexer
	}
	if extractor == nil {
		extractor = extract.NewExtractor()
	}
	idx := &Indexer{
		store:      store,
		embedder:   embedder,
		index:      index,
		extractor:  extractor,
		chunker:    NewChunker(cfg.ChunkSize, cfg.ChunkOverlapOrDefault()),
		workers:    max(cfg.Workers, 1),
		extensions: cfg.Extensions,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// IndexDocument validates req, chunks and embeds its content and replaces any
// previous version of the document. The stored content is the preprocessed text.
func (idx *Indexer) IndexDocument(ctx context.Context, req *models.DocumentRequest) (*models.Document, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	content := Preprocess(req.Content)
	texts := idx.chunker.Split(content)
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: document has no indexable text", models.ErrInvalidRequest)
	}

	doc := &models.Document{
		ID:           req.ID,
		HotelID:      req.HotelID,
		FileName:     req.FileName,
		DocumentType: req.DocumentType,
		Title:        req.Title,
		Content:      content,
		Metadata:     req.Metadata,
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.Title == "" {
		doc.Title = doc.FileName
	}

	embeddings, err := idx.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}
	chunks := make([]*models.DocumentChunk, len(texts))
	chunkIDs := make([]string, len(texts))
	for i, text := range texts {
		chunkIDs[i] = uuid.NewString()
		chunks[i] = &models.DocumentChunk{
			ID:         chunkIDs[i],
			DocumentID: doc.ID,
			Content:    text,
			ChunkIndex: i,
			Embedding:  embeddings[i],
		}
	}

	previous, err := idx.chunkIDs(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	if err := idx.store.ReplaceDocument(ctx, doc, chunks); err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}
	if err := idx.index.Remove(ctx, previous); err != nil {
		return nil, fmt.Errorf("failed to remove old vectors: %w", err)
	}
	if err := idx.index.Upsert(ctx, chunkIDs, embeddings); err != nil {
		return nil, fmt.Errorf("failed to index vectors: %w", err)
	}

	idx.logger.Debug("document indexed",
		zap.String("id", doc.ID),
		zap.String("hotel_id", doc.HotelID),
		zap.String("type", doc.DocumentType),
		zap.Int("chunks", len(chunks)))
	return doc, nil
}

func (idx *Indexer) chunkIDs(ctx context.Context, docID string) ([]string, error) {
	chunks, err := idx.store.GetChunksByDocumentID(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("failed to get chunks: %w", err)
	}
	ids := make([]string, len(chunks))
	for i, ch := range chunks {
		ids[i] = ch.ID
	}
	return ids, nil
}

// IndexFile extracts and indexes one file for a hotel. The document ID is
// derived from hotel and absolute path, so re-indexing replaces the document.
// A file whose size and modification time match the stored document is not
// re-indexed; the stored document is returned instead.
func (idx *Indexer) IndexFile(ctx context.Context, hotelID, path, documentType string) (*models.Document, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("not a regular file: %s", absPath)
	}

	docID := fileid.DocumentID(hotelID, absPath)
	if doc, ok := idx.unchanged(ctx, docID, absPath, info); ok {
		idx.logger.Debug("skipping unchanged file", zap.String("path", absPath))
		return doc, nil
	}

	text, err := idx.extractor.Extract(absPath)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", filepath.Base(absPath), err)
	}
	doc, err := idx.IndexDocument(ctx, &models.DocumentRequest{
		ID:           docID,
		HotelID:      hotelID,
		FileName:     filepath.Base(absPath),
		DocumentType: documentType,
		Content:      text,
		Metadata: map[string]interface{}{
			metaSourcePath: absPath,
			// strings: UnixNano does not survive a JSON float64 round trip
			metaSourceMtime: strconv.FormatInt(info.ModTime().UnixNano(), 10),
			metaSourceSize:  strconv.FormatInt(info.Size(), 10),
		},
	})
	if err != nil {
		return nil, err
	}
	idx.logger.Info("file indexed", zap.String("path", absPath), zap.String("doc_id", doc.ID))
	return doc, nil
}

func (idx *Indexer) unchanged(ctx context.Context, docID, absPath string, info os.FileInfo) (*models.Document, bool) {
	doc, err := idx.store.GetDocument(ctx, docID)
	if err != nil || doc.Metadata == nil {
		return nil, false
	}
	if doc.Metadata[metaSourcePath] != absPath {
		return nil, false
	}
	mtime, _ := doc.Metadata[metaSourceMtime].(string)
	size, _ := doc.Metadata[metaSourceSize].(string)
	if mtime != strconv.FormatInt(info.ModTime().UnixNano(), 10) || size != strconv.FormatInt(info.Size(), 10) {
		return nil, false
	}
	return doc, true
}

// FileError records a file that failed during directory ingestion.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string { return e.Path + ": " + e.Err.Error() }

func (e FileError) Unwrap() error { return e.Err }

// DirectoryResult summarizes a directory ingestion.
type DirectoryResult struct {
	Indexed int
	Failed  []FileError
}

// IndexDirectory indexes every supported file under dir concurrently. A file
// that fails is recorded in the result and does not stop the others.
func (idx *Indexer) IndexDirectory(ctx context.Context, hotelID, dir, documentType string) (*DirectoryResult, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return nil, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", absDir)
	}

	var files []string
	err = filepath.WalkDir(absDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path != absDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if idx.Accepts(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", absDir, err)
	}

	pool, err := ants.NewPool(idx.workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	result := &DirectoryResult{}
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			break
		}
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			_, err := idx.IndexFile(ctx, hotelID, path, documentType)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				idx.logger.Warn("failed to index file", zap.String("path", path), zap.Error(err))
				result.Failed = append(result.Failed, FileError{Path: path, Err: err})
				return
			}
			result.Indexed++
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			result.Failed = append(result.Failed, FileError{Path: path, Err: submitErr})
			mu.Unlock()
		}
	}
	wg.Wait()

	idx.logger.Info("directory indexed",
		zap.String("dir", absDir),
		zap.Int("indexed", result.Indexed),
		zap.Int("failed", len(result.Failed)))
	return result, ctx.Err()
}

// Accepts reports whether path has an extension that is both configured and extractable.
func (idx *Indexer) Accepts(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if !idx.extractor.Supports(ext) {
		return false
	}
	if len(idx.extensions) == 0 {
		return true
	}
	for _, allowed := range idx.extensions {
		if strings.EqualFold(strings.TrimPrefix(allowed, "."), strings.TrimPrefix(ext, ".")) {
			return true
		}
	}
	return false
}

// DeleteDocument removes a document, its chunks and their vectors. Returns an
// error wrapping storage.ErrNotFound when the document does not exist.
func (idx *Indexer) DeleteDocument(ctx context.Context, id string) error {
	if _, err := idx.store.GetDocument(ctx, id); err != nil {
		return err
	}
	ids, err := idx.chunkIDs(ctx, id)
	if err != nil {
		return err
	}
	if err := idx.index.Remove(ctx, ids); err != nil {
		return fmt.Errorf("failed to delete vectors: %w", err)
	}
	if err := idx.store.DeleteDocument(ctx, id); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	idx.logger.Debug("document deleted", zap.String("id", id), zap.Int("chunks", len(ids)))
	return nil
}

// RemoveFile deletes the document indexed from path for a hotel. A file that
// was never indexed is not an error.
func (idx *Indexer) RemoveFile(ctx context.Context, hotelID, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("absolute path: %w", err)
	}
	err = idx.DeleteDocument(ctx, fileid.DocumentID(hotelID, absPath))
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	return err
}

const listPageSize = 500

// RemoveTree deletes every document of a hotel indexed from a file under dir.
// It returns the number of documents removed.
func (idx *Indexer) RemoveTree(ctx context.Context, hotelID, dir string) (int, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return 0, fmt.Errorf("absolute path: %w", err)
	}
	prefix := absDir + string(filepath.Separator)

	var ids []string
	for offset := 0; ; offset += listPageSize {
		docs, err := idx.store.ListDocuments(ctx, hotelID, offset, listPageSize)
		if err != nil {
			return 0, fmt.Errorf("failed to list documents: %w", err)
		}
		for _, doc := range docs {
			if src, _ := doc.Metadata[metaSourcePath].(string); strings.HasPrefix(src, prefix) {
				ids = append(ids, doc.ID)
			}
		}
		if len(docs) < listPageSize {
			break
		}
	}

	removed := 0
	for _, id := range ids {
		err := idx.DeleteDocument(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return removed, err
		}
		removed++
	}
	if removed > 0 {
		idx.logger.Info("directory documents removed", zap.String("dir", absDir), zap.Int("documents", removed))
	}
	return removed, nil
}
