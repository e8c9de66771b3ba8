// Package storage persists hotel documents and their chunks.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/hotelrag/internal/models"
)

// ErrNotFound is returned when a document or chunk does not exist.
var ErrNotFound = errors.New("not found")

// Storage defines document and chunk persistence operations.
type Storage interface {
	// Document operations
	CreateDocument(ctx context.Context, doc *models.Document) error
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	UpdateDocument(ctx context.Context, doc *models.Document) error
	DeleteDocument(ctx context.Context, id string) error
	// ListDocuments lists documents of one hotel, or of all hotels when hotelID is empty.
	ListDocuments(ctx context.Context, hotelID string, offset, limit int) ([]*models.Document, error)
	// ReplaceDocument upserts doc and swaps its chunks in one transaction.
	ReplaceDocument(ctx context.Context, doc *models.Document, chunks []*models.DocumentChunk) error

	// Chunk operations
	BatchCreateChunks(ctx context.Context, chunks []*models.DocumentChunk) error
	GetChunk(ctx context.Context, id string) (*models.DocumentChunk, error)
	GetChunkWithDocument(ctx context.Context, id string) (*models.ChunkWithDocument, error)
	GetChunksByDocumentID(ctx context.Context, docID string) ([]*models.DocumentChunk, error)
	DeleteChunksByDocumentID(ctx context.Context, docID string) error
	// ChunkIDsForHotel returns the IDs of a hotel's chunks, optionally limited to document types.
	ChunkIDsForHotel(ctx context.Context, hotelID string, documentTypes []string) (map[string]struct{}, error)

	// Stats
	CountDocuments(ctx context.Context) (int64, error)
	CountChunks(ctx context.Context) (int64, error)

	Close() error
}
