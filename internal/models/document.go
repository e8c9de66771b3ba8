// Package models defines the data structures shared by ingestion, retrieval and the API.
package models

import "time"

// Document types accepted for hotel documents.
const (
	DocumentTypeContract  = "contract"
	DocumentTypeInvoice   = "invoice"
	DocumentTypeMenu      = "menu"
	DocumentTypePolicy    = "policy"
	DocumentTypeProcedure = "procedure"
	DocumentTypeManual    = "manual"
	DocumentTypeOther     = "other"
)

// DocumentTypes lists every accepted document type.
var DocumentTypes = []string{
	DocumentTypeContract, DocumentTypeInvoice, DocumentTypeMenu, DocumentTypePolicy,
	DocumentTypeProcedure, DocumentTypeManual, DocumentTypeOther,
}

// Document is a stored hotel document.
type Document struct {
	ID           string                 `json:"id" db:"id"`
	HotelID      string                 `json:"hotel_id" db:"hotel_id"`
	FileName     string                 `json:"file_name" db:"file_name"`
	DocumentType string                 `json:"document_type" db:"document_type"`
	Title        string                 `json:"title" db:"title"`
	Content      string                 `json:"content" db:"content"`
	Metadata     map[string]interface{} `json:"metadata,omitempty" db:"metadata"`
	CreatedAt    time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at" db:"updated_at"`
}

// DocumentChunk is a contiguous slice of a document's text.
type DocumentChunk struct {
	ID         string    `json:"id" db:"id"`
	DocumentID string    `json:"document_id" db:"document_id"`
	Content    string    `json:"content" db:"content"`
	ChunkIndex int       `json:"chunk_index" db:"chunk_index"`
	Embedding  []float32 `json:"-" db:"-"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// ChunkWithDocument is a chunk joined with the owning document's attributes.
type ChunkWithDocument struct {
	DocumentChunk
	HotelID      string `json:"hotel_id"`
	FileName     string `json:"file_name"`
	DocumentType string `json:"document_type"`
}

// DocumentRequest is the input for indexing a document.
type DocumentRequest struct {
	ID           string                 `json:"id,omitempty"`
	HotelID      string                 `json:"hotel_id" validate:"required"`
	FileName     string                 `json:"file_name,omitempty"`
	DocumentType string                 `json:"document_type,omitempty" validate:"omitempty,oneof=contract invoice menu policy procedure manual other"`
	Title        string                 `json:"title,omitempty"`
	Content      string                 `json:"content" validate:"required"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// Validate checks the request and fills the default document type.
func (r *DocumentRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	if r.DocumentType == "" {
		r.DocumentType = DocumentTypeOther
	}
	return nil
}
