// Package store holds the boundary persistence collaborators: the
// document metadata store and the append-only chat history store. The
// retrieval core only lists and describes documents here; content always
// comes from the vector index.
package store

import (
	"context"
	"errors"

	"document-chat-platform/models"
)

// ErrNotFound is returned when a document id is unknown.
var ErrNotFound = errors.New("document not found")

// MetadataStore persists document records.
type MetadataStore interface {
	Put(ctx context.Context, doc models.Document) error
	Get(ctx context.Context, id string) (models.Document, error)
	List(ctx context.Context) ([]models.Document, error)
	ListByStatus(ctx context.Context, status string) ([]models.Document, error)
	UpdateStatus(ctx context.Context, id, status, errorMessage string, numChunks int) error
	Delete(ctx context.Context, id string) (bool, error)
}

// HistoryStore persists chat records. Append failures are non-fatal to
// the query pipeline.
type HistoryStore interface {
	Append(ctx context.Context, record models.ChatRecord) error
	List(ctx context.Context, limit int) ([]models.ChatRecord, error)
}
