package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/sitedex-core/internal/core/domain"
)

// DocumentStore handles document persistence (PostgreSQL)
type DocumentStore interface {
	// Insert creates a document row in processing status
	Insert(ctx context.Context, doc *domain.Document) error

	// UpdateStatus transitions a document's status. The error message is
	// stored for failed documents and cleared otherwise.
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errorMessage string) error

	// Get retrieves a document by ID
	Get(ctx context.Context, id string) (*domain.Document, error)

	// FindBySourceURL retrieves a user's document for a source URL.
	// Returns nil, nil when no document exists.
	FindBySourceURL(ctx context.Context, userID, sourceURL string) (*domain.Document, error)

	// ListForUser retrieves a user's documents with pagination.
	// A non-empty crawlJobID restricts results to one crawl job.
	ListForUser(ctx context.Context, userID, crawlJobID string, limit, offset int) ([]*domain.Document, error)

	// CountForUser returns how many documents a user holds
	CountForUser(ctx context.Context, userID string) (int, error)

	// CountForUserSince returns how many documents a user created at or
	// after the given time
	CountForUserSince(ctx context.Context, userID string, since time.Time) (int, error)

	// Delete deletes a document; its chunks cascade
	Delete(ctx context.Context, id string) error

	// FailStaleProcessing marks documents stuck in processing longer than
	// olderThan as failed. Returns the number of rows updated.
	FailStaleProcessing(ctx context.Context, olderThan time.Duration) (int, error)
}

// ChunkStore handles chunk persistence (PostgreSQL with pgvector)
type ChunkStore interface {
	// InsertBatch saves all chunks of a document in one transaction.
	// Either every chunk becomes visible or none do.
	InsertBatch(ctx context.Context, chunks []*domain.Chunk) error

	// GetByDocument retrieves all chunks for a document ordered by index
	GetByDocument(ctx context.Context, documentID string) ([]*domain.Chunk, error)

	// SearchSimilar returns the chunks of a user's ready documents
	// closest to the query embedding, best first
	SearchSimilar(ctx context.Context, userID string, embedding []float32, limit int) ([]*domain.RankedChunk, error)
}
