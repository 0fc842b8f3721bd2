package driving

import (
	"context"

	"github.com/custodia-labs/sitedex-core/internal/core/domain"
)

// DocumentService provides access to a user's ingested documents
type DocumentService interface {
	// Get retrieves a document by ID, owner only
	Get(ctx context.Context, userID, id string) (*domain.Document, error)

	// GetWithChunks retrieves a document with its chunks, owner only
	GetWithChunks(ctx context.Context, userID, id string) (*domain.DocumentWithChunks, error)

	// List retrieves the user's documents, optionally restricted to one
	// crawl job
	List(ctx context.Context, userID, crawlJobID string, limit, offset int) ([]*domain.Document, error)

	// Delete removes a document and its chunks, owner only
	Delete(ctx context.Context, userID, id string) error

	// Count returns how many documents the user holds
	Count(ctx context.Context, userID string) (int, error)
}
