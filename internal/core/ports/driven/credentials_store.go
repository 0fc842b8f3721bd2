package driven

import (
	"context"

	"github.com/custodia-labs/sitedex-core/internal/core/domain"
)

// CredentialsStore persists per-user embedding credentials
// (PostgreSQL, API key encrypted at rest)
type CredentialsStore interface {
	// Save upserts a user's embedding credentials (encrypts the API key)
	Save(ctx context.Context, userID string, settings *domain.EmbeddingSettings) error

	// Get retrieves a user's embedding credentials with the API key
	// decrypted. Returns nil, nil when the user has none.
	Get(ctx context.Context, userID string) (*domain.EmbeddingSettings, error)

	// Delete removes a user's embedding credentials
	Delete(ctx context.Context, userID string) error
}
