package driving

import (
	"context"

	"github.com/custodia-labs/sitedex-core/internal/core/domain"
)

// SearchService answers semantic queries over a user's ready documents
type SearchService interface {
	// Search embeds the query and returns the closest chunks
	Search(ctx context.Context, userID, query string, opts domain.SearchOptions) (*domain.SearchResult, error)
}
