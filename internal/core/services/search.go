package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/sitedex-core/internal/core/domain"
	"github.com/custodia-labs/sitedex-core/internal/core/ports/driven"
	"github.com/custodia-labs/sitedex-core/internal/core/ports/driving"
	"github.com/custodia-labs/sitedex-core/internal/runtime"
)

// Ensure searchService implements SearchService
var _ driving.SearchService = (*searchService)(nil)

// searchService answers semantic queries over the caller's ready
// documents. The query is embedded with the same credentials the
// caller's imports use, then matched against stored chunk vectors.
type searchService struct {
	chunkStore       driven.ChunkStore
	credentialsStore driven.CredentialsStore
	aiFactory        driven.AIServiceFactory
	services         *runtime.Services
}

// NewSearchService creates a new SearchService
func NewSearchService(
	chunkStore driven.ChunkStore,
	credentialsStore driven.CredentialsStore,
	aiFactory driven.AIServiceFactory,
	services *runtime.Services,
) driving.SearchService {
	return &searchService{
		chunkStore:       chunkStore,
		credentialsStore: credentialsStore,
		aiFactory:        aiFactory,
		services:         services,
	}
}

// Search embeds the query and returns the closest chunks
func (s *searchService) Search(ctx context.Context, userID, query string, opts domain.SearchOptions) (*domain.SearchResult, error) {
	start := time.Now()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}

	// Apply defaults
	if opts.Limit <= 0 {
		opts.Limit = 10
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}

	embedder, owned, err := embeddingForUser(ctx, s.credentialsStore, s.aiFactory, s.services, userID)
	if err != nil {
		return nil, err
	}
	if owned {
		defer func() { _ = embedder.Close() }()
	}

	queryEmbedding, err := embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	rankedChunks, err := s.chunkStore.SearchSimilar(ctx, userID, queryEmbedding, opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}

	return &domain.SearchResult{
		Query:      query,
		Results:    rankedChunks,
		TotalCount: len(rankedChunks),
		Took:       time.Since(start),
	}, nil
}
