package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/sitedex-core/internal/core/domain"
	"github.com/custodia-labs/sitedex-core/internal/core/ports/driven"
	"github.com/custodia-labs/sitedex-core/internal/runtime"
)

// EmbeddingBatcher partitions texts into fixed-size batches and embeds
// them with bounded concurrency. Each batch writes its vectors into the
// result slice at the batch's own offset, so output order matches input
// order no matter which batch finishes first.
type EmbeddingBatcher struct {
	BatchSize   int
	Concurrency int
}

// DefaultEmbeddingBatcher returns the standard batching configuration
func DefaultEmbeddingBatcher() EmbeddingBatcher {
	return EmbeddingBatcher{
		BatchSize:   64,
		Concurrency: 3,
	}
}

// GenerateEmbeddings embeds all texts through svc. Any batch failure
// fails the whole call; partial results are discarded.
func (b EmbeddingBatcher) GenerateEmbeddings(ctx context.Context, svc driven.EmbeddingService, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	batchSize := b.BatchSize
	if batchSize <= 0 {
		batchSize = 64
	}
	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = 3
	}

	result := make([][]float32, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}
		start, end := start, end

		g.Go(func() error {
			vectors, err := svc.Embed(gctx, texts[start:end])
			if err != nil {
				return fmt.Errorf("embed batch at offset %d: %w", start, err)
			}
			if len(vectors) != end-start {
				return fmt.Errorf("embed batch at offset %d: got %d vectors for %d texts", start, len(vectors), end-start)
			}
			copy(result[start:end], vectors)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// embeddingForUser resolves the embedding service for a user: stored
// per-user credentials first, then the deployment default. The boolean
// reports whether the caller owns the returned service and must close
// it when done (per-user services are built per call; the deployment
// default is shared).
func embeddingForUser(ctx context.Context, creds driven.CredentialsStore, factory driven.AIServiceFactory, services *runtime.Services, userID string) (driven.EmbeddingService, bool, error) {
	if creds != nil && factory != nil {
		settings, err := creds.Get(ctx, userID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to load embedding credentials: %w", err)
		}
		if settings != nil && settings.IsConfigured() {
			svc, err := factory.CreateEmbeddingService(settings)
			if err != nil {
				return nil, false, fmt.Errorf("failed to create embedding service: %w", err)
			}
			if svc != nil {
				return svc, true, nil
			}
		}
	}

	if services != nil {
		if svc := services.EmbeddingService(); svc != nil {
			return svc, false, nil
		}
	}

	return nil, false, domain.ErrMissingCredentials
}
