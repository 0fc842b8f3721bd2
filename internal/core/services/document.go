package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/sitedex-core/internal/core/domain"
	"github.com/custodia-labs/sitedex-core/internal/core/ports/driven"
	"github.com/custodia-labs/sitedex-core/internal/core/ports/driving"
)

// Ensure documentService implements DocumentService
var _ driving.DocumentService = (*documentService)(nil)

// documentService implements the DocumentService interface.
// Every operation is scoped to the owning user; other users' documents
// are indistinguishable from missing ones.
type documentService struct {
	documentStore driven.DocumentStore
	chunkStore    driven.ChunkStore
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	documentStore driven.DocumentStore,
	chunkStore driven.ChunkStore,
) driving.DocumentService {
	return &documentService{
		documentStore: documentStore,
		chunkStore:    chunkStore,
	}
}

// Get retrieves a document by ID, owner only
func (s *documentService) Get(ctx context.Context, userID, id string) (*domain.Document, error) {
	doc, err := s.documentStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

// GetWithChunks retrieves a document with its chunks, owner only
func (s *documentService) GetWithChunks(ctx context.Context, userID, id string) (*domain.DocumentWithChunks, error) {
	doc, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	chunks, err := s.chunkStore.GetByDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	return &domain.DocumentWithChunks{
		Document: doc,
		Chunks:   chunks,
	}, nil
}

// List retrieves the user's documents, newest first
func (s *documentService) List(ctx context.Context, userID, crawlJobID string, limit, offset int) ([]*domain.Document, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 1000 {
		limit = 1000
	}
	if offset < 0 {
		offset = 0
	}
	return s.documentStore.ListForUser(ctx, userID, crawlJobID, limit, offset)
}

// Delete removes a document and its chunks, owner only
func (s *documentService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.documentStore.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// Count returns how many documents the user holds
func (s *documentService) Count(ctx context.Context, userID string) (int, error) {
	return s.documentStore.CountForUser(ctx, userID)
}
