package mocks

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/sitedex-core/internal/core/domain"
	"github.com/custodia-labs/sitedex-core/internal/core/ports/driven"
)

// Ensure MockChunkStore implements ChunkStore
var _ driven.ChunkStore = (*MockChunkStore)(nil)

// MockChunkStore is a mock implementation of ChunkStore for testing.
// SearchSimilar ranks by cosine similarity over the stored embeddings,
// scoped to the owner's ready documents like the real store.
type MockChunkStore struct {
	mu         sync.RWMutex
	byDocument map[string][]*domain.Chunk

	// Documents lets SearchSimilar resolve ownership and status
	Documents *MockDocumentStore

	// Custom behavior hooks (optional)
	InsertBatchFn func(chunks []*domain.Chunk) error
}

// NewMockChunkStore creates a new MockChunkStore
func NewMockChunkStore() *MockChunkStore {
	return &MockChunkStore{
		byDocument: make(map[string][]*domain.Chunk),
	}
}

func (m *MockChunkStore) InsertBatch(ctx context.Context, chunks []*domain.Chunk) error {
	if m.InsertBatchFn != nil {
		if err := m.InsertBatchFn(chunks); err != nil {
			return err
		}
	}
	if len(chunks) == 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, chunk := range chunks {
		copied := *chunk
		m.byDocument[chunk.DocumentID] = append(m.byDocument[chunk.DocumentID], &copied)
	}
	return nil
}

func (m *MockChunkStore) GetByDocument(ctx context.Context, documentID string) ([]*domain.Chunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	chunks := make([]*domain.Chunk, 0, len(m.byDocument[documentID]))
	for _, chunk := range m.byDocument[documentID] {
		copied := *chunk
		chunks = append(chunks, &copied)
	}
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Index < chunks[j].Index })
	return chunks, nil
}

func (m *MockChunkStore) SearchSimilar(ctx context.Context, userID string, embedding []float32, limit int) ([]*domain.RankedChunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ranked []*domain.RankedChunk
	for docID, chunks := range m.byDocument {
		var doc *domain.Document
		if m.Documents != nil {
			d, err := m.Documents.Get(ctx, docID)
			if err != nil {
				continue
			}
			if d.UserID != userID || d.Status != domain.DocumentStatusReady {
				continue
			}
			doc = d
		}
		for _, chunk := range chunks {
			copied := *chunk
			ranked = append(ranked, &domain.RankedChunk{
				Chunk:    &copied,
				Document: doc,
				Score:    cosineSimilarity(embedding, chunk.Embedding),
			})
		}
	}

	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// Helper methods for testing

func (m *MockChunkStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byDocument = make(map[string][]*domain.Chunk)
}

// CountForDocument returns the stored chunk count for a document.
func (m *MockChunkStore) CountForDocument(documentID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byDocument[documentID])
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
