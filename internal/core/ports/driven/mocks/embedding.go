package mocks

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
)

// MockEmbeddingService is a mock implementation of EmbeddingService for testing
type MockEmbeddingService struct {
	mu            sync.Mutex
	dimensions    int
	model         string
	failNext      bool
	failSubstring string
	embedCalls    int
	healthErr     error
}

// NewMockEmbeddingService creates a new MockEmbeddingService
func NewMockEmbeddingService() *MockEmbeddingService {
	return &MockEmbeddingService{
		dimensions: 384,
		model:      "mock-embedding-model",
	}
}

func (m *MockEmbeddingService) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embedCalls++

	if m.failNext {
		m.failNext = false
		return nil, context.DeadlineExceeded
	}
	if m.failSubstring != "" {
		for _, text := range texts {
			if strings.Contains(text, m.failSubstring) {
				return nil, fmt.Errorf("embedding provider rejected input")
			}
		}
	}

	result := make([][]float32, len(texts))
	for i, text := range texts {
		result[i] = m.generateEmbedding(text)
	}
	return result, nil
}

func (m *MockEmbeddingService) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext {
		m.failNext = false
		return nil, context.DeadlineExceeded
	}
	return m.generateEmbedding(query), nil
}

func (m *MockEmbeddingService) Dimensions() int {
	return m.dimensions
}

func (m *MockEmbeddingService) Model() string {
	return m.model
}

func (m *MockEmbeddingService) HealthCheck(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.healthErr
}

func (m *MockEmbeddingService) Close() error {
	return nil
}

// generateEmbedding generates a deterministic embedding based on text hash
func (m *MockEmbeddingService) generateEmbedding(text string) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	embedding := make([]float32, m.dimensions)
	for i := range embedding {
		// Generate deterministic pseudo-random values
		seed = seed*1103515245 + 12345
		embedding[i] = float32(seed%1000) / 1000.0
	}
	return embedding
}

// Helper methods for testing

func (m *MockEmbeddingService) SetFailNext(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = fail
}

// SetFailSubstring makes Embed fail for any batch containing the
// substring. Used to fail one page of a multi-page crawl.
func (m *MockEmbeddingService) SetFailSubstring(s string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSubstring = s
}

func (m *MockEmbeddingService) SetHealthErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthErr = err
}

func (m *MockEmbeddingService) SetDimensions(dim int) {
	m.dimensions = dim
}

// EmbedCalls returns how many batch calls were made.
func (m *MockEmbeddingService) EmbedCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.embedCalls
}
