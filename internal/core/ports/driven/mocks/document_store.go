package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/sitedex-core/internal/core/domain"
	"github.com/custodia-labs/sitedex-core/internal/core/ports/driven"
)

// Ensure MockDocumentStore implements DocumentStore
var _ driven.DocumentStore = (*MockDocumentStore)(nil)

// MockDocumentStore is a mock implementation of DocumentStore for testing
type MockDocumentStore struct {
	mu        sync.RWMutex
	documents map[string]*domain.Document
	byUserURL map[string]*domain.Document // key: userID:sourceURL

	// Custom behavior hooks (optional)
	InsertFn       func(doc *domain.Document) error
	UpdateStatusFn func(id string, status domain.DocumentStatus, errorMessage string) error
}

// NewMockDocumentStore creates a new MockDocumentStore
func NewMockDocumentStore() *MockDocumentStore {
	return &MockDocumentStore{
		documents: make(map[string]*domain.Document),
		byUserURL: make(map[string]*domain.Document),
	}
}

func (m *MockDocumentStore) Insert(ctx context.Context, doc *domain.Document) error {
	if m.InsertFn != nil {
		if err := m.InsertFn(doc); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	key := doc.UserID + ":" + doc.SourceURL
	if _, exists := m.byUserURL[key]; exists {
		return domain.ErrAlreadyExists
	}
	stored := *doc
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	stored.UpdatedAt = stored.CreatedAt
	m.documents[doc.ID] = &stored
	m.byUserURL[key] = &stored
	return nil
}

func (m *MockDocumentStore) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errorMessage string) error {
	if m.UpdateStatusFn != nil {
		if err := m.UpdateStatusFn(id, status, errorMessage); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	doc.Status = status
	doc.ErrorMessage = errorMessage
	doc.UpdatedAt = time.Now()
	return nil
}

func (m *MockDocumentStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *doc
	return &copied, nil
}

func (m *MockDocumentStore) FindBySourceURL(ctx context.Context, userID, sourceURL string) (*domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.byUserURL[userID+":"+sourceURL]
	if !ok {
		return nil, nil
	}
	copied := *doc
	return &copied, nil
}

func (m *MockDocumentStore) ListForUser(ctx context.Context, userID, crawlJobID string, limit, offset int) ([]*domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var docs []*domain.Document
	for _, doc := range m.documents {
		if doc.UserID != userID {
			continue
		}
		if crawlJobID != "" && doc.CrawlJobID != crawlJobID {
			continue
		}
		copied := *doc
		docs = append(docs, &copied)
	}
	sortDocumentsByCreatedAt(docs)
	if offset >= len(docs) {
		return []*domain.Document{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(docs) {
		end = len(docs)
	}
	return docs[offset:end], nil
}

func (m *MockDocumentStore) CountForUser(ctx context.Context, userID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, doc := range m.documents {
		if doc.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (m *MockDocumentStore) CountForUserSince(ctx context.Context, userID string, since time.Time) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, doc := range m.documents {
		if doc.UserID == userID && !doc.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (m *MockDocumentStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(m.byUserURL, doc.UserID+":"+doc.SourceURL)
	delete(m.documents, id)
	return nil
}

func (m *MockDocumentStore) FailStaleProcessing(ctx context.Context, olderThan time.Duration) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := time.Now().Add(-olderThan)
	updated := 0
	for _, doc := range m.documents {
		if doc.Status == domain.DocumentStatusProcessing && doc.UpdatedAt.Before(cutoff) {
			doc.Status = domain.DocumentStatusFailed
			doc.ErrorMessage = "import interrupted"
			doc.UpdatedAt = time.Now()
			updated++
		}
	}
	return updated, nil
}

// Helper methods for testing

func (m *MockDocumentStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents = make(map[string]*domain.Document)
	m.byUserURL = make(map[string]*domain.Document)
}

// Seed inserts a document bypassing the hooks (for test setup).
func (m *MockDocumentStore) Seed(doc *domain.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *doc
	m.documents[doc.ID] = &stored
	m.byUserURL[doc.UserID+":"+doc.SourceURL] = &stored
}

// All returns every stored document (for test assertions).
func (m *MockDocumentStore) All() []*domain.Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	docs := make([]*domain.Document, 0, len(m.documents))
	for _, doc := range m.documents {
		copied := *doc
		docs = append(docs, &copied)
	}
	sortDocumentsByCreatedAt(docs)
	return docs
}

func sortDocumentsByCreatedAt(docs []*domain.Document) {
	for i := 1; i < len(docs); i++ {
		for j := i; j > 0 && docs[j].CreatedAt.Before(docs[j-1].CreatedAt); j-- {
			docs[j], docs[j-1] = docs[j-1], docs[j]
		}
	}
}
