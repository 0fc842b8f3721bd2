package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/sitedex-core/internal/core/domain"
	"github.com/custodia-labs/sitedex-core/internal/core/ports/driven"
)

// Ensure MockCredentialsStore implements CredentialsStore
var _ driven.CredentialsStore = (*MockCredentialsStore)(nil)

// MockCredentialsStore is a mock implementation of CredentialsStore for testing
type MockCredentialsStore struct {
	mu    sync.RWMutex
	creds map[string]*domain.EmbeddingSettings
}

// NewMockCredentialsStore creates a new MockCredentialsStore
func NewMockCredentialsStore() *MockCredentialsStore {
	return &MockCredentialsStore{
		creds: make(map[string]*domain.EmbeddingSettings),
	}
}

func (m *MockCredentialsStore) Save(ctx context.Context, userID string, settings *domain.EmbeddingSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *settings
	m.creds[userID] = &copied
	return nil
}

func (m *MockCredentialsStore) Get(ctx context.Context, userID string) (*domain.EmbeddingSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	settings, ok := m.creds[userID]
	if !ok {
		return nil, nil
	}
	copied := *settings
	return &copied, nil
}

func (m *MockCredentialsStore) Delete(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.creds, userID)
	return nil
}

// Helper methods for testing

func (m *MockCredentialsStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = make(map[string]*domain.EmbeddingSettings)
}
