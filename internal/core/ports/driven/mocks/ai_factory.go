package mocks

import (
	"sync"

	"github.com/custodia-labs/sitedex-core/internal/core/domain"
	"github.com/custodia-labs/sitedex-core/internal/core/ports/driven"
)

// Ensure MockAIFactory implements AIServiceFactory
var _ driven.AIServiceFactory = (*MockAIFactory)(nil)

// MockAIFactory is a mock implementation of AIServiceFactory for testing
type MockAIFactory struct {
	mu           sync.Mutex
	calls        int
	lastSettings *domain.EmbeddingSettings

	// Service is returned for every create call. When nil, a fresh
	// MockEmbeddingService is returned instead.
	Service driven.EmbeddingService

	// Err makes every create call fail
	Err error
}

// NewMockAIFactory creates a new MockAIFactory
func NewMockAIFactory() *MockAIFactory {
	return &MockAIFactory{}
}

func (f *MockAIFactory) CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if settings != nil {
		copied := *settings
		f.lastSettings = &copied
	}

	if f.Err != nil {
		return nil, f.Err
	}
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}
	if f.Service != nil {
		return f.Service, nil
	}
	return NewMockEmbeddingService(), nil
}

// Helper methods for testing

// Calls returns how many create calls were made.
func (f *MockAIFactory) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// LastSettings returns the settings of the most recent create call.
func (f *MockAIFactory) LastSettings() *domain.EmbeddingSettings {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastSettings
}
