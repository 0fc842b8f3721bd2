package runtime

import (
	"context"
	"errors"
	"testing"

	"github.com/custodia-labs/sitedex-core/internal/core/domain"
)

// mockEmbeddingService is a mock implementation for testing
type mockEmbeddingService struct {
	healthCheckErr error
	closed         bool
}

func (m *mockEmbeddingService) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, nil
}

func (m *mockEmbeddingService) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	return nil, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	return 384
}

func (m *mockEmbeddingService) Model() string {
	return "test-model"
}

func (m *mockEmbeddingService) HealthCheck(ctx context.Context) error {
	return m.healthCheckErr
}

func (m *mockEmbeddingService) Close() error {
	m.closed = true
	return nil
}

func TestNewServices(t *testing.T) {
	config := domain.NewRuntimeConfig("memory")
	services := NewServices(config)

	if services == nil {
		t.Fatal("expected non-nil services")
	}
	if services.Config() != config {
		t.Error("expected config to match")
	}
}

func TestServices_EmbeddingService(t *testing.T) {
	config := domain.NewRuntimeConfig("memory")
	services := NewServices(config)

	// Initially nil
	if services.EmbeddingService() != nil {
		t.Error("expected nil embedding service initially")
	}

	// Set embedding service
	mock := &mockEmbeddingService{}
	services.SetEmbeddingService(mock)

	if services.EmbeddingService() == nil {
		t.Error("expected non-nil embedding service after set")
	}
	if !config.EmbeddingAvailable() {
		t.Error("expected embedding to be available")
	}

	// Set to nil
	services.SetEmbeddingService(nil)
	if services.EmbeddingService() != nil {
		t.Error("expected nil embedding service after clearing")
	}
	if config.EmbeddingAvailable() {
		t.Error("expected embedding to be unavailable")
	}
	if !mock.closed {
		t.Error("expected old service to be closed")
	}
}

func TestServices_ValidateAndSetEmbedding(t *testing.T) {
	config := domain.NewRuntimeConfig("memory")
	services := NewServices(config)
	ctx := context.Background()

	t.Run("successful validation", func(t *testing.T) {
		mock := &mockEmbeddingService{}
		err := services.ValidateAndSetEmbedding(ctx, mock)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if services.EmbeddingService() == nil {
			t.Error("expected embedding service to be set")
		}
	})

	t.Run("failed validation", func(t *testing.T) {
		mock := &mockEmbeddingService{healthCheckErr: errors.New("connection failed")}
		err := services.ValidateAndSetEmbedding(ctx, mock)
		if err == nil {
			t.Error("expected error")
		}
		if !mock.closed {
			t.Error("expected failed service to be closed")
		}
	})

	t.Run("nil service", func(t *testing.T) {
		err := services.ValidateAndSetEmbedding(ctx, nil)
		if err != nil {
			t.Errorf("unexpected error for nil service: %v", err)
		}
	})
}

func TestServices_Close(t *testing.T) {
	config := domain.NewRuntimeConfig("memory")
	services := NewServices(config)

	embMock := &mockEmbeddingService{}
	services.SetEmbeddingService(embMock)

	err := services.Close()
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if !embMock.closed {
		t.Error("expected embedding service to be closed")
	}
	if config.EmbeddingAvailable() {
		t.Error("expected embedding to be unavailable after close")
	}
}

func TestServices_ReplaceService_ClosesOld(t *testing.T) {
	config := domain.NewRuntimeConfig("memory")
	services := NewServices(config)

	first := &mockEmbeddingService{}
	second := &mockEmbeddingService{}

	services.SetEmbeddingService(first)
	services.SetEmbeddingService(second)

	if !first.closed {
		t.Error("expected old service to be closed when replaced")
	}
	if second.closed {
		t.Error("expected new service to remain open")
	}
}
