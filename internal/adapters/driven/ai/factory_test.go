package ai

import (
	"testing"

	"github.com/custodia-labs/sitedex-core/internal/core/domain"
)

func TestNewFactory(t *testing.T) {
	factory := NewFactory()
	if factory == nil {
		t.Fatal("expected non-nil factory")
	}
}

func TestFactory_CreateEmbeddingService_NilSettings(t *testing.T) {
	factory := NewFactory()

	svc, err := factory.CreateEmbeddingService(nil)
	if err != nil {
		t.Errorf("expected no error for nil settings, got %v", err)
	}
	if svc != nil {
		t.Error("expected nil service for nil settings")
	}
}

func TestFactory_CreateEmbeddingService_NotConfigured(t *testing.T) {
	factory := NewFactory()

	settings := &domain.EmbeddingSettings{
		Provider: "",
		Model:    "",
		APIKey:   "",
	}

	svc, err := factory.CreateEmbeddingService(settings)
	if err != nil {
		t.Errorf("expected no error for unconfigured settings, got %v", err)
	}
	if svc != nil {
		t.Error("expected nil service for unconfigured settings")
	}
}

func TestFactory_CreateEmbeddingService_MissingAPIKey(t *testing.T) {
	factory := NewFactory()

	// OpenAI without an API key is not configured
	settings := &domain.EmbeddingSettings{
		Provider: domain.AIProviderOpenAI,
		Model:    "text-embedding-3-small",
	}

	svc, err := factory.CreateEmbeddingService(settings)
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if svc != nil {
		t.Error("expected nil service without API key")
	}
}

func TestFactory_CreateEmbeddingService_OpenAI(t *testing.T) {
	factory := NewFactory()

	settings := &domain.EmbeddingSettings{
		Provider: domain.AIProviderOpenAI,
		Model:    "text-embedding-3-small",
		APIKey:   "sk-test",
	}

	svc, err := factory.CreateEmbeddingService(settings)
	if err != nil {
		t.Errorf("expected no error for OpenAI, got %v", err)
	}
	if svc == nil {
		t.Fatal("expected non-nil service for OpenAI")
	}
	if svc.Model() != "text-embedding-3-small" {
		t.Errorf("unexpected model %s", svc.Model())
	}
}

func TestFactory_CreateEmbeddingService_Ollama(t *testing.T) {
	factory := NewFactory()

	// Ollama is self-hosted: no API key needed
	settings := &domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		Model:    "nomic-embed-text",
		BaseURL:  "http://localhost:11434",
	}

	svc, err := factory.CreateEmbeddingService(settings)
	if err != nil {
		t.Errorf("expected no error for Ollama, got %v", err)
	}
	if svc == nil {
		t.Fatal("expected non-nil service for Ollama")
	}
	if svc.Dimensions() != 768 {
		t.Errorf("expected 768 dimensions for nomic-embed-text, got %d", svc.Dimensions())
	}
}

func TestFactory_CreateEmbeddingService_InvalidProvider(t *testing.T) {
	factory := NewFactory()

	settings := &domain.EmbeddingSettings{
		Provider: "invalid-provider",
		Model:    "some-model",
		APIKey:   "test-key",
	}

	_, err := factory.CreateEmbeddingService(settings)
	if err == nil {
		t.Error("expected error for invalid provider")
	}
}
