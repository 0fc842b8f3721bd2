package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestAIProviderConstants(t *testing.T) {
	tests := []struct {
		provider AIProvider
		expected string
	}{
		{AIProviderOpenAI, "openai"},
		{AIProviderOllama, "ollama"},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			if string(tt.provider) != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, string(tt.provider))
			}
		})
	}
}

func TestAIProvider_RequiresAPIKey(t *testing.T) {
	tests := []struct {
		provider AIProvider
		requires bool
	}{
		{AIProviderOpenAI, true},
		{AIProviderOllama, false}, // Self-hosted
		{"unknown", true},         // Default to requiring key
	}

	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			result := tt.provider.RequiresAPIKey()
			if result != tt.requires {
				t.Errorf("expected %v, got %v", tt.requires, result)
			}
		})
	}
}

func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		provider AIProvider
		valid    bool
	}{
		{AIProviderOpenAI, true},
		{AIProviderOllama, true},
		{"mistral", false},
		{"invalid", false},
		{"", false},
	}

	for _, tt := range tests {
		name := string(tt.provider)
		if name == "" {
			name = "empty"
		}
		t.Run(name, func(t *testing.T) {
			result := tt.provider.IsValid()
			if result != tt.valid {
				t.Errorf("expected %v, got %v", tt.valid, result)
			}
		})
	}
}

func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings EmbeddingSettings
		expected bool
	}{
		{
			name:     "empty provider",
			settings: EmbeddingSettings{Provider: "", Model: "test", APIKey: "key"},
			expected: false,
		},
		{
			name:     "openai without api key",
			settings: EmbeddingSettings{Provider: AIProviderOpenAI, Model: "test", APIKey: ""},
			expected: false,
		},
		{
			name:     "openai with api key",
			settings: EmbeddingSettings{Provider: AIProviderOpenAI, Model: "test", APIKey: "sk-test"},
			expected: true,
		},
		{
			name:     "ollama without api key (ok)",
			settings: EmbeddingSettings{Provider: AIProviderOllama, Model: "nomic-embed-text", BaseURL: "http://localhost:11434"},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.settings.IsConfigured()
			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestEmbeddingSettings_Validate(t *testing.T) {
	valid := EmbeddingSettings{Provider: AIProviderOpenAI, Model: "text-embedding-3-small", APIKey: "sk-test"}
	if err := valid.Validate(); err != nil {
		t.Errorf("expected valid settings, got %v", err)
	}

	invalid := EmbeddingSettings{Provider: "cohere"}
	if err := invalid.Validate(); err != ErrInvalidProvider {
		t.Errorf("expected ErrInvalidProvider, got %v", err)
	}
}

func TestDefaultEmbeddingModel(t *testing.T) {
	if got := DefaultEmbeddingModel(AIProviderOpenAI); got != "text-embedding-3-small" {
		t.Errorf("expected text-embedding-3-small, got %s", got)
	}
	if got := DefaultEmbeddingModel(AIProviderOllama); got != "nomic-embed-text" {
		t.Errorf("expected nomic-embed-text, got %s", got)
	}
}

func TestEmbeddingSettingsNeverSerializesAPIKey(t *testing.T) {
	settings := EmbeddingSettings{
		Provider: AIProviderOpenAI,
		Model:    "text-embedding-3-small",
		APIKey:   "sk-super-secret",
	}

	data, err := json.Marshal(settings)
	if err != nil {
		t.Fatalf("marshal settings: %v", err)
	}
	if strings.Contains(string(data), "sk-super-secret") {
		t.Error("API key must never appear in serialized settings")
	}
}

func TestEmbeddingSettings_ToSummary(t *testing.T) {
	now := time.Now()
	settings := EmbeddingSettings{
		Provider:  AIProviderOpenAI,
		Model:     "text-embedding-3-small",
		APIKey:    "sk-test",
		UpdatedAt: now,
	}

	summary := settings.ToSummary()

	if summary.Provider != AIProviderOpenAI {
		t.Errorf("expected provider openai, got %s", summary.Provider)
	}
	if summary.Model != "text-embedding-3-small" {
		t.Errorf("expected model text-embedding-3-small, got %s", summary.Model)
	}
	if !summary.HasCredentials {
		t.Error("expected HasCredentials to be true")
	}
	if summary.UpdatedAt == nil || !summary.UpdatedAt.Equal(now) {
		t.Error("expected UpdatedAt to be carried over")
	}

	data, err := json.Marshal(summary)
	if err != nil {
		t.Fatalf("marshal summary: %v", err)
	}
	if strings.Contains(string(data), "sk-test") {
		t.Error("API key must never appear in the summary")
	}
}
