package domain

import "time"

// AIProvider identifies the embedding provider
type AIProvider string

const (
	AIProviderOpenAI AIProvider = "openai"
	AIProviderOllama AIProvider = "ollama"
)

// RequiresAPIKey returns true if this provider requires an API key
func (p AIProvider) RequiresAPIKey() bool {
	switch p {
	case AIProviderOllama:
		return false // Self-hosted, no API key needed
	default:
		return true
	}
}

// IsValid returns true if this is a known provider
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOpenAI, AIProviderOllama:
		return true
	default:
		return false
	}
}

// EmbeddingSettings configures the embedding service for one user
// or for the deployment default
type EmbeddingSettings struct {
	Provider  AIProvider `json:"provider"`
	Model     string     `json:"model"`
	APIKey    string     `json:"-"` // Never serialize to JSON
	BaseURL   string     `json:"base_url,omitempty"`
	UpdatedAt time.Time  `json:"updated_at,omitempty"`
}

// IsConfigured returns true if embedding settings are properly configured
func (e *EmbeddingSettings) IsConfigured() bool {
	if e.Provider == "" {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// Validate checks if the settings name a known provider
func (e *EmbeddingSettings) Validate() error {
	if !e.Provider.IsValid() {
		return ErrInvalidProvider
	}
	return nil
}

// DefaultEmbeddingModel returns the conventional model for a provider
func DefaultEmbeddingModel(p AIProvider) string {
	switch p {
	case AIProviderOllama:
		return "nomic-embed-text"
	default:
		return "text-embedding-3-small"
	}
}

// EmbeddingSettingsSummary is the safe view returned by the settings API.
// The API key never leaves the server.
type EmbeddingSettingsSummary struct {
	Provider       AIProvider `json:"provider,omitempty"`
	Model          string     `json:"model,omitempty"`
	BaseURL        string     `json:"base_url,omitempty"`
	HasCredentials bool       `json:"has_credentials"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// ToSummary converts settings to their API-safe view
func (e *EmbeddingSettings) ToSummary() *EmbeddingSettingsSummary {
	s := &EmbeddingSettingsSummary{
		Provider:       e.Provider,
		Model:          e.Model,
		BaseURL:        e.BaseURL,
		HasCredentials: e.IsConfigured(),
	}
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		s.UpdatedAt = &t
	}
	return s
}
