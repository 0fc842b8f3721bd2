package driving

import (
	"context"

	"github.com/custodia-labs/sitedex-core/internal/core/domain"
)

// UpdateEmbeddingSettingsRequest carries new embedding credentials
type UpdateEmbeddingSettingsRequest struct {
	Provider domain.AIProvider `json:"provider"`
	Model    string            `json:"model,omitempty"`
	APIKey   string            `json:"api_key,omitempty"`
	BaseURL  string            `json:"base_url,omitempty"`
}

// SettingsService manages per-user embedding credentials
type SettingsService interface {
	// GetEmbeddingSettings returns the caller's credentials summary.
	// The API key is never returned. Users without stored credentials
	// see the deployment default, if any.
	GetEmbeddingSettings(ctx context.Context, userID string) (*domain.EmbeddingSettingsSummary, error)

	// UpdateEmbeddingSettings validates the credentials against the
	// provider (health check) and stores them encrypted
	UpdateEmbeddingSettings(ctx context.Context, userID string, req UpdateEmbeddingSettingsRequest) (*domain.EmbeddingSettingsSummary, error)

	// DeleteEmbeddingSettings removes the caller's stored credentials;
	// imports fall back to the deployment default
	DeleteEmbeddingSettings(ctx context.Context, userID string) error
}
