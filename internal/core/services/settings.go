package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/sitedex-core/internal/core/domain"
	"github.com/custodia-labs/sitedex-core/internal/core/ports/driven"
	"github.com/custodia-labs/sitedex-core/internal/core/ports/driving"
	"github.com/custodia-labs/sitedex-core/internal/runtime"
)

// Ensure settingsService implements SettingsService
var _ driving.SettingsService = (*settingsService)(nil)

// settingsService manages per-user embedding credentials.
// Credentials are validated against the provider before they are
// stored; the API key is encrypted at rest and never returned.
type settingsService struct {
	credentialsStore driven.CredentialsStore
	aiFactory        driven.AIServiceFactory
	services         *runtime.Services
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(
	credentialsStore driven.CredentialsStore,
	aiFactory driven.AIServiceFactory,
	services *runtime.Services,
) driving.SettingsService {
	return &settingsService{
		credentialsStore: credentialsStore,
		aiFactory:        aiFactory,
		services:         services,
	}
}

// GetEmbeddingSettings returns the caller's credentials summary.
// Users without stored credentials see the deployment default, if any.
func (s *settingsService) GetEmbeddingSettings(ctx context.Context, userID string) (*domain.EmbeddingSettingsSummary, error) {
	settings, err := s.credentialsStore.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load embedding credentials: %w", err)
	}
	if settings != nil {
		return settings.ToSummary(), nil
	}

	// No stored credentials: show the deployment default, if any
	if s.services != nil {
		if svc := s.services.EmbeddingService(); svc != nil {
			return &domain.EmbeddingSettingsSummary{
				Model:          svc.Model(),
				HasCredentials: false,
			}, nil
		}
	}
	return &domain.EmbeddingSettingsSummary{HasCredentials: false}, nil
}

// UpdateEmbeddingSettings validates the credentials against the
// provider and stores them encrypted
func (s *settingsService) UpdateEmbeddingSettings(ctx context.Context, userID string, req driving.UpdateEmbeddingSettingsRequest) (*domain.EmbeddingSettingsSummary, error) {
	if !req.Provider.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidProvider, req.Provider)
	}

	model := req.Model
	if model == "" {
		model = domain.DefaultEmbeddingModel(req.Provider)
	}

	settings := &domain.EmbeddingSettings{
		Provider:  req.Provider,
		Model:     model,
		APIKey:    req.APIKey,
		BaseURL:   req.BaseURL,
		UpdatedAt: time.Now(),
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: provider %s requires an api key", domain.ErrInvalidInput, req.Provider)
	}

	// Prove the credentials work before persisting them
	svc, err := s.aiFactory.CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding service: %w", err)
	}
	if svc == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidProvider, req.Provider)
	}
	healthErr := svc.HealthCheck(ctx)
	_ = svc.Close()
	if healthErr != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, healthErr)
	}

	if err := s.credentialsStore.Save(ctx, userID, settings); err != nil {
		return nil, fmt.Errorf("failed to save embedding credentials: %w", err)
	}

	return settings.ToSummary(), nil
}

// DeleteEmbeddingSettings removes the caller's stored credentials;
// imports fall back to the deployment default
func (s *settingsService) DeleteEmbeddingSettings(ctx context.Context, userID string) error {
	if err := s.credentialsStore.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete embedding credentials: %w", err)
	}
	return nil
}
