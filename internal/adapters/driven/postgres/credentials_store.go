package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/custodia-labs/sitedex-core/internal/core/domain"
	"github.com/custodia-labs/sitedex-core/internal/core/ports/driven"
)

// Ensure CredentialsStore implements the interface.
var _ driven.CredentialsStore = (*CredentialsStore)(nil)

// CredentialsStore implements driven.CredentialsStore using PostgreSQL.
// One row per user; the API key is encrypted into secret_blob and only
// decrypted on read.
type CredentialsStore struct {
	db        *DB
	encryptor *SecretEncryptor
}

// NewCredentialsStore creates a new PostgreSQL-backed credentials store.
func NewCredentialsStore(db *DB, encryptor *SecretEncryptor) *CredentialsStore {
	return &CredentialsStore{
		db:        db,
		encryptor: encryptor,
	}
}

// Save upserts a user's embedding credentials (encrypts the API key).
func (s *CredentialsStore) Save(ctx context.Context, userID string, settings *domain.EmbeddingSettings) error {
	var secretBlob []byte
	if settings.APIKey != "" {
		var err error
		secretBlob, err = s.encryptor.EncryptString(settings.APIKey)
		if err != nil {
			return fmt.Errorf("encrypt api key: %w", err)
		}
	}

	query := `
		INSERT INTO embedding_credentials (user_id, provider, model, base_url, secret_blob, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			provider = EXCLUDED.provider,
			model = EXCLUDED.model,
			base_url = EXCLUDED.base_url,
			secret_blob = EXCLUDED.secret_blob,
			updated_at = EXCLUDED.updated_at
	`

	updatedAt := settings.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, query,
		userID,
		string(settings.Provider),
		settings.Model,
		nullIfEmpty(settings.BaseURL),
		secretBlob,
		updatedAt,
	)
	if err != nil {
		return fmt.Errorf("save embedding credentials: %w", err)
	}

	return nil
}

// Get retrieves a user's embedding credentials with the API key
// decrypted. Returns nil, nil when the user has none.
func (s *CredentialsStore) Get(ctx context.Context, userID string) (*domain.EmbeddingSettings, error) {
	query := `
		SELECT provider, model, base_url, secret_blob, updated_at
		FROM embedding_credentials
		WHERE user_id = $1
	`

	var settings domain.EmbeddingSettings
	var baseURL sql.NullString
	var secretBlob []byte

	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&settings.Provider,
		&settings.Model,
		&baseURL,
		&secretBlob,
		&settings.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get embedding credentials: %w", err)
	}

	settings.BaseURL = baseURL.String

	if len(secretBlob) > 0 {
		apiKey, err := s.encryptor.DecryptString(secretBlob)
		if err != nil {
			return nil, fmt.Errorf("decrypt api key: %w", err)
		}
		settings.APIKey = apiKey
	}

	return &settings, nil
}

// Delete removes a user's embedding credentials. Deleting credentials
// that do not exist is not an error.
func (s *CredentialsStore) Delete(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM embedding_credentials WHERE user_id = $1", userID)
	if err != nil {
		return fmt.Errorf("delete embedding credentials: %w", err)
	}
	return nil
}
