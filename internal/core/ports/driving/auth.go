package driving

import (
	"context"

	"github.com/custodia-labs/sitedex-core/internal/core/domain"
)

// AuthService authenticates incoming requests. Tokens are minted by the
// identity platform; API keys identify the self-hosted service account.
type AuthService interface {
	// ValidateToken validates a JWT token and returns the auth context
	ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error)

	// ValidateAPIKey validates a service API key and returns the
	// configured service account's auth context
	ValidateAPIKey(ctx context.Context, key string) (*domain.AuthContext, error)
}
