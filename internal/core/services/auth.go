package services

import (
	"context"
	"time"

	"github.com/custodia-labs/sitedex-core/internal/core/domain"
	"github.com/custodia-labs/sitedex-core/internal/core/ports/driven"
	"github.com/custodia-labs/sitedex-core/internal/core/ports/driving"
)

// Ensure authService implements AuthService
var _ driving.AuthService = (*authService)(nil)

// authService implements the AuthService interface.
// Tokens are minted by the external identity platform and verified
// statelessly against the shared secret; no session store is involved.
// The API key path authenticates the self-hosted service account.
type authService struct {
	authAdapter    driven.AuthAdapter
	apiKeyHash     string
	serviceAccount domain.AuthContext
}

// AuthServiceConfig holds configuration for the auth service.
type AuthServiceConfig struct {
	AuthAdapter driven.AuthAdapter

	// APIKeyHash is the bcrypt hash the X-API-Key header is verified
	// against. Empty disables API key authentication.
	APIKeyHash string

	// ServiceAccount is the identity API key requests act as.
	ServiceAccount domain.AuthContext
}

// NewAuthService creates a new AuthService
func NewAuthService(cfg AuthServiceConfig) driving.AuthService {
	account := cfg.ServiceAccount
	if account.UserID == "" {
		account.UserID = "service"
	}
	if account.Name == "" {
		account.Name = "Service Account"
	}
	if account.Role == "" {
		account.Role = domain.RoleAdmin
	}

	return &authService{
		authAdapter:    cfg.AuthAdapter,
		apiKeyHash:     cfg.APIKeyHash,
		serviceAccount: account,
	}
}

// ValidateToken validates a JWT token and returns the auth context
func (s *authService) ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error) {
	if token == "" {
		return nil, domain.ErrTokenInvalid
	}

	claims, err := s.authAdapter.ParseToken(token)
	if err != nil {
		return nil, err
	}

	// Check expiration
	if claims.ExpiresAt > 0 && time.Now().Unix() > claims.ExpiresAt {
		return nil, domain.ErrTokenExpired
	}

	if claims.UserID == "" {
		return nil, domain.ErrTokenInvalid
	}

	role := claims.Role
	if role == "" {
		role = domain.RoleMember
	}

	return &domain.AuthContext{
		UserID: claims.UserID,
		Email:  claims.Email,
		Name:   claims.Name,
		Role:   role,
	}, nil
}

// ValidateAPIKey validates a service API key and returns the configured
// service account's auth context
func (s *authService) ValidateAPIKey(ctx context.Context, key string) (*domain.AuthContext, error) {
	if key == "" || s.apiKeyHash == "" {
		return nil, domain.ErrUnauthorized
	}

	if !s.authAdapter.VerifyKey(key, s.apiKeyHash) {
		return nil, domain.ErrUnauthorized
	}

	account := s.serviceAccount
	return &account, nil
}
