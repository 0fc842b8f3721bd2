package driven

import "github.com/custodia-labs/sitedex-core/internal/core/domain"

// AuthAdapter handles authentication cryptographic operations.
// Tokens are verified against the shared platform secret; key hashing
// backs the self-hosted X-API-Key check.
type AuthAdapter interface {
	// Key operations
	HashKey(key string) (string, error)
	VerifyKey(key, hash string) bool

	// Token operations
	GenerateToken(claims *domain.TokenClaims) (string, error)
	ParseToken(token string) (*domain.TokenClaims, error)
}
