package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/custodia-labs/sitedex-core/internal/core/domain"
	"github.com/custodia-labs/sitedex-core/internal/core/ports/driven"
)

// Ensure Adapter implements AuthAdapter
var _ driven.AuthAdapter = (*Adapter)(nil)

// jwtClaims wraps domain.TokenClaims for JWT compatibility
type jwtClaims struct {
	UserID string      `json:"user_id"`
	Email  string      `json:"email"`
	Name   string      `json:"name"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Adapter handles authentication operations using bcrypt and JWT.
// Tokens are verified against the shared platform secret; the service
// itself never mints tokens outside of tests and tooling.
type Adapter struct {
	jwtSecret  []byte
	bcryptCost int
}

// NewAdapter creates a new auth adapter with the given JWT secret
func NewAdapter(jwtSecret string) *Adapter {
	return &Adapter{
		jwtSecret:  []byte(jwtSecret),
		bcryptCost: bcrypt.DefaultCost,
	}
}

// NewAdapterWithCost creates a new auth adapter with custom bcrypt cost
func NewAdapterWithCost(jwtSecret string, bcryptCost int) *Adapter {
	return &Adapter{
		jwtSecret:  []byte(jwtSecret),
		bcryptCost: bcryptCost,
	}
}

// HashKey generates a bcrypt hash from a plaintext API key
func (a *Adapter) HashKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), a.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyKey checks if an API key matches a bcrypt hash
func (a *Adapter) VerifyKey(key, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key))
	return err == nil
}

// GenerateToken creates a signed JWT from domain claims
func (a *Adapter) GenerateToken(claims *domain.TokenClaims) (string, error) {
	jc := jwtClaims{
		UserID: claims.UserID,
		Email:  claims.Email,
		Name:   claims.Name,
		Role:   claims.Role,
	}
	if claims.IssuedAt > 0 {
		jc.IssuedAt = jwt.NewNumericDate(time.Unix(claims.IssuedAt, 0))
	}
	if claims.ExpiresAt > 0 {
		jc.ExpiresAt = jwt.NewNumericDate(time.Unix(claims.ExpiresAt, 0))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jc)
	return token.SignedString(a.jwtSecret)
}

// ParseToken validates a JWT and extracts domain claims.
// Returns domain.ErrTokenExpired for expired tokens and
// domain.ErrTokenInvalid for anything else that fails verification.
func (a *Adapter) ParseToken(tokenString string) (*domain.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrTokenInvalid
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*jwtClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	out := &domain.TokenClaims{
		UserID: claims.UserID,
		Email:  claims.Email,
		Name:   claims.Name,
		Role:   claims.Role,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Unix()
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Unix()
	}

	return out, nil
}
