package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/custodia-labs/sitedex-core/internal/core/domain"
	"github.com/custodia-labs/sitedex-core/internal/core/ports/driven/mocks"
	"github.com/custodia-labs/sitedex-core/internal/core/ports/driving"
)

func createTestAuthService(t *testing.T, apiKeyHash string) (driving.AuthService, *mocks.MockAuthAdapter) {
	t.Helper()
	adapter := mocks.NewMockAuthAdapter()
	svc := NewAuthService(AuthServiceConfig{
		AuthAdapter: adapter,
		APIKeyHash:  apiKeyHash,
	})
	return svc, adapter
}

func mintToken(t *testing.T, adapter *mocks.MockAuthAdapter, claims *domain.TokenClaims) string {
	t.Helper()
	token, err := adapter.GenerateToken(claims)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	return token
}

func TestAuthService_ValidateToken(t *testing.T) {
	svc, adapter := createTestAuthService(t, "")
	ctx := context.Background()

	token := mintToken(t, adapter, &domain.TokenClaims{
		UserID:    "user-1",
		Email:     "dev@example.com",
		Name:      "Dev",
		Role:      domain.RoleAdmin,
		IssuedAt:  time.Now().Unix(),
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})

	auth, err := svc.ValidateToken(ctx, token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if auth.UserID != "user-1" {
		t.Errorf("UserID = %s", auth.UserID)
	}
	if auth.Email != "dev@example.com" {
		t.Errorf("Email = %s", auth.Email)
	}
	if auth.Role != domain.RoleAdmin {
		t.Errorf("Role = %s", auth.Role)
	}
	if !auth.IsAdmin() {
		t.Error("expected admin")
	}
}

func TestAuthService_ValidateToken_Rejections(t *testing.T) {
	svc, adapter := createTestAuthService(t, "")
	ctx := context.Background()

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{
			name:    "empty token",
			token:   "",
			wantErr: domain.ErrTokenInvalid,
		},
		{
			name:    "malformed token",
			token:   "not-a-token",
			wantErr: domain.ErrTokenInvalid,
		},
		{
			name: "expired token",
			token: mintToken(t, adapter, &domain.TokenClaims{
				UserID:    "user-1",
				ExpiresAt: time.Now().Add(-time.Minute).Unix(),
			}),
			wantErr: domain.ErrTokenExpired,
		},
		{
			name: "missing subject",
			token: mintToken(t, adapter, &domain.TokenClaims{
				ExpiresAt: time.Now().Add(time.Hour).Unix(),
			}),
			wantErr: domain.ErrTokenInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(ctx, tt.token)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateToken = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAuthService_ValidateToken_DefaultsRole(t *testing.T) {
	svc, adapter := createTestAuthService(t, "")

	token := mintToken(t, adapter, &domain.TokenClaims{
		UserID:    "user-1",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})

	auth, err := svc.ValidateToken(context.Background(), token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if auth.Role != domain.RoleMember {
		t.Errorf("Role = %s, want member", auth.Role)
	}
}

func TestAuthService_ValidateToken_NoExpiry(t *testing.T) {
	svc, adapter := createTestAuthService(t, "")

	// Long-lived tokens carry no exp claim
	token := mintToken(t, adapter, &domain.TokenClaims{UserID: "user-1"})

	if _, err := svc.ValidateToken(context.Background(), token); err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
}

func TestAuthService_ValidateAPIKey(t *testing.T) {
	// The mock adapter compares keys as plain text
	svc, _ := createTestAuthService(t, "secret-key")
	ctx := context.Background()

	auth, err := svc.ValidateAPIKey(ctx, "secret-key")
	if err != nil {
		t.Fatalf("ValidateAPIKey failed: %v", err)
	}
	if auth.UserID != "service" {
		t.Errorf("UserID = %s", auth.UserID)
	}
	if auth.Role != domain.RoleAdmin {
		t.Errorf("Role = %s", auth.Role)
	}

	if _, err := svc.ValidateAPIKey(ctx, "wrong-key"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("wrong key = %v, want ErrUnauthorized", err)
	}
	if _, err := svc.ValidateAPIKey(ctx, ""); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("empty key = %v, want ErrUnauthorized", err)
	}
}

func TestAuthService_ValidateAPIKey_Disabled(t *testing.T) {
	// No hash configured disables the API key path entirely
	svc, _ := createTestAuthService(t, "")

	if _, err := svc.ValidateAPIKey(context.Background(), "anything"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("ValidateAPIKey = %v, want ErrUnauthorized", err)
	}
}

func TestAuthService_CustomServiceAccount(t *testing.T) {
	adapter := mocks.NewMockAuthAdapter()
	svc := NewAuthService(AuthServiceConfig{
		AuthAdapter: adapter,
		APIKeyHash:  "secret-key",
		ServiceAccount: domain.AuthContext{
			UserID: "ci-bot",
			Name:   "CI Bot",
			Role:   domain.RoleMember,
		},
	})

	auth, err := svc.ValidateAPIKey(context.Background(), "secret-key")
	if err != nil {
		t.Fatalf("ValidateAPIKey failed: %v", err)
	}
	if auth.UserID != "ci-bot" || auth.Role != domain.RoleMember {
		t.Errorf("service account = %+v", auth)
	}
}
