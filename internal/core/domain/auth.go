package domain

// Role defines user permission level
type Role string

const (
	RoleAdmin  Role = "admin"  // Manage settings, delete any document
	RoleMember Role = "member" // Import, search, manage own documents
)

// AuthContext contains authenticated user info for request context
type AuthContext struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
}

// IsAdmin checks if the authenticated user is an admin
func (a *AuthContext) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// TokenClaims represents the JWT token payload. Tokens are minted by
// the identity platform; this service only verifies them.
type TokenClaims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}
