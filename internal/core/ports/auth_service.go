package ports

import (
	"context"

	"github.com/medipresence/hospital-system/internal/core/domain"
)

// RegisterInput carries the fields required to create a staff account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Role     string
}

// AuthService is the gatekeeper for every protected operation: it creates
// accounts, checks credentials, and verifies the bearer tokens it issued.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	// Me resolves the current user's public projection from the token
	// subject, fetched fresh from storage.
	Me(ctx context.Context, userID string) (*domain.User, error)
	TokenVerifier
}

// TokenVerifier validates a bearer token and resolves the embedded
// identity. Verification is purely cryptographic; no storage round trip.
type TokenVerifier interface {
	VerifyToken(token string) (*domain.TokenClaims, error)
}
