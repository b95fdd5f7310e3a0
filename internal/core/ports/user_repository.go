package ports

import (
	"context"

	"github.com/medipresence/hospital-system/internal/core/domain"
)

// UserRepository defines persistence for staff accounts. Create must fail
// with domain.ErrUserExists when the storage-level uniqueness constraint
// on username or email is violated; the insert itself is the authority,
// there is no pre-check.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
