package ports

import (
	"context"

	"github.com/Chaitanya-lohani-dev/auth-api-challenge/internal/core/domain"
)

// UserRepository defines the persistence capabilities the auth flows need.
// Implementations must map duplicate-email inserts to domain.ErrUserExists and
// missing records to domain.ErrUserNotFound.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	// SetRefreshTokenHash overwrites the stored refresh-token hash
	// unconditionally. Login path only.
	SetRefreshTokenHash(ctx context.Context, id, hash string) error

	// RotateRefreshTokenHash replaces oldHash with newHash in a single atomic
	// compare-and-set. Returns domain.ErrRefreshTokenMismatch when the stored
	// hash no longer equals oldHash — the serialization point that keeps the
	// single-slot invariant under concurrent rotation attempts.
	RotateRefreshTokenHash(ctx context.Context, id, oldHash, newHash string) error

	// ClearRefreshTokenHash empties the stored hash. Idempotent.
	ClearRefreshTokenHash(ctx context.Context, id string) error
}
