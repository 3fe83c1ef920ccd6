package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-identity-service/internal/domain/entity"
)

var (
	// ErrNotFound is returned by lookups that match no user.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicate is returned when a create or update violates the email or
	// (oauth subject id, provider) uniqueness constraints. Services use it to
	// classify duplicate registrations and concurrent-creation races.
	ErrDuplicate = errors.New("duplicate user")
)

// UserRepository is the user store contract. Implementations must enforce
// the uniqueness invariants atomically: one user per email, one user per
// (oauth subject id, auth provider) pair when both are present.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByOAuthIdentity(ctx context.Context, subjectID, provider string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
}
