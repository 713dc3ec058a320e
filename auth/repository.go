package auth

import (
	"context"

	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
)

// Repository exposes the user operations used for signing in.
type Repository interface {
	// GetUserByEmail returns the non-deleted user with email, or nil.
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	CreateUser(ctx context.Context, u *entity.User) (*entity.User, error)
	UpdateRole(ctx context.Context, u *entity.User, role entity.Role) error
}
