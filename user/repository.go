package user

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
)

var (
	ErrEmailTaken    = errors.New("user: email already in use")
	ErrProfileExists = errors.New("user: profile already exists")
)

// Repository persists users and their profiles.
type Repository interface {
	// GetByID returns nil when the user is missing.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	// EmailTaken reports whether a user other than exceptID owns email.
	EmailTaken(ctx context.Context, email string, exceptID uuid.UUID) (bool, error)
	// UpdateIdentity saves name and email. Returns ErrEmailTaken on a unique violation.
	UpdateIdentity(ctx context.Context, u *entity.User) error
	// HasActiveCommitment reports whether the user is selected for an
	// activity that has not finished.
	HasActiveCommitment(ctx context.Context, userID uuid.UUID) (bool, error)
	// Withdraw soft-deletes the user, the profile and pending applications.
	Withdraw(ctx context.Context, userID uuid.UUID) error

	// GetProfile returns nil when the user has no profile.
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.UserProfile, error)
	// CreateProfile returns ErrProfileExists on a unique violation.
	CreateProfile(ctx context.Context, p *entity.UserProfile) error
	UpdateProfile(ctx context.Context, p *entity.UserProfile) error

	CountApplications(ctx context.Context, userID uuid.UUID) (int64, error)
	CountSelectedApplications(ctx context.Context, userID uuid.UUID) (int64, error)
	CountCompletedActivities(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Purger hard-deletes throwaway accounts created by end-to-end test runs.
type Purger interface {
	// PurgeTestAccounts removes every user whose email or name contains
	// "test" or "cypress", together with their applications, profiles,
	// authored notices and managed activities. It returns the number of
	// users removed.
	PurgeTestAccounts(ctx context.Context) (int64, error)
}
