package application

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
	"github.com/dlfdnd96/kidari-teacher-sub001/query"
)

// ErrDuplicate is returned by Create when the user already has a live
// application for the activity.
var ErrDuplicate = errors.New("application: duplicate for user and activity")

// Repository persists applications.
type Repository interface {
	// LockActivity loads the activity with its non-deleted applications and
	// holds a row lock on it until the surrounding transaction ends.
	// Returns nil when the activity is missing.
	LockActivity(ctx context.Context, activityID uuid.UUID) (*entity.VolunteerActivity, error)
	// GetByID loads the application with its activity. Returns nil when missing.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Application, error)
	// List preloads the applicant.
	List(ctx context.Context, spec query.Spec) ([]entity.Application, int64, error)
	// ListWithActivity skips applications whose activity is deleted and preloads the activity.
	ListWithActivity(ctx context.Context, spec query.Spec) ([]entity.Application, int64, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Application, error)
	Create(ctx context.Context, a *entity.Application) error
	UpdateStatus(ctx context.Context, ids []uuid.UUID, status entity.ApplicationStatus) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
