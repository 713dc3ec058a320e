package activity

import (
	"context"

	"github.com/google/uuid"

	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
	"github.com/dlfdnd96/kidari-teacher-sub001/query"
)

// Repository persists volunteer activities.
type Repository interface {
	// List returns one page with applications and applicants preloaded, plus the total.
	List(ctx context.Context, spec query.Spec) ([]entity.VolunteerActivity, int64, error)
	// GetByID returns nil when the activity is missing.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.VolunteerActivity, error)
	Create(ctx context.Context, a *entity.VolunteerActivity) error
	Update(ctx context.Context, a *entity.VolunteerActivity) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
