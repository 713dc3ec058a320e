package notice

import (
	"context"

	"github.com/google/uuid"

	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
	"github.com/dlfdnd96/kidari-teacher-sub001/query"
)

// Repository persists notices. Soft-deleted rows are invisible to every method.
type Repository interface {
	// List returns one page of notices and the total matching spec.Where.
	List(ctx context.Context, spec query.Spec) ([]entity.Notice, int64, error)
	// GetByID returns nil when the notice is missing.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Notice, error)
	Create(ctx context.Context, n *entity.Notice) error
	Update(ctx context.Context, n *entity.Notice) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
