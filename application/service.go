package application

import (
	"context"

	"github.com/google/uuid"

	"github.com/dlfdnd96/kidari-teacher-sub001/auth"
	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
	"github.com/dlfdnd96/kidari-teacher-sub001/query"
)

type Filter struct {
	UserID              *uuid.UUID                 `json:"userId"`
	VolunteerActivityID *uuid.UUID                 `json:"volunteerActivityId"`
	Status              []entity.ApplicationStatus `json:"status" binding:"omitempty,dive,oneof=WAITING SELECTED REJECTED"`
	Profession          *entity.Profession         `json:"profession"`
	CreatedAt           *query.DateRange           `json:"createdAt"`
}

// Query converts f to column conditions, qualifying columns with the
// applications table so the result is usable in joins.
func (f *Filter) Query() query.Filter {
	out := query.Filter{}
	if f == nil {
		return out
	}
	if f.UserID != nil {
		out["applications.user_id"] = *f.UserID
	}
	if f.VolunteerActivityID != nil {
		out["applications.volunteer_activity_id"] = *f.VolunteerActivityID
	}
	if len(f.Status) > 0 {
		out["applications.status"] = f.Status
	}
	if f.Profession != nil {
		out["applications.profession"] = *f.Profession
	}
	if f.CreatedAt != nil {
		out["applications.created_at"] = *f.CreatedAt
	}
	return out
}

var SortColumns = map[string]string{
	"createdAt": "applications.created_at",
	"status":    "applications.status",
}

var DefaultSort = query.Sort{{Field: "applications.created_at", Direction: query.Desc}}

type ListRequest struct {
	Filter   *Filter         `json:"filter"`
	Pageable *query.Pageable `json:"pageable"`
}

type ListResult struct {
	ApplicationList []entity.Application `json:"applicationList"`
	TotalCount      int64                `json:"totalCount"`
}

type GetRequest struct {
	ID uuid.UUID `json:"id" binding:"required"`
}

type CreateRequest struct {
	VolunteerActivityID uuid.UUID         `json:"volunteerActivityId" binding:"required"`
	EmergencyContact    string            `json:"emergencyContact" binding:"required,notblank,max=50"`
	Profession          entity.Profession `json:"profession" binding:"required,profession"`
}

type UpdateStatusRequest struct {
	IDs    []uuid.UUID              `json:"ids" binding:"required,min=1,max=100,dive,required"`
	Status entity.ApplicationStatus `json:"status" binding:"required,oneof=WAITING SELECTED REJECTED"`
}

type UpdateStatusResult struct {
	Count int `json:"count"`
}

type DeleteRequest struct {
	ID uuid.UUID `json:"id" binding:"required"`
}

// Notifier is told about status changes so applicants can be informed.
type Notifier interface {
	ApplicationStatusChanged(a *entity.Application)
}

// Service provides application operations.
type Service interface {
	Get(ctx context.Context, caller *auth.Session, id uuid.UUID) (*entity.Application, error)
	List(ctx context.Context, req ListRequest) (*ListResult, error)
	// GetMine lists the caller's applications; any userId filter is replaced.
	GetMine(ctx context.Context, caller *auth.Session, req ListRequest) (*ListResult, error)
	Create(ctx context.Context, caller *auth.Session, req CreateRequest) (*entity.Application, error)
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (*UpdateStatusResult, error)
	// Delete cancels an application.
	Delete(ctx context.Context, caller *auth.Session, id uuid.UUID) error
}
