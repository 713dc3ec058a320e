package activity

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dlfdnd96/kidari-teacher-sub001/auth"
	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
	"github.com/dlfdnd96/kidari-teacher-sub001/query"
)

type Filter struct {
	Title     *string                 `json:"title"`
	Location  *string                 `json:"location"`
	Status    []entity.ActivityStatus `json:"status" binding:"omitempty,dive,oneof=PLANNING RECRUITING SELECTED IN_PROGRESS COMPLETED CANCELLED"`
	ManagerID *uuid.UUID              `json:"managerId"`
	StartAt   *query.DateRange        `json:"startAt"`
}

func (f *Filter) Query() query.Filter {
	out := query.Filter{}
	if f == nil {
		return out
	}
	if f.Title != nil && *f.Title != "" {
		out["title"] = query.Search(*f.Title)
	}
	if f.Location != nil && *f.Location != "" {
		out["location"] = query.Search(*f.Location)
	}
	if len(f.Status) > 0 {
		out["status"] = f.Status
	}
	if f.ManagerID != nil {
		out["manager_id"] = *f.ManagerID
	}
	if f.StartAt != nil {
		out["start_at"] = *f.StartAt
	}
	return out
}

var SortColumns = map[string]string{
	"createdAt":           "created_at",
	"startAt":             "start_at",
	"applicationDeadline": "application_deadline",
	"title":               "title",
	"status":              "status",
}

var DefaultSort = query.Sort{{Field: "created_at", Direction: query.Desc}}

type ListRequest struct {
	Filter   *Filter         `json:"filter"`
	Pageable *query.Pageable `json:"pageable"`
}

type ListResult struct {
	VolunteerActivityList []entity.VolunteerActivity `json:"volunteerActivityList"`
	TotalCount            int64                      `json:"totalCount"`
}

type GetRequest struct {
	ID uuid.UUID `json:"id" binding:"required"`
}

type CreateRequest struct {
	Title               string                 `json:"title" binding:"required,notblank,max=200"`
	Description         string                 `json:"description" binding:"required,notblank"`
	StartAt             time.Time              `json:"startAt" binding:"required"`
	EndAt               time.Time              `json:"endAt" binding:"required,gtfield=StartAt"`
	Location            string                 `json:"location" binding:"required,notblank,max=200"`
	Status              *entity.ActivityStatus `json:"status" binding:"omitempty,oneof=PLANNING RECRUITING SELECTED IN_PROGRESS COMPLETED CANCELLED"`
	ApplicationDeadline time.Time              `json:"applicationDeadline" binding:"required,ltefield=StartAt"`
	MaxParticipants     *int                   `json:"maxParticipants" binding:"omitempty,min=1"`
	Qualifications      *string                `json:"qualifications"`
	Materials           *string                `json:"materials"`
}

// Optional fields an update can reset to null through UpdateRequest.Clear.
const (
	ClearMaxParticipants = "maxParticipants"
	ClearQualifications  = "qualifications"
	ClearMaterials       = "materials"
)

// UpdateRequest changes the given fields; nil fields keep their value.
// Fields named in Clear are set to null after the others are applied.
type UpdateRequest struct {
	ID                  uuid.UUID              `json:"id" binding:"required"`
	Title               *string                `json:"title" binding:"omitempty,notblank,max=200"`
	Description         *string                `json:"description" binding:"omitempty,notblank"`
	StartAt             *time.Time             `json:"startAt"`
	EndAt               *time.Time             `json:"endAt"`
	Location            *string                `json:"location" binding:"omitempty,notblank,max=200"`
	Status              *entity.ActivityStatus `json:"status" binding:"omitempty,oneof=PLANNING RECRUITING SELECTED IN_PROGRESS COMPLETED CANCELLED"`
	ApplicationDeadline *time.Time             `json:"applicationDeadline"`
	MaxParticipants     *int                   `json:"maxParticipants" binding:"omitempty,min=1"`
	Qualifications      *string                `json:"qualifications"`
	Materials           *string                `json:"materials"`
	Clear               []string               `json:"clear" binding:"omitempty,dive,oneof=maxParticipants qualifications materials"`
}

type DeleteRequest struct {
	ID uuid.UUID `json:"id" binding:"required"`
}

// Service provides volunteer activity operations.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*entity.VolunteerActivity, error)
	List(ctx context.Context, req ListRequest) (*ListResult, error)
	// Create makes managerID the manager regardless of input.
	Create(ctx context.Context, managerID uuid.UUID, req CreateRequest) (*entity.VolunteerActivity, error)
	// Update and Delete require caller to be an admin or the manager.
	Update(ctx context.Context, caller *auth.Session, req UpdateRequest) (*entity.VolunteerActivity, error)
	Delete(ctx context.Context, caller *auth.Session, id uuid.UUID) error
}
