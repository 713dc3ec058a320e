package notice

import (
	"context"

	"github.com/google/uuid"

	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
	"github.com/dlfdnd96/kidari-teacher-sub001/query"
)

// Filter is the notice list filter.
type Filter struct {
	Title       *string          `json:"title"`
	IsPublished *bool            `json:"isPublished"`
	CreatedAt   *query.DateRange `json:"createdAt"`
}

// Query converts f to the generic column filter.
func (f *Filter) Query() query.Filter {
	out := query.Filter{}
	if f == nil {
		return out
	}
	if f.Title != nil && *f.Title != "" {
		out["title"] = query.Search(*f.Title)
	}
	if f.IsPublished != nil {
		out["is_published"] = *f.IsPublished
	}
	if f.CreatedAt != nil {
		out["created_at"] = *f.CreatedAt
	}
	return out
}

// SortColumns maps sortable fields to columns.
var SortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title",
}

var DefaultSort = query.Sort{{Field: "created_at", Direction: query.Desc}}

type ListRequest struct {
	Filter   *Filter         `json:"filter"`
	Pageable *query.Pageable `json:"pageable"`
}

type ListResult struct {
	NoticeList []entity.Notice `json:"noticeList"`
	TotalCount int64           `json:"totalCount"`
}

type GetRequest struct {
	ID uuid.UUID `json:"id" binding:"required"`
}

type CreateRequest struct {
	Title   string `json:"title" binding:"required,notblank,max=200"`
	Content string `json:"content" binding:"required,notblank"`
}

// UpdateRequest changes the given fields; nil fields are left as they are.
type UpdateRequest struct {
	ID          uuid.UUID `json:"id" binding:"required"`
	Title       *string   `json:"title" binding:"omitempty,notblank,max=200"`
	Content     *string   `json:"content" binding:"omitempty,notblank"`
	IsPublished *bool     `json:"isPublished"`
}

type DeleteRequest struct {
	ID uuid.UUID `json:"id" binding:"required"`
}

// Service provides notice operations. Callers enforce the admin role for
// Create, Update and Delete.
type Service interface {
	List(ctx context.Context, req ListRequest) (*ListResult, error)
	Get(ctx context.Context, id uuid.UUID) (*entity.Notice, error)
	Create(ctx context.Context, authorID uuid.UUID, req CreateRequest) (*entity.Notice, error)
	Update(ctx context.Context, req UpdateRequest) (*entity.Notice, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
