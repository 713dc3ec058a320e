package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	activitypkg "github.com/dlfdnd96/kidari-teacher-sub001/activity"
	"github.com/dlfdnd96/kidari-teacher-sub001/database"
	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
	"github.com/dlfdnd96/kidari-teacher-sub001/query"
)

type GormActivityRepo struct {
	db *gorm.DB
}

func NewGormActivityRepo(db *gorm.DB) activitypkg.Repository {
	return &GormActivityRepo{db: db}
}

var updatableColumns = []string{
	"title", "description", "start_at", "end_at", "location", "status",
	"application_deadline", "max_participants", "qualifications", "materials",
}

func (r *GormActivityRepo) List(ctx context.Context, spec query.Spec) ([]entity.VolunteerActivity, int64, error) {
	db := database.Conn(ctx, r.db)
	var rows []entity.VolunteerActivity
	err := db.Model(&entity.VolunteerActivity{}).
		Scopes(spec.Scope()).
		Preload("Applications.User").
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := db.Model(&entity.VolunteerActivity{}).Scopes(spec.CountScope()).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *GormActivityRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.VolunteerActivity, error) {
	var a entity.VolunteerActivity
	err := database.Conn(ctx, r.db).
		Preload("Manager").
		Preload("Applications.User").
		First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *GormActivityRepo) Create(ctx context.Context, a *entity.VolunteerActivity) error {
	return database.Conn(ctx, r.db).Omit(clause.Associations).Create(a).Error
}

func (r *GormActivityRepo) Update(ctx context.Context, a *entity.VolunteerActivity) error {
	return database.Conn(ctx, r.db).
		Model(&entity.VolunteerActivity{ID: a.ID}).
		Select(updatableColumns).
		Omit(clause.Associations).
		Updates(a).Error
}

func (r *GormActivityRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return database.Conn(ctx, r.db).Delete(&entity.VolunteerActivity{}, "id = ?", id).Error
}
