package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	applicationpkg "github.com/dlfdnd96/kidari-teacher-sub001/application"
	"github.com/dlfdnd96/kidari-teacher-sub001/database"
	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
	"github.com/dlfdnd96/kidari-teacher-sub001/query"
)

const liveActivityJoin = "JOIN volunteer_activities ON volunteer_activities.id = applications.volunteer_activity_id AND volunteer_activities.deleted_at IS NULL"

type GormApplicationRepo struct {
	db *gorm.DB
}

func NewGormApplicationRepo(db *gorm.DB) applicationpkg.Repository {
	return &GormApplicationRepo{db: db}
}

func (r *GormApplicationRepo) LockActivity(ctx context.Context, activityID uuid.UUID) (*entity.VolunteerActivity, error) {
	db := database.Conn(ctx, r.db)
	var a entity.VolunteerActivity
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&a, "id = ?", activityID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := db.Where("volunteer_activity_id = ?", a.ID).Find(&a.Applications).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *GormApplicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Application, error) {
	var a entity.Application
	err := database.Conn(ctx, r.db).Preload("VolunteerActivity").First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *GormApplicationRepo) List(ctx context.Context, spec query.Spec) ([]entity.Application, int64, error) {
	db := database.Conn(ctx, r.db)
	var rows []entity.Application
	if err := db.Model(&entity.Application{}).Scopes(spec.Scope()).Preload("User").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	var total int64
	if err := db.Model(&entity.Application{}).Scopes(spec.CountScope()).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *GormApplicationRepo) ListWithActivity(ctx context.Context, spec query.Spec) ([]entity.Application, int64, error) {
	db := database.Conn(ctx, r.db)
	var rows []entity.Application
	err := db.Model(&entity.Application{}).
		Joins(liveActivityJoin).
		Scopes(spec.Scope()).
		Preload("VolunteerActivity").
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := db.Model(&entity.Application{}).Joins(liveActivityJoin).Scopes(spec.CountScope()).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *GormApplicationRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Application, error) {
	var rows []entity.Application
	if err := database.Conn(ctx, r.db).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *GormApplicationRepo) Create(ctx context.Context, a *entity.Application) error {
	err := database.Conn(ctx, r.db).Omit(clause.Associations).Create(a).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return applicationpkg.ErrDuplicate
	}
	return err
}

func (r *GormApplicationRepo) UpdateStatus(ctx context.Context, ids []uuid.UUID, status entity.ApplicationStatus) error {
	return database.Conn(ctx, r.db).
		Model(&entity.Application{}).
		Where("id IN ?", ids).
		Update("status", status).Error
}

func (r *GormApplicationRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return database.Conn(ctx, r.db).Delete(&entity.Application{}, "id = ?", id).Error
}
