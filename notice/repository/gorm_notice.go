package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dlfdnd96/kidari-teacher-sub001/database"
	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
	noticepkg "github.com/dlfdnd96/kidari-teacher-sub001/notice"
	"github.com/dlfdnd96/kidari-teacher-sub001/query"
)

type GormNoticeRepo struct {
	db *gorm.DB
}

func NewGormNoticeRepo(db *gorm.DB) noticepkg.Repository {
	return &GormNoticeRepo{db: db}
}

func (r *GormNoticeRepo) List(ctx context.Context, spec query.Spec) ([]entity.Notice, int64, error) {
	db := database.Conn(ctx, r.db)
	var rows []entity.Notice
	if err := db.Model(&entity.Notice{}).Scopes(spec.Scope()).Preload("Author").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	var total int64
	if err := db.Model(&entity.Notice{}).Scopes(spec.CountScope()).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *GormNoticeRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Notice, error) {
	var n entity.Notice
	err := database.Conn(ctx, r.db).Preload("Author").First(&n, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *GormNoticeRepo) Create(ctx context.Context, n *entity.Notice) error {
	return database.Conn(ctx, r.db).Create(n).Error
}

func (r *GormNoticeRepo) Update(ctx context.Context, n *entity.Notice) error {
	return database.Conn(ctx, r.db).Model(n).Select("title", "content", "is_published").Updates(n).Error
}

func (r *GormNoticeRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return database.Conn(ctx, r.db).Delete(&entity.Notice{}, "id = ?", id).Error
}
