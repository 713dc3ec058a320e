package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	authpkg "github.com/dlfdnd96/kidari-teacher-sub001/auth"
	"github.com/dlfdnd96/kidari-teacher-sub001/database"
	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
)

type GormAuthRepo struct {
	db *gorm.DB
}

func NewGormAuthRepo(db *gorm.DB) authpkg.Repository {
	return &GormAuthRepo{db: db}
}

func (r *GormAuthRepo) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	err := database.Conn(ctx, r.db).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormAuthRepo) CreateUser(ctx context.Context, u *entity.User) (*entity.User, error) {
	if err := database.Conn(ctx, r.db).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

func (r *GormAuthRepo) UpdateRole(ctx context.Context, u *entity.User, role entity.Role) error {
	if err := database.Conn(ctx, r.db).Model(u).Update("role", role).Error; err != nil {
		return err
	}
	u.Role = role
	return nil
}
