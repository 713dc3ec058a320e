package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dlfdnd96/kidari-teacher-sub001/database"
	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
	userpkg "github.com/dlfdnd96/kidari-teacher-sub001/user"
)

type GormUserRepo struct {
	db *gorm.DB
}

func NewGormUserRepo(db *gorm.DB) userpkg.Repository {
	return &GormUserRepo{db: db}
}

func (r *GormUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var u entity.User
	err := database.Conn(ctx, r.db).Preload("Profile").First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepo) EmailTaken(ctx context.Context, email string, exceptID uuid.UUID) (bool, error) {
	var n int64
	err := database.Conn(ctx, r.db).Model(&entity.User{}).
		Where("email = ? AND id <> ?", email, exceptID).
		Count(&n).Error
	return n > 0, err
}

func (r *GormUserRepo) UpdateIdentity(ctx context.Context, u *entity.User) error {
	err := database.Conn(ctx, r.db).
		Model(&entity.User{ID: u.ID}).
		Select("name", "email").
		Updates(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return userpkg.ErrEmailTaken
	}
	return err
}

// committed selects the user's live SELECTED applications on live activities
// that are still running.
func committed(db *gorm.DB, userID uuid.UUID) *gorm.DB {
	return db.Model(&entity.Application{}).
		Joins("JOIN volunteer_activities ON volunteer_activities.id = applications.volunteer_activity_id AND volunteer_activities.deleted_at IS NULL").
		Where("applications.user_id = ? AND applications.status = ?", userID, entity.ApplicationSelected)
}

func (r *GormUserRepo) HasActiveCommitment(ctx context.Context, userID uuid.UUID) (bool, error) {
	var n int64
	err := committed(database.Conn(ctx, r.db), userID).
		Where("volunteer_activities.status IN ?", entity.CommitmentStatuses).
		Count(&n).Error
	return n > 0, err
}

func (r *GormUserRepo) Withdraw(ctx context.Context, userID uuid.UUID) error {
	db := database.Conn(ctx, r.db)
	if err := db.Where("user_id = ? AND status = ?", userID, entity.ApplicationWaiting).Delete(&entity.Application{}).Error; err != nil {
		return err
	}
	if err := db.Where("user_id = ?", userID).Delete(&entity.UserProfile{}).Error; err != nil {
		return err
	}
	return db.Delete(&entity.User{}, "id = ?", userID).Error
}

func (r *GormUserRepo) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.UserProfile, error) {
	var p entity.UserProfile
	err := database.Conn(ctx, r.db).First(&p, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormUserRepo) CreateProfile(ctx context.Context, p *entity.UserProfile) error {
	err := database.Conn(ctx, r.db).Omit(clause.Associations).Create(p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return userpkg.ErrProfileExists
	}
	return err
}

func (r *GormUserRepo) UpdateProfile(ctx context.Context, p *entity.UserProfile) error {
	return database.Conn(ctx, r.db).
		Model(&entity.UserProfile{ID: p.ID}).
		Select("phone", "birth_date", "organization", "professions").
		Updates(p).Error
}

func (r *GormUserRepo) CountApplications(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := database.Conn(ctx, r.db).Model(&entity.Application{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

func (r *GormUserRepo) CountSelectedApplications(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := database.Conn(ctx, r.db).Model(&entity.Application{}).
		Where("user_id = ? AND status = ?", userID, entity.ApplicationSelected).
		Count(&n).Error
	return n, err
}

func (r *GormUserRepo) CountCompletedActivities(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := committed(database.Conn(ctx, r.db), userID).
		Where("volunteer_activities.status = ?", entity.ActivityCompleted).
		Count(&n).Error
	return n, err
}
