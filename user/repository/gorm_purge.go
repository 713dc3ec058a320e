package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dlfdnd96/kidari-teacher-sub001/database"
	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
	userpkg "github.com/dlfdnd96/kidari-teacher-sub001/user"
)

const testAccountFilter = "email ILIKE '%test%' OR email ILIKE '%cypress%' OR name ILIKE '%test%' OR name ILIKE '%cypress%'"

type GormPurger struct {
	db *gorm.DB
}

func NewGormPurger(db *gorm.DB) userpkg.Purger {
	return &GormPurger{db: db}
}

func (r *GormPurger) PurgeTestAccounts(ctx context.Context) (int64, error) {
	// each chain below starts from a fresh clone of the unscoped statement
	db := database.Conn(ctx, r.db).Unscoped().Session(&gorm.Session{})

	var ids []uuid.UUID
	if err := db.Model(&entity.User{}).Where(testAccountFilter).Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	managed := db.Model(&entity.VolunteerActivity{}).Select("id").Where("manager_id IN ?", ids)
	if err := db.Where("user_id IN ? OR volunteer_activity_id IN (?)", ids, managed).Delete(&entity.Application{}).Error; err != nil {
		return 0, err
	}
	if err := db.Where("user_id IN ?", ids).Delete(&entity.UserProfile{}).Error; err != nil {
		return 0, err
	}
	if err := db.Where("author_id IN ?", ids).Delete(&entity.Notice{}).Error; err != nil {
		return 0, err
	}
	if err := db.Where("manager_id IN ?", ids).Delete(&entity.VolunteerActivity{}).Error; err != nil {
		return 0, err
	}
	res := db.Where("id IN ?", ids).Delete(&entity.User{})
	return res.RowsAffected, res.Error
}
