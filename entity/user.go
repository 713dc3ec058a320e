package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the account role carried in the session.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

func (r Role) Valid() bool { return r == RoleUser || r == RoleAdmin }

// User is a social-login account.
// Email is unique among non-deleted users only, so a withdrawn account does not
// block a fresh sign-up with the same address.
type User struct {
	ID            uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Role          Role           `json:"role" gorm:"type:text;index;not null;default:'USER'"`
	Name          string         `json:"name" gorm:"type:text;not null;default:''"`
	Email         *string        `json:"email" gorm:"type:text;uniqueIndex:idx_users_email,where:deleted_at IS NULL"`
	Image         *string        `json:"image,omitempty" gorm:"type:text"`
	EmailVerified *time.Time     `json:"emailVerified,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`

	Profile      *UserProfile  `json:"profile,omitempty" gorm:"foreignKey:UserID"`
	Applications []Application `json:"applications,omitempty" gorm:"foreignKey:UserID"`
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// EmailValue returns the email or "" when unset.
func (u *User) EmailValue() string {
	if u == nil || u.Email == nil {
		return ""
	}
	return *u.Email
}
