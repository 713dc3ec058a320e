package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notice is an admin-authored announcement.
type Notice struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Title       string         `json:"title" gorm:"type:text;not null"`
	Content     string         `json:"content" gorm:"type:text;not null"`
	AuthorID    uuid.UUID      `json:"authorId" gorm:"type:uuid;index;not null"`
	IsPublished bool           `json:"isPublished" gorm:"not null;default:true;index"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	Author *User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}
