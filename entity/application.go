package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApplicationStatus enumerates the review state of an application.
type ApplicationStatus string

const (
	ApplicationWaiting  ApplicationStatus = "WAITING"
	ApplicationSelected ApplicationStatus = "SELECTED"
	ApplicationRejected ApplicationStatus = "REJECTED"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationWaiting, ApplicationSelected, ApplicationRejected:
		return true
	}
	return false
}

// Application is a user's request to join a volunteer activity.
// (user_id, volunteer_activity_id) is unique among non-deleted rows.
type Application struct {
	ID                  uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID              uuid.UUID         `json:"userId" gorm:"type:uuid;not null;index;uniqueIndex:idx_applications_user_activity,priority:1,where:deleted_at IS NULL"`
	VolunteerActivityID uuid.UUID         `json:"volunteerActivityId" gorm:"type:uuid;not null;index;uniqueIndex:idx_applications_user_activity,priority:2,where:deleted_at IS NULL"`
	EmergencyContact    string            `json:"emergencyContact" gorm:"type:text;not null"`
	Status              ApplicationStatus `json:"status" gorm:"type:text;index;not null;default:'WAITING'"`
	Profession          Profession        `json:"profession" gorm:"type:text;not null"`
	CreatedAt           time.Time         `json:"createdAt"`
	UpdatedAt           time.Time         `json:"updatedAt"`
	DeletedAt           gorm.DeletedAt    `json:"-" gorm:"index"`

	User              *User              `json:"user,omitempty" gorm:"foreignKey:UserID"`
	VolunteerActivity *VolunteerActivity `json:"volunteerActivity,omitempty" gorm:"foreignKey:VolunteerActivityID"`
}

// OwnedBy reports whether userID submitted the application.
func (a *Application) OwnedBy(userID uuid.UUID) bool { return a.UserID == userID }
