package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Profession enumerates the volunteer professions a profile or an
// application can declare.
type Profession string

const (
	ProfessionDoctor            Profession = "DOCTOR"
	ProfessionNurse             Profession = "NURSE"
	ProfessionPharmacist        Profession = "PHARMACIST"
	ProfessionDentist           Profession = "DENTIST"
	ProfessionKoreanMedicine    Profession = "KOREAN_MEDICINE_DOCTOR"
	ProfessionPhysicalTherapist Profession = "PHYSICAL_THERAPIST"
	ProfessionTeacher           Profession = "TEACHER"
	ProfessionSocialWorker      Profession = "SOCIAL_WORKER"
	ProfessionStudent           Profession = "STUDENT"
	ProfessionOther             Profession = "OTHER"
)

var professions = map[Profession]struct{}{
	ProfessionDoctor:            {},
	ProfessionNurse:             {},
	ProfessionPharmacist:        {},
	ProfessionDentist:           {},
	ProfessionKoreanMedicine:    {},
	ProfessionPhysicalTherapist: {},
	ProfessionTeacher:           {},
	ProfessionSocialWorker:      {},
	ProfessionStudent:           {},
	ProfessionOther:             {},
}

func (p Profession) Valid() bool {
	_, ok := professions[p]
	return ok
}

// ProfessionList converts professions to the text[] column type.
func ProfessionList(ps []Profession) pq.StringArray {
	out := make(pq.StringArray, 0, len(ps))
	for _, p := range ps {
		out = append(out, string(p))
	}
	return out
}

// UserProfile holds the volunteer details of a user. At most one non-deleted
// profile exists per user.
type UserProfile struct {
	ID           uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID       uuid.UUID       `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_user_profiles_user,where:deleted_at IS NULL"`
	Phone        string          `json:"phone" gorm:"type:text;not null"`
	BirthDate    *datatypes.Date `json:"birthDate"`
	Organization *string         `json:"organization" gorm:"type:text"`
	Professions  pq.StringArray  `json:"professions" gorm:"type:text[];not null;default:'{}'"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt  `json:"-" gorm:"index"`
}
