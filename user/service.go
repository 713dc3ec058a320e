package user

import (
	"context"
	"time"

	"gorm.io/datatypes"

	"github.com/dlfdnd96/kidari-teacher-sub001/auth"
	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
)

// DeleteAccountConfirmText must be typed by the user to withdraw.
const DeleteAccountConfirmText = "회원 탈퇴"

type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"required,notblank,max=50"`
	Email string `json:"email" binding:"required,email,max=255"`
}

type DeleteAccountRequest struct {
	ConfirmEmail string `json:"confirmEmail" binding:"required"`
	ConfirmText  string `json:"confirmText" binding:"required"`
}

// ProfileInput is shared by initialize and create.
type ProfileInput struct {
	Phone        string              `json:"phone" binding:"required,phone"`
	BirthDate    *datatypes.Date     `json:"birthDate"`
	Organization *string             `json:"organization" binding:"omitempty,max=100"`
	Professions  []entity.Profession `json:"professions" binding:"omitempty,max=10,dive,profession"`
}

// InitializeProfileRequest is the onboarding form: it may also set the
// display name.
type InitializeProfileRequest struct {
	ProfileInput
	Name *string `json:"name" binding:"omitempty,notblank,max=50"`
}

type UpdateUserProfileRequest struct {
	Phone        *string             `json:"phone" binding:"omitempty,phone"`
	BirthDate    *datatypes.Date     `json:"birthDate"`
	Organization *string             `json:"organization" binding:"omitempty,max=100"`
	Professions  []entity.Profession `json:"professions" binding:"omitempty,max=10,dive,profession"`
}

type ProfileStats struct {
	TotalApplications    int64     `json:"totalApplications"`
	SelectedApplications int64     `json:"selectedApplications"`
	CompletedActivities  int64     `json:"completedActivities"`
	MemberSince          time.Time `json:"memberSince"`
}

// Service provides account operations for the session user.
type Service interface {
	GetCurrentUser(ctx context.Context, caller *auth.Session) (*entity.User, error)
	UpdateProfile(ctx context.Context, caller *auth.Session, req UpdateProfileRequest) (*entity.User, error)
	DeleteAccount(ctx context.Context, caller *auth.Session, req DeleteAccountRequest) error
}

// ProfileService provides volunteer profile operations for the session user.
type ProfileService interface {
	Get(ctx context.Context, caller *auth.Session) (*entity.UserProfile, error)
	Stats(ctx context.Context, caller *auth.Session) (*ProfileStats, error)
	Initialize(ctx context.Context, caller *auth.Session, req InitializeProfileRequest) (*entity.UserProfile, error)
	Create(ctx context.Context, caller *auth.Session, req ProfileInput) (*entity.UserProfile, error)
	Update(ctx context.Context, caller *auth.Session, req UpdateUserProfileRequest) (*entity.UserProfile, error)
}
