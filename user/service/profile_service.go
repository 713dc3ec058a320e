package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dlfdnd96/kidari-teacher-sub001/apperror"
	"github.com/dlfdnd96/kidari-teacher-sub001/auth"
	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
	userpkg "github.com/dlfdnd96/kidari-teacher-sub001/user"
)

var (
	errProfileExists   = apperror.Conflict("이미 프로필이 등록되어 있습니다.")
	errProfileNotFound = apperror.NotFound("프로필을 찾을 수 없습니다. 먼저 프로필을 등록해주세요.")
)

type profileService struct {
	repo userpkg.Repository
	log  *logrus.Entry
}

func NewProfileService(repo userpkg.Repository, log *logrus.Entry) userpkg.ProfileService {
	return &profileService{repo: repo, log: log.WithField("component", "user_profile")}
}

func (s *profileService) Get(ctx context.Context, caller *auth.Session) (*entity.UserProfile, error) {
	p, err := s.repo.GetProfile(ctx, caller.UserID)
	if err != nil {
		return nil, apperror.From(err)
	}
	if p == nil {
		return nil, errProfileNotFound
	}
	return p, nil
}

func (s *profileService) Stats(ctx context.Context, caller *auth.Session) (*userpkg.ProfileStats, error) {
	u, err := loadUser(ctx, s.repo, caller)
	if err != nil {
		return nil, err
	}
	stats := &userpkg.ProfileStats{MemberSince: u.CreatedAt}
	if stats.TotalApplications, err = s.repo.CountApplications(ctx, u.ID); err != nil {
		return nil, apperror.From(err)
	}
	if stats.SelectedApplications, err = s.repo.CountSelectedApplications(ctx, u.ID); err != nil {
		return nil, apperror.From(err)
	}
	if stats.CompletedActivities, err = s.repo.CountCompletedActivities(ctx, u.ID); err != nil {
		return nil, apperror.From(err)
	}
	return stats, nil
}

func (s *profileService) Initialize(ctx context.Context, caller *auth.Session, req userpkg.InitializeProfileRequest) (*entity.UserProfile, error) {
	p, err := s.create(ctx, caller, req.ProfileInput)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		u, err := loadUser(ctx, s.repo, caller)
		if err != nil {
			return nil, err
		}
		u.Name = strings.TrimSpace(*req.Name)
		if err := s.repo.UpdateIdentity(ctx, u); err != nil {
			return nil, apperror.From(err)
		}
	}
	return p, nil
}

func (s *profileService) Create(ctx context.Context, caller *auth.Session, req userpkg.ProfileInput) (*entity.UserProfile, error) {
	return s.create(ctx, caller, req)
}

func (s *profileService) create(ctx context.Context, caller *auth.Session, in userpkg.ProfileInput) (*entity.UserProfile, error) {
	existing, err := s.repo.GetProfile(ctx, caller.UserID)
	if err != nil {
		return nil, apperror.From(err)
	}
	if existing != nil {
		return nil, errProfileExists
	}
	p := &entity.UserProfile{
		UserID:       caller.UserID,
		Phone:        in.Phone,
		BirthDate:    in.BirthDate,
		Organization: in.Organization,
		Professions:  entity.ProfessionList(in.Professions),
	}
	if err := s.repo.CreateProfile(ctx, p); err != nil {
		if errors.Is(err, userpkg.ErrProfileExists) {
			return nil, errProfileExists
		}
		return nil, apperror.From(err)
	}
	s.log.WithFields(logrus.Fields{"user_id": caller.UserID, "profile_id": p.ID}).Info("user profile created")
	return p, nil
}

func (s *profileService) Update(ctx context.Context, caller *auth.Session, req userpkg.UpdateUserProfileRequest) (*entity.UserProfile, error) {
	p, err := s.Get(ctx, caller)
	if err != nil {
		return nil, err
	}
	if req.Phone != nil {
		p.Phone = *req.Phone
	}
	if req.BirthDate != nil {
		p.BirthDate = req.BirthDate
	}
	if req.Organization != nil {
		p.Organization = req.Organization
	}
	if req.Professions != nil {
		p.Professions = entity.ProfessionList(req.Professions)
	}
	if err := s.repo.UpdateProfile(ctx, p); err != nil {
		return nil, apperror.From(err)
	}
	s.log.WithField("user_id", caller.UserID).Info("user profile updated")
	return p, nil
}
