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
	errUserNotFound = apperror.NotFound("사용자 정보를 찾을 수 없습니다.")
	errEmailTaken   = apperror.Conflict("이미 사용 중인 이메일입니다.")
	errConfirmEmail = apperror.BadRequest("확인 이메일이 현재 이메일과 일치하지 않습니다.")
	errConfirmText  = apperror.BadRequest("확인 문구를 정확히 입력해주세요.")
	errCommitted    = apperror.BadRequest("선정되어 진행 중인 봉사활동이 있어 탈퇴할 수 없습니다.")
)

type userService struct {
	repo userpkg.Repository
	log  *logrus.Entry
}

func NewUserService(repo userpkg.Repository, log *logrus.Entry) userpkg.Service {
	return &userService{repo: repo, log: log.WithField("component", "user")}
}

func (s *userService) GetCurrentUser(ctx context.Context, caller *auth.Session) (*entity.User, error) {
	return loadUser(ctx, s.repo, caller)
}

func (s *userService) UpdateProfile(ctx context.Context, caller *auth.Session, req userpkg.UpdateProfileRequest) (*entity.User, error) {
	u, err := loadUser(ctx, s.repo, caller)
	if err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	taken, err := s.repo.EmailTaken(ctx, email, u.ID)
	if err != nil {
		return nil, apperror.From(err)
	}
	if taken {
		return nil, errEmailTaken
	}
	u.Name = strings.TrimSpace(req.Name)
	u.Email = &email
	if err := s.repo.UpdateIdentity(ctx, u); err != nil {
		if errors.Is(err, userpkg.ErrEmailTaken) {
			return nil, errEmailTaken
		}
		return nil, apperror.From(err)
	}
	s.log.WithField("user_id", u.ID).Info("user identity updated")
	return u, nil
}

func (s *userService) DeleteAccount(ctx context.Context, caller *auth.Session, req userpkg.DeleteAccountRequest) error {
	u, err := loadUser(ctx, s.repo, caller)
	if err != nil {
		return err
	}
	if req.ConfirmEmail != u.EmailValue() {
		return errConfirmEmail
	}
	if req.ConfirmText != userpkg.DeleteAccountConfirmText {
		return errConfirmText
	}
	committed, err := s.repo.HasActiveCommitment(ctx, u.ID)
	if err != nil {
		return apperror.From(err)
	}
	if committed {
		return errCommitted
	}
	if err := s.repo.Withdraw(ctx, u.ID); err != nil {
		return apperror.From(err)
	}
	s.log.WithField("user_id", u.ID).Info("account deleted")
	return nil
}

func loadUser(ctx context.Context, repo userpkg.Repository, caller *auth.Session) (*entity.User, error) {
	u, err := repo.GetByID(ctx, caller.UserID)
	if err != nil {
		return nil, apperror.From(err)
	}
	if u == nil {
		return nil, errUserNotFound
	}
	return u, nil
}
