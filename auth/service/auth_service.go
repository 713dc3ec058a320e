package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dlfdnd96/kidari-teacher-sub001/apperror"
	authpkg "github.com/dlfdnd96/kidari-teacher-sub001/auth"
	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
)

type authService struct {
	repo   authpkg.Repository
	secret string
	log    *logrus.Entry
	now    func() time.Time
}

func NewAuthService(repo authpkg.Repository, secret string, log *logrus.Entry) authpkg.Service {
	return &authService{repo: repo, secret: secret, log: log.WithField("component", "auth"), now: time.Now}
}

func (s *authService) SignIn(ctx context.Context, id authpkg.Identity) (*authpkg.Principal, error) {
	email := strings.TrimSpace(strings.ToLower(id.Email))
	if email == "" {
		return nil, apperror.BadRequest("이메일 정보가 없는 계정으로는 로그인할 수 없습니다.")
	}
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, apperror.From(err)
	}
	if user == nil {
		user = &entity.User{Role: entity.RoleUser, Name: id.Name, Email: &email}
		if id.Picture != "" {
			pic := id.Picture
			user.Image = &pic
		}
		if id.EmailVerified {
			now := s.now()
			user.EmailVerified = &now
		}
		if user, err = s.repo.CreateUser(ctx, user); err != nil {
			return nil, apperror.From(err)
		}
		s.log.WithField("user_id", user.ID).Info("user signed up")
	}
	return s.issue(user)
}

func (s *authService) TestSignIn(ctx context.Context, role entity.Role) (*authpkg.Principal, error) {
	if !role.Valid() {
		return nil, apperror.BadRequest("올바르지 않은 권한입니다.")
	}
	email := TestAccountEmail(role)
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, apperror.From(err)
	}
	if user == nil {
		user = &entity.User{Role: role, Name: "Cypress " + string(role), Email: &email}
		if user, err = s.repo.CreateUser(ctx, user); err != nil {
			return nil, apperror.From(err)
		}
	} else if user.Role != role {
		if err := s.repo.UpdateRole(ctx, user, role); err != nil {
			return nil, apperror.From(err)
		}
	}
	return s.issue(user)
}

// TestAccountEmail is the fixed address of the test account for role. The
// cleanup endpoint matches it.
func TestAccountEmail(role entity.Role) string {
	return fmt.Sprintf("cypress-%s@test.local", strings.ToLower(string(role)))
}

func (s *authService) issue(user *entity.User) (*authpkg.Principal, error) {
	now := s.now()
	p := &authpkg.Principal{Session: authpkg.Session{
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.EmailValue(),
		Role:      user.Role,
		ExpiresAt: now.Add(authpkg.SessionTTL),
	}}
	token, err := authpkg.SignSession(s.secret, &p.Session, now)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	p.Token = token
	return p, nil
}
