package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	activitypkg "github.com/dlfdnd96/kidari-teacher-sub001/activity"
	"github.com/dlfdnd96/kidari-teacher-sub001/apperror"
	"github.com/dlfdnd96/kidari-teacher-sub001/auth"
	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
	"github.com/dlfdnd96/kidari-teacher-sub001/query"
)

var (
	errNotFound  = apperror.NotFound("봉사활동을 찾을 수 없습니다.")
	errNotOwner  = apperror.Forbidden("봉사활동 담당자 또는 관리자만 변경할 수 있습니다.")
	errEndBefore = apperror.BadRequest("활동 종료 일시는 시작 일시 이후여야 합니다.")
	errDeadline  = apperror.BadRequest("신청 마감일은 활동 시작 일시 이전이어야 합니다.")
)

type activityService struct {
	repo activitypkg.Repository
	log  *logrus.Entry
}

func NewActivityService(repo activitypkg.Repository, log *logrus.Entry) activitypkg.Service {
	return &activityService{repo: repo, log: log.WithField("component", "activity")}
}

func (s *activityService) Get(ctx context.Context, id uuid.UUID) (*entity.VolunteerActivity, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.From(err)
	}
	if a == nil {
		return nil, errNotFound
	}
	return a, nil
}

func (s *activityService) List(ctx context.Context, req activitypkg.ListRequest) (*activitypkg.ListResult, error) {
	page, err := req.Pageable.Resolve(activitypkg.SortColumns, activitypkg.DefaultSort)
	if err != nil {
		return nil, apperror.BadRequest(err.Error())
	}
	rows, total, err := s.repo.List(ctx, query.Build(nil, req.Filter.Query(), page))
	if err != nil {
		return nil, apperror.From(err)
	}
	if rows == nil {
		rows = []entity.VolunteerActivity{}
	}
	return &activitypkg.ListResult{VolunteerActivityList: rows, TotalCount: total}, nil
}

func (s *activityService) Create(ctx context.Context, managerID uuid.UUID, req activitypkg.CreateRequest) (*entity.VolunteerActivity, error) {
	a := &entity.VolunteerActivity{
		Title:               strings.TrimSpace(req.Title),
		Description:         req.Description,
		StartAt:             req.StartAt,
		EndAt:               req.EndAt,
		Location:            strings.TrimSpace(req.Location),
		Status:              entity.ActivityPlanning,
		ApplicationDeadline: req.ApplicationDeadline,
		ManagerID:           managerID,
		MaxParticipants:     req.MaxParticipants,
		Qualifications:      req.Qualifications,
		Materials:           req.Materials,
	}
	if req.Status != nil {
		a.Status = *req.Status
	}
	if err := checkSchedule(a); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, apperror.From(err)
	}
	s.log.WithFields(logrus.Fields{"activity_id": a.ID, "manager_id": managerID}).Info("volunteer activity created")
	return a, nil
}

func (s *activityService) Update(ctx context.Context, caller *auth.Session, req activitypkg.UpdateRequest) (*entity.VolunteerActivity, error) {
	a, err := s.owned(ctx, caller, req.ID)
	if err != nil {
		return nil, err
	}
	if req.Status != nil && !a.Status.CanTransitionTo(*req.Status) {
		return nil, apperror.BadRequest(fmt.Sprintf("'%s' 상태에서 '%s' 상태로 변경할 수 없습니다.", a.Status, *req.Status))
	}
	from := a.Status
	apply(a, req)
	if err := checkSchedule(a); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, apperror.From(err)
	}
	entry := s.log.WithFields(logrus.Fields{"activity_id": a.ID, "user_id": caller.UserID})
	if from != a.Status {
		entry = entry.WithFields(logrus.Fields{"from": from, "to": a.Status})
	}
	entry.Info("volunteer activity updated")
	return a, nil
}

func (s *activityService) Delete(ctx context.Context, caller *auth.Session, id uuid.UUID) error {
	if _, err := s.owned(ctx, caller, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return apperror.From(err)
	}
	s.log.WithFields(logrus.Fields{"activity_id": id, "user_id": caller.UserID}).Info("volunteer activity deleted")
	return nil
}

// owned loads the activity and checks that caller may change it.
func (s *activityService) owned(ctx context.Context, caller *auth.Session, id uuid.UUID) (*entity.VolunteerActivity, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanActOn(a.ManagerID) {
		return nil, errNotOwner
	}
	return a, nil
}

func apply(a *entity.VolunteerActivity, req activitypkg.UpdateRequest) {
	if req.Title != nil {
		a.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		a.Description = *req.Description
	}
	if req.StartAt != nil {
		a.StartAt = *req.StartAt
	}
	if req.EndAt != nil {
		a.EndAt = *req.EndAt
	}
	if req.Location != nil {
		a.Location = strings.TrimSpace(*req.Location)
	}
	if req.Status != nil {
		a.Status = *req.Status
	}
	if req.ApplicationDeadline != nil {
		a.ApplicationDeadline = *req.ApplicationDeadline
	}
	if req.MaxParticipants != nil {
		a.MaxParticipants = req.MaxParticipants
	}
	if req.Qualifications != nil {
		a.Qualifications = req.Qualifications
	}
	if req.Materials != nil {
		a.Materials = req.Materials
	}
	for _, field := range req.Clear {
		switch field {
		case activitypkg.ClearMaxParticipants:
			a.MaxParticipants = nil
		case activitypkg.ClearQualifications:
			a.Qualifications = nil
		case activitypkg.ClearMaterials:
			a.Materials = nil
		}
	}
}

func checkSchedule(a *entity.VolunteerActivity) error {
	if !a.EndAt.After(a.StartAt) {
		return errEndBefore
	}
	if a.ApplicationDeadline.After(a.StartAt) {
		return errDeadline
	}
	return nil
}
