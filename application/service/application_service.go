package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dlfdnd96/kidari-teacher-sub001/apperror"
	applicationpkg "github.com/dlfdnd96/kidari-teacher-sub001/application"
	"github.com/dlfdnd96/kidari-teacher-sub001/auth"
	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
	"github.com/dlfdnd96/kidari-teacher-sub001/metrics"
	"github.com/dlfdnd96/kidari-teacher-sub001/query"
)

var (
	errNotFound         = apperror.NotFound("신청 내역을 찾을 수 없습니다.")
	errActivityNotFound = apperror.NotFound("봉사활동을 찾을 수 없습니다.")
	errForbidden        = apperror.Forbidden("본인의 신청 내역만 확인하거나 취소할 수 있습니다.")
	errDeadlinePassed   = apperror.BadRequest("신청 마감일이 지났습니다.")
	errNotRecruiting    = apperror.BadRequest("현재 모집 중인 봉사활동이 아닙니다.")
	errAlreadyApplied   = apperror.BadRequest("이미 신청한 봉사활동입니다.")
	errFull             = apperror.BadRequest("모집 인원이 모두 찼습니다.")
	errSelected         = apperror.BadRequest("선정된 신청은 취소할 수 없습니다.")
	errReviewed         = apperror.BadRequest("심사가 끝난 신청은 취소할 수 없습니다.")
	errStarted          = apperror.BadRequest("이미 시작된 봉사활동의 신청은 취소할 수 없습니다.")
)

type applicationService struct {
	repo     applicationpkg.Repository
	notifier applicationpkg.Notifier
	log      *logrus.Entry
	now      func() time.Time
}

// NewApplicationService creates the service. notifier may be nil.
func NewApplicationService(repo applicationpkg.Repository, notifier applicationpkg.Notifier, log *logrus.Entry) applicationpkg.Service {
	return &applicationService{
		repo:     repo,
		notifier: notifier,
		log:      log.WithField("component", "application"),
		now:      time.Now,
	}
}

func (s *applicationService) Get(ctx context.Context, caller *auth.Session, id uuid.UUID) (*entity.Application, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.From(err)
	}
	if a == nil {
		return nil, errNotFound
	}
	if !caller.CanActOn(a.UserID) {
		return nil, errForbidden
	}
	return a, nil
}

func (s *applicationService) List(ctx context.Context, req applicationpkg.ListRequest) (*applicationpkg.ListResult, error) {
	page, err := req.Pageable.Resolve(applicationpkg.SortColumns, applicationpkg.DefaultSort)
	if err != nil {
		return nil, apperror.BadRequest(err.Error())
	}
	rows, total, err := s.repo.List(ctx, query.Build(nil, req.Filter.Query(), page))
	if err != nil {
		return nil, apperror.From(err)
	}
	return result(rows, total), nil
}

func (s *applicationService) GetMine(ctx context.Context, caller *auth.Session, req applicationpkg.ListRequest) (*applicationpkg.ListResult, error) {
	page, err := req.Pageable.Resolve(applicationpkg.SortColumns, applicationpkg.DefaultSort)
	if err != nil {
		return nil, apperror.BadRequest(err.Error())
	}
	filter := req.Filter.Query()
	filter["applications.user_id"] = caller.UserID
	rows, total, err := s.repo.ListWithActivity(ctx, query.Build(nil, filter, page))
	if err != nil {
		return nil, apperror.From(err)
	}
	return result(rows, total), nil
}

func (s *applicationService) Create(ctx context.Context, caller *auth.Session, req applicationpkg.CreateRequest) (*entity.Application, error) {
	act, err := s.repo.LockActivity(ctx, req.VolunteerActivityID)
	if err != nil {
		return nil, apperror.From(err)
	}
	if act == nil {
		return nil, errActivityNotFound
	}
	if act.DeadlinePassed(s.now()) {
		return nil, errDeadlinePassed
	}
	if act.Status != entity.ActivityRecruiting {
		return nil, errNotRecruiting
	}
	for _, existing := range act.Applications {
		if existing.OwnedBy(caller.UserID) {
			return nil, errAlreadyApplied
		}
	}
	if act.Full(len(act.Applications)) {
		return nil, errFull
	}

	a := &entity.Application{
		UserID:              caller.UserID,
		VolunteerActivityID: act.ID,
		EmergencyContact:    strings.TrimSpace(req.EmergencyContact),
		Status:              entity.ApplicationWaiting,
		Profession:          req.Profession,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		if errors.Is(err, applicationpkg.ErrDuplicate) {
			return nil, errAlreadyApplied
		}
		return nil, apperror.From(err)
	}
	metrics.ApplicationsCreated.Inc()
	s.log.WithFields(logrus.Fields{"application_id": a.ID, "activity_id": act.ID, "user_id": caller.UserID}).Info("application created")
	return a, nil
}

func (s *applicationService) UpdateStatus(ctx context.Context, req applicationpkg.UpdateStatusRequest) (*applicationpkg.UpdateStatusResult, error) {
	ids := unique(req.IDs)
	found, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperror.From(err)
	}
	if len(found) != len(ids) {
		return nil, apperror.NotFound("일부 신청 내역을 찾을 수 없습니다.")
	}
	if err := s.repo.UpdateStatus(ctx, ids, req.Status); err != nil {
		return nil, apperror.From(err)
	}
	s.log.WithFields(logrus.Fields{"count": len(ids), "status": req.Status}).Info("application status updated")
	if s.notifier != nil {
		for i := range found {
			if found[i].Status == req.Status {
				continue
			}
			found[i].Status = req.Status
			s.notifier.ApplicationStatusChanged(&found[i])
		}
	}
	return &applicationpkg.UpdateStatusResult{Count: len(ids)}, nil
}

func (s *applicationService) Delete(ctx context.Context, caller *auth.Session, id uuid.UUID) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return apperror.From(err)
	}
	if a == nil {
		return errNotFound
	}
	if a.VolunteerActivity == nil {
		return errActivityNotFound
	}
	if !caller.CanActOn(a.UserID) {
		return errForbidden
	}
	switch a.Status {
	case entity.ApplicationWaiting:
	case entity.ApplicationSelected:
		return errSelected
	default:
		return errReviewed
	}
	if a.VolunteerActivity.Started(s.now()) {
		return errStarted
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return apperror.From(err)
	}
	metrics.ApplicationsCancelled.Inc()
	s.log.WithFields(logrus.Fields{"application_id": id, "user_id": caller.UserID}).Info("application cancelled")
	return nil
}

func result(rows []entity.Application, total int64) *applicationpkg.ListResult {
	if rows == nil {
		rows = []entity.Application{}
	}
	return &applicationpkg.ListResult{ApplicationList: rows, TotalCount: total}
}

func unique(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
