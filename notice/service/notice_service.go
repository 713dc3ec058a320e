package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dlfdnd96/kidari-teacher-sub001/apperror"
	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
	noticepkg "github.com/dlfdnd96/kidari-teacher-sub001/notice"
	"github.com/dlfdnd96/kidari-teacher-sub001/query"
)

var errNotFound = apperror.NotFound("공지사항을 찾을 수 없습니다.")

// Notifier is told about newly created notices.
type Notifier interface {
	NoticeCreated(n *entity.Notice)
}

type noticeService struct {
	repo     noticepkg.Repository
	notifier Notifier
	log      *logrus.Entry
}

// NewNoticeService creates the service. notifier may be nil.
func NewNoticeService(repo noticepkg.Repository, notifier Notifier, log *logrus.Entry) noticepkg.Service {
	return &noticeService{repo: repo, notifier: notifier, log: log.WithField("component", "notice")}
}

func (s *noticeService) List(ctx context.Context, req noticepkg.ListRequest) (*noticepkg.ListResult, error) {
	page, err := req.Pageable.Resolve(noticepkg.SortColumns, noticepkg.DefaultSort)
	if err != nil {
		return nil, apperror.BadRequest(err.Error())
	}
	rows, total, err := s.repo.List(ctx, query.Build(nil, req.Filter.Query(), page))
	if err != nil {
		return nil, apperror.From(err)
	}
	if rows == nil {
		rows = []entity.Notice{}
	}
	return &noticepkg.ListResult{NoticeList: rows, TotalCount: total}, nil
}

func (s *noticeService) Get(ctx context.Context, id uuid.UUID) (*entity.Notice, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.From(err)
	}
	if n == nil {
		return nil, errNotFound
	}
	return n, nil
}

func (s *noticeService) Create(ctx context.Context, authorID uuid.UUID, req noticepkg.CreateRequest) (*entity.Notice, error) {
	n := &entity.Notice{
		Title:       strings.TrimSpace(req.Title),
		Content:     req.Content,
		AuthorID:    authorID,
		IsPublished: true,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, apperror.From(err)
	}
	s.log.WithFields(logrus.Fields{"notice_id": n.ID, "author_id": authorID}).Info("notice created")
	if s.notifier != nil {
		s.notifier.NoticeCreated(n)
	}
	return n, nil
}

func (s *noticeService) Update(ctx context.Context, req noticepkg.UpdateRequest) (*entity.Notice, error) {
	n, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		n.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		n.Content = *req.Content
	}
	if req.IsPublished != nil {
		n.IsPublished = *req.IsPublished
	}
	if err := s.repo.Update(ctx, n); err != nil {
		return nil, apperror.From(err)
	}
	s.log.WithField("notice_id", n.ID).Info("notice updated")
	return n, nil
}

func (s *noticeService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return apperror.From(err)
	}
	s.log.WithField("notice_id", id).Info("notice deleted")
	return nil
}
