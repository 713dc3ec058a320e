package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dlfdnd96/kidari-teacher-sub001/apperror"
	"github.com/dlfdnd96/kidari-teacher-sub001/auth"
	"github.com/dlfdnd96/kidari-teacher-sub001/database"
	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
	"github.com/dlfdnd96/kidari-teacher-sub001/notice"
	"github.com/dlfdnd96/kidari-teacher-sub001/rpc"
)

type NoticeHandler struct {
	service notice.Service
	tx      database.Transactor
}

func NewNoticeHandler(svc notice.Service, tx database.Transactor) *NoticeHandler {
	return &NoticeHandler{service: svc, tx: tx}
}

// Register adds the notice.* procedures.
func (h *NoticeHandler) Register(s *rpc.Server) {
	rpc.Register(s, "notice.list", rpc.KindQuery, rpc.Public,
		func(ctx context.Context, _ *auth.Session, in notice.ListRequest) (*notice.ListResult, error) {
			return h.service.List(ctx, in)
		})
	rpc.Register(s, "notice.get", rpc.KindQuery, rpc.Public,
		func(ctx context.Context, _ *auth.Session, in notice.GetRequest) (*entity.Notice, error) {
			return h.service.Get(ctx, in.ID)
		})
	rpc.Register(s, "notice.create", rpc.KindMutation, rpc.Admin,
		func(ctx context.Context, caller *auth.Session, in notice.CreateRequest) (*entity.Notice, error) {
			return h.service.Create(ctx, caller.UserID, in)
		})
	rpc.Register(s, "notice.update", rpc.KindMutation, rpc.Admin,
		func(ctx context.Context, _ *auth.Session, in notice.UpdateRequest) (*entity.Notice, error) {
			return h.service.Update(ctx, in)
		})
	rpc.Register(s, "notice.delete", rpc.KindMutation, rpc.Admin,
		func(ctx context.Context, _ *auth.Session, in notice.DeleteRequest) (done, error) {
			return finish(h.service.Delete(ctx, in.ID))
		})
}

// payload for PATCH /api/notice/:id
type patchNoticePayload struct {
	Title       *string `json:"title" binding:"omitempty,notblank,max=200"`
	Content     *string `json:"content" binding:"omitempty,notblank"`
	IsPublished *bool   `json:"isPublished"`
}

func noticeID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, apperror.BadRequest("공지사항 ID가 올바르지 않습니다.").Wrap(err))
		return uuid.Nil, false
	}
	return id, true
}

// UpdateNotice handles PATCH /api/notice/:id. Admin guard runs before it.
func (h *NoticeHandler) UpdateNotice() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := noticeID(c)
		if !ok {
			return
		}
		var p patchNoticePayload
		if err := c.ShouldBindJSON(&p); err != nil {
			badPayload(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		var updated *entity.Notice
		err := h.tx.WithTx(ctx, func(ctx context.Context) error {
			var err error
			updated, err = h.service.Update(ctx, notice.UpdateRequest{
				ID:          id,
				Title:       p.Title,
				Content:     p.Content,
				IsPublished: p.IsPublished,
			})
			return err
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// DeleteNotice handles DELETE /api/notice/:id.
func (h *NoticeHandler) DeleteNotice() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := noticeID(c)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		if err := h.tx.WithTx(ctx, func(ctx context.Context) error {
			return h.service.Delete(ctx, id)
		}); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, done{Success: true})
	}
}
