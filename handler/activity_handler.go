package api

import (
	"context"

	"github.com/dlfdnd96/kidari-teacher-sub001/activity"
	"github.com/dlfdnd96/kidari-teacher-sub001/auth"
	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
	"github.com/dlfdnd96/kidari-teacher-sub001/rpc"
)

type ActivityHandler struct {
	service activity.Service
}

func NewActivityHandler(svc activity.Service) *ActivityHandler {
	return &ActivityHandler{service: svc}
}

// Register adds the volunteerActivity.* procedures.
func (h *ActivityHandler) Register(s *rpc.Server) {
	rpc.Register(s, "volunteerActivity.get", rpc.KindQuery, rpc.Protected,
		func(ctx context.Context, _ *auth.Session, in activity.GetRequest) (*entity.VolunteerActivity, error) {
			return h.service.Get(ctx, in.ID)
		})
	rpc.Register(s, "volunteerActivity.list", rpc.KindQuery, rpc.Protected,
		func(ctx context.Context, _ *auth.Session, in activity.ListRequest) (*activity.ListResult, error) {
			return h.service.List(ctx, in)
		})
	rpc.Register(s, "volunteerActivity.create", rpc.KindMutation, rpc.Admin,
		func(ctx context.Context, caller *auth.Session, in activity.CreateRequest) (*entity.VolunteerActivity, error) {
			return h.service.Create(ctx, caller.UserID, in)
		})
	rpc.Register(s, "volunteerActivity.update", rpc.KindMutation, rpc.Admin,
		func(ctx context.Context, caller *auth.Session, in activity.UpdateRequest) (*entity.VolunteerActivity, error) {
			return h.service.Update(ctx, caller, in)
		})
	rpc.Register(s, "volunteerActivity.delete", rpc.KindMutation, rpc.Admin,
		func(ctx context.Context, caller *auth.Session, in activity.DeleteRequest) (done, error) {
			return finish(h.service.Delete(ctx, caller, in.ID))
		})
}
