package api

import (
	"context"

	"github.com/dlfdnd96/kidari-teacher-sub001/application"
	"github.com/dlfdnd96/kidari-teacher-sub001/auth"
	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
	"github.com/dlfdnd96/kidari-teacher-sub001/rpc"
)

type ApplicationHandler struct {
	service application.Service
}

func NewApplicationHandler(svc application.Service) *ApplicationHandler {
	return &ApplicationHandler{service: svc}
}

// Register adds the application.* procedures.
func (h *ApplicationHandler) Register(s *rpc.Server) {
	rpc.Register(s, "application.get", rpc.KindQuery, rpc.Protected,
		func(ctx context.Context, caller *auth.Session, in application.GetRequest) (*entity.Application, error) {
			return h.service.Get(ctx, caller, in.ID)
		})
	rpc.Register(s, "application.list", rpc.KindQuery, rpc.Protected,
		func(ctx context.Context, _ *auth.Session, in application.ListRequest) (*application.ListResult, error) {
			return h.service.List(ctx, in)
		})
	rpc.Register(s, "application.getMine", rpc.KindQuery, rpc.Protected,
		func(ctx context.Context, caller *auth.Session, in application.ListRequest) (*application.ListResult, error) {
			return h.service.GetMine(ctx, caller, in)
		})
	rpc.Register(s, "application.create", rpc.KindMutation, rpc.Protected,
		func(ctx context.Context, caller *auth.Session, in application.CreateRequest) (*entity.Application, error) {
			return h.service.Create(ctx, caller, in)
		})
	rpc.Register(s, "application.updateStatus", rpc.KindMutation, rpc.Admin,
		func(ctx context.Context, _ *auth.Session, in application.UpdateStatusRequest) (*application.UpdateStatusResult, error) {
			return h.service.UpdateStatus(ctx, in)
		})
	rpc.Register(s, "application.delete", rpc.KindMutation, rpc.Protected,
		func(ctx context.Context, caller *auth.Session, in application.DeleteRequest) (done, error) {
			return finish(h.service.Delete(ctx, caller, in.ID))
		})
}
