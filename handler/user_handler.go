package api

import (
	"context"

	"github.com/dlfdnd96/kidari-teacher-sub001/auth"
	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
	"github.com/dlfdnd96/kidari-teacher-sub001/rpc"
	"github.com/dlfdnd96/kidari-teacher-sub001/user"
)

type UserHandler struct {
	users    user.Service
	profiles user.ProfileService
}

func NewUserHandler(users user.Service, profiles user.ProfileService) *UserHandler {
	return &UserHandler{users: users, profiles: profiles}
}

// Register adds the user.* and userProfile.* procedures.
func (h *UserHandler) Register(s *rpc.Server) {
	rpc.Register(s, "user.getCurrentUser", rpc.KindQuery, rpc.Protected,
		func(ctx context.Context, caller *auth.Session, _ struct{}) (*entity.User, error) {
			return h.users.GetCurrentUser(ctx, caller)
		})
	rpc.Register(s, "user.updateProfile", rpc.KindMutation, rpc.Protected,
		func(ctx context.Context, caller *auth.Session, in user.UpdateProfileRequest) (*entity.User, error) {
			return h.users.UpdateProfile(ctx, caller, in)
		})
	rpc.Register(s, "user.deleteAccount", rpc.KindMutation, rpc.Protected,
		func(ctx context.Context, caller *auth.Session, in user.DeleteAccountRequest) (done, error) {
			return finish(h.users.DeleteAccount(ctx, caller, in))
		})

	rpc.Register(s, "userProfile.get", rpc.KindQuery, rpc.Protected,
		func(ctx context.Context, caller *auth.Session, _ struct{}) (*entity.UserProfile, error) {
			return h.profiles.Get(ctx, caller)
		})
	rpc.Register(s, "userProfile.getProfileStats", rpc.KindQuery, rpc.Protected,
		func(ctx context.Context, caller *auth.Session, _ struct{}) (*user.ProfileStats, error) {
			return h.profiles.Stats(ctx, caller)
		})
	rpc.Register(s, "userProfile.initialize", rpc.KindMutation, rpc.Protected,
		func(ctx context.Context, caller *auth.Session, in user.InitializeProfileRequest) (*entity.UserProfile, error) {
			return h.profiles.Initialize(ctx, caller, in)
		})
	rpc.Register(s, "userProfile.create", rpc.KindMutation, rpc.Protected,
		func(ctx context.Context, caller *auth.Session, in user.ProfileInput) (*entity.UserProfile, error) {
			return h.profiles.Create(ctx, caller, in)
		})
	rpc.Register(s, "userProfile.update", rpc.KindMutation, rpc.Protected,
		func(ctx context.Context, caller *auth.Session, in user.UpdateUserProfileRequest) (*entity.UserProfile, error) {
			return h.profiles.Update(ctx, caller, in)
		})
}
