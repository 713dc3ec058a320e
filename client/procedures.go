package client

import (
	"context"

	"github.com/google/uuid"

	"github.com/dlfdnd96/kidari-teacher-sub001/activity"
	"github.com/dlfdnd96/kidari-teacher-sub001/application"
	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
	"github.com/dlfdnd96/kidari-teacher-sub001/notice"
	"github.com/dlfdnd96/kidari-teacher-sub001/user"
)

const invalidateAll = "*"

var (
	noticeQueries      = []string{"notice.list", "notice.get"}
	activityQueries    = []string{"volunteerActivity.list", "volunteerActivity.get"}
	applicationQueries = []string{"application.list", "application.get", "application.getMine", "volunteerActivity.list", "volunteerActivity.get", "userProfile.getProfileStats"}
	profileQueries     = []string{"userProfile.get", "userProfile.getProfileStats", "user.getCurrentUser"}
)

// invalidates lists, per mutation, the query paths it makes stale.
var invalidates = map[string][]string{
	"notice.create": noticeQueries,
	"notice.update": noticeQueries,
	"notice.delete": noticeQueries,

	"volunteerActivity.create": activityQueries,
	"volunteerActivity.update": append([]string{"application.getMine"}, activityQueries...),
	"volunteerActivity.delete": append([]string{"application.list", "application.getMine"}, activityQueries...),

	"application.create":       applicationQueries,
	"application.delete":       applicationQueries,
	"application.updateStatus": applicationQueries,

	"user.updateProfile": {"user.getCurrentUser"},
	"user.deleteAccount": {invalidateAll},

	"userProfile.initialize": profileQueries,
	"userProfile.create":     profileQueries,
	"userProfile.update":     profileQueries,
}

// Invalidates returns the query paths a mutation invalidates.
func Invalidates(mutation string) []string {
	return append([]string(nil), invalidates[mutation]...)
}

type idInput struct {
	ID uuid.UUID `json:"id"`
}

type success struct {
	Success bool `json:"success"`
}

func query[T any](ctx context.Context, c *Client, path string, input any) (*T, error) {
	var out T
	if err := c.Query(ctx, path, input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func mutate[T any](ctx context.Context, c *Client, path string, input any) (*T, error) {
	var out T
	if err := c.Mutate(ctx, path, input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListNotices(ctx context.Context, req notice.ListRequest) (*notice.ListResult, error) {
	return query[notice.ListResult](ctx, c, "notice.list", req)
}

func (c *Client) GetNotice(ctx context.Context, id uuid.UUID) (*entity.Notice, error) {
	return query[entity.Notice](ctx, c, "notice.get", idInput{ID: id})
}

func (c *Client) CreateNotice(ctx context.Context, req notice.CreateRequest) (*entity.Notice, error) {
	return mutate[entity.Notice](ctx, c, "notice.create", req)
}

func (c *Client) UpdateNotice(ctx context.Context, req notice.UpdateRequest) (*entity.Notice, error) {
	return mutate[entity.Notice](ctx, c, "notice.update", req)
}

func (c *Client) DeleteNotice(ctx context.Context, id uuid.UUID) error {
	_, err := mutate[success](ctx, c, "notice.delete", idInput{ID: id})
	return err
}

func (c *Client) GetActivity(ctx context.Context, id uuid.UUID) (*entity.VolunteerActivity, error) {
	return query[entity.VolunteerActivity](ctx, c, "volunteerActivity.get", idInput{ID: id})
}

func (c *Client) ListActivities(ctx context.Context, req activity.ListRequest) (*activity.ListResult, error) {
	return query[activity.ListResult](ctx, c, "volunteerActivity.list", req)
}

func (c *Client) CreateActivity(ctx context.Context, req activity.CreateRequest) (*entity.VolunteerActivity, error) {
	return mutate[entity.VolunteerActivity](ctx, c, "volunteerActivity.create", req)
}

func (c *Client) UpdateActivity(ctx context.Context, req activity.UpdateRequest) (*entity.VolunteerActivity, error) {
	return mutate[entity.VolunteerActivity](ctx, c, "volunteerActivity.update", req)
}

func (c *Client) DeleteActivity(ctx context.Context, id uuid.UUID) error {
	_, err := mutate[success](ctx, c, "volunteerActivity.delete", idInput{ID: id})
	return err
}

func (c *Client) GetApplication(ctx context.Context, id uuid.UUID) (*entity.Application, error) {
	return query[entity.Application](ctx, c, "application.get", idInput{ID: id})
}

func (c *Client) ListApplications(ctx context.Context, req application.ListRequest) (*application.ListResult, error) {
	return query[application.ListResult](ctx, c, "application.list", req)
}

func (c *Client) MyApplications(ctx context.Context, req application.ListRequest) (*application.ListResult, error) {
	return query[application.ListResult](ctx, c, "application.getMine", req)
}

func (c *Client) Apply(ctx context.Context, req application.CreateRequest) (*entity.Application, error) {
	return mutate[entity.Application](ctx, c, "application.create", req)
}

func (c *Client) UpdateApplicationStatus(ctx context.Context, req application.UpdateStatusRequest) (*application.UpdateStatusResult, error) {
	return mutate[application.UpdateStatusResult](ctx, c, "application.updateStatus", req)
}

func (c *Client) CancelApplication(ctx context.Context, id uuid.UUID) error {
	_, err := mutate[success](ctx, c, "application.delete", idInput{ID: id})
	return err
}

func (c *Client) CurrentUser(ctx context.Context) (*entity.User, error) {
	return query[entity.User](ctx, c, "user.getCurrentUser", struct{}{})
}

func (c *Client) UpdateUser(ctx context.Context, req user.UpdateProfileRequest) (*entity.User, error) {
	return mutate[entity.User](ctx, c, "user.updateProfile", req)
}

func (c *Client) DeleteAccount(ctx context.Context, req user.DeleteAccountRequest) error {
	_, err := mutate[success](ctx, c, "user.deleteAccount", req)
	return err
}

// Profile returns nil when the user has not created a profile yet.
func (c *Client) Profile(ctx context.Context) (*entity.UserProfile, error) {
	var out *entity.UserProfile
	if err := c.Query(ctx, "userProfile.get", struct{}{}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ProfileStats(ctx context.Context) (*user.ProfileStats, error) {
	return query[user.ProfileStats](ctx, c, "userProfile.getProfileStats", struct{}{})
}

func (c *Client) InitializeProfile(ctx context.Context, req user.InitializeProfileRequest) (*entity.UserProfile, error) {
	return mutate[entity.UserProfile](ctx, c, "userProfile.initialize", req)
}

func (c *Client) CreateProfile(ctx context.Context, req user.ProfileInput) (*entity.UserProfile, error) {
	return mutate[entity.UserProfile](ctx, c, "userProfile.create", req)
}

func (c *Client) UpdateProfile(ctx context.Context, req user.UpdateUserProfileRequest) (*entity.UserProfile, error) {
	return mutate[entity.UserProfile](ctx, c, "userProfile.update", req)
}
