package service

import (
	"context"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dlfdnd96/kidari-teacher-sub001/apperror"
	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
	userpkg "github.com/dlfdnd96/kidari-teacher-sub001/user"
)

func TestProfileCreatedAtMostOnce(t *testing.T) {
	repo := newMemRepo()
	svc := NewProfileService(repo, quietLog())
	me := repo.addUser("me@example.com")
	in := userpkg.ProfileInput{Phone: "010-1234-5678", Professions: []entity.Profession{entity.ProfessionNurse}}

	p, err := svc.Create(context.Background(), me, in)
	require.NoError(t, err)
	assert.Equal(t, pq.StringArray{"NURSE"}, p.Professions)

	_, err = svc.Create(context.Background(), me, in)
	assert.True(t, apperror.Is(err, apperror.CodeConflict))
	_, err = svc.Initialize(context.Background(), me, userpkg.InitializeProfileRequest{ProfileInput: in})
	assert.True(t, apperror.Is(err, apperror.CodeConflict))
}

func TestInitializeSetsName(t *testing.T) {
	repo := newMemRepo()
	svc := NewProfileService(repo, quietLog())
	me := repo.addUser("me@example.com")
	name := " 김봉사 "

	_, err := svc.Initialize(context.Background(), me, userpkg.InitializeProfileRequest{
		ProfileInput: userpkg.ProfileInput{Phone: "01012345678"},
		Name:         &name,
	})
	require.NoError(t, err)
	assert.Equal(t, "김봉사", repo.users[me.UserID].Name)
}

func TestUpdateProfileRequiresExisting(t *testing.T) {
	repo := newMemRepo()
	svc := NewProfileService(repo, quietLog())
	me := repo.addUser("me@example.com")
	phone := "010-9999-8888"

	_, err := svc.Update(context.Background(), me, userpkg.UpdateUserProfileRequest{Phone: &phone})
	assert.True(t, apperror.Is(err, apperror.CodeNotFound))

	_, err = svc.Create(context.Background(), me, userpkg.ProfileInput{Phone: "010-1234-5678"})
	require.NoError(t, err)
	p, err := svc.Update(context.Background(), me, userpkg.UpdateUserProfileRequest{Phone: &phone, Professions: []entity.Profession{}})
	require.NoError(t, err)
	assert.Equal(t, phone, p.Phone)
	assert.Empty(t, p.Professions)
}

func TestProfileStats(t *testing.T) {
	repo := newMemRepo()
	svc := NewProfileService(repo, quietLog())
	me := repo.addUser("me@example.com")
	repo.apps = append(repo.apps,
		&commitment{userID: me.UserID, status: entity.ApplicationWaiting, activityStatus: entity.ActivityRecruiting},
		&commitment{userID: me.UserID, status: entity.ApplicationSelected, activityStatus: entity.ActivityCompleted},
		&commitment{userID: me.UserID, status: entity.ApplicationSelected, activityStatus: entity.ActivityInProgress},
		&commitment{userID: me.UserID, status: entity.ApplicationWaiting, activityStatus: entity.ActivityRecruiting, deleted: true},
	)

	stats, err := svc.Stats(context.Background(), me)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.TotalApplications)
	assert.EqualValues(t, 2, stats.SelectedApplications)
	assert.EqualValues(t, 1, stats.CompletedActivities)
	assert.Equal(t, repo.users[me.UserID].CreatedAt, stats.MemberSince)
}
