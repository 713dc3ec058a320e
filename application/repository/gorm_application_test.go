package repository

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/dlfdnd96/kidari-teacher-sub001/query"
)

func mockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

// sqlOf matches statements containing every part, in order.
func sqlOf(parts ...string) string {
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = regexp.QuoteMeta(p)
	}
	return strings.Join(quoted, ".*")
}

func TestLockActivityLocksRowThenLoadsLiveApplications(t *testing.T) {
	db, mock := mockDB(t)
	id := uuid.New()
	mock.ExpectQuery(sqlOf(`SELECT * FROM "volunteer_activities" WHERE id = $1`, `"volunteer_activities"."deleted_at" IS NULL`, `FOR UPDATE`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id.String()))
	mock.ExpectQuery(sqlOf(`SELECT * FROM "applications" WHERE volunteer_activity_id = $1 AND "applications"."deleted_at" IS NULL`)).
		WithArgs(id.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()).AddRow(uuid.NewString()))

	a, err := NewGormApplicationRepo(db).LockActivity(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, id, a.ID)
	assert.Len(t, a.Applications, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockActivityMissingReturnsNil(t *testing.T) {
	db, mock := mockDB(t)
	mock.ExpectQuery(sqlOf(`FROM "volunteer_activities"`, `FOR UPDATE`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	a, err := NewGormApplicationRepo(db).LockActivity(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, a)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListWithActivityJoinsLiveActivitiesAndFiltersByUser(t *testing.T) {
	db, mock := mockDB(t)
	userID := uuid.New()
	where := `WHERE "applications"."user_id" = $1 AND "applications"."deleted_at" IS NULL`
	mock.ExpectQuery(sqlOf(`FROM "applications" `+liveActivityJoin, where)).
		WithArgs(userID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(sqlOf(`SELECT count(*) FROM "applications" `+liveActivityJoin, where)).
		WithArgs(userID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	spec := query.Build(nil, query.Filter{"applications.user_id": userID}, query.Pageable{})
	rows, total, err := NewGormApplicationRepo(db).ListWithActivity(context.Background(), spec)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListFiltersByActivity(t *testing.T) {
	db, mock := mockDB(t)
	activityID := uuid.New()
	mock.ExpectQuery(sqlOf(`SELECT * FROM "applications" WHERE "applications"."volunteer_activity_id" = $1 AND "applications"."deleted_at" IS NULL`)).
		WithArgs(activityID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(sqlOf(`SELECT count(*) FROM "applications" WHERE "applications"."volunteer_activity_id" = $1`)).
		WithArgs(activityID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	spec := query.Build(nil, query.Filter{"applications.volunteer_activity_id": activityID}, query.Pageable{})
	_, _, err := NewGormApplicationRepo(db).List(context.Background(), spec)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDeleteApplication(t *testing.T) {
	db, mock := mockDB(t)
	id := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec(sqlOf(`UPDATE "applications" SET "deleted_at"=$1 WHERE id = $2 AND "applications"."deleted_at" IS NULL`)).
		WithArgs(sqlmock.AnyArg(), id.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, NewGormApplicationRepo(db).SoftDelete(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}
