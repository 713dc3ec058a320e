package repository

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
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

func sqlOf(parts ...string) string {
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = regexp.QuoteMeta(p)
	}
	return strings.Join(quoted, ".*")
}

func TestListFiltersByManager(t *testing.T) {
	db, mock := mockDB(t)
	manager := uuid.New()
	where := `WHERE "manager_id" = $1 AND "volunteer_activities"."deleted_at" IS NULL`
	mock.ExpectQuery(sqlOf(`SELECT * FROM "volunteer_activities" `+where, `ORDER BY "created_at" DESC`)).
		WithArgs(manager.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(sqlOf(`SELECT count(*) FROM "volunteer_activities" ` + where)).
		WithArgs(manager.String()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	spec := query.Build(nil, query.Filter{"manager_id": manager}, query.Pageable{
		Sort: query.Sort{{Field: "created_at", Direction: query.Desc}},
	})
	rows, total, err := NewGormActivityRepo(db).List(context.Background(), spec)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateWritesClearedOptionalColumns(t *testing.T) {
	db, mock := mockDB(t)
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, entity.Seoul)
	a := &entity.VolunteerActivity{
		ID:                  uuid.New(),
		Title:               "의료 봉사",
		Description:         "무료 진료",
		StartAt:             start,
		EndAt:               start.Add(time.Hour),
		Location:            "서울",
		Status:              entity.ActivityRecruiting,
		ApplicationDeadline: start.AddDate(0, 0, -1),
	}
	mock.ExpectBegin()
	mock.ExpectExec(sqlOf(`UPDATE "volunteer_activities" SET`, `"max_participants"=`, `"qualifications"=`, `"materials"=`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, NewGormActivityRepo(db).Update(context.Background(), a))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDeleteActivity(t *testing.T) {
	db, mock := mockDB(t)
	id := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec(sqlOf(`UPDATE "volunteer_activities" SET "deleted_at"=$1 WHERE id = $2 AND "volunteer_activities"."deleted_at" IS NULL`)).
		WithArgs(sqlmock.AnyArg(), id.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, NewGormActivityRepo(db).SoftDelete(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDMissingReturnsNil(t *testing.T) {
	db, mock := mockDB(t)
	mock.ExpectQuery(sqlOf(`SELECT * FROM "volunteer_activities" WHERE id = $1 AND "volunteer_activities"."deleted_at" IS NULL`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	a, err := NewGormActivityRepo(db).GetByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, a)
	assert.NoError(t, mock.ExpectationsWereMet())
}
