package query

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type scopeRow struct {
	ID        int
	Title     string
	Status    string
	CreatedAt time.Time
	DeletedAt gorm.DeletedAt
}

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{DryRun: true})
	require.NoError(t, err)
	return db
}

func TestSpecScopeSQL(t *testing.T) {
	db := dryRunDB(t)
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	spec := Build(nil, Filter{
		"title":      Search("50%_off"),
		"status":     []string{"WAITING", "SELECTED"},
		"created_at": DateRange{From: &from, To: &to},
	}, Pageable{Offset: intp(5), Limit: intp(10), Sort: Sort{{Field: "created_at", Direction: Desc}}})

	stmt := db.Model(&scopeRow{}).Scopes(spec.Scope()).Find(&[]scopeRow{}).Statement
	sql := stmt.SQL.String()

	assert.Contains(t, sql, `"created_at" BETWEEN`)
	assert.Contains(t, sql, `"status" IN`)
	assert.Contains(t, sql, `"title" ILIKE`)
	assert.Contains(t, sql, `"scope_rows"."deleted_at" IS NULL`)
	assert.Contains(t, sql, `ORDER BY "created_at" DESC`)
	assert.Contains(t, sql, "LIMIT")
	assert.Contains(t, sql, "OFFSET")
	assert.Contains(t, stmt.Vars, `%50\%\_off%`)
}

func TestUUIDFilterIsEquality(t *testing.T) {
	db := dryRunDB(t)
	id := uuid.New()

	stmt := db.Model(&scopeRow{}).Scopes(Build(nil, Filter{"user_id": id}, Pageable{}).Scope()).Find(&[]scopeRow{}).Statement
	sql := stmt.SQL.String()

	assert.Contains(t, sql, `"user_id" = $1`)
	assert.NotContains(t, sql, "IN (")
	assert.Equal(t, []any{id}, stmt.Vars)
}

func TestCountScopeHasNoPagination(t *testing.T) {
	db := dryRunDB(t)
	spec := Build(Filter{"status": "WAITING"}, nil, Pageable{Offset: intp(5), Limit: intp(10), Sort: Sort{{Field: "title", Direction: Asc}}})

	var n int64
	stmt := db.Model(&scopeRow{}).Scopes(spec.CountScope()).Count(&n).Statement
	sql := stmt.SQL.String()

	assert.Contains(t, sql, "count(*)")
	assert.Contains(t, sql, `"status" =`)
	assert.NotContains(t, sql, "LIMIT")
	assert.NotContains(t, sql, "ORDER BY")
}

func TestNilEqualityIsNullCheck(t *testing.T) {
	db := dryRunDB(t)
	spec := Build(Filter{"organization": nil}, nil, Pageable{})

	stmt := db.Model(&scopeRow{}).Scopes(spec.Scope()).Find(&[]scopeRow{}).Statement
	assert.Contains(t, stmt.SQL.String(), `"organization" IS NULL`)
}
