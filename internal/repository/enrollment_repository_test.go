package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/inspire-studio/studio-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func enrollmentRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "full_name", "email", "phone", "birth_date", "plan_name", "cycle_start",
		"first_enrolled_at", "status", "discount_percent", "discount_reason",
		"freeze_started_at", "notes", "created_at", "updated_at",
	}).AddRow(
		int64(1), "Ana Souza", "ana@example.com", "", nil, "Mensal", now,
		now, models.EnrollmentStatusActive, 0.0, "", nil, "", now, now,
	)
}

func TestEnrollmentRepositoryListByStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM enrollments e WHERE e.status = $1 ORDER BY e.full_name")).
		WithArgs(models.EnrollmentStatusActive).
		WillReturnRows(enrollmentRows())

	enrollments, err := repo.ListByStatus(context.Background(), models.EnrollmentStatusActive)
	require.NoError(t, err)
	require.Len(t, enrollments, 1)
	require.Equal(t, "Ana Souza", enrollments[0].FullName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM enrollments e WHERE e.id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(enrollmentRows())

	enrollment, err := repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), enrollment.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCreateReturnsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO enrollments")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	enrollment := &models.Enrollment{
		FullName:        "Bruno Lima",
		PlanName:        "Mensal",
		CycleStart:      time.Now(),
		FirstEnrolledAt: time.Now(),
		Status:          models.EnrollmentStatusActive,
	}
	require.NoError(t, repo.Create(context.Background(), enrollment))
	require.Equal(t, int64(7), enrollment.ID)
	require.False(t, enrollment.UpdatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE enrollments SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	enrollment := &models.Enrollment{ID: 1, FullName: "Ana Souza", PlanName: "Mensal", Status: models.EnrollmentStatusFrozen}
	require.NoError(t, repo.Update(context.Background(), enrollment))
	require.NoError(t, mock.ExpectationsWereMet())
}
