package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/inspire-studio/studio-api/internal/models"
)

func TestPaymentRepositoryListByCompetence(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	now := time.Now()
	net := 291.03
	rows := sqlmock.NewRows([]string{
		"id", "enrollment_id", "member_name", "paid_at", "competence_month", "competence_year",
		"gross_amount", "net_amount", "method", "notes", "created_at",
	}).AddRow(int64(1), int64(1), "Ana Souza", now, 3, 2024, 300.0, net, "Visa - Crédito", "", now)

	mock.ExpectQuery(regexp.QuoteMeta("FROM payments WHERE competence_month = $1 AND competence_year = $2 ORDER BY paid_at")).
		WithArgs(3, 2024).
		WillReturnRows(rows)

	payments, err := repo.ListByCompetence(context.Background(), 3, 2024)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	require.NotNil(t, payments[0].NetAmount)
	require.InDelta(t, 291.03, *payments[0].NetAmount, 1e-9)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositoryCreateReturnsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO payments")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	payment := &models.Payment{
		EnrollmentID:    1,
		MemberName:      "Ana Souza",
		PaidAt:          time.Now(),
		CompetenceMonth: 3,
		CompetenceYear:  2024,
		GrossAmount:     300,
		Method:          "Pix",
	}
	require.NoError(t, repo.Create(context.Background(), payment))
	require.Equal(t, int64(3), payment.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
