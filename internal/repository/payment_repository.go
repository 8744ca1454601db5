package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/inspire-studio/studio-api/internal/models"
)

// PaymentRepository manages persistence for member payments.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs a PaymentRepository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `id, enrollment_id, member_name, paid_at, competence_month, competence_year, gross_amount, net_amount, method, notes, created_at`

// Create inserts a payment and backfills the generated ID.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO payments (enrollment_id, member_name, paid_at, competence_month, competence_year, gross_amount, net_amount, method, notes, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		payment.EnrollmentID, payment.MemberName, payment.PaidAt,
		payment.CompetenceMonth, payment.CompetenceYear,
		payment.GrossAmount, payment.NetAmount, payment.Method, payment.Notes, payment.CreatedAt,
	).Scan(&payment.ID); err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// ListByCompetence returns the payments attributed to one month.
func (r *PaymentRepository) ListByCompetence(ctx context.Context, month, year int) ([]models.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE competence_month = $1 AND competence_year = $2 ORDER BY paid_at`, paymentColumns)
	var payments []models.Payment
	if err := r.db.SelectContext(ctx, &payments, query, month, year); err != nil {
		return nil, fmt.Errorf("list payments by competence: %w", err)
	}
	return payments, nil
}

// ListByEnrollment returns one member's payments, newest first.
func (r *PaymentRepository) ListByEnrollment(ctx context.Context, enrollmentID int64) ([]models.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE enrollment_id = $1 ORDER BY paid_at DESC`, paymentColumns)
	var payments []models.Payment
	if err := r.db.SelectContext(ctx, &payments, query, enrollmentID); err != nil {
		return nil, fmt.Errorf("list payments by enrollment: %w", err)
	}
	return payments, nil
}
