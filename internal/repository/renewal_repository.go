package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/inspire-studio/studio-api/internal/models"
)

// RenewalRepository manages the append-only contract history.
type RenewalRepository struct {
	db *sqlx.DB
}

// NewRenewalRepository constructs a RenewalRepository.
func NewRenewalRepository(db *sqlx.DB) *RenewalRepository {
	return &RenewalRepository{db: db}
}

// Create appends one contract row. Rows are never updated or deleted.
func (r *RenewalRepository) Create(ctx context.Context, entry *models.RenewalEntry) error {
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now().UTC()
	}
	const query = `INSERT INTO renewal_history (enrollment_id, member_name, plan_name, cycle_start, monthly_value, recorded_at)
        VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		entry.EnrollmentID, entry.MemberName, entry.PlanName,
		entry.CycleStart, entry.MonthlyValue, entry.RecordedAt,
	).Scan(&entry.ID); err != nil {
		return fmt.Errorf("create renewal entry: %w", err)
	}
	return nil
}

// ListByEnrollment returns one member's contract rows, oldest first.
func (r *RenewalRepository) ListByEnrollment(ctx context.Context, enrollmentID int64) ([]models.RenewalEntry, error) {
	const query = `SELECT id, enrollment_id, member_name, plan_name, cycle_start, monthly_value, recorded_at
        FROM renewal_history WHERE enrollment_id = $1 ORDER BY cycle_start`
	var entries []models.RenewalEntry
	if err := r.db.SelectContext(ctx, &entries, query, enrollmentID); err != nil {
		return nil, fmt.Errorf("list renewal entries: %w", err)
	}
	return entries, nil
}

// ListByYear returns the contract rows whose cycle started in the given year.
func (r *RenewalRepository) ListByYear(ctx context.Context, year int) ([]models.RenewalEntry, error) {
	const query = `SELECT id, enrollment_id, member_name, plan_name, cycle_start, monthly_value, recorded_at
        FROM renewal_history WHERE EXTRACT(YEAR FROM cycle_start) = $1 ORDER BY cycle_start`
	var entries []models.RenewalEntry
	if err := r.db.SelectContext(ctx, &entries, query, year); err != nil {
		return nil, fmt.Errorf("list renewal entries by year: %w", err)
	}
	return entries, nil
}
