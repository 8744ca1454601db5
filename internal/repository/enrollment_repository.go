package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/inspire-studio/studio-api/internal/models"
)

// EnrollmentRepository manages persistence for member enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs an EnrollmentRepository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

const enrollmentColumns = `e.id, e.full_name, e.email, e.phone, e.birth_date, e.plan_name, e.cycle_start, e.first_enrolled_at, e.status, e.discount_percent, e.discount_reason, e.freeze_started_at, e.notes, e.created_at, e.updated_at`

// List returns enrollments joined with their plan, filtered and paginated.
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error) {
	base := "FROM enrollments e JOIN plans p ON p.name = e.plan_name"
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("e.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.PlanName != "" {
		conditions = append(conditions, fmt.Sprintf("e.plan_name = $%d", len(args)+1))
		args = append(args, filter.PlanName)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(e.full_name) LIKE $%d OR LOWER(e.email) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	allowedSorts := map[string]string{
		"full_name":   "e.full_name",
		"cycle_start": "e.cycle_start",
		"created_at":  "e.created_at",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "e.full_name"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s, p.monthly_price, p.duration_months %s ORDER BY %s %s LIMIT %d OFFSET %d`,
		enrollmentColumns, base, column, order, size, offset)

	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list enrollments: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count enrollments: %w", err)
	}
	return enrollments, total, nil
}

// ListByStatus returns every enrollment in the given status.
func (r *EnrollmentRepository) ListByStatus(ctx context.Context, status models.EnrollmentStatus) ([]models.Enrollment, error) {
	query := fmt.Sprintf(`SELECT %s FROM enrollments e WHERE e.status = $1 ORDER BY e.full_name`, enrollmentColumns)
	var enrollments []models.Enrollment
	if err := r.db.SelectContext(ctx, &enrollments, query, status); err != nil {
		return nil, fmt.Errorf("list enrollments by status: %w", err)
	}
	return enrollments, nil
}

// FindByID fetches one enrollment.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	query := fmt.Sprintf(`SELECT %s FROM enrollments e WHERE e.id = $1`, enrollmentColumns)
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// FindDetailByID fetches one enrollment with its plan attributes.
func (r *EnrollmentRepository) FindDetailByID(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	query := fmt.Sprintf(`SELECT %s, p.monthly_price, p.duration_months FROM enrollments e JOIN plans p ON p.name = e.plan_name WHERE e.id = $1`, enrollmentColumns)
	var detail models.EnrollmentDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create inserts an enrollment and backfills the generated ID.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	now := time.Now().UTC()
	if enrollment.CreatedAt.IsZero() {
		enrollment.CreatedAt = now
	}
	enrollment.UpdatedAt = now
	const query = `INSERT INTO enrollments (full_name, email, phone, birth_date, plan_name, cycle_start, first_enrolled_at, status, discount_percent, discount_reason, freeze_started_at, notes, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		enrollment.FullName, enrollment.Email, enrollment.Phone, enrollment.BirthDate,
		enrollment.PlanName, enrollment.CycleStart, enrollment.FirstEnrolledAt, enrollment.Status,
		enrollment.DiscountPercent, enrollment.DiscountReason, enrollment.FreezeStartedAt,
		enrollment.Notes, enrollment.CreatedAt, enrollment.UpdatedAt,
	).Scan(&enrollment.ID); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// Update persists all mutable enrollment fields.
func (r *EnrollmentRepository) Update(ctx context.Context, enrollment *models.Enrollment) error {
	enrollment.UpdatedAt = time.Now().UTC()
	const query = `UPDATE enrollments SET full_name = $2, email = $3, phone = $4, birth_date = $5, plan_name = $6, cycle_start = $7, status = $8, discount_percent = $9, discount_reason = $10, freeze_started_at = $11, notes = $12, updated_at = $13 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query,
		enrollment.ID, enrollment.FullName, enrollment.Email, enrollment.Phone, enrollment.BirthDate,
		enrollment.PlanName, enrollment.CycleStart, enrollment.Status,
		enrollment.DiscountPercent, enrollment.DiscountReason, enrollment.FreezeStartedAt,
		enrollment.Notes, enrollment.UpdatedAt,
	); err != nil {
		return fmt.Errorf("update enrollment: %w", err)
	}
	return nil
}
