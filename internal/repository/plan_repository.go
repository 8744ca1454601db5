package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/inspire-studio/studio-api/internal/models"
)

// PlanRepository manages persistence for membership plans.
type PlanRepository struct {
	db *sqlx.DB
}

// NewPlanRepository constructs a PlanRepository.
func NewPlanRepository(db *sqlx.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// List returns all plans ordered by name.
func (r *PlanRepository) List(ctx context.Context) ([]models.Plan, error) {
	const query = `SELECT name, monthly_price, duration_months, created_at FROM plans ORDER BY name`
	var plans []models.Plan
	if err := r.db.SelectContext(ctx, &plans, query); err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}

// FindByName fetches one plan.
func (r *PlanRepository) FindByName(ctx context.Context, name string) (*models.Plan, error) {
	const query = `SELECT name, monthly_price, duration_months, created_at FROM plans WHERE name = $1`
	var plan models.Plan
	if err := r.db.GetContext(ctx, &plan, query, name); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Create inserts a plan.
func (r *PlanRepository) Create(ctx context.Context, plan *models.Plan) error {
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO plans (name, monthly_price, duration_months, created_at) VALUES (:name, :monthly_price, :duration_months, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, plan); err != nil {
		return fmt.Errorf("create plan: %w", err)
	}
	return nil
}

// Delete removes a plan by name.
func (r *PlanRepository) Delete(ctx context.Context, name string) error {
	const query = `DELETE FROM plans WHERE name = $1`
	if _, err := r.db.ExecContext(ctx, query, name); err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return nil
}

// InUse reports whether any enrollment references the plan.
func (r *PlanRepository) InUse(ctx context.Context, name string) (bool, error) {
	const query = `SELECT COUNT(*) FROM enrollments WHERE plan_name = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, name); err != nil {
		return false, fmt.Errorf("count plan usage: %w", err)
	}
	return count > 0, nil
}
