package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/inspire-studio/studio-api/internal/models"
)

// ExpenseRepository manages persistence for accounts payable.
type ExpenseRepository struct {
	db *sqlx.DB
}

// NewExpenseRepository constructs an ExpenseRepository.
func NewExpenseRepository(db *sqlx.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

const expenseColumns = `id, description, amount_billed, competence_month, competence_year, category, status, amount_paid, paid_at, method, recurring, due_date, created_at`

// Create inserts an expense row and backfills the generated ID.
func (r *ExpenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO expenses (description, amount_billed, competence_month, competence_year, category, status, amount_paid, paid_at, method, recurring, due_date, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		expense.Description, expense.AmountBilled, expense.CompetenceMonth, expense.CompetenceYear,
		expense.Category, expense.Status, expense.AmountPaid, expense.PaidAt,
		expense.Method, expense.Recurring, expense.DueDate, expense.CreatedAt,
	).Scan(&expense.ID); err != nil {
		return fmt.Errorf("create expense: %w", err)
	}
	return nil
}

// FindByID fetches one expense.
func (r *ExpenseRepository) FindByID(ctx context.Context, id int64) (*models.Expense, error) {
	query := fmt.Sprintf(`SELECT %s FROM expenses WHERE id = $1`, expenseColumns)
	var expense models.Expense
	if err := r.db.GetContext(ctx, &expense, query, id); err != nil {
		return nil, err
	}
	return &expense, nil
}

// Update persists settlement changes.
func (r *ExpenseRepository) Update(ctx context.Context, expense *models.Expense) error {
	const query = `UPDATE expenses SET status = $2, amount_paid = $3, paid_at = $4, method = $5 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query,
		expense.ID, expense.Status, expense.AmountPaid, expense.PaidAt, expense.Method,
	); err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return nil
}

// List returns expenses matching the filter, ordered by competence.
func (r *ExpenseRepository) List(ctx context.Context, filter models.ExpenseFilter) ([]models.Expense, error) {
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.CompetenceMonth > 0 {
		conditions = append(conditions, fmt.Sprintf("competence_month = $%d", len(args)+1))
		args = append(args, filter.CompetenceMonth)
	}
	if filter.CompetenceYear > 0 {
		conditions = append(conditions, fmt.Sprintf("competence_year = $%d", len(args)+1))
		args = append(args, filter.CompetenceYear)
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, 0, len(filter.Statuses))
		for _, status := range filter.Statuses {
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)+1))
			args = append(args, status)
		}
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ", ")))
	}

	query := fmt.Sprintf(`SELECT %s FROM expenses WHERE %s ORDER BY competence_year, competence_month, description`,
		expenseColumns, strings.Join(conditions, " AND "))
	var expenses []models.Expense
	if err := r.db.SelectContext(ctx, &expenses, query, args...); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

// ListByCompetence returns the expenses provisioned for one month.
func (r *ExpenseRepository) ListByCompetence(ctx context.Context, month, year int) ([]models.Expense, error) {
	query := fmt.Sprintf(`SELECT %s FROM expenses WHERE competence_month = $1 AND competence_year = $2 ORDER BY description`, expenseColumns)
	var expenses []models.Expense
	if err := r.db.SelectContext(ctx, &expenses, query, month, year); err != nil {
		return nil, fmt.Errorf("list expenses by competence: %w", err)
	}
	return expenses, nil
}

// MonthlyFixedAverage returns the average monthly total of fixed expenses
// over the trailing twelve competence months.
func (r *ExpenseRepository) MonthlyFixedAverage(ctx context.Context) (float64, error) {
	const query = `SELECT COALESCE(AVG(monthly_total), 0) FROM (
            SELECT SUM(amount_billed) AS monthly_total
            FROM expenses
            WHERE category = $1
            GROUP BY competence_year, competence_month
            ORDER BY competence_year DESC, competence_month DESC
            LIMIT 12
        ) trailing`
	var avg float64
	if err := r.db.GetContext(ctx, &avg, query, models.ExpenseCategoryFixed); err != nil {
		return 0, fmt.Errorf("fixed expense average: %w", err)
	}
	return avg, nil
}
