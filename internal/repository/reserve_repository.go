package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/inspire-studio/studio-api/internal/models"
)

// ReserveRepository manages the opportunity reserve ledger.
type ReserveRepository struct {
	db *sqlx.DB
}

// NewReserveRepository constructs a ReserveRepository.
func NewReserveRepository(db *sqlx.DB) *ReserveRepository {
	return &ReserveRepository{db: db}
}

// Create appends one movement and backfills the generated ID.
func (r *ReserveRepository) Create(ctx context.Context, movement *models.ReserveMovement) error {
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO reserve_movements (date, type, product, amount, description, created_at)
        VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		movement.Date, movement.Type, movement.Product,
		movement.Amount, movement.Description, movement.CreatedAt,
	).Scan(&movement.ID); err != nil {
		return fmt.Errorf("create reserve movement: %w", err)
	}
	return nil
}

// List returns every movement, oldest first.
func (r *ReserveRepository) List(ctx context.Context) ([]models.ReserveMovement, error) {
	const query = `SELECT id, date, type, product, amount, description, created_at FROM reserve_movements ORDER BY date, id`
	var movements []models.ReserveMovement
	if err := r.db.SelectContext(ctx, &movements, query); err != nil {
		return nil, fmt.Errorf("list reserve movements: %w", err)
	}
	return movements, nil
}
