package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/inspire-studio/studio-api/internal/models"
)

// FeeRateRepository manages the card fee rate table.
type FeeRateRepository struct {
	db *sqlx.DB
}

// NewFeeRateRepository constructs a FeeRateRepository.
func NewFeeRateRepository(db *sqlx.DB) *FeeRateRepository {
	return &FeeRateRepository{db: db}
}

// List returns every rate row.
func (r *FeeRateRepository) List(ctx context.Context) ([]models.FeeRate, error) {
	const query = `SELECT brand, transaction_type, installment_label, fee_fraction FROM fee_rates ORDER BY brand, transaction_type, installment_label`
	var rates []models.FeeRate
	if err := r.db.SelectContext(ctx, &rates, query); err != nil {
		return nil, fmt.Errorf("list fee rates: %w", err)
	}
	return rates, nil
}

// Upsert inserts or replaces one rate row.
func (r *FeeRateRepository) Upsert(ctx context.Context, rate *models.FeeRate) error {
	const query = `INSERT INTO fee_rates (brand, transaction_type, installment_label, fee_fraction)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (brand, transaction_type, installment_label)
        DO UPDATE SET fee_fraction = EXCLUDED.fee_fraction`
	if _, err := r.db.ExecContext(ctx, query,
		rate.Brand, rate.TransactionType, rate.InstallmentLabel, rate.FeeFraction,
	); err != nil {
		return fmt.Errorf("upsert fee rate: %w", err)
	}
	return nil
}

// Delete removes one rate row.
func (r *FeeRateRepository) Delete(ctx context.Context, brand, transactionType, installmentLabel string) error {
	const query = `DELETE FROM fee_rates WHERE brand = $1 AND transaction_type = $2 AND installment_label = $3`
	if _, err := r.db.ExecContext(ctx, query, brand, transactionType, installmentLabel); err != nil {
		return fmt.Errorf("delete fee rate: %w", err)
	}
	return nil
}
