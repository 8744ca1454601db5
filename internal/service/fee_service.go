package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/inspire-studio/studio-api/internal/models"
	appErrors "github.com/inspire-studio/studio-api/pkg/errors"
	"github.com/inspire-studio/studio-api/pkg/money"
)

type feeRateReader interface {
	List(ctx context.Context) ([]models.FeeRate, error)
}

type feeRateStore interface {
	feeRateReader
	Upsert(ctx context.Context, rate *models.FeeRate) error
	Delete(ctx context.Context, brand, transactionType, installmentLabel string) error
}

// FeeService resolves card processing fees and derives net amounts. It also
// maintains the rate table itself.
type FeeService struct {
	rates  feeRateStore
	logger *zap.Logger
}

// NewFeeService constructs a FeeService.
func NewFeeService(rates feeRateStore, logger *zap.Logger) *FeeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeeService{rates: rates, logger: logger}
}

// ResolvedFee is the outcome of a rate-table lookup.
type ResolvedFee struct {
	Rate   models.FeeRate `json:"rate"`
	Gross  float64        `json:"gross"`
	Fee    float64        `json:"fee"`
	Net    float64        `json:"net"`
	Method string         `json:"method"`
}

// Resolve looks up the exact (brand, type, installment label) row and derives
// the net amount from the gross. There is no fuzzy matching and no default
// rate: an unknown combination is a blocking error, because defaulting a fee
// misstates real money.
func (s *FeeService) Resolve(ctx context.Context, brand, txType, installments string, gross float64) (*ResolvedFee, error) {
	rates, err := s.rates.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load fee rates")
	}

	brand = strings.TrimSpace(brand)
	txType = strings.TrimSpace(txType)
	installments = strings.TrimSpace(installments)

	for _, rate := range rates {
		if rate.Brand == brand && rate.TransactionType == txType && rate.InstallmentLabel == installments {
			fee := money.Round(gross * rate.FeeFraction)
			return &ResolvedFee{
				Rate:   rate,
				Gross:  gross,
				Fee:    fee,
				Net:    money.Round(gross - fee),
				Method: PaymentMethodLabel(brand, txType, installments),
			}, nil
		}
	}

	return nil, appErrors.Clone(appErrors.ErrRateNotFound,
		fmt.Sprintf("no fee rate for %s / %s / %s", brand, txType, installments))
}

// PaymentMethodLabel composes the descriptor stored on payments, dropping
// the placeholder parts ("N/A", single installment).
func PaymentMethodLabel(brand, txType, installments string) string {
	label := brand
	if txType != "" && txType != "N/A" {
		label += " - " + txType
	}
	if installments != "" && installments != "N/A" && installments != "1x" {
		label += " " + installments
	}
	return label
}

// UpsertFeeRateRequest creates or replaces one row of the rate table.
type UpsertFeeRateRequest struct {
	Brand            string  `json:"brand"`
	TransactionType  string  `json:"transaction_type"`
	InstallmentLabel string  `json:"installment_label"`
	FeeFraction      float64 `json:"fee_fraction"`
}

// Rates returns the full rate table.
func (s *FeeService) Rates(ctx context.Context) ([]models.FeeRate, error) {
	rates, err := s.rates.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load fee rates")
	}
	return rates, nil
}

// Upsert inserts or replaces a rate table row.
func (s *FeeService) Upsert(ctx context.Context, req UpsertFeeRateRequest) (*models.FeeRate, error) {
	if strings.TrimSpace(req.Brand) == "" || strings.TrimSpace(req.TransactionType) == "" || strings.TrimSpace(req.InstallmentLabel) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "brand, transaction_type and installment_label are required")
	}
	if req.FeeFraction < 0 || req.FeeFraction > 1 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "fee_fraction must be between 0 and 1")
	}
	rate := &models.FeeRate{
		Brand:            strings.TrimSpace(req.Brand),
		TransactionType:  strings.TrimSpace(req.TransactionType),
		InstallmentLabel: strings.TrimSpace(req.InstallmentLabel),
		FeeFraction:      req.FeeFraction,
	}
	if err := s.rates.Upsert(ctx, rate); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store fee rate")
	}
	s.logger.Info("fee rate stored",
		zap.String("brand", rate.Brand),
		zap.String("type", rate.TransactionType),
		zap.String("installments", rate.InstallmentLabel),
		zap.Float64("fraction", rate.FeeFraction))
	return rate, nil
}

// Remove deletes one rate table row.
func (s *FeeService) Remove(ctx context.Context, brand, transactionType, installmentLabel string) error {
	if err := s.rates.Delete(ctx, strings.TrimSpace(brand), strings.TrimSpace(transactionType), strings.TrimSpace(installmentLabel)); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete fee rate")
	}
	return nil
}
