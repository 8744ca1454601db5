package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inspire-studio/studio-api/internal/models"
	appErrors "github.com/inspire-studio/studio-api/pkg/errors"
)

type fakeFeeRates struct {
	rates []models.FeeRate
	err   error
}

func (f *fakeFeeRates) List(context.Context) ([]models.FeeRate, error) {
	return f.rates, f.err
}

func (f *fakeFeeRates) Upsert(_ context.Context, rate *models.FeeRate) error {
	for i, existing := range f.rates {
		if existing.Brand == rate.Brand && existing.TransactionType == rate.TransactionType && existing.InstallmentLabel == rate.InstallmentLabel {
			f.rates[i] = *rate
			return f.err
		}
	}
	f.rates = append(f.rates, *rate)
	return f.err
}

func (f *fakeFeeRates) Delete(_ context.Context, brand, transactionType, installmentLabel string) error {
	kept := f.rates[:0]
	for _, rate := range f.rates {
		if rate.Brand == brand && rate.TransactionType == transactionType && rate.InstallmentLabel == installmentLabel {
			continue
		}
		kept = append(kept, rate)
	}
	f.rates = kept
	return f.err
}

func TestFeeServiceResolve(t *testing.T) {
	rates := &fakeFeeRates{rates: []models.FeeRate{
		{Brand: "Visa", TransactionType: "Crédito", InstallmentLabel: "1x", FeeFraction: 0.0299},
		{Brand: "Visa", TransactionType: "Débito", InstallmentLabel: "N/A", FeeFraction: 0.0199},
		{Brand: "PIX", TransactionType: "N/A", InstallmentLabel: "N/A", FeeFraction: 0},
	}}
	svc := NewFeeService(rates, nil)

	resolved, err := svc.Resolve(context.Background(), "Visa", "Crédito", "1x", 1000.00)
	require.NoError(t, err)
	assert.InDelta(t, 970.10, resolved.Net, 0.001)
	assert.InDelta(t, 29.90, resolved.Fee, 0.001)
	assert.Equal(t, "Visa - Crédito", resolved.Method)

	resolved, err = svc.Resolve(context.Background(), "PIX", "N/A", "N/A", 250.00)
	require.NoError(t, err)
	assert.Equal(t, 250.00, resolved.Net)
	assert.Equal(t, "PIX", resolved.Method)
}

func TestFeeServiceResolveNetNeverExceedsGross(t *testing.T) {
	rates := &fakeFeeRates{rates: []models.FeeRate{
		{Brand: "Master", TransactionType: "Crédito", InstallmentLabel: "12x", FeeFraction: 0.1599},
	}}
	svc := NewFeeService(rates, nil)

	resolved, err := svc.Resolve(context.Background(), "Master", "Crédito", "12x", 480.55)
	require.NoError(t, err)
	assert.LessOrEqual(t, resolved.Net, resolved.Gross)
	assert.InDelta(t, resolved.Gross, resolved.Net+resolved.Fee, 0.001)
}

func TestFeeServiceResolveUnknownCombination(t *testing.T) {
	svc := NewFeeService(&fakeFeeRates{rates: []models.FeeRate{
		{Brand: "Visa", TransactionType: "Crédito", InstallmentLabel: "1x", FeeFraction: 0.0299},
	}}, nil)

	_, err := svc.Resolve(context.Background(), "Visa", "Crédito", "6x", 100)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrRateNotFound.Code, appErr.Code)
}

func TestPaymentMethodLabel(t *testing.T) {
	assert.Equal(t, "Visa - Crédito 6x", PaymentMethodLabel("Visa", "Crédito", "6x"))
	assert.Equal(t, "Visa - Crédito", PaymentMethodLabel("Visa", "Crédito", "1x"))
	assert.Equal(t, "PIX", PaymentMethodLabel("PIX", "N/A", "N/A"))
}

func TestFeeServiceUpsertAndRemove(t *testing.T) {
	rates := &fakeFeeRates{}
	svc := NewFeeService(rates, nil)

	stored, err := svc.Upsert(context.Background(), UpsertFeeRateRequest{
		Brand:            " Elo ",
		TransactionType:  "Crédito",
		InstallmentLabel: "2x",
		FeeFraction:      0.0459,
	})
	require.NoError(t, err)
	assert.Equal(t, "Elo", stored.Brand)

	resolved, err := svc.Resolve(context.Background(), "Elo", "Crédito", "2x", 100)
	require.NoError(t, err)
	assert.InDelta(t, 95.41, resolved.Net, 0.001)

	require.NoError(t, svc.Remove(context.Background(), "Elo", "Crédito", "2x"))
	_, err = svc.Resolve(context.Background(), "Elo", "Crédito", "2x", 100)
	assert.ErrorIs(t, err, appErrors.ErrRateNotFound)
}

func TestFeeServiceUpsertRejectsBlankKey(t *testing.T) {
	svc := NewFeeService(&fakeFeeRates{}, nil)
	_, err := svc.Upsert(context.Background(), UpsertFeeRateRequest{Brand: "Visa"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Upsert(context.Background(), UpsertFeeRateRequest{
		Brand: "Visa", TransactionType: "Crédito", InstallmentLabel: "1x", FeeFraction: 1.5,
	})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}
