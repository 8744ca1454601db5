package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inspire-studio/studio-api/internal/models"
	appErrors "github.com/inspire-studio/studio-api/pkg/errors"
)

type fakePaymentRepo struct {
	created []*models.Payment
}

func (f *fakePaymentRepo) Create(_ context.Context, payment *models.Payment) error {
	payment.ID = int64(len(f.created) + 1)
	f.created = append(f.created, payment)
	return nil
}

func (f *fakePaymentRepo) ListByCompetence(_ context.Context, month, year int) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range f.created {
		if p.CompetenceMonth == month && p.CompetenceYear == year {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) ListByEnrollment(_ context.Context, enrollmentID int64) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range f.created {
		if p.EnrollmentID == enrollmentID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func newPaymentFixture() (*PaymentService, *fakePaymentRepo) {
	repo := &fakePaymentRepo{}
	store := newFakeEnrollmentStore(models.Enrollment{
		ID: 1, FullName: "Ana Souza", PlanName: "Mensal", Status: models.EnrollmentStatusActive,
		CycleStart: date(2024, time.March, 1),
	})
	fees := NewFeeService(&fakeFeeRates{rates: []models.FeeRate{
		{Brand: "Visa", TransactionType: "Crédito", InstallmentLabel: "1x", FeeFraction: 0.0299},
		{Brand: "Pix", TransactionType: "N/A", InstallmentLabel: "N/A", FeeFraction: 0},
	}}, nil)
	svc := NewPaymentService(repo, store, fees, nil, nil)
	svc.now = func() time.Time { return date(2024, time.March, 10) }
	return svc, repo
}

func TestPaymentServiceRecordCardPayment(t *testing.T) {
	svc, repo := newPaymentFixture()

	payment, err := svc.Record(context.Background(), RecordPaymentRequest{
		EnrollmentID:    1,
		CompetenceMonth: 3,
		CompetenceYear:  2024,
		GrossAmount:     1000,
		Brand:           "Visa",
		TransactionType: "Crédito",
		Installments:    "1x",
	})
	require.NoError(t, err)
	require.Len(t, repo.created, 1)

	assert.Equal(t, "Ana Souza", payment.MemberName)
	assert.Equal(t, "Visa - Crédito", payment.Method)
	require.NotNil(t, payment.NetAmount)
	assert.InDelta(t, 970.10, *payment.NetAmount, 1e-9)
	assert.Equal(t, date(2024, time.March, 10), payment.PaidAt)
}

func TestPaymentServiceRecordCashPayment(t *testing.T) {
	svc, _ := newPaymentFixture()

	payment, err := svc.Record(context.Background(), RecordPaymentRequest{
		EnrollmentID:    1,
		CompetenceMonth: 3,
		CompetenceYear:  2024,
		GrossAmount:     150,
		Method:          "Dinheiro",
	})
	require.NoError(t, err)

	assert.Equal(t, "Dinheiro", payment.Method)
	// No processor between the member and the till: net stays unset and
	// reporting falls back to gross.
	assert.Nil(t, payment.NetAmount)
	assert.InDelta(t, 150.0, payment.EffectiveNet(), 1e-9)
}

func TestPaymentServiceRecordUnknownRateBlocks(t *testing.T) {
	svc, repo := newPaymentFixture()

	_, err := svc.Record(context.Background(), RecordPaymentRequest{
		EnrollmentID:    1,
		CompetenceMonth: 3,
		CompetenceYear:  2024,
		GrossAmount:     300,
		Brand:           "Elo",
		TransactionType: "Crédito",
		Installments:    "1x",
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrRateNotFound.Code, appErr.Code)
	assert.Empty(t, repo.created)
}

func TestPaymentServiceRecordUnknownEnrollment(t *testing.T) {
	svc, _ := newPaymentFixture()

	_, err := svc.Record(context.Background(), RecordPaymentRequest{
		EnrollmentID:    99,
		CompetenceMonth: 3,
		CompetenceYear:  2024,
		GrossAmount:     300,
		Method:          "Pix",
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestPaymentServiceRecordRequiresBrandOrMethod(t *testing.T) {
	svc, _ := newPaymentFixture()

	_, err := svc.Record(context.Background(), RecordPaymentRequest{
		EnrollmentID:    1,
		CompetenceMonth: 3,
		CompetenceYear:  2024,
		GrossAmount:     300,
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestPaymentServiceListByCompetenceValidatesMonth(t *testing.T) {
	svc, _ := newPaymentFixture()

	_, err := svc.ListByCompetence(context.Background(), 0, 2024)
	require.Error(t, err)
}
