package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inspire-studio/studio-api/internal/dto"
	"github.com/inspire-studio/studio-api/internal/models"
	appErrors "github.com/inspire-studio/studio-api/pkg/errors"
)

type fakeEnrollments struct {
	items []models.Enrollment
	err   error
}

func (f *fakeEnrollments) ListByStatus(_ context.Context, status models.EnrollmentStatus) ([]models.Enrollment, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Enrollment
	for _, e := range f.items {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakePlans struct {
	items []models.Plan
}

func (f *fakePlans) List(_ context.Context) ([]models.Plan, error) {
	return f.items, nil
}

type fakePayments struct {
	items []models.Payment
}

func (f *fakePayments) ListByCompetence(_ context.Context, month, year int) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range f.items {
		if p.CompetenceMonth == month && p.CompetenceYear == year {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeExpenses struct {
	items []models.Expense
}

func (f *fakeExpenses) ListByCompetence(_ context.Context, month, year int) ([]models.Expense, error) {
	var out []models.Expense
	for _, e := range f.items {
		if e.CompetenceMonth == month && e.CompetenceYear == year {
			out = append(out, e)
		}
	}
	return out, nil
}

func ptr(v float64) *float64 { return &v }

func newFinanceFixture() (*FinanceService, *fakeEnrollments, *fakePayments, *fakeExpenses) {
	enrollments := &fakeEnrollments{items: []models.Enrollment{
		{ID: 1, FullName: "Ana Souza", PlanName: "Mensal", Status: models.EnrollmentStatusActive,
			CycleStart: date(2024, time.March, 1), DiscountPercent: 10, DiscountReason: "indicação"},
		{ID: 2, FullName: "Bruno Lima", PlanName: "Mensal", Status: models.EnrollmentStatusActive,
			CycleStart: date(2024, time.March, 1)},
		{ID: 3, FullName: "Carla Dias", PlanName: "Mensal", Status: models.EnrollmentStatusActive,
			CycleStart: date(2024, time.March, 1)},
		{ID: 4, FullName: "Diego Reis", PlanName: "Mensal", Status: models.EnrollmentStatusCancelled,
			CycleStart: date(2024, time.March, 1)},
	}}
	plans := &fakePlans{items: []models.Plan{
		{Name: "Mensal", MonthlyPrice: 300, DurationMonths: 1},
	}}
	payments := &fakePayments{items: []models.Payment{
		{ID: 10, EnrollmentID: 2, CompetenceMonth: 3, CompetenceYear: 2024, GrossAmount: 300, NetAmount: ptr(291.03)},
		{ID: 11, EnrollmentID: 3, CompetenceMonth: 3, CompetenceYear: 2024, GrossAmount: 150},
	}}
	expenses := &fakeExpenses{items: []models.Expense{
		{ID: 20, Description: "Aluguel", CompetenceMonth: 3, CompetenceYear: 2024, AmountBilled: 200, AmountPaid: 200, Status: models.ExpenseStatusPaid},
		{ID: 21, Description: "Energia", CompetenceMonth: 3, CompetenceYear: 2024, AmountBilled: 80, AmountPaid: 0, Status: models.ExpenseStatusPending},
	}}
	svc := NewFinanceService(FinanceServiceParams{
		Enrollments: enrollments,
		Plans:       plans,
		Payments:    payments,
		Expenses:    expenses,
	})
	return svc, enrollments, payments, expenses
}

func TestFinanceServiceMonthlyReportTotals(t *testing.T) {
	svc, _, _, _ := newFinanceFixture()

	report, cached, err := svc.MonthlyReport(context.Background(), 3, 2024)
	require.NoError(t, err)
	assert.False(t, cached)

	// 270 (10% off) + 300 + 300, cancelled member excluded.
	assert.InDelta(t, 870.0, report.Revenue.Forecast, 1e-9)
	assert.InDelta(t, 450.0, report.Revenue.RealizedGross, 1e-9)
	// 291.03 + 150 (net missing falls back to gross).
	assert.InDelta(t, 441.03, report.Revenue.RealizedNet, 1e-9)
	assert.InDelta(t, 8.97, report.Revenue.FeesPaid, 1e-9)
	// Receivable compares against gross, not net.
	assert.InDelta(t, 420.0, report.Revenue.Receivable, 1e-9)

	assert.InDelta(t, 280.0, report.Expenses.Forecast, 1e-9)
	assert.InDelta(t, 200.0, report.Expenses.Realized, 1e-9)
	assert.InDelta(t, 80.0, report.Expenses.Payable, 1e-9)

	assert.InDelta(t, 241.03, report.Result.CashProfit, 1e-9)
	assert.InDelta(t, 30.0, report.Result.DiscountTotal, 1e-9)
}

func TestFinanceServiceMonthlyReportMemberStatuses(t *testing.T) {
	svc, _, _, _ := newFinanceFixture()

	report, _, err := svc.MonthlyReport(context.Background(), 3, 2024)
	require.NoError(t, err)
	require.Len(t, report.MemberStatuses, 3)

	byName := make(map[string]dto.MemberPaymentStatus, len(report.MemberStatuses))
	for _, row := range report.MemberStatuses {
		byName[row.MemberName] = row
	}

	assert.Equal(t, dto.SettlementNotPaid, byName["Ana Souza"].Settlement)
	assert.InDelta(t, 270.0, byName["Ana Souza"].Billed, 1e-9)

	assert.Equal(t, dto.SettlementPaid, byName["Bruno Lima"].Settlement)
	assert.InDelta(t, 0.0, byName["Bruno Lima"].Outstanding, 1e-9)

	assert.Equal(t, dto.SettlementPartial, byName["Carla Dias"].Settlement)
	assert.InDelta(t, 150.0, byName["Carla Dias"].Outstanding, 1e-9)
}

func TestFinanceServiceMonthlyReportDiscountLines(t *testing.T) {
	svc, _, _, _ := newFinanceFixture()

	report, _, err := svc.MonthlyReport(context.Background(), 3, 2024)
	require.NoError(t, err)
	require.Len(t, report.Discounts, 1)

	line := report.Discounts[0]
	assert.Equal(t, "Ana Souza", line.MemberName)
	assert.InDelta(t, 30.0, line.Discounted, 1e-9)
	assert.Equal(t, "indicação", line.Reason)
}

func TestFinanceServiceMonthlyReportSettlementTolerance(t *testing.T) {
	svc, _, payments, _ := newFinanceFixture()
	// One cent short of the bill still settles as paid.
	payments.items = append(payments.items, models.Payment{
		ID: 12, EnrollmentID: 1, CompetenceMonth: 3, CompetenceYear: 2024, GrossAmount: 269.99,
	})

	report, _, err := svc.MonthlyReport(context.Background(), 3, 2024)
	require.NoError(t, err)
	for _, row := range report.MemberStatuses {
		if row.EnrollmentID == 1 {
			assert.Equal(t, dto.SettlementPaid, row.Settlement)
			return
		}
	}
	t.Fatal("member row not found")
}

func TestFinanceServiceMonthlyReportMissingPlan(t *testing.T) {
	svc, enrollments, _, _ := newFinanceFixture()
	enrollments.items = append(enrollments.items, models.Enrollment{
		ID: 5, FullName: "Elisa Prado", PlanName: "Inexistente", Status: models.EnrollmentStatusActive,
		CycleStart: date(2024, time.March, 1),
	})

	_, _, err := svc.MonthlyReport(context.Background(), 3, 2024)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrMissingPlan.Code, appErr.Code)
}

func TestFinanceServiceMonthlyReportExcludesLapsedCycle(t *testing.T) {
	svc, enrollments, _, _ := newFinanceFixture()
	// Quarterly cycle ended March 1: not billable in March.
	enrollments.items = append(enrollments.items, models.Enrollment{
		ID: 6, FullName: "Fabio Luz", PlanName: "Mensal", Status: models.EnrollmentStatusActive,
		CycleStart: date(2023, time.December, 1),
	})

	report, _, err := svc.MonthlyReport(context.Background(), 3, 2024)
	require.NoError(t, err)
	for _, row := range report.MemberStatuses {
		assert.NotEqual(t, "Fabio Luz", row.MemberName)
	}
	assert.InDelta(t, 870.0, report.Revenue.Forecast, 1e-9)
}

func TestFinanceServiceMonthlyReportValidatesCompetence(t *testing.T) {
	svc, _, _, _ := newFinanceFixture()

	_, _, err := svc.MonthlyReport(context.Background(), 13, 2024)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestFinanceServiceProjection(t *testing.T) {
	svc, _, _, expenses := newFinanceFixture()
	expenses.items = append(expenses.items, models.Expense{
		ID: 22, Description: "Seguro", CompetenceMonth: 4, CompetenceYear: 2024, AmountBilled: 120,
	})

	proj, err := svc.Projection(context.Background(), 3, 2024)
	require.NoError(t, err)
	require.Len(t, proj.Points, 12)

	assert.Equal(t, 3, proj.Points[0].Month)
	assert.Equal(t, 2024, proj.Points[0].Year)
	assert.InDelta(t, 870.0, proj.Points[0].RevenueForecast, 1e-9)
	assert.InDelta(t, 280.0, proj.Points[0].ExpenseForecast, 1e-9)
	assert.InDelta(t, 30.0, proj.Points[0].DiscountTotal, 1e-9)

	assert.Equal(t, 4, proj.Points[1].Month)
	assert.InDelta(t, 870.0, proj.Points[1].RevenueForecast, 1e-9)
	assert.InDelta(t, 120.0, proj.Points[1].ExpenseForecast, 1e-9)

	// December wraps into January of the next year.
	assert.Equal(t, 2, proj.Points[11].Month)
	assert.Equal(t, 2025, proj.Points[11].Year)
}
