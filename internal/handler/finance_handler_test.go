package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inspire-studio/studio-api/internal/dto"
	"github.com/inspire-studio/studio-api/internal/models"
	"github.com/inspire-studio/studio-api/internal/service"
)

type responseEnvelope struct {
	Data  map[string]interface{} `json:"data"`
	Error map[string]interface{} `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

type stubEnrollments struct{ items []models.Enrollment }

func (s *stubEnrollments) ListByStatus(context.Context, models.EnrollmentStatus) ([]models.Enrollment, error) {
	return s.items, nil
}

type stubPlans struct{ plans []models.Plan }

func (s *stubPlans) List(context.Context) ([]models.Plan, error) { return s.plans, nil }

type stubPayments struct{ payments []models.Payment }

func (s *stubPayments) ListByCompetence(context.Context, int, int) ([]models.Payment, error) {
	return s.payments, nil
}

type stubExpenses struct{ expenses []models.Expense }

func (s *stubExpenses) ListByCompetence(context.Context, int, int) ([]models.Expense, error) {
	return s.expenses, nil
}

func newFinanceHandler() *FinanceHandler {
	start := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)
	finance := service.NewFinanceService(service.FinanceServiceParams{
		Enrollments: &stubEnrollments{items: []models.Enrollment{{
			ID:         1,
			FullName:   "Ana",
			PlanName:   "Mensal",
			CycleStart: start,
			Status:     models.EnrollmentStatusActive,
		}}},
		Plans:    &stubPlans{plans: []models.Plan{{Name: "Mensal", MonthlyPrice: 300, DurationMonths: 1}}},
		Payments: &stubPayments{},
		Expenses: &stubExpenses{},
	})
	return NewFinanceHandler(finance)
}

func TestFinanceHandlerMonthlyReport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newFinanceHandler()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/finance/report?month=1&year=2024", nil)

	handler.MonthlyReport(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, false, envelope.Meta["cache_hit"])

	var report dto.MonthlyReportResponse
	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &report))
	assert.Equal(t, 1, report.Month)
	assert.InDelta(t, 300.0, report.Revenue.Forecast, 1e-9)
}

func TestFinanceHandlerMonthlyReportInvalidMonth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newFinanceHandler()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/finance/report?month=13&year=2024", nil)

	handler.MonthlyReport(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFinanceHandlerMonthlyReportUnparsableMonth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newFinanceHandler()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/finance/report?month=abc", nil)

	handler.MonthlyReport(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFinanceHandlerProjection(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newFinanceHandler()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/finance/projection?month=1&year=2024", nil)

	handler.Projection(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	points, ok := envelope.Data["points"].([]interface{})
	require.True(t, ok)
	assert.Len(t, points, 12)
}
