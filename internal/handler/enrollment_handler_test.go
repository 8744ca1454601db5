package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inspire-studio/studio-api/internal/models"
	"github.com/inspire-studio/studio-api/internal/service"
)

type stubStatusStore struct {
	enrollment *models.Enrollment
	updated    *models.Enrollment
}

func (s *stubStatusStore) FindByID(_ context.Context, id int64) (*models.Enrollment, error) {
	if s.enrollment == nil || s.enrollment.ID != id {
		return nil, sql.ErrNoRows
	}
	copied := *s.enrollment
	return &copied, nil
}

func (s *stubStatusStore) Update(_ context.Context, enrollment *models.Enrollment) error {
	s.updated = enrollment
	return nil
}

func TestEnrollmentHandlerFreeze(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &stubStatusStore{enrollment: &models.Enrollment{
		ID:         4,
		FullName:   "Bruno Dias",
		Status:     models.EnrollmentStatusActive,
		CycleStart: time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
	}}
	handler := NewEnrollmentHandler(nil, service.NewStatusService(store, nil))

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/enrollments/4/freeze?at=2024-02-01", nil)
	c.Params = gin.Params{{Key: "id", Value: "4"}}

	handler.Freeze(c)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, store.updated)
	assert.Equal(t, models.EnrollmentStatusFrozen, store.updated.Status)
	require.NotNil(t, store.updated.FreezeStartedAt)
	assert.Equal(t, "2024-02-01", store.updated.FreezeStartedAt.Format("2006-01-02"))
}

func TestEnrollmentHandlerFreezeBadDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewEnrollmentHandler(nil, service.NewStatusService(&stubStatusStore{}, nil))

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/enrollments/4/freeze?at=01-02-2024", nil)
	c.Params = gin.Params{{Key: "id", Value: "4"}}

	handler.Freeze(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEnrollmentHandlerReactivateReportsFrozenDays(t *testing.T) {
	gin.SetMode(gin.TestMode)
	frozenAt := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	store := &stubStatusStore{enrollment: &models.Enrollment{
		ID:              4,
		FullName:        "Bruno Dias",
		Status:          models.EnrollmentStatusFrozen,
		CycleStart:      time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		FreezeStartedAt: &frozenAt,
	}}
	handler := NewEnrollmentHandler(nil, service.NewStatusService(store, nil))

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/enrollments/4/reactivate?at=2024-03-02", nil)
	c.Params = gin.Params{{Key: "id", Value: "4"}}

	handler.Reactivate(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, float64(30), envelope.Meta["frozen_days"])
	assert.Equal(t, "2024-02-14T00:00:00Z", envelope.Data["cycle_start"])
}

func TestEnrollmentHandlerInvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewEnrollmentHandler(nil, service.NewStatusService(&stubStatusStore{}, nil))

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/enrollments/abc/freeze", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	handler.Freeze(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
