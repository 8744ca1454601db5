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

func TestStatusServiceFreeze(t *testing.T) {
	store := newFakeEnrollmentStore(models.Enrollment{
		ID: 1, FullName: "Ana", PlanName: "Mensal", Status: models.EnrollmentStatusActive,
		CycleStart: date(2024, time.January, 15),
	})
	svc := NewStatusService(store, nil)
	svc.now = func() time.Time { return date(2024, time.February, 1) }

	enrollment, err := svc.Freeze(context.Background(), 1, nil)
	require.NoError(t, err)

	assert.Equal(t, models.EnrollmentStatusFrozen, enrollment.Status)
	require.NotNil(t, enrollment.FreezeStartedAt)
	assert.Equal(t, date(2024, time.February, 1), *enrollment.FreezeStartedAt)
	// The cycle start does not move until reactivation.
	assert.Equal(t, date(2024, time.January, 15), enrollment.CycleStart)
}

func TestStatusServiceFreezeRequiresActive(t *testing.T) {
	store := newFakeEnrollmentStore(models.Enrollment{
		ID: 1, Status: models.EnrollmentStatusCancelled, CycleStart: date(2024, time.January, 15),
	})
	svc := NewStatusService(store, nil)

	_, err := svc.Freeze(context.Background(), 1, nil)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErr.Code)
}

func TestStatusServiceReactivateShiftsCycle(t *testing.T) {
	frozenAt := date(2024, time.February, 1)
	store := newFakeEnrollmentStore(models.Enrollment{
		ID: 1, FullName: "Ana", PlanName: "Mensal", Status: models.EnrollmentStatusFrozen,
		CycleStart: date(2024, time.January, 15), FreezeStartedAt: &frozenAt,
	})
	svc := NewStatusService(store, nil)
	svc.now = func() time.Time { return date(2024, time.March, 2) }

	enrollment, days, err := svc.Reactivate(context.Background(), 1, nil)
	require.NoError(t, err)

	assert.Equal(t, 30, days)
	assert.Equal(t, date(2024, time.February, 14), enrollment.CycleStart)
	assert.Equal(t, models.EnrollmentStatusActive, enrollment.Status)
	assert.Nil(t, enrollment.FreezeStartedAt)
}

func TestStatusServiceReactivateSameDayRejected(t *testing.T) {
	frozenAt := date(2024, time.February, 1)
	store := newFakeEnrollmentStore(models.Enrollment{
		ID: 1, Status: models.EnrollmentStatusFrozen,
		CycleStart: date(2024, time.January, 15), FreezeStartedAt: &frozenAt,
	})
	svc := NewStatusService(store, nil)

	at := date(2024, time.February, 1)
	_, _, err := svc.Reactivate(context.Background(), 1, &at)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrInvalidFreezeWindow)

	// Enrollment untouched after the rejection.
	kept, findErr := store.FindByID(context.Background(), 1)
	require.NoError(t, findErr)
	assert.Equal(t, models.EnrollmentStatusFrozen, kept.Status)
	assert.Equal(t, date(2024, time.January, 15), kept.CycleStart)
}

func TestStatusServiceReactivateRequiresFrozen(t *testing.T) {
	store := newFakeEnrollmentStore(models.Enrollment{
		ID: 1, Status: models.EnrollmentStatusActive, CycleStart: date(2024, time.January, 15),
	})
	svc := NewStatusService(store, nil)

	_, _, err := svc.Reactivate(context.Background(), 1, nil)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErr.Code)
}

func TestStatusServiceCancelKeepsRecord(t *testing.T) {
	frozenAt := date(2024, time.February, 1)
	store := newFakeEnrollmentStore(models.Enrollment{
		ID: 1, Status: models.EnrollmentStatusFrozen,
		CycleStart: date(2024, time.January, 15), FreezeStartedAt: &frozenAt,
	})
	svc := NewStatusService(store, nil)

	enrollment, err := svc.Cancel(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusCancelled, enrollment.Status)
	assert.Nil(t, enrollment.FreezeStartedAt)
	require.Len(t, store.updated, 1)
}
