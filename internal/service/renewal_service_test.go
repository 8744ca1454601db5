package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inspire-studio/studio-api/internal/models"
)

type fakeRenewalRepo struct {
	entries []models.RenewalEntry
}

func (f *fakeRenewalRepo) Create(_ context.Context, entry *models.RenewalEntry) error {
	entry.ID = int64(len(f.entries) + 1)
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeRenewalRepo) ListByEnrollment(_ context.Context, enrollmentID int64) ([]models.RenewalEntry, error) {
	var out []models.RenewalEntry
	for _, e := range f.entries {
		if e.EnrollmentID == enrollmentID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRenewalRepo) ListByYear(_ context.Context, year int) ([]models.RenewalEntry, error) {
	var out []models.RenewalEntry
	for _, e := range f.entries {
		if e.CycleStart.Year() == year {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeEnrollmentStore struct {
	byID    map[int64]*models.Enrollment
	updated []*models.Enrollment
}

func newFakeEnrollmentStore(items ...models.Enrollment) *fakeEnrollmentStore {
	s := &fakeEnrollmentStore{byID: make(map[int64]*models.Enrollment)}
	for i := range items {
		clone := items[i]
		s.byID[clone.ID] = &clone
	}
	return s
}

func (f *fakeEnrollmentStore) FindByID(_ context.Context, id int64) (*models.Enrollment, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *e
	return &clone, nil
}

func (f *fakeEnrollmentStore) ListByStatus(_ context.Context, status models.EnrollmentStatus) ([]models.Enrollment, error) {
	var out []models.Enrollment
	for _, e := range f.byID {
		if e.Status == status {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEnrollmentStore) Update(_ context.Context, enrollment *models.Enrollment) error {
	f.updated = append(f.updated, enrollment)
	clone := *enrollment
	f.byID[enrollment.ID] = &clone
	return nil
}

func renewalPlans() *fakePlanReader {
	return &fakePlanReader{plans: map[string]models.Plan{
		"Mensal":     {Name: "Mensal", MonthlyPrice: 200, DurationMonths: 1},
		"Trimestral": {Name: "Trimestral", MonthlyPrice: 180, DurationMonths: 3},
		"Livre":      {Name: "Livre", MonthlyPrice: 150, DurationMonths: 0},
	}}
}

func TestRenewalServiceOutlookBuckets(t *testing.T) {
	now := date(2024, time.June, 15)
	store := newFakeEnrollmentStore(
		// Cycle ended June 1: expired.
		models.Enrollment{ID: 1, FullName: "Ana", PlanName: "Mensal", Status: models.EnrollmentStatusActive,
			CycleStart: date(2024, time.May, 1)},
		// Cycle ends July 1: expiring within 30 days.
		models.Enrollment{ID: 2, FullName: "Bruno", PlanName: "Mensal", Status: models.EnrollmentStatusActive,
			CycleStart: date(2024, time.June, 1)},
		// Cycle ends September 10: outside the window.
		models.Enrollment{ID: 3, FullName: "Carla", PlanName: "Trimestral", Status: models.EnrollmentStatusActive,
			CycleStart: date(2024, time.June, 10)},
		// Open-ended plans never expire.
		models.Enrollment{ID: 4, FullName: "Diego", PlanName: "Livre", Status: models.EnrollmentStatusActive,
			CycleStart: date(2023, time.January, 1)},
		// Frozen members are not billed, so they are not chased either.
		models.Enrollment{ID: 5, FullName: "Elisa", PlanName: "Mensal", Status: models.EnrollmentStatusFrozen,
			CycleStart: date(2024, time.April, 1)},
	)
	svc := NewRenewalService(&fakeRenewalRepo{}, store, renewalPlans(), 30, nil)
	svc.now = func() time.Time { return now }

	outlook, err := svc.Outlook(context.Background())
	require.NoError(t, err)

	require.Len(t, outlook.Expired, 1)
	assert.Equal(t, int64(1), outlook.Expired[0].EnrollmentID)
	assert.Equal(t, date(2024, time.June, 1), outlook.Expired[0].CycleEnd)
	assert.Equal(t, -14, outlook.Expired[0].DaysLeft)

	require.Len(t, outlook.ExpiringSoon, 1)
	assert.Equal(t, int64(2), outlook.ExpiringSoon[0].EnrollmentID)
	assert.Equal(t, 16, outlook.ExpiringSoon[0].DaysLeft)
}

func TestRenewalServiceOutlookCycleEndingToday(t *testing.T) {
	now := date(2024, time.June, 1)
	store := newFakeEnrollmentStore(models.Enrollment{
		ID: 1, FullName: "Ana", PlanName: "Mensal", Status: models.EnrollmentStatusActive,
		CycleStart: date(2024, time.May, 1),
	})
	svc := NewRenewalService(&fakeRenewalRepo{}, store, renewalPlans(), 30, nil)
	svc.now = func() time.Time { return now }

	outlook, err := svc.Outlook(context.Background())
	require.NoError(t, err)

	// The last contracted day is still within the contract.
	assert.Empty(t, outlook.Expired)
	require.Len(t, outlook.ExpiringSoon, 1)
	assert.Equal(t, int64(1), outlook.ExpiringSoon[0].EnrollmentID)
	assert.Equal(t, 0, outlook.ExpiringSoon[0].DaysLeft)
}

func TestRenewalServiceRenewResetsCycle(t *testing.T) {
	now := date(2024, time.June, 15)
	frozenAt := date(2024, time.May, 20)
	store := newFakeEnrollmentStore(models.Enrollment{
		ID: 1, FullName: "Ana", PlanName: "Mensal", Status: models.EnrollmentStatusFrozen,
		CycleStart: date(2024, time.May, 1), FreezeStartedAt: &frozenAt, DiscountPercent: 10, DiscountReason: "indicação",
	})
	repo := &fakeRenewalRepo{}
	svc := NewRenewalService(repo, store, renewalPlans(), 30, nil)
	svc.now = func() time.Time { return now }

	enrollment, err := svc.Renew(context.Background(), 1, RenewRequest{})
	require.NoError(t, err)

	assert.Equal(t, models.EnrollmentStatusActive, enrollment.Status)
	assert.Equal(t, now, enrollment.CycleStart)
	assert.Nil(t, enrollment.FreezeStartedAt)

	require.Len(t, repo.entries, 1)
	assert.Equal(t, now, repo.entries[0].CycleStart)
	assert.InDelta(t, 180.0, repo.entries[0].MonthlyValue, 1e-9)
}

func TestRenewalServiceRenewSwitchesPlan(t *testing.T) {
	store := newFakeEnrollmentStore(models.Enrollment{
		ID: 1, FullName: "Ana", PlanName: "Mensal", Status: models.EnrollmentStatusActive,
		CycleStart: date(2024, time.May, 1),
	})
	repo := &fakeRenewalRepo{}
	svc := NewRenewalService(repo, store, renewalPlans(), 30, nil)
	svc.now = func() time.Time { return date(2024, time.June, 1) }

	start := date(2024, time.June, 3)
	enrollment, err := svc.Renew(context.Background(), 1, RenewRequest{PlanName: "Trimestral", CycleStart: &start})
	require.NoError(t, err)

	assert.Equal(t, "Trimestral", enrollment.PlanName)
	assert.Equal(t, start, enrollment.CycleStart)
	require.Len(t, repo.entries, 1)
	assert.InDelta(t, 180.0, repo.entries[0].MonthlyValue, 1e-9)
}

func TestRenewalServiceYearSummary(t *testing.T) {
	repo := &fakeRenewalRepo{entries: []models.RenewalEntry{
		{ID: 1, EnrollmentID: 1, CycleStart: date(2024, time.January, 10), MonthlyValue: 200},
		{ID: 2, EnrollmentID: 2, CycleStart: date(2024, time.March, 5), MonthlyValue: 180},
		{ID: 3, EnrollmentID: 1, CycleStart: date(2023, time.December, 10), MonthlyValue: 200},
	}}
	svc := NewRenewalService(repo, newFakeEnrollmentStore(), renewalPlans(), 30, nil)

	summary, err := svc.YearSummary(context.Background(), 2024)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.ContractCount)
	assert.InDelta(t, 380.0, summary.MonthlyTotal, 1e-9)
}
