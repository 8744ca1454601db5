package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inspire-studio/studio-api/internal/models"
	appErrors "github.com/inspire-studio/studio-api/pkg/errors"
)

type fakeEnrollmentRepo struct {
	nextID  int64
	created []*models.Enrollment
	byID    map[int64]*models.Enrollment
	updated []*models.Enrollment
}

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{nextID: 1, byID: make(map[int64]*models.Enrollment)}
}

func (f *fakeEnrollmentRepo) List(_ context.Context, _ models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error) {
	return nil, 0, nil
}

func (f *fakeEnrollmentRepo) FindByID(_ context.Context, id int64) (*models.Enrollment, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *e
	return &clone, nil
}

func (f *fakeEnrollmentRepo) FindDetailByID(_ context.Context, id int64) (*models.EnrollmentDetail, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &models.EnrollmentDetail{Enrollment: *e}, nil
}

func (f *fakeEnrollmentRepo) Create(_ context.Context, enrollment *models.Enrollment) error {
	enrollment.ID = f.nextID
	f.nextID++
	f.created = append(f.created, enrollment)
	clone := *enrollment
	f.byID[enrollment.ID] = &clone
	return nil
}

func (f *fakeEnrollmentRepo) Update(_ context.Context, enrollment *models.Enrollment) error {
	f.updated = append(f.updated, enrollment)
	clone := *enrollment
	f.byID[enrollment.ID] = &clone
	return nil
}

type fakePlanReader struct {
	plans map[string]models.Plan
}

func (f *fakePlanReader) FindByName(_ context.Context, name string) (*models.Plan, error) {
	p, ok := f.plans[name]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &p, nil
}

type fakeRenewalWriter struct {
	entries []models.RenewalEntry
}

func (f *fakeRenewalWriter) Create(_ context.Context, entry *models.RenewalEntry) error {
	entry.ID = int64(len(f.entries) + 1)
	f.entries = append(f.entries, *entry)
	return nil
}

func newEnrollmentFixture(now time.Time) (*EnrollmentService, *fakeEnrollmentRepo, *fakeRenewalWriter) {
	repo := newFakeEnrollmentRepo()
	renewals := &fakeRenewalWriter{}
	plans := &fakePlanReader{plans: map[string]models.Plan{
		"Mensal":     {Name: "Mensal", MonthlyPrice: 200, DurationMonths: 1},
		"Trimestral": {Name: "Trimestral", MonthlyPrice: 180, DurationMonths: 3},
		"Livre":      {Name: "Livre", MonthlyPrice: 150, DurationMonths: 0},
	}}
	svc := NewEnrollmentService(repo, plans, renewals, nil, nil)
	svc.now = func() time.Time { return now }
	return svc, repo, renewals
}

func TestEnrollmentServiceRegisterNewMember(t *testing.T) {
	svc, repo, renewals := newEnrollmentFixture(date(2024, time.January, 15))

	enrollment, err := svc.Register(context.Background(), RegisterMemberRequest{
		FullName:        "Ana Souza",
		PlanName:        "Mensal",
		FirstEnrolledAt: date(2024, time.January, 10),
	})
	require.NoError(t, err)
	require.Len(t, repo.created, 1)

	assert.Equal(t, models.EnrollmentStatusActive, enrollment.Status)
	assert.Equal(t, date(2024, time.January, 10), enrollment.CycleStart)
	assert.Equal(t, date(2024, time.January, 10), enrollment.FirstEnrolledAt)
	require.Len(t, renewals.entries, 1)
	assert.InDelta(t, 200.0, renewals.entries[0].MonthlyValue, 1e-9)
}

func TestEnrollmentServiceRegisterReconstructsElapsedCycles(t *testing.T) {
	svc, _, renewals := newEnrollmentFixture(date(2024, time.January, 15))

	enrollment, err := svc.Register(context.Background(), RegisterMemberRequest{
		FullName:        "Bruno Lima",
		PlanName:        "Mensal",
		FirstEnrolledAt: date(2022, time.October, 10),
	})
	require.NoError(t, err)

	// Monthly cycles from 2022-10-10 through 2024-01-10.
	assert.Equal(t, date(2024, time.January, 10), enrollment.CycleStart)
	require.Len(t, renewals.entries, 16)
	assert.Equal(t, date(2022, time.October, 10), renewals.entries[0].CycleStart)
	assert.Equal(t, date(2024, time.January, 10), renewals.entries[15].CycleStart)
	for _, entry := range renewals.entries {
		assert.Equal(t, enrollment.ID, entry.EnrollmentID)
		assert.Equal(t, "Mensal", entry.PlanName)
	}
}

func TestEnrollmentServiceRegisterOpenEndedPlan(t *testing.T) {
	svc, _, renewals := newEnrollmentFixture(date(2024, time.June, 1))

	enrollment, err := svc.Register(context.Background(), RegisterMemberRequest{
		FullName:        "Carla Dias",
		PlanName:        "Livre",
		FirstEnrolledAt: date(2021, time.February, 5),
	})
	require.NoError(t, err)

	// An open-ended plan never advances past its first cycle.
	assert.Equal(t, date(2021, time.February, 5), enrollment.CycleStart)
	require.Len(t, renewals.entries, 1)
}

func TestEnrollmentServiceRegisterRecordsDiscountedValue(t *testing.T) {
	svc, _, renewals := newEnrollmentFixture(date(2024, time.January, 15))

	_, err := svc.Register(context.Background(), RegisterMemberRequest{
		FullName:        "Diego Reis",
		PlanName:        "Mensal",
		FirstEnrolledAt: date(2024, time.January, 2),
		DiscountPercent: 10,
		DiscountReason:  "indicação",
	})
	require.NoError(t, err)
	require.Len(t, renewals.entries, 1)
	assert.InDelta(t, 180.0, renewals.entries[0].MonthlyValue, 1e-9)
}

func TestEnrollmentServiceRegisterUnknownPlan(t *testing.T) {
	svc, _, _ := newEnrollmentFixture(date(2024, time.January, 15))

	_, err := svc.Register(context.Background(), RegisterMemberRequest{
		FullName:        "Elisa Prado",
		PlanName:        "Inexistente",
		FirstEnrolledAt: date(2024, time.January, 2),
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrMissingPlan.Code, appErr.Code)
}

func TestEnrollmentServiceRegisterDiscountNeedsReason(t *testing.T) {
	svc, _, _ := newEnrollmentFixture(date(2024, time.January, 15))

	_, err := svc.Register(context.Background(), RegisterMemberRequest{
		FullName:        "Fabio Luz",
		PlanName:        "Mensal",
		FirstEnrolledAt: date(2024, time.January, 2),
		DiscountPercent: 5,
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestEnrollmentServiceRegisterDiscountCapped(t *testing.T) {
	svc, _, _ := newEnrollmentFixture(date(2024, time.January, 15))

	_, err := svc.Register(context.Background(), RegisterMemberRequest{
		FullName:        "Gina Alves",
		PlanName:        "Mensal",
		FirstEnrolledAt: date(2024, time.January, 2),
		DiscountPercent: 30,
		DiscountReason:  "promoção",
	})
	require.Error(t, err)
}

func TestEnrollmentServiceUpdate(t *testing.T) {
	svc, repo, _ := newEnrollmentFixture(date(2024, time.January, 15))
	created, err := svc.Register(context.Background(), RegisterMemberRequest{
		FullName:        "Ana Souza",
		PlanName:        "Mensal",
		FirstEnrolledAt: date(2024, time.January, 10),
	})
	require.NoError(t, err)

	phone := "11 99999-0000"
	discount := 15.0
	reason := "parceria"
	updated, err := svc.Update(context.Background(), created.ID, UpdateMemberRequest{
		Phone:           &phone,
		DiscountPercent: &discount,
		DiscountReason:  &reason,
	})
	require.NoError(t, err)
	assert.Equal(t, phone, updated.Phone)
	assert.InDelta(t, 15.0, updated.DiscountPercent, 1e-9)
	require.Len(t, repo.updated, 1)
}

func TestEnrollmentServiceUpdateNotFound(t *testing.T) {
	svc, _, _ := newEnrollmentFixture(date(2024, time.January, 15))

	notes := "x"
	_, err := svc.Update(context.Background(), 42, UpdateMemberRequest{Notes: &notes})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
