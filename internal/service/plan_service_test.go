package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inspire-studio/studio-api/internal/models"
	appErrors "github.com/inspire-studio/studio-api/pkg/errors"
)

type fakePlanRepo struct {
	plans map[string]models.Plan
	inUse map[string]bool
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: make(map[string]models.Plan), inUse: make(map[string]bool)}
}

func (f *fakePlanRepo) List(_ context.Context) ([]models.Plan, error) {
	var out []models.Plan
	for _, p := range f.plans {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePlanRepo) FindByName(_ context.Context, name string) (*models.Plan, error) {
	p, ok := f.plans[name]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &p, nil
}

func (f *fakePlanRepo) Create(_ context.Context, plan *models.Plan) error {
	f.plans[plan.Name] = *plan
	return nil
}

func (f *fakePlanRepo) Delete(_ context.Context, name string) error {
	delete(f.plans, name)
	return nil
}

func (f *fakePlanRepo) InUse(_ context.Context, name string) (bool, error) {
	return f.inUse[name], nil
}

func TestPlanServiceCreate(t *testing.T) {
	repo := newFakePlanRepo()
	svc := NewPlanService(repo, nil, nil)

	plan, err := svc.Create(context.Background(), CreatePlanRequest{
		Name: "Trimestral", MonthlyPrice: 179.999, DurationMonths: 3,
	})
	require.NoError(t, err)
	assert.InDelta(t, 180.0, plan.MonthlyPrice, 1e-9)

	_, err = svc.Create(context.Background(), CreatePlanRequest{
		Name: "Trimestral", MonthlyPrice: 200, DurationMonths: 3,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrConflict)
}

func TestPlanServiceDeleteBlockedWhenInUse(t *testing.T) {
	repo := newFakePlanRepo()
	repo.plans["Mensal"] = models.Plan{Name: "Mensal", MonthlyPrice: 200, DurationMonths: 1}
	repo.inUse["Mensal"] = true
	svc := NewPlanService(repo, nil, nil)

	err := svc.Delete(context.Background(), "Mensal")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrPreconditionFailed)

	repo.inUse["Mensal"] = false
	require.NoError(t, svc.Delete(context.Background(), "Mensal"))
	_, err = repo.FindByName(context.Background(), "Mensal")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
