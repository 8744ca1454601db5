package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/inspire-studio/studio-api/internal/models"
	appErrors "github.com/inspire-studio/studio-api/pkg/errors"
	"github.com/inspire-studio/studio-api/pkg/money"
)

type planRepository interface {
	List(ctx context.Context) ([]models.Plan, error)
	FindByName(ctx context.Context, name string) (*models.Plan, error)
	Create(ctx context.Context, plan *models.Plan) error
	Delete(ctx context.Context, name string) error
	InUse(ctx context.Context, name string) (bool, error)
}

// CreatePlanRequest describes a new membership plan. DurationMonths zero
// creates an open-ended plan.
type CreatePlanRequest struct {
	Name           string  `json:"name" validate:"required"`
	MonthlyPrice   float64 `json:"monthly_price" validate:"required,gt=0"`
	DurationMonths int     `json:"duration_months" validate:"min=0,max=36"`
}

// PlanService manages the plan catalogue.
type PlanService struct {
	repo      planRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPlanService constructs PlanService.
func NewPlanService(repo planRepository, validate *validator.Validate, logger *zap.Logger) *PlanService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanService{repo: repo, validator: validate, logger: logger}
}

// List returns all plans.
func (s *PlanService) List(ctx context.Context) ([]models.Plan, error) {
	plans, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list plans")
	}
	return plans, nil
}

// Create adds a plan. Names are unique.
func (s *PlanService) Create(ctx context.Context, req CreatePlanRequest) (*models.Plan, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid plan payload")
	}

	if _, err := s.repo.FindByName(ctx, req.Name); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "plan already exists: "+req.Name)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check plan name")
	}

	plan := &models.Plan{
		Name:           req.Name,
		MonthlyPrice:   money.Round(req.MonthlyPrice),
		DurationMonths: req.DurationMonths,
	}
	if err := s.repo.Create(ctx, plan); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create plan")
	}
	s.logger.Info("plan created", zap.String("name", plan.Name), zap.Int("durationMonths", plan.DurationMonths))
	return plan, nil
}

// Delete removes a plan that no enrollment references.
func (s *PlanService) Delete(ctx context.Context, name string) error {
	if _, err := s.repo.FindByName(ctx, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "plan not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan")
	}
	inUse, err := s.repo.InUse(ctx, name)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check plan usage")
	}
	if inUse {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "plan has enrolled members")
	}
	if err := s.repo.Delete(ctx, name); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete plan")
	}
	return nil
}
