package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/inspire-studio/studio-api/internal/models"
	appErrors "github.com/inspire-studio/studio-api/pkg/errors"
)

type enrollmentRepository interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error)
	FindByID(ctx context.Context, id int64) (*models.Enrollment, error)
	FindDetailByID(ctx context.Context, id int64) (*models.EnrollmentDetail, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Update(ctx context.Context, enrollment *models.Enrollment) error
}

type planReader interface {
	FindByName(ctx context.Context, name string) (*models.Plan, error)
}

type renewalWriter interface {
	Create(ctx context.Context, entry *models.RenewalEntry) error
}

// RegisterMemberRequest describes member registration. FirstEnrolledAt may lie
// in the past: long-standing members are imported with their original signup
// date and the intervening cycles are reconstructed.
type RegisterMemberRequest struct {
	FullName        string     `json:"full_name" validate:"required"`
	Email           string     `json:"email" validate:"omitempty,email"`
	Phone           string     `json:"phone"`
	BirthDate       *time.Time `json:"birth_date"`
	PlanName        string     `json:"plan_name" validate:"required"`
	FirstEnrolledAt time.Time  `json:"first_enrolled_at" validate:"required"`
	DiscountPercent float64    `json:"discount_percent" validate:"min=0,max=25"`
	DiscountReason  string     `json:"discount_reason"`
	Notes           string     `json:"notes"`
}

// UpdateMemberRequest describes contact and concession updates. The plan is
// changed through renewal, never edited in place, so the contract history
// stays truthful.
type UpdateMemberRequest struct {
	FullName        *string    `json:"full_name" validate:"omitempty,min=1"`
	Email           *string    `json:"email" validate:"omitempty,email"`
	Phone           *string    `json:"phone"`
	BirthDate       *time.Time `json:"birth_date"`
	DiscountPercent *float64   `json:"discount_percent" validate:"omitempty,min=0,max=25"`
	DiscountReason  *string    `json:"discount_reason"`
	Notes           *string    `json:"notes"`
}

// EnrollmentService orchestrates member registration and upkeep.
type EnrollmentService struct {
	repo      enrollmentRepository
	plans     planReader
	renewals  renewalWriter
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, plans planReader, renewals renewalWriter, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, plans: plans, renewals: renewals, validator: validate, logger: logger, now: time.Now}
}

// List returns enrollments with pagination metadata.
func (s *EnrollmentService) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, *models.Pagination, error) {
	enrollments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return enrollments, pagination, nil
}

// Find returns one enrollment with its plan attributes.
func (s *EnrollmentService) Find(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	return detail, nil
}

// Register creates an active enrollment. When the signup date lies in the
// past, every elapsed cycle is reconstructed: the current cycle start is
// advanced to the latest one and each cycle is written to the contract
// history, so the new member immediately reports as current rather than
// long overdue.
func (s *EnrollmentService) Register(ctx context.Context, req RegisterMemberRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}
	if req.DiscountPercent > 0 && req.DiscountReason == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "discount requires a reason")
	}

	plan, err := s.plans.FindByName(ctx, req.PlanName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrMissingPlan, "plan not found: "+req.PlanName)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan")
	}

	schedule := CycleSchedule(req.FirstEnrolledAt, plan.DurationMonths, s.now(), true)
	current := schedule[len(schedule)-1]

	enrollment := &models.Enrollment{
		FullName:        req.FullName,
		Email:           req.Email,
		Phone:           req.Phone,
		BirthDate:       req.BirthDate,
		PlanName:        plan.Name,
		CycleStart:      current,
		FirstEnrolledAt: req.FirstEnrolledAt,
		Status:          models.EnrollmentStatusActive,
		DiscountPercent: req.DiscountPercent,
		DiscountReason:  req.DiscountReason,
		Notes:           req.Notes,
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}

	monthly := plan.MonthlyPrice * (1 - req.DiscountPercent/100)
	for _, cycleStart := range schedule {
		entry := &models.RenewalEntry{
			EnrollmentID: enrollment.ID,
			MemberName:   enrollment.FullName,
			PlanName:     plan.Name,
			CycleStart:   cycleStart,
			MonthlyValue: monthly,
			RecordedAt:   s.now(),
		}
		if err := s.renewals.Create(ctx, entry); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record contract history")
		}
	}

	s.logger.Info("member registered",
		zap.Int64("enrollmentId", enrollment.ID),
		zap.String("plan", plan.Name),
		zap.Int("reconstructedCycles", len(schedule)))
	return enrollment, nil
}

// Update applies contact and concession changes to an enrollment.
func (s *EnrollmentService) Update(ctx context.Context, id int64, req UpdateMemberRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid update payload")
	}
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}

	if req.FullName != nil {
		enrollment.FullName = *req.FullName
	}
	if req.Email != nil {
		enrollment.Email = *req.Email
	}
	if req.Phone != nil {
		enrollment.Phone = *req.Phone
	}
	if req.BirthDate != nil {
		enrollment.BirthDate = req.BirthDate
	}
	if req.DiscountPercent != nil {
		enrollment.DiscountPercent = *req.DiscountPercent
	}
	if req.DiscountReason != nil {
		enrollment.DiscountReason = *req.DiscountReason
	}
	if req.Notes != nil {
		enrollment.Notes = *req.Notes
	}
	if enrollment.DiscountPercent > 0 && enrollment.DiscountReason == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "discount requires a reason")
	}

	if err := s.repo.Update(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update enrollment")
	}
	return enrollment, nil
}
