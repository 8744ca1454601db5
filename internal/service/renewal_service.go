package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/inspire-studio/studio-api/internal/dto"
	"github.com/inspire-studio/studio-api/internal/models"
	appErrors "github.com/inspire-studio/studio-api/pkg/errors"
)

type renewalRepository interface {
	Create(ctx context.Context, entry *models.RenewalEntry) error
	ListByEnrollment(ctx context.Context, enrollmentID int64) ([]models.RenewalEntry, error)
	ListByYear(ctx context.Context, year int) ([]models.RenewalEntry, error)
}

type renewalEnrollmentStore interface {
	FindByID(ctx context.Context, id int64) (*models.Enrollment, error)
	ListByStatus(ctx context.Context, status models.EnrollmentStatus) ([]models.Enrollment, error)
	Update(ctx context.Context, enrollment *models.Enrollment) error
}

// RenewRequest starts a new billing cycle. PlanName switches the member to a
// different plan; empty keeps the current one. CycleStart defaults to today.
type RenewRequest struct {
	PlanName   string     `json:"plan_name"`
	CycleStart *time.Time `json:"cycle_start"`
}

// RenewalService tracks contract expiry and performs renewals.
type RenewalService struct {
	repo        renewalRepository
	enrollments renewalEnrollmentStore
	plans       planReader
	logger      *zap.Logger
	windowDays  int
	now         func() time.Time
}

// NewRenewalService constructs RenewalService. windowDays controls how far
// ahead the expiring-soon bucket looks.
func NewRenewalService(repo renewalRepository, enrollments renewalEnrollmentStore, plans planReader, windowDays int, logger *zap.Logger) *RenewalService {
	if windowDays <= 0 {
		windowDays = 30
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RenewalService{repo: repo, enrollments: enrollments, plans: plans, logger: logger, windowDays: windowDays, now: time.Now}
}

// Outlook buckets active members into expired and expiring-soon. Open-ended
// plans never appear: they have no cycle end.
func (s *RenewalService) Outlook(ctx context.Context) (*dto.RenewalOutlookResponse, error) {
	enrollments, err := s.enrollments.ListByStatus(ctx, models.EnrollmentStatusActive)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollments")
	}

	today := dateOnly(s.now())
	resp := &dto.RenewalOutlookResponse{WindowDays: s.windowDays}
	for _, e := range enrollments {
		plan, err := s.plans.FindByName(ctx, e.PlanName)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrMissingPlan, "plan not found: "+e.PlanName)
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan")
		}
		if plan.OpenEnded() {
			continue
		}
		end := CycleEnd(e.CycleStart, plan.DurationMonths)
		daysLeft := daysBetween(today, end)
		member := dto.ExpiringMember{
			EnrollmentID: e.ID,
			MemberName:   e.FullName,
			PlanName:     e.PlanName,
			CycleStart:   e.CycleStart,
			CycleEnd:     end,
			DaysLeft:     daysLeft,
		}
		// A cycle ending today still counts as expiring soon, not expired.
		switch {
		case daysLeft < 0:
			resp.Expired = append(resp.Expired, member)
		case daysLeft <= s.windowDays:
			resp.ExpiringSoon = append(resp.ExpiringSoon, member)
		}
	}

	sort.Slice(resp.Expired, func(i, j int) bool { return resp.Expired[i].DaysLeft < resp.Expired[j].DaysLeft })
	sort.Slice(resp.ExpiringSoon, func(i, j int) bool { return resp.ExpiringSoon[i].DaysLeft < resp.ExpiringSoon[j].DaysLeft })
	return resp, nil
}

// Renew starts a fresh cycle for the member: the enrollment's cycle start is
// reset, any freeze marker is cleared, the member returns to active, and an
// immutable history row records the new contract.
func (s *RenewalService) Renew(ctx context.Context, enrollmentID int64, req RenewRequest) (*models.Enrollment, error) {
	enrollment, err := s.enrollments.FindByID(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}

	planName := enrollment.PlanName
	if req.PlanName != "" {
		planName = req.PlanName
	}
	plan, err := s.plans.FindByName(ctx, planName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrMissingPlan, "plan not found: "+planName)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan")
	}

	cycleStart := dateOnly(s.now())
	if req.CycleStart != nil {
		cycleStart = dateOnly(*req.CycleStart)
	}

	enrollment.PlanName = plan.Name
	enrollment.CycleStart = cycleStart
	enrollment.Status = models.EnrollmentStatusActive
	enrollment.FreezeStartedAt = nil
	if err := s.enrollments.Update(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update enrollment")
	}

	entry := &models.RenewalEntry{
		EnrollmentID: enrollment.ID,
		MemberName:   enrollment.FullName,
		PlanName:     plan.Name,
		CycleStart:   cycleStart,
		MonthlyValue: plan.MonthlyPrice * (1 - enrollment.DiscountPercent/100),
		RecordedAt:   s.now(),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record contract history")
	}

	s.logger.Info("contract renewed",
		zap.Int64("enrollmentId", enrollment.ID),
		zap.String("plan", plan.Name),
		zap.Time("cycleStart", cycleStart))
	return enrollment, nil
}

// History returns every contract row for one member, oldest first.
func (s *RenewalService) History(ctx context.Context, enrollmentID int64) ([]models.RenewalEntry, error) {
	entries, err := s.repo.ListByEnrollment(ctx, enrollmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load contract history")
	}
	return entries, nil
}

// YearSummary aggregates the contracts started within one year.
func (s *RenewalService) YearSummary(ctx context.Context, year int) (*models.RenewalYearSummary, error) {
	entries, err := s.repo.ListByYear(ctx, year)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load contract history")
	}
	summary := &models.RenewalYearSummary{Year: year, ContractCount: len(entries)}
	for _, e := range entries {
		summary.MonthlyTotal += e.MonthlyValue
	}
	return summary, nil
}
