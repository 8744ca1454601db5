package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/inspire-studio/studio-api/internal/models"
	appErrors "github.com/inspire-studio/studio-api/pkg/errors"
)

type statusEnrollmentStore interface {
	FindByID(ctx context.Context, id int64) (*models.Enrollment, error)
	Update(ctx context.Context, enrollment *models.Enrollment) error
}

// StatusService manages enrollment lifecycle transitions, including the
// freeze window credit: a reactivated member's cycle start moves forward by
// exactly the number of days spent frozen, so no paid days are lost.
type StatusService struct {
	enrollments statusEnrollmentStore
	logger      *zap.Logger
	now         func() time.Time
}

// NewStatusService constructs StatusService.
func NewStatusService(enrollments statusEnrollmentStore, logger *zap.Logger) *StatusService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatusService{enrollments: enrollments, logger: logger, now: time.Now}
}

func (s *StatusService) load(ctx context.Context, id int64) (*models.Enrollment, error) {
	enrollment, err := s.enrollments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	return enrollment, nil
}

// Freeze suspends an active enrollment. at defaults to today and marks the
// first unused day.
func (s *StatusService) Freeze(ctx context.Context, id int64, at *time.Time) (*models.Enrollment, error) {
	enrollment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if enrollment.Status != models.EnrollmentStatusActive {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "only active enrollments can be frozen")
	}

	start := dateOnly(s.now())
	if at != nil {
		start = dateOnly(*at)
	}
	enrollment.Status = models.EnrollmentStatusFrozen
	enrollment.FreezeStartedAt = &start
	if err := s.enrollments.Update(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update enrollment")
	}

	s.logger.Info("enrollment frozen", zap.Int64("enrollmentId", id), zap.Time("freezeStart", start))
	return enrollment, nil
}

// Reactivate ends a freeze. The cycle start shifts forward by the whole days
// spent frozen and the freeze marker is cleared. Reactivating on or before
// the freeze start date is rejected.
func (s *StatusService) Reactivate(ctx context.Context, id int64, at *time.Time) (*models.Enrollment, int, error) {
	enrollment, err := s.load(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	if enrollment.Status != models.EnrollmentStatusFrozen || enrollment.FreezeStartedAt == nil {
		return nil, 0, appErrors.Clone(appErrors.ErrPreconditionFailed, "enrollment is not frozen")
	}

	end := dateOnly(s.now())
	if at != nil {
		end = dateOnly(*at)
	}
	days, err := FrozenDays(*enrollment.FreezeStartedAt, end)
	if err != nil {
		return nil, 0, err
	}

	enrollment.CycleStart = ShiftCycleStart(enrollment.CycleStart, days)
	enrollment.Status = models.EnrollmentStatusActive
	enrollment.FreezeStartedAt = nil
	if err := s.enrollments.Update(ctx, enrollment); err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update enrollment")
	}

	s.logger.Info("enrollment reactivated",
		zap.Int64("enrollmentId", id),
		zap.Int("frozenDays", days),
		zap.Time("cycleStart", enrollment.CycleStart))
	return enrollment, days, nil
}

// Deactivate marks a member inactive without cancelling the contract record.
func (s *StatusService) Deactivate(ctx context.Context, id int64) (*models.Enrollment, error) {
	return s.transition(ctx, id, models.EnrollmentStatusInactive)
}

// Cancel terminates the contract. The enrollment row and its history remain.
func (s *StatusService) Cancel(ctx context.Context, id int64) (*models.Enrollment, error) {
	return s.transition(ctx, id, models.EnrollmentStatusCancelled)
}

func (s *StatusService) transition(ctx context.Context, id int64, status models.EnrollmentStatus) (*models.Enrollment, error) {
	enrollment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if enrollment.Status == status {
		return enrollment, nil
	}
	enrollment.Status = status
	enrollment.FreezeStartedAt = nil
	if err := s.enrollments.Update(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update enrollment")
	}
	s.logger.Info("enrollment status changed", zap.Int64("enrollmentId", id), zap.String("status", string(status)))
	return enrollment, nil
}
