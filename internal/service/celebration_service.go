package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/inspire-studio/studio-api/internal/dto"
	"github.com/inspire-studio/studio-api/internal/models"
	appErrors "github.com/inspire-studio/studio-api/pkg/errors"
)

// CelebrationService surfaces the month's birthdays and enrollment
// anniversaries so the front desk can congratulate members.
type CelebrationService struct {
	enrollments activeEnrollmentLister
	logger      *zap.Logger
}

// NewCelebrationService constructs CelebrationService.
func NewCelebrationService(enrollments activeEnrollmentLister, logger *zap.Logger) *CelebrationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CelebrationService{enrollments: enrollments, logger: logger}
}

// Month lists active members with a birthday or an enrollment anniversary in
// the given month. Members still inside their first year are celebrated as
// first-year anniversaries in their enrollment month.
func (s *CelebrationService) Month(ctx context.Context, month, year int) (*dto.CelebrationsResponse, error) {
	if month < 1 || month > 12 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "month must be between 1 and 12")
	}
	enrollments, err := s.enrollments.ListByStatus(ctx, models.EnrollmentStatusActive)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollments")
	}

	resp := &dto.CelebrationsResponse{Month: month, Year: year}
	for _, e := range enrollments {
		if e.BirthDate != nil && int(e.BirthDate.Month()) == month {
			resp.Birthdays = append(resp.Birthdays, dto.BirthdayLine{
				EnrollmentID: e.ID,
				MemberName:   e.FullName,
				Day:          e.BirthDate.Day(),
				TurnsAge:     year - e.BirthDate.Year(),
			})
		}
		years := year - e.FirstEnrolledAt.Year()
		if years == 0 {
			// Still inside the first year: celebrated as the 1st anyway.
			years = 1
		}
		if int(e.FirstEnrolledAt.Month()) == month && years >= 1 {
			resp.Anniversaries = append(resp.Anniversaries, dto.AnniversaryLine{
				EnrollmentID: e.ID,
				MemberName:   e.FullName,
				Day:          e.FirstEnrolledAt.Day(),
				Years:        years,
			})
		}
	}

	sort.Slice(resp.Birthdays, func(i, j int) bool { return resp.Birthdays[i].Day < resp.Birthdays[j].Day })
	sort.Slice(resp.Anniversaries, func(i, j int) bool { return resp.Anniversaries[i].Day < resp.Anniversaries[j].Day })
	return resp, nil
}
