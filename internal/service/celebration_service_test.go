package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inspire-studio/studio-api/internal/models"
)

func TestCelebrationServiceMonth(t *testing.T) {
	birthday := date(1990, time.June, 20)
	otherBirthday := date(1985, time.March, 3)
	enrollments := &fakeEnrollments{items: []models.Enrollment{
		{ID: 1, FullName: "Ana", Status: models.EnrollmentStatusActive,
			BirthDate: &birthday, FirstEnrolledAt: date(2022, time.June, 5)},
		{ID: 2, FullName: "Bruno", Status: models.EnrollmentStatusActive,
			BirthDate: &otherBirthday, FirstEnrolledAt: date(2023, time.January, 10)},
		// Joined this very June: still celebrated, as the 1st year.
		{ID: 3, FullName: "Carla", Status: models.EnrollmentStatusActive,
			FirstEnrolledAt: date(2024, time.June, 1)},
		{ID: 4, FullName: "Diego", Status: models.EnrollmentStatusCancelled,
			BirthDate: &birthday, FirstEnrolledAt: date(2020, time.June, 1)},
	}}
	svc := NewCelebrationService(enrollments, nil)

	resp, err := svc.Month(context.Background(), 6, 2024)
	require.NoError(t, err)

	require.Len(t, resp.Birthdays, 1)
	assert.Equal(t, "Ana", resp.Birthdays[0].MemberName)
	assert.Equal(t, 20, resp.Birthdays[0].Day)
	assert.Equal(t, 34, resp.Birthdays[0].TurnsAge)

	require.Len(t, resp.Anniversaries, 2)
	assert.Equal(t, "Carla", resp.Anniversaries[0].MemberName)
	assert.Equal(t, 1, resp.Anniversaries[0].Years)
	assert.Equal(t, "Ana", resp.Anniversaries[1].MemberName)
	assert.Equal(t, 2, resp.Anniversaries[1].Years)
}

func TestCelebrationServiceMonthValidates(t *testing.T) {
	svc := NewCelebrationService(&fakeEnrollments{}, nil)

	_, err := svc.Month(context.Background(), 0, 2024)
	require.Error(t, err)
}
