package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/inspire-studio/studio-api/pkg/errors"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonthsClampsToMonthEnd(t *testing.T) {
	assert.Equal(t, date(2024, time.February, 29), AddMonths(date(2024, time.January, 31), 1))
	assert.Equal(t, date(2023, time.February, 28), AddMonths(date(2023, time.January, 31), 1))
	assert.Equal(t, date(2024, time.April, 30), AddMonths(date(2024, time.January, 30), 3))
	assert.Equal(t, date(2025, time.January, 15), AddMonths(date(2024, time.December, 15), 1))
	assert.Equal(t, date(2023, time.December, 10), AddMonths(date(2024, time.January, 10), -1))
}

func TestCycleEndAfterStart(t *testing.T) {
	for _, d := range []int{1, 3, 6, 12} {
		start := date(2024, time.July, 31)
		end := CycleEnd(start, d)
		assert.True(t, end.After(start), "duration %d", d)
	}
	assert.True(t, CycleEnd(date(2024, time.July, 1), 0).IsZero())
}

func TestCycleScheduleBackfillsElapsedCycles(t *testing.T) {
	cycles := CycleSchedule(date(2022, time.October, 10), 1, date(2024, time.January, 15), true)

	require.NotEmpty(t, cycles)
	assert.Equal(t, date(2022, time.October, 10), cycles[0])
	assert.Contains(t, cycles, date(2022, time.November, 10))
	assert.Contains(t, cycles, date(2023, time.December, 10))
	// The cycle that began 2024-01-10 contains the reference date and is the
	// current one; nothing beyond it is emitted.
	assert.Equal(t, date(2024, time.January, 10), cycles[len(cycles)-1])
	assert.Len(t, cycles, 16)
}

func TestCycleScheduleIdempotent(t *testing.T) {
	first := CycleSchedule(date(2022, time.October, 10), 3, date(2024, time.June, 1), true)
	second := CycleSchedule(date(2022, time.October, 10), 3, date(2024, time.June, 1), true)
	assert.Equal(t, first, second)
}

func TestCycleScheduleNewMember(t *testing.T) {
	// Reference inside the first cycle: no advancement.
	cycles := CycleSchedule(date(2024, time.June, 1), 3, date(2024, time.July, 10), true)
	assert.Equal(t, []time.Time{date(2024, time.June, 1)}, cycles)
}

func TestCycleScheduleWithoutBackfill(t *testing.T) {
	cycles := CycleSchedule(date(2020, time.January, 1), 1, date(2024, time.June, 1), false)
	assert.Equal(t, []time.Time{date(2020, time.January, 1)}, cycles)
}

func TestCycleScheduleOpenEndedPlan(t *testing.T) {
	for _, ref := range []time.Time{date(2024, time.January, 1), date(2030, time.January, 1)} {
		cycles := CycleSchedule(date(2023, time.May, 2), 0, ref, true)
		assert.Equal(t, []time.Time{date(2023, time.May, 2)}, cycles)
	}
}

func TestCurrentCycleStart(t *testing.T) {
	current := CurrentCycleStart(date(2022, time.October, 10), 1, date(2024, time.January, 15), true)
	assert.Equal(t, date(2024, time.January, 10), current)

	current = CurrentCycleStart(date(2024, time.March, 5), 0, date(2025, time.March, 5), true)
	assert.Equal(t, date(2024, time.March, 5), current)
}

func TestActiveInMonth(t *testing.T) {
	start := date(2024, time.March, 15)

	// Three-month cycle: mid-March through mid-June, end-exclusive.
	assert.True(t, ActiveInMonth(start, 3, time.March, 2024))
	assert.True(t, ActiveInMonth(start, 3, time.April, 2024))
	assert.True(t, ActiveInMonth(start, 3, time.June, 2024))
	assert.False(t, ActiveInMonth(start, 3, time.February, 2024))
	assert.False(t, ActiveInMonth(start, 3, time.July, 2024))

	// Cycle ending on the 1st does not reach into that month.
	assert.False(t, ActiveInMonth(date(2024, time.March, 1), 1, time.April, 2024))

	// Open-ended plans stay active indefinitely.
	assert.True(t, ActiveInMonth(start, 0, time.December, 2030))
	assert.False(t, ActiveInMonth(start, 0, time.February, 2024))
}

func TestFrozenDays(t *testing.T) {
	days, err := FrozenDays(date(2024, time.March, 1), date(2024, time.March, 31))
	require.NoError(t, err)
	assert.Equal(t, 30, days)

	_, err = FrozenDays(date(2024, time.March, 1), date(2024, time.March, 1))
	assert.ErrorIs(t, err, appErrors.ErrInvalidFreezeWindow)

	_, err = FrozenDays(date(2024, time.March, 10), date(2024, time.March, 5))
	assert.ErrorIs(t, err, appErrors.ErrInvalidFreezeWindow)
}

func TestShiftCycleStart(t *testing.T) {
	assert.Equal(t, date(2024, time.February, 14), ShiftCycleStart(date(2024, time.January, 15), 30))
}
