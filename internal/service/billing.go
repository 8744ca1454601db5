package service

import (
	"time"

	appErrors "github.com/inspire-studio/studio-api/pkg/errors"
)

// Billing-cycle calendar arithmetic. A cycle spans DurationMonths calendar
// months from its start; month stepping clamps to the end of shorter months
// (Jan 31 + 1 month = Feb 28/29), matching how contracts have always been
// counted in the studio's spreadsheets.

// AddMonths advances a date by whole calendar months, clamping the day to the
// target month's length instead of letting it roll over.
func AddMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	month += time.Month(months)
	for month > 12 {
		month -= 12
		year++
	}
	for month < 1 {
		month += 12
		year--
	}
	if max := daysInMonth(year, month); day > max {
		day = max
	}
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// CycleEnd returns the exclusive end of a cycle: start plus the plan duration
// in calendar months. Open-ended plans (duration 0) have no end; the zero
// time is returned and callers must treat the cycle as never expiring.
func CycleEnd(start time.Time, durationMonths int) time.Time {
	if durationMonths <= 0 {
		return time.Time{}
	}
	return AddMonths(start, durationMonths)
}

// CycleSchedule computes the billing cycles elapsed between the first
// enrollment date and the reference date.
//
// Without back-fill (a brand-new signup, or an open-ended plan) the schedule
// is the first enrollment date alone. With back-fill the schedule walks
// forward one plan duration at a time, recording every historical cycle
// start, and stops on the cycle containing the reference date: the walk
// advances only while the next cycle start still precedes the reference.
// The last entry is the current cycle start. Running the walk twice over the
// same inputs yields the same schedule.
func CycleSchedule(firstEnrolledAt time.Time, durationMonths int, reference time.Time, backfill bool) []time.Time {
	cycles := []time.Time{firstEnrolledAt}
	if durationMonths <= 0 || !backfill {
		return cycles
	}
	current := firstEnrolledAt
	for reference.After(AddMonths(current, durationMonths)) {
		current = AddMonths(current, durationMonths)
		cycles = append(cycles, current)
	}
	return cycles
}

// CurrentCycleStart resolves the start of the cycle in force at the reference
// date: the last entry of the schedule.
func CurrentCycleStart(firstEnrolledAt time.Time, durationMonths int, reference time.Time, backfill bool) time.Time {
	cycles := CycleSchedule(firstEnrolledAt, durationMonths, reference, backfill)
	return cycles[len(cycles)-1]
}

// ActiveInMonth reports whether a cycle covers any part of competence month
// month/year: the cycle starts no later than the month's last day and ends
// after the month's first day. The start boundary is inclusive, the end
// boundary exclusive. Open-ended plans are active from their start onwards.
func ActiveInMonth(cycleStart time.Time, durationMonths int, month time.Month, year int) bool {
	firstDay := time.Date(year, month, 1, 0, 0, 0, 0, cycleStart.Location())
	lastDay := time.Date(year, month, daysInMonth(year, month), 0, 0, 0, 0, cycleStart.Location())
	if cycleStart.After(lastDay) {
		return false
	}
	if durationMonths <= 0 {
		return true
	}
	return CycleEnd(cycleStart, durationMonths).After(firstDay)
}

// FrozenDays returns the whole days between the freeze start and the
// reactivation date. Reactivation must come at least one day after the
// freeze started; anything else is an invalid window.
func FrozenDays(freezeStart, reactivation time.Time) (int, error) {
	days := daysBetween(freezeStart, reactivation)
	if days < 1 {
		return 0, appErrors.ErrInvalidFreezeWindow
	}
	return days, nil
}

// daysBetween counts whole calendar days from one date to another, ignoring
// time of day. Negative when to precedes from.
func daysBetween(from, to time.Time) int {
	return int(dateOnly(to).Sub(dateOnly(from)).Hours() / 24)
}

// ShiftCycleStart extends a contract after a freeze: the frozen interval is
// added verbatim, in days, to the original cycle start so the member keeps
// exactly the paid-but-unused days.
func ShiftCycleStart(originalCycleStart time.Time, frozenDays int) time.Time {
	return originalCycleStart.AddDate(0, 0, frozenDays)
}

func dateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
