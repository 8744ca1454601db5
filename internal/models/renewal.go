package models

import "time"

// RenewalEntry is one row of the append-only contract history: every cycle
// actually billed, whether the initial signup, a renewal, or a back-filled
// cycle registered for a long-standing member. Entries are immutable once
// written.
type RenewalEntry struct {
	ID           int64     `db:"id" json:"id"`
	EnrollmentID int64     `db:"enrollment_id" json:"enrollment_id"`
	MemberName   string    `db:"member_name" json:"member_name"`
	PlanName     string    `db:"plan_name" json:"plan_name"`
	CycleStart   time.Time `db:"cycle_start" json:"cycle_start"`
	MonthlyValue float64   `db:"monthly_value" json:"monthly_value"`
	RecordedAt   time.Time `db:"recorded_at" json:"recorded_at"`
}

// RenewalYearSummary aggregates the contracts started within one year.
type RenewalYearSummary struct {
	Year          int     `json:"year"`
	ContractCount int     `json:"contract_count"`
	MonthlyTotal  float64 `json:"monthly_total"`
}
