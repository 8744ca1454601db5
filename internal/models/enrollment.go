package models

import "time"

// EnrollmentStatus represents the lifecycle of a member's contract.
type EnrollmentStatus string

// Possible enrollment statuses. Enrollments are never deleted; they move
// between statuses instead.
const (
	EnrollmentStatusActive    EnrollmentStatus = "ACTIVE"
	EnrollmentStatusInactive  EnrollmentStatus = "INACTIVE"
	EnrollmentStatusCancelled EnrollmentStatus = "CANCELLED"
	EnrollmentStatusFrozen    EnrollmentStatus = "FROZEN"
)

// Enrollment is one member's registration: personal data plus the current
// contract. CycleStart is the start of the currently active billing cycle;
// FirstEnrolledAt is the original signup date and never changes.
// CycleStart is always FirstEnrolledAt plus a whole number of plan durations
// (shifted forward by frozen days after a reactivation).
type Enrollment struct {
	ID              int64            `db:"id" json:"id"`
	FullName        string           `db:"full_name" json:"full_name"`
	Email           string           `db:"email" json:"email"`
	Phone           string           `db:"phone" json:"phone"`
	BirthDate       *time.Time       `db:"birth_date" json:"birth_date,omitempty"`
	PlanName        string           `db:"plan_name" json:"plan_name"`
	CycleStart      time.Time        `db:"cycle_start" json:"cycle_start"`
	FirstEnrolledAt time.Time        `db:"first_enrolled_at" json:"first_enrolled_at"`
	Status          EnrollmentStatus `db:"status" json:"status"`
	DiscountPercent float64          `db:"discount_percent" json:"discount_percent"`
	DiscountReason  string           `db:"discount_reason" json:"discount_reason"`
	FreezeStartedAt *time.Time       `db:"freeze_started_at" json:"freeze_started_at,omitempty"`
	Notes           string           `db:"notes" json:"notes"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updated_at"`
}

// EnrollmentDetail enriches Enrollment with the joined plan attributes.
type EnrollmentDetail struct {
	Enrollment
	MonthlyPrice   float64 `db:"monthly_price" json:"monthly_price"`
	DurationMonths int     `db:"duration_months" json:"duration_months"`
}

// EnrollmentFilter provides filters for listing enrollments.
type EnrollmentFilter struct {
	Status    EnrollmentStatus
	PlanName  string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
