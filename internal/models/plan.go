package models

import "time"

// Plan is a membership plan sold by the studio. DurationMonths zero means the
// plan is open-ended and never expires.
type Plan struct {
	Name           string    `db:"name" json:"name"`
	MonthlyPrice   float64   `db:"monthly_price" json:"monthly_price"`
	DurationMonths int       `db:"duration_months" json:"duration_months"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// OpenEnded reports whether the plan has no expiry.
func (p Plan) OpenEnded() bool {
	return p.DurationMonths == 0
}
