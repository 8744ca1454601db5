package models

import "time"

// Payment records money received from a member, attributed to a competence
// month/year regardless of when it was paid. NetAmount is nil while the
// processing fee is unknown; reporting then falls back to the gross figure.
type Payment struct {
	ID              int64     `db:"id" json:"id"`
	EnrollmentID    int64     `db:"enrollment_id" json:"enrollment_id"`
	MemberName      string    `db:"member_name" json:"member_name"`
	PaidAt          time.Time `db:"paid_at" json:"paid_at"`
	CompetenceMonth int       `db:"competence_month" json:"competence_month"`
	CompetenceYear  int       `db:"competence_year" json:"competence_year"`
	GrossAmount     float64   `db:"gross_amount" json:"gross_amount"`
	NetAmount       *float64  `db:"net_amount" json:"net_amount,omitempty"`
	Method          string    `db:"method" json:"method"`
	Notes           string    `db:"notes" json:"notes"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// EffectiveNet returns the net amount, defaulting to gross when the net is
// unset or zero. A zero net means "fee unknown", never "no revenue".
func (p Payment) EffectiveNet() float64 {
	if p.NetAmount == nil || *p.NetAmount == 0 {
		return p.GrossAmount
	}
	return *p.NetAmount
}
