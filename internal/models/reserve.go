package models

import "time"

// ReserveMovementType distinguishes deposits from withdrawals.
type ReserveMovementType string

// Reserve movement types.
const (
	ReserveMovementDeposit    ReserveMovementType = "DEPOSIT"
	ReserveMovementWithdrawal ReserveMovementType = "WITHDRAWAL"
)

// ReserveMovement is one cash movement in the studio's opportunity reserve.
// Withdrawals are stored with a negative amount so a plain sum yields the
// principal balance.
type ReserveMovement struct {
	ID          int64               `db:"id" json:"id"`
	Date        time.Time           `db:"date" json:"date"`
	Type        ReserveMovementType `db:"type" json:"type"`
	Product     string              `db:"product" json:"product"`
	Amount      float64             `db:"amount" json:"amount"`
	Description string              `db:"description" json:"description"`
	CreatedAt   time.Time           `db:"created_at" json:"created_at"`
}

// ReserveProduct describes an investment vehicle: its label and the share of
// the reference rate it earns (1.02 for a "102% CDI" certificate).
type ReserveProduct struct {
	Name      string  `json:"name"`
	RateShare float64 `json:"rate_share"`
}
