package models

import "time"

// ExpenseCategory classifies an expense line.
type ExpenseCategory string

// Expense categories.
const (
	ExpenseCategoryFixed    ExpenseCategory = "FIXED"
	ExpenseCategoryVariable ExpenseCategory = "VARIABLE"
	ExpenseCategoryOneOff   ExpenseCategory = "ONE_OFF"
)

// ExpenseStatus tracks settlement of a provisioned expense.
type ExpenseStatus string

// Expense settlement statuses.
const (
	ExpenseStatusPending ExpenseStatus = "PENDING"
	ExpenseStatusPartial ExpenseStatus = "PARTIAL"
	ExpenseStatusPaid    ExpenseStatus = "PAID"
)

// Expense is one provisioned account-payable line for a competence month.
// Installment purchases and recurring bills expand into one row per month.
type Expense struct {
	ID              int64           `db:"id" json:"id"`
	Description     string          `db:"description" json:"description"`
	AmountBilled    float64         `db:"amount_billed" json:"amount_billed"`
	CompetenceMonth int             `db:"competence_month" json:"competence_month"`
	CompetenceYear  int             `db:"competence_year" json:"competence_year"`
	Category        ExpenseCategory `db:"category" json:"category"`
	Status          ExpenseStatus   `db:"status" json:"status"`
	AmountPaid      float64         `db:"amount_paid" json:"amount_paid"`
	PaidAt          *time.Time      `db:"paid_at" json:"paid_at,omitempty"`
	Method          string          `db:"method" json:"method"`
	Recurring       bool            `db:"recurring" json:"recurring"`
	DueDate         *time.Time      `db:"due_date" json:"due_date,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// Outstanding returns the unpaid remainder of the expense.
func (e Expense) Outstanding() float64 {
	return e.AmountBilled - e.AmountPaid
}

// ExpenseFilter provides filters for listing expenses.
type ExpenseFilter struct {
	Statuses        []ExpenseStatus
	CompetenceMonth int
	CompetenceYear  int
}
