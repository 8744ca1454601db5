package dto

// MonthlyReportResponse is the monthly financial report: forecast vs realized
// revenue and expenses for one competence month, plus the per-member payment
// status table and discount breakdown.
type MonthlyReportResponse struct {
	Month int `json:"month"`
	Year  int `json:"year"`

	Revenue  RevenueSection  `json:"revenue"`
	Expenses ExpensesSection `json:"expenses"`
	Result   ResultSection   `json:"result"`

	MemberStatuses []MemberPaymentStatus `json:"memberStatuses"`
	Discounts      []DiscountLine        `json:"discounts"`
}

// RevenueSection details billed and collected revenue.
type RevenueSection struct {
	Forecast      float64 `json:"forecast"`
	RealizedGross float64 `json:"realizedGross"`
	RealizedNet   float64 `json:"realizedNet"`
	FeesPaid      float64 `json:"feesPaid"`
	Receivable    float64 `json:"receivable"`
}

// ExpensesSection details provisioned and settled expenses.
type ExpensesSection struct {
	Forecast float64 `json:"forecast"`
	Realized float64 `json:"realized"`
	Payable  float64 `json:"payable"`
}

// ResultSection carries the month's bottom line.
type ResultSection struct {
	CashProfit    float64 `json:"cashProfit"`
	DiscountTotal float64 `json:"discountTotal"`
}

// PaymentSettlement classifies how much of the month's bill a member covered.
type PaymentSettlement string

// Settlement classifications.
const (
	SettlementPaid    PaymentSettlement = "PAID"
	SettlementPartial PaymentSettlement = "PARTIAL"
	SettlementNotPaid PaymentSettlement = "NOT_PAID"
)

// MemberPaymentStatus is one row of the per-member debt table. Billed is the
// discounted plan value; Paid sums the member's gross payments for the month,
// because the debt owed is a gross figure untouched by card fees.
type MemberPaymentStatus struct {
	EnrollmentID    int64             `json:"enrollmentId"`
	MemberName      string            `json:"memberName"`
	PlanName        string            `json:"planName"`
	ListPrice       float64           `json:"listPrice"`
	DiscountPercent float64           `json:"discountPercent"`
	Billed          float64           `json:"billed"`
	Paid            float64           `json:"paid"`
	Outstanding     float64           `json:"outstanding"`
	Settlement      PaymentSettlement `json:"settlement"`
}

// DiscountLine reports one member's concession for the month.
type DiscountLine struct {
	EnrollmentID    int64   `json:"enrollmentId"`
	MemberName      string  `json:"memberName"`
	PlanName        string  `json:"planName"`
	ListPrice       float64 `json:"listPrice"`
	DiscountPercent float64 `json:"discountPercent"`
	Discounted      float64 `json:"discounted"`
	Reason          string  `json:"reason"`
}

// ProjectionPoint is one month of the rolling forecast.
type ProjectionPoint struct {
	Month           int     `json:"month"`
	Year            int     `json:"year"`
	RevenueForecast float64 `json:"revenueForecast"`
	ExpenseForecast float64 `json:"expenseForecast"`
	DiscountTotal   float64 `json:"discountTotal"`
}

// ProjectionResponse is the rolling multi-month outlook starting at the
// requested competence month.
type ProjectionResponse struct {
	StartMonth int               `json:"startMonth"`
	StartYear  int               `json:"startYear"`
	Points     []ProjectionPoint `json:"points"`
}
