package dto

// ReserveBalance is the principal held in one investment product.
type ReserveBalance struct {
	Product   string  `json:"product"`
	RateShare float64 `json:"rateShare"`
	Principal float64 `json:"principal"`
}

// ReserveOverviewResponse summarises the opportunity reserve.
type ReserveOverviewResponse struct {
	TotalPrincipal float64          `json:"totalPrincipal"`
	TargetAmount   float64          `json:"targetAmount"`
	TargetCoverage float64          `json:"targetCoverage"`
	Balances       []ReserveBalance `json:"balances"`
}

// ReserveProjectionPoint is the reserve's projected value after one more
// month of compounding.
type ReserveProjectionPoint struct {
	MonthOffset int     `json:"monthOffset"`
	Value       float64 `json:"value"`
	Earnings    float64 `json:"earnings"`
}

// ReserveProjectionResponse projects the current principal forward at the
// reference rate.
type ReserveProjectionResponse struct {
	Principal  float64                  `json:"principal"`
	AnnualRate float64                  `json:"annualRate"`
	Points     []ReserveProjectionPoint `json:"points"`
}
