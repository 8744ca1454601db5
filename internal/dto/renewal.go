package dto

import "time"

// ExpiringMember is one member whose billing cycle has lapsed or is close to
// lapsing. DaysLeft is negative once the cycle has ended.
type ExpiringMember struct {
	EnrollmentID int64     `json:"enrollmentId"`
	MemberName   string    `json:"memberName"`
	PlanName     string    `json:"planName"`
	CycleStart   time.Time `json:"cycleStart"`
	CycleEnd     time.Time `json:"cycleEnd"`
	DaysLeft     int       `json:"daysLeft"`
}

// RenewalOutlookResponse buckets active members by contract urgency.
type RenewalOutlookResponse struct {
	WindowDays   int              `json:"windowDays"`
	Expired      []ExpiringMember `json:"expired"`
	ExpiringSoon []ExpiringMember `json:"expiringSoon"`
}
