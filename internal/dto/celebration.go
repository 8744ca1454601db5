package dto

// BirthdayLine is one member celebrating a birthday in the requested month.
type BirthdayLine struct {
	EnrollmentID int64  `json:"enrollmentId"`
	MemberName   string `json:"memberName"`
	Day          int    `json:"day"`
	TurnsAge     int    `json:"turnsAge"`
}

// AnniversaryLine is one member completing whole years of enrollment in the
// requested month.
type AnniversaryLine struct {
	EnrollmentID int64  `json:"enrollmentId"`
	MemberName   string `json:"memberName"`
	Day          int    `json:"day"`
	Years        int    `json:"years"`
}

// CelebrationsResponse lists the month's birthdays and studio anniversaries.
type CelebrationsResponse struct {
	Month         int               `json:"month"`
	Year          int               `json:"year"`
	Birthdays     []BirthdayLine    `json:"birthdays"`
	Anniversaries []AnniversaryLine `json:"anniversaries"`
}
