// Package money normalises locale-formatted currency and percentage strings.
//
// Amounts arrive from spreadsheet imports and free-text forms in mixed
// Brazilian formats ("R$ 1.234,56", "1234.56", "1,234.56"). Parsing is
// best-effort: a value that cannot be understood becomes 0 so a single bad
// cell never fails a whole report.
package money

import (
	"math"
	"strconv"
	"strings"
)

const currencySymbol = "R$"

// ParseAmount converts a currency string into a float64 rounded to cents.
// Unparseable input yields 0.
func ParseAmount(raw string) float64 {
	cleaned := normalise(raw)
	if cleaned == "" {
		return 0
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return Round(value)
}

// ParsePercent converts a percentage string ("3,99", "3.99%", "R$ 3,99")
// into a fraction between 0 and 1. Unparseable input yields 0.
func ParsePercent(raw string) float64 {
	cleaned := normalise(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	if cleaned == "" {
		return 0
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return value / 100
}

// Format renders an amount in the canonical "1234.56" form used on write-back.
func Format(value float64) string {
	return strconv.FormatFloat(Round(value), 'f', 2, 64)
}

// Round truncates monetary noise beyond two decimal places.
func Round(value float64) float64 {
	return math.Round(value*100) / 100
}

// normalise strips the currency symbol and whitespace and converts the
// remaining separators to a single decimal point. When the string carries
// more than one separator only the last one is kept as the decimal point;
// the others are treated as thousands marks and removed.
func normalise(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, currencySymbol, "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" || s == "-" {
		return ""
	}

	s = strings.ReplaceAll(s, ",", ".")
	if n := strings.Count(s, "."); n > 1 {
		s = strings.Replace(s, ".", "", n-1)
	}
	return s
}
