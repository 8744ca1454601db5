package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want float64
	}{
		{"plain decimal", "1234.56", 1234.56},
		{"decimal comma", "1234,56", 1234.56},
		{"currency symbol", "R$ 250,00", 250.00},
		{"thousands dot decimal comma", "R$ 1.234,56", 1234.56},
		{"thousands comma decimal dot", "1,234.56", 1234.56},
		{"double thousands", "1.234.567,89", 1234567.89},
		{"integer", "200", 200},
		{"whitespace", "  180,50 ", 180.50},
		{"empty", "", 0},
		{"garbage", "abc", 0},
		{"lone dash", "-", 0},
		{"negative", "-45,10", -45.10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, ParseAmount(tc.in), 0.001)
		})
	}
}

func TestParseAmountIdempotentOnCanonicalForm(t *testing.T) {
	inputs := []string{"R$ 1.234,56", "970,10", "0,00", "12345.67"}
	for _, in := range inputs {
		first := ParseAmount(in)
		assert.Equal(t, first, ParseAmount(Format(first)), "round-trip changed value for %q", in)
	}
}

func TestParsePercent(t *testing.T) {
	assert.InDelta(t, 0.0299, ParsePercent("2,99"), 1e-9)
	assert.InDelta(t, 0.0299, ParsePercent("2.99%"), 1e-9)
	assert.InDelta(t, 0.10, ParsePercent("10"), 1e-9)
	assert.Zero(t, ParsePercent("n/a"))
	assert.Zero(t, ParsePercent(""))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "970.10", Format(970.1))
	assert.Equal(t, "0.00", Format(0))
	assert.Equal(t, "1234.57", Format(1234.567))
}
