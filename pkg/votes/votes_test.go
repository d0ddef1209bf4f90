package votes

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		amount   string
		currency string
		expected int64
	}{
		{
			name:     "USD multiplies by 10",
			amount:   "100",
			currency: "USD",
			expected: 1000,
		},
		{
			name:     "NPR divides by 10",
			amount:   "250",
			currency: "NPR",
			expected: 25,
		},
		{
			name:     "NPR floor does not lose a vote to float error",
			amount:   "290",
			currency: "NPR",
			expected: 29,
		},
		{
			name:     "KRW fractional result floors to zero",
			amount:   "99",
			currency: "KRW",
			expected: 0,
		},
		{
			name:     "KRW exact boundary",
			amount:   "200",
			currency: "KRW",
			expected: 1,
		},
		{
			name:     "HKD bypasses the rate table",
			amount:   "5",
			currency: "HKD",
			expected: 5,
		},
		{
			name:     "HKD fractional amount floors",
			amount:   "5.99",
			currency: "HKD",
			expected: 5,
		},
		{
			name:     "unknown currency defaults to rate 1",
			amount:   "10",
			currency: "ZZZ",
			expected: 10,
		},
		{
			name:     "BDT repeating decimal floors",
			amount:   "100",
			currency: "BDT",
			expected: 6,
		},
		{
			name:     "JPY divides by 20",
			amount:   "419",
			currency: "JPY",
			expected: 20,
		},
		{
			name:     "THB divides by 4",
			amount:   "103",
			currency: "THB",
			expected: 25,
		},
		{
			name:     "KWD multiplies by 20",
			amount:   "3.5",
			currency: "KWD",
			expected: 70,
		},
		{
			name:     "lowercase code is not matched",
			amount:   "100",
			currency: "usd",
			expected: 100,
		},
		{
			name:     "zero amount",
			amount:   "0",
			currency: "EUR",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			assert.Equal(t, tt.expected, Calculate(amount, tt.currency))
		})
	}
}

func TestCalculateMonotonic(t *testing.T) {
	t.Parallel()

	for _, currency := range []string{"USD", "NPR", "KRW", "HKD", "BDT", "ZZZ"} {
		prev := int64(0)
		for amount := int64(0); amount <= 500; amount += 7 {
			got := Calculate(decimal.NewFromInt(amount), currency)
			assert.GreaterOrEqual(t, got, prev, "currency %s amount %d", currency, amount)
			prev = got
		}
	}
}

func TestCalculateFloat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(1000), CalculateFloat(100, "USD"))
	assert.Equal(t, int64(25), CalculateFloat(250, "NPR"))

	// Non-finite input is hardened to zero votes.
	assert.Equal(t, int64(0), CalculateFloat(math.NaN(), "USD"))
	assert.Equal(t, int64(0), CalculateFloat(math.Inf(1), "USD"))
	assert.Equal(t, int64(0), CalculateFloat(math.Inf(-1), "NPR"))
}

func TestQualifies(t *testing.T) {
	t.Parallel()

	assert.True(t, Qualifies(decimal.NewFromInt(100), "NPR", 10))
	assert.False(t, Qualifies(decimal.NewFromInt(99), "NPR", 10))
	assert.True(t, Qualifies(decimal.NewFromInt(1), "USD", 10))
}
