// Package votes converts payment amounts into vote counts.
//
// Every view that shows vote totals (leaderboards, per-processor breakdowns,
// activity charts) must agree on the conversion, so the rate table and the
// floor rule live here and nowhere else.
package votes

import (
	"math"

	"github.com/shopspring/decimal"
)

// rate is a vote-value multiplier expressed as a ratio so that fractional
// rates like 1/200 stay exact.
type rate struct {
	num int64
	den int64
}

// rateTable maps a currency code to its vote-value multiplier. Codes not in
// the table convert 1:1. The HKD entry is intentionally unused: HKD amounts
// map straight to floor(amount), see Calculate.
var rateTable = map[string]rate{
	"USD": {10, 1},
	"AUD": {5, 1},
	"GBP": {10, 1},
	"CAD": {5, 1},
	"EUR": {10, 1},
	"AED": {2, 1},
	"QAR": {2, 1},
	"MYR": {2, 1},
	"KWD": {20, 1},
	"HKD": {1, 1},
	"CNY": {1, 1},
	"SAR": {2, 1},
	"OMR": {20, 1},
	"SGD": {8, 1},
	"NOK": {1, 1},
	"NZD": {4, 1},
	"ILS": {2, 1},
	"KGS": {1, 1},
	"KRW": {1, 200},
	"BDT": {1, 15},
	"INR": {1, 10},
	"NPR": {1, 10},
	"JPY": {1, 20},
	"THB": {1, 4},
}

// Calculate returns the vote count for amount in the given currency.
//
// The currency code must already be uppercased by the caller; lookup is
// exact. Unknown currencies use rate 1. HKD bypasses the table and yields
// floor(amount) regardless of its rate entry.
func Calculate(amount decimal.Decimal, currency string) int64 {
	if currency == "HKD" {
		return amount.Floor().IntPart()
	}

	r, ok := rateTable[currency]
	if !ok {
		r = rate{1, 1}
	}

	v := amount.Mul(decimal.NewFromInt(r.num))
	if r.den != 1 {
		v = v.Div(decimal.NewFromInt(r.den))
	}
	return v.Floor().IntPart()
}

// CalculateFloat is Calculate for float64 amounts. Non-finite amounts count
// as zero votes rather than poisoning downstream sums.
func CalculateFloat(amount float64, currency string) int64 {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0
	}
	return Calculate(decimal.NewFromFloat(amount), currency)
}

// Qualifies reports whether a single payment reaches the minimum vote count
// used by leaderboard and statistics views.
func Qualifies(amount decimal.Decimal, currency string, minVotes int64) bool {
	return Calculate(amount, currency) >= minVotes
}
