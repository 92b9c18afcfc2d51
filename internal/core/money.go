// Package core provides money parsing and handling utilities.
//
// Amounts are kept in integer cents. Conversion to and from decimal text goes
// through shopspring/decimal so that persisted values round-trip exactly.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// maxAmount bounds parsed amounts so that cents fit in an int64.
var maxAmount = decimal.NewFromInt((1<<63 - 1) / 100)

// ParseDecimalToCents converts a positive decimal string to cents with half-up
// rounding on the third decimal place.
//
// Commas are treated as thousands separators, so "10,000.5" is accepted.
// Only ASCII digits and one decimal point are allowed: signs, exponents and
// other scripts' digits are rejected. Returns ErrInvalidAmount for empty,
// malformed or zero values.
//
// Examples:
//
//	ParseDecimalToCents("12.34")  -> 1234, nil
//	ParseDecimalToCents("12.345") -> 1235, nil
//	ParseDecimalToCents("10,000") -> 1000000, nil
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if !isPlainDecimal(s) {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.GreaterThanOrEqual(maxAmount) {
		return 0, ErrInvalidAmount
	}
	cents := MoneyFromDecimal(d).Cents
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// isPlainDecimal reports whether s is ASCII digits with at most one '.'.
func isPlainDecimal(s string) bool {
	digits, points := 0, 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			digits++
		case c == '.':
			points++
		default:
			return false
		}
	}
	return digits > 0 && points <= 1
}

// ParseBudget coerces free-form input into a budget the way a numeric
// conversion would: "1e3" is 1000, anything that is not a number becomes
// zero, and negative budgets are allowed.
func ParseBudget(s string) Money {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil || d.Abs().GreaterThanOrEqual(maxAmount) {
		return Money{}
	}
	return MoneyFromDecimal(d)
}

// MoneyFromDecimal converts a decimal amount to cents, rounding half away from zero.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{Cents: d.Shift(2).Round(0).IntPart()}
}

// Decimal returns the amount as a decimal with two fractional digits.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String renders the amount as plain decimal text ("1000.00").
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// Units returns the amount as a float64 for charting only.
// Use cents for calculations.
func (m Money) Units() float64 {
	return m.Decimal().InexactFloat64()
}
