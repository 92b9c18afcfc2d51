package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatRupees renders an amount the way the UI shows it: "₹1,234.50",
// with whole amounts printed without decimals ("₹1,000").
func FormatRupees(d decimal.Decimal) string {
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	out := "₹" + groupThousands(intPart)
	if frac != "00" {
		out += "." + frac
	}
	if neg {
		return "-" + out
	}
	return out
}

// Rupees is FormatRupees for a Money value.
func (m Money) Rupees() string {
	return FormatRupees(m.Decimal())
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
