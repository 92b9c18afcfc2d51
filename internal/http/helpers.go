package http

import (
	"html/template"
	"strings"

	"github.com/shopspring/decimal"

	"finbuddy/internal/core"
)

func formatRupees(m core.Money) string {
	return m.Rupees()
}

func formatAmount(d decimal.Decimal) string {
	return core.FormatRupees(d)
}

// sanitizeInput removes control characters (except tab and line breaks) and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

func escape(s string) string {
	return template.HTMLEscapeString(s)
}
