package http

import (
	"testing"

	"github.com/shopspring/decimal"

	"finbuddy/internal/core"
)

func TestFormatRupees(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "₹0"},
		{150, "₹1.50"},
		{100000, "₹1,000"},
		{123456789, "₹1,234,567.89"},
		{-915000, "-₹9,150"},
	}
	for _, tt := range tests {
		if got := formatRupees(core.Money{Cents: tt.cents}); got != tt.want {
			t.Errorf("formatRupees(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
	if got := formatAmount(decimal.NewFromInt(1161695)); got != "₹1,161,695" {
		t.Errorf("formatAmount = %q", got)
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := sanitizeInput("  a\x00b\tc\n "); got != "ab\tc" {
		t.Errorf("sanitizeInput = %q", got)
	}
}
