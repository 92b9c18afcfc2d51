// Package calc holds the SIP future-value and income tax estimators.
// Both are illustrative approximations, not financial advice.
package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// DefaultAnnualRate is used when the SIP rate is left blank.
const DefaultAnnualRate = 12.0

// ErrInvalidInput wraps every parse and validation failure in this package.
var ErrInvalidInput = errors.New("invalid calculator input")

var validate = validator.New(validator.WithRequiredStructEnabled())

// SIPInput is a monthly systematic investment plan.
type SIPInput struct {
	Monthly    float64 `validate:"gt=0"`
	AnnualRate float64 `validate:"gte=0,lte=100"`
	Years      float64 `validate:"gt=0,lte=100"`
}

type SIPResult struct {
	FutureValue decimal.Decimal
	Invested    decimal.Decimal
	Gains       decimal.Decimal
}

// ParseSIP reads form values. A blank rate means DefaultAnnualRate.
func ParseSIP(monthly, rate, years string) (SIPInput, error) {
	in := SIPInput{AnnualRate: DefaultAnnualRate}
	var err error
	if in.Monthly, err = parseNumber("monthly amount", monthly); err != nil {
		return SIPInput{}, err
	}
	if strings.TrimSpace(rate) != "" {
		if in.AnnualRate, err = parseNumber("rate", rate); err != nil {
			return SIPInput{}, err
		}
	}
	if in.Years, err = parseNumber("years", years); err != nil {
		return SIPInput{}, err
	}
	return in, nil
}

// SIP returns the future value of paying Monthly at the start of every month:
//
//	r = rate/100/12, n = years*12, FV = P * ((1+r)^n - 1) / r * (1+r)
//
// A zero rate degenerates to P*n. Values are rounded to whole units.
func SIP(in SIPInput) (SIPResult, error) {
	if err := check(in); err != nil {
		return SIPResult{}, err
	}

	p := decimal.NewFromFloat(in.Monthly)
	n := decimal.NewFromFloat(in.Years).Mul(decimal.NewFromInt(12))
	r := decimal.NewFromFloat(in.AnnualRate).Div(decimal.NewFromInt(100)).Div(decimal.NewFromInt(12))
	invested := p.Mul(n)

	fv := invested
	if !r.IsZero() {
		one := decimal.NewFromInt(1)
		growth := decimal.NewFromFloat(math.Pow(one.Add(r).InexactFloat64(), n.InexactFloat64()))
		fv = p.Mul(growth.Sub(one)).Div(r).Mul(one.Add(r))
	}

	fv = fv.Round(0)
	invested = invested.Round(0)
	return SIPResult{FutureValue: fv, Invested: invested, Gains: fv.Sub(invested)}, nil
}

// TaxInput is an annual income figure.
type TaxInput struct {
	Income float64 `validate:"gt=0"`
}

type TaxResult struct {
	Income decimal.Decimal
	Tax    decimal.Decimal
	// Band is 0 for the nil band up to 3 for the top band.
	Band int
}

type band struct {
	upTo decimal.Decimal
	base decimal.Decimal
	rate decimal.Decimal
	from decimal.Decimal
}

var bands = []band{
	{upTo: decimal.NewFromInt(250000)},
	{upTo: decimal.NewFromInt(500000), rate: decimal.RequireFromString("0.05"), from: decimal.NewFromInt(250000)},
	{upTo: decimal.NewFromInt(1000000), base: decimal.NewFromInt(12500), rate: decimal.RequireFromString("0.20"), from: decimal.NewFromInt(500000)},
	{base: decimal.NewFromInt(112500), rate: decimal.RequireFromString("0.30"), from: decimal.NewFromInt(1000000)},
}

func ParseTax(income string) (TaxInput, error) {
	v, err := parseNumber("income", income)
	if err != nil {
		return TaxInput{}, err
	}
	return TaxInput{Income: v}, nil
}

// Tax applies the slab table; the upper bound of each slab is inclusive.
func Tax(in TaxInput) (TaxResult, error) {
	if err := check(in); err != nil {
		return TaxResult{}, err
	}
	income := decimal.NewFromFloat(in.Income)
	for i, b := range bands {
		if i < len(bands)-1 && income.GreaterThan(b.upTo) {
			continue
		}
		tax := b.base.Add(income.Sub(b.from).Mul(b.rate))
		return TaxResult{Income: income, Tax: tax.Round(0), Band: i}, nil
	}
	return TaxResult{}, fmt.Errorf("%w: no tax band", ErrInvalidInput)
}

func parseNumber(field, s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidInput, field)
	}
	return v, nil
}

func check(v any) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s failed %s=%s", ErrInvalidInput, fe.Field(), fe.Tag(), fe.Param())
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
