package core

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the calendar date format used on the wire, in storage and in forms.
const DateLayout = "2006-01-02"

// DefaultCategory is assigned to expenses entered without a category.
const DefaultCategory = "Other"

type (
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Expense is a single ledger record. Records are immutable once created;
	// the ledger only ever appends or removes them.
	Expense struct {
		Date     Date
		Name     string
		Category string
		Amount   Money
	}
)

var (
	ErrEmptyDate     = errors.New("date is required")
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyName     = errors.New("name is required")
	ErrInvalidAmount = errors.New("invalid amount")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrEmptyDate
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String returns the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrEmptyDate
	}
	return nil
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool {
	return d.Time.Before(o.Time)
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// Sub returns m - o.
func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

// ParseExpense builds an Expense from raw form values. A blank category
// falls back to DefaultCategory.
func ParseExpense(date, name, category, amount string) (Expense, error) {
	d, err := ParseDate(date)
	if err != nil {
		return Expense{}, err
	}
	cents, err := ParseDecimalToCents(amount)
	if err != nil {
		return Expense{}, err
	}
	e := Expense{
		Date:     d,
		Name:     strings.TrimSpace(name),
		Category: strings.TrimSpace(category),
		Amount:   Money{Cents: cents},
	}
	if e.Category == "" {
		e.Category = DefaultCategory
	}
	if err := e.Validate(); err != nil {
		return Expense{}, err
	}
	return e, nil
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Name)) == 0 {
		return ErrEmptyName
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	return nil
}

// IsValidation reports whether err is one of the input validation errors above.
func IsValidation(err error) bool {
	switch {
	case errors.Is(err, ErrEmptyDate),
		errors.Is(err, ErrInvalidDate),
		errors.Is(err, ErrEmptyName),
		errors.Is(err, ErrInvalidAmount):
		return true
	}
	return false
}
