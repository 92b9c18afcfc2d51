package ledger

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"finbuddy/internal/core"
)

// record is the persisted shape of an expense: {"date","name","cat","amt"}.
type record struct {
	Date string      `json:"date"`
	Name string      `json:"name"`
	Cat  string      `json:"cat"`
	Amt  json.Number `json:"amt"`
}

func encodeBudget(m core.Money) string {
	return m.String()
}

func decodeBudget(raw string) core.Money {
	return core.ParseBudget(raw)
}

func encodeExpenses(expenses []core.Expense) (string, error) {
	records := make([]record, len(expenses))
	for i, e := range expenses {
		records[i] = record{
			Date: e.Date.String(),
			Name: e.Name,
			Cat:  e.Category,
			Amt:  json.Number(e.Amount.Decimal().String()),
		}
	}
	b, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeExpenses parses the persisted list. A malformed document yields an
// empty list and the parse error; individually invalid records are dropped
// and counted.
func decodeExpenses(raw string) ([]core.Expense, int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, 0, nil
	}
	var records []record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, 0, err
	}
	out := make([]core.Expense, 0, len(records))
	skipped := 0
	for _, r := range records {
		e, ok := r.toExpense()
		if !ok {
			skipped++
			continue
		}
		out = append(out, e)
	}
	return out, skipped, nil
}

func (r record) toExpense() (core.Expense, bool) {
	d, err := core.ParseDate(r.Date)
	if err != nil {
		return core.Expense{}, false
	}
	amt, err := decimal.NewFromString(r.Amt.String())
	if err != nil {
		return core.Expense{}, false
	}
	e := core.Expense{
		Date:     d,
		Name:     strings.TrimSpace(r.Name),
		Category: strings.TrimSpace(r.Cat),
		Amount:   core.MoneyFromDecimal(amt),
	}
	if e.Category == "" {
		e.Category = core.DefaultCategory
	}
	if e.Validate() != nil {
		return core.Expense{}, false
	}
	return e, true
}
