package ledger

import "finbuddy/internal/core"

// Status is the budget-versus-spend summary.
type Status struct {
	Budget    core.Money
	Spent     core.Money
	Remaining core.Money
}

// Over reports whether spending exceeds the budget.
func (s Status) Over() bool {
	return s.Remaining.Cents < 0
}

// ComputeStatus returns spent = sum of amounts and remaining = budget - spent.
func ComputeStatus(budget core.Money, expenses []core.Expense) Status {
	var spent core.Money
	for _, e := range expenses {
		spent = spent.Add(e.Amount)
	}
	return Status{Budget: budget, Spent: spent, Remaining: budget.Sub(spent)}
}
