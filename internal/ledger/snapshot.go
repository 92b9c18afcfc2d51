package ledger

import "finbuddy/internal/core"

// Snapshot is an immutable copy of the ledger at one revision.
type Snapshot struct {
	Budget   core.Money
	Expenses []core.Expense
	Revision uint64
}

func (s Snapshot) GroupByDate() Series     { return GroupByDate(s.Expenses) }
func (s Snapshot) GroupByCategory() Series { return GroupByCategory(s.Expenses) }
func (s Snapshot) Status() Status          { return ComputeStatus(s.Budget, s.Expenses) }
