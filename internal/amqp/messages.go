package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"finbuddy/internal/core"
	"finbuddy/internal/ledger"
)

// LedgerEvent carries the full ledger state after a mutation, so consumers
// never need to read the producer's store.
type LedgerEvent struct {
	ID          uuid.UUID      `json:"id"`
	Op          string         `json:"op"`
	Revision    uint64         `json:"revision"`
	OccurredAt  time.Time      `json:"occurred_at"`
	BudgetCents int64          `json:"budget_cents"`
	Expenses    []EventExpense `json:"expenses"`
}

type EventExpense struct {
	Date        string `json:"date"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	AmountCents int64  `json:"amount_cents"`
}

// NewLedgerEvent builds the message for a committed ledger change.
func NewLedgerEvent(ev ledger.Event) LedgerEvent {
	out := LedgerEvent{
		ID:          uuid.New(),
		Op:          string(ev.Op),
		Revision:    ev.Snapshot.Revision,
		OccurredAt:  ev.At,
		BudgetCents: ev.Snapshot.Budget.Cents,
		Expenses:    make([]EventExpense, len(ev.Snapshot.Expenses)),
	}
	if out.OccurredAt.IsZero() {
		out.OccurredAt = time.Now().UTC()
	}
	for i, e := range ev.Snapshot.Expenses {
		out.Expenses[i] = EventExpense{
			Date:        e.Date.String(),
			Name:        e.Name,
			Category:    e.Category,
			AmountCents: e.Amount.Cents,
		}
	}
	return out
}

// Snapshot rebuilds the ledger state carried by the event.
func (e LedgerEvent) Snapshot() (ledger.Snapshot, error) {
	s := ledger.Snapshot{
		Budget:   core.Money{Cents: e.BudgetCents},
		Expenses: make([]core.Expense, len(e.Expenses)),
		Revision: e.Revision,
	}
	for i, x := range e.Expenses {
		d, err := core.ParseDate(x.Date)
		if err != nil {
			return ledger.Snapshot{}, fmt.Errorf("expense %d: %w", i, err)
		}
		s.Expenses[i] = core.Expense{
			Date:     d,
			Name:     x.Name,
			Category: x.Category,
			Amount:   core.Money{Cents: x.AmountCents},
		}
	}
	return s, nil
}

func (e LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func LedgerEventFromJSON(data []byte) (LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return LedgerEvent{}, err
	}
	if e.ID == uuid.Nil {
		return LedgerEvent{}, fmt.Errorf("ledger event without id")
	}
	return e, nil
}
