// Package ledger owns the budget and the date-ordered expense list.
//
// Every mutation writes the full affected state to the backing
// storage.Store before the in-memory copy is replaced, so a failed write
// leaves the ledger unchanged.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"finbuddy/internal/core"
	"finbuddy/internal/storage"
)

// ErrIndexOutOfRange is returned by DeleteExpense for a position that does not exist.
var ErrIndexOutOfRange = errors.New("expense index out of range")

// Op names a ledger mutation.
type Op string

const (
	OpSetBudget     Op = "set_budget"
	OpAddExpense    Op = "add_expense"
	OpDeleteExpense Op = "delete_expense"
	OpReset         Op = "reset"
)

// Event describes a committed mutation.
type Event struct {
	Op       Op
	At       time.Time
	Snapshot Snapshot
}

// Observer is notified after every committed mutation. Observers run
// synchronously on the mutating goroutine and cannot fail the mutation.
type Observer interface {
	LedgerChanged(ctx context.Context, ev Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, ev Event)

func (f ObserverFunc) LedgerChanged(ctx context.Context, ev Event) { f(ctx, ev) }

// Option configures a Ledger at load time.
type Option func(*Ledger)

// WithObserver registers o for change notifications.
func WithObserver(o Observer) Option {
	return func(l *Ledger) {
		if o != nil {
			l.observers = append(l.observers, o)
		}
	}
}

type Ledger struct {
	mu        sync.Mutex
	store     storage.Store
	keys      storage.Keys
	budget    core.Money
	expenses  []core.Expense
	revision  uint64
	observers []Observer
}

// Load reads the ledger from store. Absent or malformed values fall back to
// a zero budget and an empty list; only store errors are returned.
func Load(ctx context.Context, store storage.Store, keys storage.Keys, opts ...Option) (*Ledger, error) {
	l := &Ledger{store: store, keys: keys}
	for _, opt := range opts {
		opt(l)
	}

	raw, ok, err := store.Get(ctx, keys.Budget)
	if err != nil {
		return nil, fmt.Errorf("load budget: %w", err)
	}
	if ok {
		l.budget = decodeBudget(raw)
	}

	raw, ok, err = store.Get(ctx, keys.Expenses)
	if err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}
	if ok {
		expenses, skipped, err := decodeExpenses(raw)
		if err != nil {
			slog.WarnContext(ctx, "Malformed persisted expenses, starting empty",
				"key", keys.Expenses, "error", err)
		}
		if skipped > 0 {
			slog.WarnContext(ctx, "Skipped invalid persisted expenses",
				"key", keys.Expenses, "skipped", skipped)
		}
		sortByDate(expenses)
		l.expenses = expenses
	}

	slog.InfoContext(ctx, "Ledger loaded",
		"budget", l.budget.String(),
		"expenses", len(l.expenses))
	return l, nil
}

// SetBudget stores a new budget. Zero and negative values are accepted.
func (l *Ledger) SetBudget(ctx context.Context, budget core.Money) error {
	l.mu.Lock()
	if err := l.store.Set(ctx, l.keys.Budget, encodeBudget(budget)); err != nil {
		l.mu.Unlock()
		return fmt.Errorf("persist budget: %w", err)
	}
	l.budget = budget
	ev := l.commitLocked(OpSetBudget)
	l.mu.Unlock()

	l.notify(ctx, ev)
	return nil
}

// AddExpense validates raw input, inserts the record and keeps the list
// sorted by date. Validation errors leave the ledger untouched.
func (l *Ledger) AddExpense(ctx context.Context, date, name, category, amount string) (core.Expense, error) {
	e, err := core.ParseExpense(date, name, category, amount)
	if err != nil {
		return core.Expense{}, err
	}
	if err := l.Insert(ctx, e); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

// Insert adds an already built record.
func (l *Ledger) Insert(ctx context.Context, e core.Expense) error {
	if e.Category == "" {
		e.Category = core.DefaultCategory
	}
	if err := e.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	next := make([]core.Expense, len(l.expenses), len(l.expenses)+1)
	copy(next, l.expenses)
	next = append(next, e)
	sortByDate(next)

	if err := l.persistExpensesLocked(ctx, next); err != nil {
		l.mu.Unlock()
		return err
	}
	l.expenses = next
	ev := l.commitLocked(OpAddExpense)
	l.mu.Unlock()

	l.notify(ctx, ev)
	return nil
}

// DeleteExpense removes the record at index and returns it.
func (l *Ledger) DeleteExpense(ctx context.Context, index int) (core.Expense, error) {
	l.mu.Lock()
	if index < 0 || index >= len(l.expenses) {
		n := len(l.expenses)
		l.mu.Unlock()
		return core.Expense{}, fmt.Errorf("%w: %d (size %d)", ErrIndexOutOfRange, index, n)
	}
	removed := l.expenses[index]
	next := make([]core.Expense, 0, len(l.expenses)-1)
	next = append(next, l.expenses[:index]...)
	next = append(next, l.expenses[index+1:]...)

	if err := l.persistExpensesLocked(ctx, next); err != nil {
		l.mu.Unlock()
		return core.Expense{}, err
	}
	l.expenses = next
	ev := l.commitLocked(OpDeleteExpense)
	l.mu.Unlock()

	l.notify(ctx, ev)
	return removed, nil
}

// Reset clears budget and expenses, including the persisted copy.
// Demo-auth keys are left alone.
func (l *Ledger) Reset(ctx context.Context) error {
	l.mu.Lock()
	if err := l.store.Delete(ctx, l.keys.Budget, l.keys.Expenses); err != nil {
		l.mu.Unlock()
		return fmt.Errorf("clear persisted ledger: %w", err)
	}
	l.budget = core.Money{}
	l.expenses = nil
	ev := l.commitLocked(OpReset)
	l.mu.Unlock()

	l.notify(ctx, ev)
	return nil
}

// Snapshot returns a copy of the current state.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// Len returns the number of expenses.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.expenses)
}

// Revision increases by one on every committed mutation.
func (l *Ledger) Revision() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.revision
}

func (l *Ledger) GroupByDate() Series     { return GroupByDate(l.Snapshot().Expenses) }
func (l *Ledger) GroupByCategory() Series { return GroupByCategory(l.Snapshot().Expenses) }

// Status computes budget versus spend for the current state.
func (l *Ledger) Status() Status {
	s := l.Snapshot()
	return ComputeStatus(s.Budget, s.Expenses)
}

func (l *Ledger) persistExpensesLocked(ctx context.Context, expenses []core.Expense) error {
	raw, err := encodeExpenses(expenses)
	if err != nil {
		return fmt.Errorf("encode expenses: %w", err)
	}
	if err := l.store.Set(ctx, l.keys.Expenses, raw); err != nil {
		return fmt.Errorf("persist expenses: %w", err)
	}
	return nil
}

func (l *Ledger) commitLocked(op Op) Event {
	l.revision++
	return Event{Op: op, At: time.Now().UTC(), Snapshot: l.snapshotLocked()}
}

func (l *Ledger) snapshotLocked() Snapshot {
	expenses := make([]core.Expense, len(l.expenses))
	copy(expenses, l.expenses)
	return Snapshot{Budget: l.budget, Expenses: expenses, Revision: l.revision}
}

func (l *Ledger) notify(ctx context.Context, ev Event) {
	slog.DebugContext(ctx, "Ledger changed",
		"operation", string(ev.Op),
		"revision", ev.Snapshot.Revision,
		"expenses", len(ev.Snapshot.Expenses))
	for _, o := range l.observers {
		o.LedgerChanged(ctx, ev)
	}
}

func sortByDate(expenses []core.Expense) {
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].Date.Before(expenses[j].Date)
	})
}
