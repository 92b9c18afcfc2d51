// Package memory is an in-process LedgerMirror used when no spreadsheet is configured.
package memory

import (
	"context"
	"sync"

	"finbuddy/internal/ledger"
	ports "finbuddy/internal/sheets"
)

type Mirror struct {
	mu     sync.Mutex
	last   ledger.Snapshot
	writes int
	err    error
}

var _ ports.LedgerMirror = (*Mirror)(nil)

func New() *Mirror { return &Mirror{} }

// Mirror keeps a copy of snap, or returns the error set with FailWith.
func (m *Mirror) Mirror(_ context.Context, snap ledger.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	expenses := append(snap.Expenses[:0:0], snap.Expenses...)
	m.last = ledger.Snapshot{Budget: snap.Budget, Expenses: expenses, Revision: snap.Revision}
	m.writes++
	return nil
}

// FailWith makes subsequent writes return err; nil restores normal behavior.
func (m *Mirror) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Last returns the most recent mirrored snapshot and the number of writes so far.
func (m *Mirror) Last() (ledger.Snapshot, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last, m.writes
}
