package memory

import (
	"context"
	"errors"
	"testing"

	"finbuddy/internal/core"
	"finbuddy/internal/ledger"
)

func TestMirrorKeepsCopy(t *testing.T) {
	m := New()
	exps := []core.Expense{{Date: core.NewDate(2024, 1, 1), Name: "a", Category: "x", Amount: core.Money{Cents: 1}}}
	if err := m.Mirror(context.Background(), ledger.Snapshot{Expenses: exps, Revision: 2}); err != nil {
		t.Fatalf("Mirror() error = %v", err)
	}
	exps[0].Name = "changed"

	last, n := m.Last()
	if n != 1 || last.Revision != 2 || last.Expenses[0].Name != "a" {
		t.Errorf("Last() = %+v, %d", last, n)
	}
}

func TestMirrorFailWith(t *testing.T) {
	m := New()
	boom := errors.New("boom")
	m.FailWith(boom)
	if err := m.Mirror(context.Background(), ledger.Snapshot{}); !errors.Is(err, boom) {
		t.Errorf("Mirror() error = %v, want boom", err)
	}
	m.FailWith(nil)
	if err := m.Mirror(context.Background(), ledger.Snapshot{}); err != nil {
		t.Errorf("Mirror() error = %v", err)
	}
	if _, n := m.Last(); n != 1 {
		t.Errorf("writes = %d, want 1", n)
	}
}
