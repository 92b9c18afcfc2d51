package bolt

import (
	"context"
	"path/filepath"
	"testing"
)

func TestBoltStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "fb.bolt")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Set(ctx, "fb_budget", "500.00"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, "fb_expenses", `[{"date":"2024-01-01"}]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	v, ok, err := s.Get(ctx, "fb_budget")
	if err != nil || !ok || v != "500.00" {
		t.Fatalf("unexpected value: v=%q ok=%v err=%v", v, ok, err)
	}

	if err := s.Delete(ctx, "fb_budget", "fb_expenses"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "fb_expenses"); ok {
		t.Fatalf("expected deleted")
	}
}
