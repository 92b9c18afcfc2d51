package memory

import (
	"context"
	"errors"
	"testing"

	"finbuddy/internal/storage"
)

func TestMemoryStoreSetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := New(map[string]string{"fb_budget": "10.00"})

	v, ok, err := s.Get(ctx, "fb_budget")
	if err != nil || !ok || v != "10.00" {
		t.Fatalf("unexpected seed value: v=%q ok=%v err=%v", v, ok, err)
	}

	if err := s.Set(ctx, "fb_expenses", "[]"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := s.Keys(); len(got) != 2 || got[0] != "fb_budget" || got[1] != "fb_expenses" {
		t.Fatalf("unexpected keys: %v", got)
	}

	if err := s.Delete(ctx, "fb_budget", "nope"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "fb_budget"); ok {
		t.Fatalf("expected deleted")
	}
}

func TestMemoryStoreClosed(t *testing.T) {
	s := New(nil)
	_ = s.Close()
	if err := s.Set(context.Background(), "k", "v"); !errors.Is(err, storage.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}
