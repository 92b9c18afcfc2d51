package backend

import (
	"context"
	"path/filepath"
	"testing"

	"finbuddy/internal/config"
)

func TestCreateBackend(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		cfg  Config
	}{
		{"memory", Config{Type: MemoryBackend}},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "fb.db")}},
		{"bolt", Config{Type: BoltBackend, BoltDBPath: filepath.Join(dir, "fb.bolt")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			res, err := NewFactory(nil).CreateBackend(ctx, tt.cfg)
			if err != nil {
				t.Fatalf("CreateBackend() error = %v", err)
			}
			defer res.Cleanup()

			if res.Keys.Budget != "fb_budget" {
				t.Errorf("Keys.Budget = %q, want fb_budget", res.Keys.Budget)
			}
			if err := res.Store.Set(ctx, res.Keys.Budget, "100.00"); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			v, ok, err := res.Store.Get(ctx, res.Keys.Budget)
			if err != nil || !ok || v != "100.00" {
				t.Errorf("Get() = %q, %v, %v", v, ok, err)
			}
		})
	}
}

func TestCreateBackendSeeded(t *testing.T) {
	ctx := context.Background()
	res, err := NewFactory(nil).CreateBackend(ctx, Config{
		Type:      MemoryBackend,
		KeyPrefix: "demo_",
		Seed:      map[string]string{"demo_budget": "5"},
	})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	if v, ok, _ := res.Store.Get(ctx, res.Keys.Budget); !ok || v != "5" {
		t.Errorf("seeded budget = %q, %v", v, ok)
	}
}

func TestCreateBackendInvalid(t *testing.T) {
	tests := []Config{
		{Type: "sheets"},
		{Type: SQLiteBackend},
		{Type: BoltBackend},
	}
	for _, cfg := range tests {
		if _, err := NewFactory(nil).CreateBackend(context.Background(), cfg); err == nil {
			t.Errorf("CreateBackend(%+v) expected error", cfg)
		}
	}
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}

	cfg, err := FromAppConfig(&config.Config{DataBackend: "bolt", BoltDBPath: "x.bolt", KeyPrefix: "p_"})
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if cfg.Type != BoltBackend || cfg.BoltDBPath != "x.bolt" || cfg.KeyPrefix != "p_" {
		t.Errorf("FromAppConfig() = %+v", cfg)
	}

	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}
