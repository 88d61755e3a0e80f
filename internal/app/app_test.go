package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/luarss/cea-live/internal/config"
	"github.com/luarss/cea-live/internal/logging"
	"github.com/luarss/cea-live/internal/store"
)

func TestNew_WiresEveryDependency(t *testing.T) {
	dir := t.TempDir()

	// Seed a minimal store file the ReadOnly open can attach to.
	rw, err := store.Open(context.Background(), filepath.Join(dir, "cea-transactions.db"), store.ReadWrite)
	if err != nil {
		t.Fatalf("seed store: %v", err)
	}
	rw.Close()

	if err := os.WriteFile(filepath.Join(dir, "datasets.json"), []byte(`{"version":"1","lastUpdated":"2024-01-01","datasets":[]}`), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	cfg := config.Default()
	cfg.Store.DataDir = dir

	a, err := New(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()

	if a.Store == nil || a.Cache == nil || a.Kernels == nil || a.Catalog == nil || a.Health == nil {
		t.Fatal("expected every dependency to be wired")
	}

	result := a.Health.Check(context.Background())
	if !result.IsHealthy() {
		t.Fatalf("expected store to report healthy, got %+v", result)
	}
}
