package store

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	s, err := Open(context.Background(), path, ReadWrite)
	if err != nil {
		t.Fatalf("open read-write store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_AppliesSchema(t *testing.T) {
	s := newTestStore(t)

	stmt, err := s.Prepare(context.Background(), "SELECT name FROM sqlite_master WHERE type='table' AND name='transactions'")
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	defer stmt.Close()

	rows, err := stmt.All(context.Background())
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected transactions table to exist, got %d rows", len(rows))
	}
}

func TestStatement_AllAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Exec(ctx, `INSERT INTO transactions (salesperson_reg_num, property_type) VALUES ('R001', 'Condo'), ('R002', 'HDB')`); err != nil {
		t.Fatalf("insert: %v", err)
	}

	stmt, err := s.Prepare(ctx, "SELECT salesperson_reg_num, property_type FROM transactions ORDER BY id")
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	defer stmt.Close()

	rows, err := stmt.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0]["salesperson_reg_num"] != "R001" {
		t.Fatalf("unexpected row 0: %v", rows[0])
	}

	getStmt, err := s.Prepare(ctx, "SELECT salesperson_reg_num FROM transactions WHERE property_type = ?")
	if err != nil {
		t.Fatalf("prepare get: %v", err)
	}
	defer getStmt.Close()

	row, err := getStmt.Get(ctx, "HDB")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if row["salesperson_reg_num"] != "R002" {
		t.Fatalf("unexpected row: %v", row)
	}

	missing, err := getStmt.Get(ctx, "Landed")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for no match, got %v", missing)
	}
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestClose_IsIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestOpen_ReadOnlyMissingFileFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "does-not-exist.db")

	if _, err := Open(context.Background(), path, ReadOnly); err == nil {
		t.Fatal("expected error opening missing read-only file")
	}
}
