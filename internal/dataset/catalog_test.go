package dataset

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoad_WithDetailSnapshot(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "datasets.json", `{"version":"1","lastUpdated":"2024-01-01","datasets":[{"id":"transactions","name":"Transactions","description":"..."}]}`)
	writeFile(t, dir, "transactions.json", `{"id":"transactions","schema":{}}`)

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if !c.Exists("transactions") {
		t.Fatal("expected transactions dataset to exist")
	}
	if c.Exists("nope") {
		t.Fatal("expected unknown dataset to not exist")
	}

	detail, err := c.Detail("transactions")
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if len(detail) == 0 {
		t.Fatal("expected non-empty detail snapshot")
	}
}

func TestLoad_MissingDetailIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "datasets.json", `{"version":"1","lastUpdated":"2024-01-01","datasets":[{"id":"transactions","name":"Transactions","description":"..."}]}`)

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	detail, err := c.Detail("transactions")
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if detail != nil {
		t.Fatalf("expected nil detail when no snapshot exists, got %s", detail)
	}
}

func TestDetail_UnknownDatasetIsNotFound(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "datasets.json", `{"version":"1","lastUpdated":"2024-01-01","datasets":[]}`)

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if _, err := c.Detail("nope"); err == nil {
		t.Fatal("expected not-found error")
	}
}

func TestLoad_MissingCatalogFails(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(dir); err == nil {
		t.Fatal("expected error when datasets.json is missing")
	}
}
