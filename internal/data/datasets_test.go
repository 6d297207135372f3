package data

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestListDatasets(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"b.csv":     rawCSV,
		"a.json":    "[]",
		"notes.txt": "skip me",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.csv"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := ListDatasets(dir)
	if err != nil {
		t.Fatalf("ListDatasets: %v", err)
	}
	if len(got) != 2 || got[0].Name != "a.json" || got[1].Name != "b.csv" || got[1].Format != "csv" {
		t.Fatalf("datasets = %+v", got)
	}

	missing, err := ListDatasets(filepath.Join(dir, "nope"))
	if err != nil || len(missing) != 0 {
		t.Fatalf("missing dir = %v, %v", missing, err)
	}
}

func TestLoadDataset(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "day.csv"), []byte(rawCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	trades, err := LoadDataset(dir, "day.csv", NormalizeOptions{})
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	if len(trades) != 4 {
		t.Fatalf("trades = %d, want 4", len(trades))
	}

	for _, name := range []string{"", "../day.csv", "sub/day.csv", ".hidden.csv", "absent.csv"} {
		if _, err := LoadDataset(dir, name, NormalizeOptions{}); !errors.Is(err, ErrDatasetNotFound) {
			t.Errorf("LoadDataset(%q) err = %v, want ErrDatasetNotFound", name, err)
		}
	}
}
