package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"incident-lens/internal/fallback"
)

const sampleCSV = `Number,Short Description,Priority,Severity,Status,Category,Opened Date,Resolved Date
INC1,VPN down,1,Critical,Resolved,Network,2025-01-02 10:00,2025-01-02 14:00
INC2,Slow page,3,Medium,Open,Application,2025-01-05 09:00,
`

const sampleJSON = `[{"id":"J-1","title":"Disk full","severity":"High","status":"Closed","category":"Infrastructure"}]`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFromBytes(t *testing.T) {
	ds := FromBytes("export.csv", []byte(sampleCSV), Options{})
	if ds.IsSample() {
		t.Fatal("Expected real provenance")
	}
	if len(ds.Records) != 2 {
		t.Errorf("Expected 2 records, got %d", len(ds.Records))
	}
	if ds.ID != FromBytes("export.csv", []byte(sampleCSV), Options{}).ID {
		t.Error("Expected identical content to yield the same ID")
	}

	// Format is sniffed when the name carries no extension.
	js := FromBytes("upload", []byte("  "+sampleJSON), Options{})
	if js.IsSample() || len(js.Records) != 1 || js.Records[0].ID != "J-1" {
		t.Errorf("Expected JSON ingestion, got %+v", js)
	}
}

func TestFromBytes_FallbackSubstitution(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty.csv", ""},
		{"header-only.csv", "Number,Priority\n"},
		{"broken.json", "{not json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := FromBytes(tt.name, []byte(tt.data), Options{Fallback: fallback.Config{Count: 20}})
			if !ds.IsSample() {
				t.Fatalf("Expected sample provenance, got %s", ds.Provenance)
			}
			if len(ds.Records) != 20 {
				t.Errorf("Expected 20 sample records, got %d", len(ds.Records))
			}
			if len(ds.Sources) != 1 || ds.Sources[0] != tt.name {
				t.Errorf("Expected source %s to be kept, got %v", tt.name, ds.Sources)
			}
			if ds.ID != Sample(fallback.Config{Count: 20}).ID {
				t.Error("Expected sample ID to derive from the fallback config")
			}
		})
	}
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeFile(t, dir, "a.csv", sampleCSV)
	jsonPath := writeFile(t, dir, "b.json", sampleJSON)
	missing := filepath.Join(dir, "missing.csv")

	ds, err := LoadFiles(context.Background(), []string{jsonPath, missing, csvPath}, Options{Concurrency: 2})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ds.IsSample() {
		t.Fatal("Expected real provenance")
	}
	if len(ds.Records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(ds.Records))
	}
	// Argument order is preserved.
	if ds.Records[0].ID != "J-1" || ds.Records[1].ID != "INC1" {
		t.Errorf("Unexpected record order: %s, %s", ds.Records[0].ID, ds.Records[1].ID)
	}
	if len(ds.Sources) != 3 {
		t.Errorf("Expected all 3 paths as sources, got %v", ds.Sources)
	}
}

func TestLoadFiles_AllUnusable(t *testing.T) {
	dir := t.TempDir()
	empty := writeFile(t, dir, "empty.csv", "")

	ds, err := LoadFiles(context.Background(), []string{empty, filepath.Join(dir, "nope.json")}, Options{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !ds.IsSample() || len(ds.Records) != fallback.DefaultCount {
		t.Errorf("Expected default sample data, got %s with %d records", ds.Provenance, len(ds.Records))
	}
}

func TestLoadFiles_Cancelled(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.csv", sampleCSV)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadFiles(ctx, []string{path}, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestResolvePaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.csv", sampleCSV)
	writeFile(t, dir, "a.json", sampleJSON)
	writeFile(t, dir, "notes.md", "ignored")

	got := ResolvePaths([]string{dir, " ", filepath.Join(dir, "*.csv"), "missing.csv"})
	want := []string{
		filepath.Join(dir, "a.json"),
		filepath.Join(dir, "b.csv"),
		filepath.Join(dir, "b.csv"),
		"missing.csv",
	}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Index %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}
