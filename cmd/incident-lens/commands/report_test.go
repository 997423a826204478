package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"incident-lens/internal/config"
	"incident-lens/internal/dashboard"
	"incident-lens/internal/dataset"
	"incident-lens/internal/fallback"
	"incident-lens/internal/incident"
)

func TestRender(t *testing.T) {
	cfg = &config.AppConfig{EnableMermaidCharts: true}
	view := dashboard.Build(dataset.Sample(fallback.Config{}), dashboard.Query{})

	tests := []struct {
		format string
		prefix string
	}{
		{"markdown", "# Incident Dashboard"},
		{"md", "# Incident Dashboard"},
		{"html", "<!DOCTYPE html>"},
		{"json", "{"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, err := render(view, tt.format)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !strings.HasPrefix(strings.TrimSpace(out), tt.prefix) {
				t.Errorf("Expected output to start with %q, got %q", tt.prefix, out[:min(len(out), 40)])
			}
		})
	}

	out, _ := render(view, "json")
	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Errorf("Expected valid JSON: %v", err)
	}
}

func TestWriteReport(t *testing.T) {
	var stdout bytes.Buffer
	path, err := writeReport(&stdout, "body", "", false)
	if err != nil || path != "" || stdout.String() != "body" {
		t.Errorf("Expected body on stdout, got %q path %q err %v", stdout.String(), path, err)
	}

	out := filepath.Join(t.TempDir(), "report.md")
	path, err = writeReport(&stdout, "file body", out, false)
	if err != nil || path != out {
		t.Fatalf("Expected file %s, got %q err %v", out, path, err)
	}
	data, _ := os.ReadFile(out)
	if string(data) != "file body" {
		t.Errorf("Expected file body, got %q", data)
	}

	path, err = writeReport(&stdout, "<html></html>", "", true)
	if err != nil || !strings.HasSuffix(path, ".html") {
		t.Fatalf("Expected a temporary html file, got %q err %v", path, err)
	}
	os.Remove(path)
}

func TestLoadDataset(t *testing.T) {
	c := &config.AppConfig{
		FallbackSeed:  7,
		FallbackCount: 20,
		SLATargets:    incident.DefaultSLATargets(),
	}

	ds, err := loadDataset(t.Context(), c, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !ds.IsSample() || len(ds.Records) != 20 {
		t.Errorf("Expected 20 sample records, got %d (sample=%v)", len(ds.Records), ds.IsSample())
	}

	dir := t.TempDir()
	csv := "Ticket,Title,Severity,Created\nT-1,Disk full,High,2025-02-01\n"
	if err := os.WriteFile(filepath.Join(dir, "export.csv"), []byte(csv), 0644); err != nil {
		t.Fatal(err)
	}
	c.ColumnAliases = map[string][]string{"id": {"Ticket"}, "openedDate": {"Created"}}
	c.Exports = []string{dir}

	ds, err = loadDataset(t.Context(), c, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ds.IsSample() || len(ds.Records) != 1 || ds.Records[0].ID != "T-1" {
		t.Errorf("Expected the configured export with custom aliases, got %+v", ds.Records)
	}
}
