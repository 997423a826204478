package dashboard

import (
	"strings"
	"testing"
	"time"

	"incident-lens/internal/dataset"
	"incident-lens/internal/fallback"
	"incident-lens/internal/filter"
	"incident-lens/internal/stats"
)

const exportCSV = `Number,Short Description,Priority,Severity,Status,Category,Root Cause,SLA Met,Opened Date,Resolved Date,Reopen Count
INC1,VPN down,1,Critical,Resolved,Network,Config,yes,2025-01-02 10:00,2025-01-02 14:00,0
INC2,Slow page,3,Medium,Open,Application,,,2025-01-05 09:00,,0
INC3,DB <lock>,2,High,Closed,Database,Capacity,no,2025-03-01 08:00,2025-03-03 08:00,1
INC4,DNS,4,Low,Resolved,Network,Config,yes,2025-03-10 08:00,2025-03-10 20:00,0
`

func realDataset(t *testing.T) dataset.Dataset {
	t.Helper()
	ds := dataset.FromBytes("export.csv", []byte(exportCSV), dataset.Options{})
	if ds.IsSample() {
		t.Fatal("Expected export to ingest")
	}
	return ds
}

func TestBuild(t *testing.T) {
	v := Build(realDataset(t), Query{})

	if v.Granularity != stats.Month {
		t.Errorf("Expected default granularity month, got %s", v.Granularity)
	}
	if v.Summary.Total != 4 || v.Summary.CriticalCount != 1 || v.Summary.ResolvedCount != 3 {
		t.Errorf("Unexpected summary %+v", v.Summary)
	}
	if v.SLA.Met != 2 || v.SLA.Breached != 1 {
		t.Errorf("Unexpected SLA %+v", v.SLA)
	}
	if v.Trend.Len() != 3 || v.Trend.Values[1] != 0 {
		t.Errorf("Expected zero-filled Feb in trend, got %+v", v.Trend)
	}
	if v.RootCauses.Labels[0] != "Config" {
		t.Errorf("Expected Config as top root cause, got %v", v.RootCauses.Labels)
	}
	if v.BySeverity.Len() != 4 {
		t.Errorf("Expected all 4 severities, got %d", v.BySeverity.Len())
	}
	if v.Source.Sample || v.Source.Loaded != 4 {
		t.Errorf("Unexpected source %+v", v.Source)
	}
	if len(v.Insights) == 0 {
		t.Error("Expected insights")
	}
}

func TestBuild_RootCauseShareBeyondTopN(t *testing.T) {
	v := Build(realDataset(t), Query{TopN: 1})

	if v.RootCauses.Len() != 1 {
		t.Fatalf("Expected ranking capped at 1, got %v", v.RootCauses.Labels)
	}
	found := false
	for _, in := range v.Insights {
		if strings.HasPrefix(in.Text, "Top root cause") {
			found = true
			if !strings.Contains(in.Text, "(66.7% of those with a known cause)") {
				t.Errorf("Expected share over all 3 known causes, got %q", in.Text)
			}
		}
	}
	if !found {
		t.Error("Expected a root cause insight")
	}
}

func TestBuild_Filtered(t *testing.T) {
	dr, err := filter.ParseDateRange("2025-03-01", "2025-03-31")
	if err != nil {
		t.Fatal(err)
	}
	v := Build(realDataset(t), Query{Filter: filter.Filter{Category: "network", DateRange: dr}, Granularity: stats.Week})

	if v.Summary.Total != 1 {
		t.Errorf("Expected 1 record in scope, got %d", v.Summary.Total)
	}
	if v.Source.Loaded != 4 {
		t.Errorf("Expected loaded count before filtering, got %d", v.Source.Loaded)
	}
	if !strings.Contains(v.Filter, "category=network") {
		t.Errorf("Unexpected filter description %q", v.Filter)
	}
}

func TestBuild_Sample(t *testing.T) {
	ds := dataset.Sample(fallback.Config{})
	v := Build(ds, Query{TopN: 3})

	if !v.Source.Sample {
		t.Error("Expected sample provenance to carry through")
	}
	if v.ByCategory.Len() != 3 || v.RootCauses.Len() != 3 {
		t.Errorf("Expected TopN 3 rankings, got %d and %d", v.ByCategory.Len(), v.RootCauses.Len())
	}
	if v.Insights[0].Text == "" || v.Insights[0].Kind != "data" {
		t.Errorf("Expected sample notice first, got %+v", v.Insights[0])
	}
}

func TestRenderMarkdown(t *testing.T) {
	v := Build(realDataset(t), Query{})
	v.GeneratedAt = time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	plain := RenderMarkdown(v, false)
	for _, want := range []string{
		"# Incident Dashboard",
		"| 4 | 1 | 3 |",
		"66.7%",
		"## Opened vs Resolved",
		"| Feb 2025 | 0 | 0 | +0 |",
		"## Resolution Time by Severity",
	} {
		if !strings.Contains(plain, want) {
			t.Errorf("Expected markdown to contain %q", want)
		}
	}
	if strings.Contains(plain, "```mermaid") {
		t.Error("Expected no charts when disabled")
	}

	withCharts := RenderMarkdown(v, true)
	if !strings.Contains(withCharts, "```mermaid") {
		t.Error("Expected charts when enabled")
	}

	sample := RenderMarkdown(Build(dataset.Sample(fallback.Config{Count: 10}), Query{}), false)
	if !strings.Contains(sample, "**Sample data.**") {
		t.Error("Expected sample banner")
	}
}

func TestRenderHTML(t *testing.T) {
	out, err := RenderHTML(Build(realDataset(t), Query{}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Error("Expected an HTML document")
	}
	if strings.Contains(out, "DB <lock>") {
		t.Error("Expected titles to be escaped")
	}
	if !strings.Contains(out, "Top root causes") {
		t.Error("Expected root cause panel")
	}
}
