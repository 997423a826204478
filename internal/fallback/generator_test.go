package fallback

import (
	"reflect"
	"testing"
	"time"

	"incident-lens/internal/incident"
	"incident-lens/internal/stats"
)

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate(Config{})
	b := Generate(Config{Seed: DefaultSeed, Anchor: DefaultAnchor, Count: DefaultCount})

	if len(a) != DefaultCount {
		t.Fatalf("Expected %d records, got %d", DefaultCount, len(a))
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("Expected identical output for equal configs")
	}

	c := Generate(Config{Seed: 7})
	if reflect.DeepEqual(a, c) {
		t.Error("Expected a different seed to change the output")
	}
}

func TestGenerate_Invariants(t *testing.T) {
	for _, profile := range []Profile{ProfileSteady, ProfileChaos, ProfileDrift} {
		t.Run(string(profile), func(t *testing.T) {
			records := Generate(Config{Profile: profile, Count: 300})
			resolved, open := 0, 0
			ids := make(map[string]bool)

			for _, r := range records {
				if msg := r.Validate(); msg != "" {
					t.Fatalf("Record %s violates invariant: %s", r.ID, msg)
				}
				if ids[r.ID] {
					t.Fatalf("Duplicate id %s", r.ID)
				}
				ids[r.ID] = true

				if r.OpenedDate == nil || r.OpenedDate.After(DefaultAnchor) {
					t.Errorf("Record %s opened outside the window: %v", r.ID, r.OpenedDate)
				}
				if r.IsResolved() {
					resolved++
					if r.ResolvedDate == nil || r.ResolutionTimeHours == nil || r.SLAMet == nil {
						t.Errorf("Resolved record %s missing resolution fields", r.ID)
					}
					if r.ResolvedDate.Before(*r.OpenedDate) {
						t.Errorf("Record %s resolved before it opened", r.ID)
					}
				} else {
					open++
					if r.ResolutionTimeHours != nil || r.SLAMet != nil || r.ReopenCount != 0 {
						t.Errorf("Open record %s carries resolution fields", r.ID)
					}
				}
			}

			if resolved == 0 || open == 0 {
				t.Errorf("Expected a mix of resolved and open records, got %d/%d", resolved, open)
			}
		})
	}
}

func TestGenerate_AnchorIsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	records := Generate(Config{Anchor: time.Date(2025, 1, 1, 5, 0, 0, 0, loc), Count: 10})
	for _, r := range records {
		if r.OpenedDate.Location() != time.UTC {
			t.Fatalf("Expected UTC dates, got %v", r.OpenedDate.Location())
		}
	}
}

// Sample data must satisfy the same output contracts as real data.
func TestGenerate_AggregationContracts(t *testing.T) {
	records := Generate(Config{})

	results := map[string]stats.AggregationResult{
		"distribution": stats.DistributionByField(records, incident.FieldCategory, 0),
		"timeseries":   stats.TimeSeriesByPeriod(records, stats.Month),
		"resolution":   stats.ResolutionTimeStats(records, incident.FieldSeverity).Result(),
		"rootcause":    stats.RootCauseRanking(records, 5),
		"slaByField":   stats.SLAComplianceByField(records, incident.FieldCategory),
	}
	for name, res := range results {
		if len(res.Labels) != len(res.Values) {
			t.Errorf("%s: labels %d != values %d", name, len(res.Labels), len(res.Values))
		}
		if res.Len() == 0 {
			t.Errorf("%s: expected a populated result", name)
		}
	}

	if got := stats.DistributionByField(records, incident.FieldCategory, 0).Total(); int(got) != len(records) {
		t.Errorf("Expected category counts to sum to %d, got %v", len(records), got)
	}

	sla := stats.SLAComplianceRatio(records)
	if sla.Ratio < 0 || sla.Ratio > 1 || sla.Met+sla.Breached == 0 {
		t.Errorf("Unexpected SLA compliance %+v", sla)
	}

	summary := stats.SummaryStatistics(records)
	if summary.Total != len(records) || summary.ResolvedCount == 0 || summary.AverageResolutionTimeHours <= 0 {
		t.Errorf("Unexpected summary %+v", summary)
	}
}

func TestFingerprint(t *testing.T) {
	if (Config{}).Fingerprint() != (Config{Seed: 42, Count: 150}).Fingerprint() {
		t.Error("Expected defaults to share a fingerprint")
	}
	if (Config{}).Fingerprint() == (Config{Profile: ProfileChaos}).Fingerprint() {
		t.Error("Expected profile to change the fingerprint")
	}
}
