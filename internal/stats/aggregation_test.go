package stats

import (
	"fmt"
	"math"
	"testing"
	"time"

	"incident-lens/internal/incident"
)

func day(y int, m time.Month, d int) *time.Time {
	return incident.TimePtr(time.Date(y, m, d, 9, 0, 0, 0, time.UTC))
}

func withCategories(counts map[string]int, order []string) []incident.Record {
	var records []incident.Record
	// Interleave so first-seen order follows `order`.
	remaining := make(map[string]int, len(counts))
	for k, v := range counts {
		remaining[k] = v
	}
	for n := 0; ; n++ {
		added := false
		for _, cat := range order {
			if remaining[cat] == 0 {
				continue
			}
			remaining[cat]--
			added = true
			records = append(records, incident.Record{
				ID:       fmt.Sprintf("%s-%d", cat, n),
				Category: cat,
				Status:   incident.StatusOpen,
				Severity: incident.SeverityLow,
			})
		}
		if !added {
			return records
		}
	}
}

func TestSummaryStatistics_ScenarioA(t *testing.T) {
	records := []incident.Record{
		{Severity: incident.SeverityCritical, Priority: 3, Status: incident.StatusResolved, ResolutionTimeHours: incident.FloatPtr(4)},
		{Severity: incident.SeverityLow, Priority: 1, Status: incident.StatusOpen},
		{Severity: incident.SeverityCritical, Priority: 1, Status: incident.StatusResolved, ResolutionTimeHours: incident.FloatPtr(8)},
	}

	s := SummaryStatistics(records)
	if s.Total != 3 {
		t.Errorf("Expected total 3, got %d", s.Total)
	}
	if s.CriticalCount != 3 {
		t.Errorf("Expected criticalCount 3, got %d", s.CriticalCount)
	}
	if s.ResolvedCount != 2 {
		t.Errorf("Expected resolvedCount 2, got %d", s.ResolvedCount)
	}
	if s.AverageResolutionTimeHours != 6 {
		t.Errorf("Expected average 6, got %v", s.AverageResolutionTimeHours)
	}
}

func TestSummaryStatistics_Empty(t *testing.T) {
	if s := SummaryStatistics(nil); s != (Summary{}) {
		t.Errorf("Expected zero summary, got %+v", s)
	}

	// Resolved without hours contributes to the count, not the average.
	s := SummaryStatistics([]incident.Record{{Status: incident.StatusClosed, Severity: incident.SeverityLow}})
	if s.ResolvedCount != 1 || s.AverageResolutionTimeHours != 0 {
		t.Errorf("Expected 1 resolved with average 0, got %+v", s)
	}
}

func TestTimeSeriesByPeriod_ScenarioB(t *testing.T) {
	records := []incident.Record{
		{ID: "a", OpenedDate: day(2025, 1, 10)},
		{ID: "b", OpenedDate: day(2025, 1, 28)},
		{ID: "c", OpenedDate: day(2025, 3, 3)},
		{ID: "d"}, // no date, excluded
	}

	res := TimeSeriesByPeriod(records, Month)
	wantLabels := []string{"Jan 2025", "Feb 2025", "Mar 2025"}
	wantValues := []float64{2, 0, 1}

	if res.Len() != len(wantLabels) {
		t.Fatalf("Expected %d buckets, got %d (%v)", len(wantLabels), res.Len(), res.Labels)
	}
	for i := range wantLabels {
		if res.Labels[i] != wantLabels[i] || res.Values[i] != wantValues[i] {
			t.Errorf("Bucket %d: expected %s=%v, got %s=%v", i, wantLabels[i], wantValues[i], res.Labels[i], res.Values[i])
		}
	}
}

func TestTimeSeriesByPeriod_ZeroDate(t *testing.T) {
	records := []incident.Record{
		{ID: "a", OpenedDate: day(2025, 1, 10)},
		{ID: "b", OpenedDate: day(2025, 3, 10), ResolvedDate: day(2025, 3, 11), Status: incident.StatusResolved},
		{ID: "c", OpenedDate: &time.Time{}, ResolvedDate: &time.Time{}, Status: incident.StatusClosed},
	}

	res := TimeSeriesByPeriod(records, Month)
	wantValues := []float64{1, 0, 1}
	if res.Len() != len(wantValues) {
		t.Fatalf("Expected %d buckets, got %d (%v)", len(wantValues), res.Len(), res.Labels)
	}
	for i, v := range wantValues {
		if res.Values[i] != v {
			t.Errorf("Bucket %d: expected %v, got %v", i, v, res.Values[i])
		}
	}
	if res.Labels[0] != "Jan 2025" {
		t.Errorf("Expected window to start at Jan 2025, got %s", res.Labels[0])
	}

	flow := FlowByPeriod(records, Month)
	if len(flow.Buckets) != 3 || flow.TotalNet != 1 {
		t.Errorf("Expected 3 flow buckets with net 1, got %d buckets net %d", len(flow.Buckets), flow.TotalNet)
	}
}

func TestTimeSeriesByPeriod_Daily(t *testing.T) {
	records := []incident.Record{
		{OpenedDate: day(2025, 2, 27)},
		{OpenedDate: day(2025, 3, 2)},
	}
	res := TimeSeriesByPeriod(records, Day)
	if res.Len() != 4 {
		t.Fatalf("Expected 4 daily buckets across month end, got %d", res.Len())
	}
	if res.Labels[2] != "2025-03-01" || res.Values[2] != 0 {
		t.Errorf("Expected zero bucket 2025-03-01, got %s=%v", res.Labels[2], res.Values[2])
	}
}

func TestDistributionByField_ScenarioC(t *testing.T) {
	order := []string{"Network", "Database", "Application", "Security", "Hardware"}
	records := withCategories(map[string]int{
		"Network": 10, "Database": 8, "Application": 8, "Security": 3, "Hardware": 1,
	}, order)

	res := DistributionByField(records, incident.FieldCategory, 2)
	if res.Len() != 2 {
		t.Fatalf("Expected 2 labels, got %d", res.Len())
	}
	if res.Labels[0] != "Network" || res.Values[0] != 10 {
		t.Errorf("Expected Network=10 first, got %s=%v", res.Labels[0], res.Values[0])
	}
	if res.Labels[1] != "Database" || res.Values[1] != 8 {
		t.Errorf("Expected first-seen tie Database=8, got %s=%v", res.Labels[1], res.Values[1])
	}

	all := DistributionByField(records, incident.FieldCategory, 0)
	if all.Len() != 5 {
		t.Errorf("Expected all 5 labels with topN 0, got %d", all.Len())
	}
}

func TestDistributionByField_SumProperty(t *testing.T) {
	records := []incident.Record{
		{Category: "Network", RootCause: "Config"},
		{Category: "", RootCause: "Config"},
		{Category: "Database"},
		{Category: "Network", Priority: 2},
	}

	for _, f := range incident.Fields {
		nonNull := 0
		for _, r := range records {
			if _, ok := r.Value(f); ok {
				nonNull++
			}
		}
		res := DistributionByField(records, f, 0)
		if int(res.Total()) != nonNull {
			t.Errorf("Field %s: expected sum %d, got %v", f, nonNull, res.Total())
		}
	}
}

func TestOrderedDistribution(t *testing.T) {
	records := []incident.Record{
		{Severity: incident.SeverityLow},
		{Severity: incident.SeverityCritical},
		{Severity: incident.SeverityLow},
	}
	res := OrderedDistribution(records, incident.FieldSeverity)
	want := []float64{1, 0, 0, 2}
	if res.Len() != 4 {
		t.Fatalf("Expected 4 severities, got %d", res.Len())
	}
	for i, v := range want {
		if res.Values[i] != v {
			t.Errorf("Severity %s: expected %v, got %v", res.Labels[i], v, res.Values[i])
		}
	}
}

func TestResolutionTimeStats(t *testing.T) {
	records := []incident.Record{
		{Severity: incident.SeverityLow, ResolutionTimeHours: incident.FloatPtr(10)},
		{Severity: incident.SeverityCritical, ResolutionTimeHours: incident.FloatPtr(2)},
		{Severity: incident.SeverityCritical, ResolutionTimeHours: incident.FloatPtr(4)},
		{Severity: incident.SeverityHigh, ResolutionTimeHours: incident.FloatPtr(0)}, // not positive
		{Severity: incident.SeverityMedium},                                          // nil hours
	}

	stats := ResolutionTimeStats(records, incident.FieldSeverity)
	if len(stats.Groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(stats.Groups))
	}
	if stats.Groups[0].Group != "Critical" || stats.Groups[1].Group != "Low" {
		t.Errorf("Expected canonical order Critical, Low; got %s, %s", stats.Groups[0].Group, stats.Groups[1].Group)
	}
	if stats.Groups[0].Average != 3 || stats.Groups[0].Count != 2 {
		t.Errorf("Expected Critical avg 3 over 2, got %+v", stats.Groups[0])
	}

	res := stats.Result()
	if res.Len() != 2 || res.Values[1] != 10 {
		t.Errorf("Unexpected projection %+v", res)
	}

	byCategory := ResolutionTimeStats([]incident.Record{
		{Category: "Zeta", ResolutionTimeHours: incident.FloatPtr(1)},
		{Category: "Alpha", ResolutionTimeHours: incident.FloatPtr(1)},
		{Category: "", ResolutionTimeHours: incident.FloatPtr(5)},
	}, incident.FieldCategory)
	if len(byCategory.Groups) != 2 || byCategory.Groups[0].Group != "Zeta" {
		t.Errorf("Expected first-seen order with null group omitted, got %+v", byCategory.Groups)
	}
}

func TestSLAComplianceRatio(t *testing.T) {
	tests := []struct {
		name  string
		flags []*bool
		want  SLACompliance
	}{
		{"empty", nil, SLACompliance{}},
		{"unknown only", []*bool{nil, nil}, SLACompliance{}},
		{"mixed", []*bool{incident.BoolPtr(true), incident.BoolPtr(true), incident.BoolPtr(false), nil}, SLACompliance{Met: 2, Breached: 1, Ratio: 2.0 / 3.0}},
		{"all breached", []*bool{incident.BoolPtr(false)}, SLACompliance{Breached: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := make([]incident.Record, len(tt.flags))
			for i, f := range tt.flags {
				records[i].SLAMet = f
			}
			got := SLAComplianceRatio(records)
			if got.Met != tt.want.Met || got.Breached != tt.want.Breached || math.Abs(got.Ratio-tt.want.Ratio) > 1e-9 {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
			if math.IsNaN(got.Ratio) || got.Ratio < 0 || got.Ratio > 1 {
				t.Errorf("Ratio out of bounds: %v", got.Ratio)
			}
		})
	}
}

func TestSLAComplianceByField(t *testing.T) {
	records := []incident.Record{
		{Category: "Network", SLAMet: incident.BoolPtr(true)},
		{Category: "Database", SLAMet: incident.BoolPtr(false)},
		{Category: "Database", SLAMet: incident.BoolPtr(true)},
		{Category: "Hardware"},
	}
	res := SLAComplianceByField(records, incident.FieldCategory)
	if res.Len() != 2 {
		t.Fatalf("Expected 2 groups, got %d", res.Len())
	}
	if res.Labels[0] != "Database" || res.Values[0] != 0.5 {
		t.Errorf("Expected Database=0.5 first, got %s=%v", res.Labels[0], res.Values[0])
	}
}

func TestFlowByPeriod(t *testing.T) {
	records := []incident.Record{
		{OpenedDate: day(2025, 1, 5), ResolvedDate: day(2025, 2, 3), Status: incident.StatusResolved},
		{OpenedDate: day(2025, 1, 20), Status: incident.StatusOpen},
		{OpenedDate: day(2025, 2, 1), ResolvedDate: day(2025, 2, 2), Status: incident.StatusClosed},
	}

	flow := FlowByPeriod(records, Month)
	if len(flow.Buckets) != 2 {
		t.Fatalf("Expected 2 buckets, got %d", len(flow.Buckets))
	}
	if flow.Buckets[0].Opened != 2 || flow.Buckets[0].Resolved != 0 || flow.Buckets[0].Net != 2 {
		t.Errorf("Unexpected Jan bucket %+v", flow.Buckets[0])
	}
	if flow.Buckets[1].Opened != 1 || flow.Buckets[1].Resolved != 2 || flow.Buckets[1].Net != -1 {
		t.Errorf("Unexpected Feb bucket %+v", flow.Buckets[1])
	}
	if flow.TotalNet != 1 {
		t.Errorf("Expected total net 1, got %d", flow.TotalNet)
	}

	opened, resolved := flow.Series()
	if opened.Len() != resolved.Len() || opened.Labels[1] != resolved.Labels[1] {
		t.Errorf("Expected aligned series, got %v and %v", opened.Labels, resolved.Labels)
	}

	res := ResolvedSeriesByPeriod(records, Month)
	if res.Len() != 1 || res.Values[0] != 2 {
		t.Errorf("Expected single Feb resolved bucket of 2, got %+v", res)
	}
}

func TestReopenStats(t *testing.T) {
	s := ReopenStats([]incident.Record{{ReopenCount: 2}, {}, {ReopenCount: 1}, {}})
	if s.Reopened != 2 || s.TotalReopens != 3 || s.ReopenRate != 0.5 {
		t.Errorf("Unexpected reopen summary %+v", s)
	}
	if ReopenStats(nil) != (ReopenSummary{}) {
		t.Error("Expected zero summary for no records")
	}
}

func TestAggregations_LabelValueLength(t *testing.T) {
	inputs := map[string][]incident.Record{
		"empty": nil,
		"undated": {
			{Category: "Network", Status: incident.StatusOpen, Severity: incident.SeverityLow},
		},
		"mixed": {
			{Category: "Network", RootCause: "Config", OpenedDate: day(2025, 1, 1), Severity: incident.SeverityHigh, Status: incident.StatusResolved, ResolutionTimeHours: incident.FloatPtr(3), SLAMet: incident.BoolPtr(true)},
			{Category: "Database", OpenedDate: day(2025, 4, 1), Severity: incident.SeverityLow, Status: incident.StatusOpen},
		},
	}

	for name, records := range inputs {
		t.Run(name, func(t *testing.T) {
			results := map[string]AggregationResult{
				"distribution": DistributionByField(records, incident.FieldCategory, 0),
				"ordered":      OrderedDistribution(records, incident.FieldStatus),
				"timeseries":   TimeSeriesByPeriod(records, Week),
				"resolved":     ResolvedSeriesByPeriod(records, Month),
				"resolution":   ResolutionTimeStats(records, incident.FieldCategory).Result(),
				"rootcause":    RootCauseRanking(records, 5),
				"slaByField":   SLAComplianceByField(records, incident.FieldCategory),
			}
			for fn, res := range results {
				if res.Labels == nil || res.Values == nil {
					t.Errorf("%s: expected non-nil slices", fn)
				}
				if len(res.Labels) != len(res.Values) {
					t.Errorf("%s: labels %d != values %d", fn, len(res.Labels), len(res.Values))
				}
			}
		})
	}
}
