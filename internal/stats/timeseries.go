package stats

import (
	"time"

	"incident-lens/internal/incident"
)

// dateSelector picks the timestamp a series buckets on.
type dateSelector func(incident.Record) *time.Time

func openedDate(r incident.Record) *time.Time   { return dated(r.OpenedDate) }
func resolvedDate(r incident.Record) *time.Time { return dated(r.ResolvedDate) }

// dated treats the zero time as no date at all.
func dated(d *time.Time) *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	return d
}

// windowFor spans every non-nil date returned by the selectors. ok is false
// when no record carries a date.
func windowFor(records []incident.Record, granularity Granularity, selectors ...dateSelector) (PeriodWindow, bool) {
	var minDate, maxDate time.Time
	found := false

	for _, r := range records {
		for _, sel := range selectors {
			d := sel(r)
			if d == nil {
				continue
			}
			if !found || d.Before(minDate) {
				minDate = *d
			}
			if !found || d.After(maxDate) {
				maxDate = *d
			}
			found = true
		}
	}

	if !found {
		return PeriodWindow{}, false
	}
	return NewPeriodWindow(minDate, maxDate, granularity), true
}

func seriesBy(records []incident.Record, granularity Granularity, sel dateSelector) AggregationResult {
	window, ok := windowFor(records, granularity, sel)
	if !ok {
		return NewAggregationResult(0)
	}

	buckets := window.Subdivide()
	result := NewAggregationResult(len(buckets))
	for _, b := range buckets {
		result.Add(window.GenerateLabel(b), 0)
	}

	for _, r := range records {
		d := sel(r)
		if d == nil {
			continue
		}
		if idx := window.FindBucketIndex(*d); idx >= 0 && idx < len(result.Values) {
			result.Values[idx]++
		}
	}
	return result
}

// TimeSeriesByPeriod counts records per opened-date period. Every period
// between the earliest and latest opened date is present, zero-filled when
// empty. Records without an opened date are excluded.
func TimeSeriesByPeriod(records []incident.Record, granularity Granularity) AggregationResult {
	return seriesBy(records, granularity, openedDate)
}

// ResolvedSeriesByPeriod counts records per resolved-date period.
func ResolvedSeriesByPeriod(records []incident.Record, granularity Granularity) AggregationResult {
	return seriesBy(records, granularity, resolvedDate)
}

// FlowBucket compares arrivals and departures within one period.
type FlowBucket struct {
	Label    string `json:"label"`
	Opened   int    `json:"opened"`
	Resolved int    `json:"resolved"`
	Net      int    `json:"net"` // Opened - Resolved
}

// FlowResult is the opened-versus-resolved view over a shared window.
type FlowResult struct {
	Buckets  []FlowBucket `json:"buckets"`
	TotalNet int          `json:"totalNet"`
}

// FlowByPeriod buckets opened and resolved dates over one common window so
// both series line up label for label.
func FlowByPeriod(records []incident.Record, granularity Granularity) FlowResult {
	window, ok := windowFor(records, granularity, openedDate, resolvedDate)
	if !ok {
		return FlowResult{Buckets: []FlowBucket{}}
	}

	starts := window.Subdivide()
	buckets := make([]FlowBucket, len(starts))
	for i, s := range starts {
		buckets[i] = FlowBucket{Label: window.GenerateLabel(s)}
	}

	for _, r := range records {
		if d := openedDate(r); d != nil {
			if idx := window.FindBucketIndex(*d); idx >= 0 && idx < len(buckets) {
				buckets[idx].Opened++
			}
		}
		if d := resolvedDate(r); d != nil {
			if idx := window.FindBucketIndex(*d); idx >= 0 && idx < len(buckets) {
				buckets[idx].Resolved++
			}
		}
	}

	total := 0
	for i := range buckets {
		buckets[i].Net = buckets[i].Opened - buckets[i].Resolved
		total += buckets[i].Net
	}

	return FlowResult{Buckets: buckets, TotalNet: total}
}

// Series splits the flow into opened and resolved AggregationResults.
func (f FlowResult) Series() (opened, resolved AggregationResult) {
	opened = NewAggregationResult(len(f.Buckets))
	resolved = NewAggregationResult(len(f.Buckets))
	for _, b := range f.Buckets {
		opened.Add(b.Label, float64(b.Opened))
		resolved.Add(b.Label, float64(b.Resolved))
	}
	return opened, resolved
}
