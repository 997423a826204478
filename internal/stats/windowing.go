package stats

import (
	"fmt"
	"strings"
	"time"
)

// Granularity is the bucket size of a time series.
type Granularity string

const (
	Day     Granularity = "day"
	Week    Granularity = "week"
	Month   Granularity = "month"
	Quarter Granularity = "quarter"
	Year    Granularity = "year"
)

// ParseGranularity resolves a granularity name; anything unknown is Month.
func ParseGranularity(s string) Granularity {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(s))); g {
	case Day, Week, Month, Quarter, Year:
		return g
	case "daily":
		return Day
	case "weekly":
		return Week
	case "quarterly":
		return Quarter
	case "yearly", "annual":
		return Year
	}
	return Month
}

// PeriodWindow is the contiguous run of buckets spanning a set of dates.
type PeriodWindow struct {
	Start  time.Time   `json:"start"`
	End    time.Time   `json:"end"`
	Bucket Granularity `json:"bucket"`
}

// NewPeriodWindow creates a window with start/end snapped to bucket boundaries.
func NewPeriodWindow(start, end time.Time, bucket Granularity) PeriodWindow {
	bucket = ParseGranularity(string(bucket))
	return PeriodWindow{
		Start:  SnapToStart(start, bucket),
		End:    SnapToEnd(end, bucket),
		Bucket: bucket,
	}
}

// SnapToStart normalizes a timestamp to the beginning of its bucket (0:00:00).
func SnapToStart(t time.Time, bucket Granularity) time.Time {
	if t.IsZero() {
		return t
	}
	switch bucket {
	case Year:
		return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, t.Location())
	case Quarter:
		firstMonth := time.Month((int(t.Month())-1)/3*3 + 1)
		return time.Date(t.Year(), firstMonth, 1, 0, 0, 0, 0, t.Location())
	case Month:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	case Week:
		// Snap to Monday
		weekday := int(t.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday -> 7
		}
		daysToSubtract := weekday - 1
		return time.Date(t.Year(), t.Month(), t.Day()-daysToSubtract, 0, 0, 0, 0, t.Location())
	default: // day
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
}

// SnapToEnd normalizes a timestamp to the very end of its bucket (23:59:59.999...).
func SnapToEnd(t time.Time, bucket Granularity) time.Time {
	if t.IsZero() {
		return t
	}
	return advance(SnapToStart(t, bucket), bucket).Add(-time.Nanosecond)
}

// advance moves a bucket start to the next bucket start.
func advance(t time.Time, bucket Granularity) time.Time {
	switch bucket {
	case Year:
		return t.AddDate(1, 0, 0)
	case Quarter:
		return t.AddDate(0, 3, 0)
	case Month:
		return t.AddDate(0, 1, 0)
	case Week:
		return t.AddDate(0, 0, 7)
	default: // day
		return t.AddDate(0, 0, 1)
	}
}

// Subdivide returns a list of bucket start times within the window.
func (w PeriodWindow) Subdivide() []time.Time {
	var buckets []time.Time
	if w.Start.IsZero() || w.End.IsZero() {
		return buckets
	}

	for current := w.Start; current.Before(w.End); current = advance(current, w.Bucket) {
		buckets = append(buckets, current)
	}
	return buckets
}

// FindBucketIndex returns the index of the bucket containing t. Returns -1 if out of bounds.
func (w PeriodWindow) FindBucketIndex(t time.Time) int {
	tNorm := SnapToStart(t, w.Bucket)
	if tNorm.Before(w.Start) || tNorm.After(w.End) {
		return -1
	}

	switch w.Bucket {
	case Year:
		return tNorm.Year() - w.Start.Year()
	case Quarter:
		return ((tNorm.Year()-w.Start.Year())*12 + int(tNorm.Month()-w.Start.Month())) / 3
	case Month:
		return (tNorm.Year()-w.Start.Year())*12 + int(tNorm.Month()-w.Start.Month())
	case Week:
		// Calendar days rather than Sub().Hours() so DST shifts cannot skew the index
		return daysBetween(w.Start, tNorm) / 7
	default: // day
		return daysBetween(w.Start, tNorm)
	}
}

func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// GenerateLabel returns a human-readable label for a bucket (e.g., "Jan 2024" or "2024-W01").
func (w PeriodWindow) GenerateLabel(t time.Time) string {
	switch w.Bucket {
	case Year:
		return t.Format("2006")
	case Quarter:
		return fmt.Sprintf("%d-Q%d", t.Year(), (int(t.Month())-1)/3+1)
	case Month:
		return t.Format("Jan 2006")
	case Week:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	default: // day
		return t.Format("2006-01-02")
	}
}
