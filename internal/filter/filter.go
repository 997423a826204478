package filter

import (
	"fmt"
	"strings"
	"time"

	"incident-lens/internal/incident"
)

// DateRange bounds the opened date, inclusive on both ends. A zero Start or
// End leaves that side open.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Filter selects a subset of records. The zero value selects everything.
type Filter struct {
	// Category matches case-insensitively; blank or "all" disables it.
	Category   string              `json:"category,omitempty"`
	DateRange  *DateRange          `json:"dateRange,omitempty"`
	Severities []incident.Severity `json:"severities,omitempty"`
	Source     string              `json:"source,omitempty"`
}

func (f Filter) category() string {
	c := strings.TrimSpace(f.Category)
	if strings.EqualFold(c, "all") {
		return ""
	}
	return c
}

// IsEmpty returns true when the filter selects every record.
func (f Filter) IsEmpty() bool {
	return f.category() == "" && f.DateRange == nil && len(f.Severities) == 0 && strings.TrimSpace(f.Source) == ""
}

// String describes the active criteria, "all incidents" when none are set.
func (f Filter) String() string {
	var parts []string
	if c := f.category(); c != "" {
		parts = append(parts, "category="+c)
	}
	if f.DateRange != nil {
		from, to := "*", "*"
		if !f.DateRange.Start.IsZero() {
			from = f.DateRange.Start.Format("2006-01-02")
		}
		if !f.DateRange.End.IsZero() {
			to = f.DateRange.End.Format("2006-01-02")
		}
		parts = append(parts, "opened="+from+".."+to)
	}
	if len(f.Severities) > 0 {
		sev := make([]string, len(f.Severities))
		for i, s := range f.Severities {
			sev[i] = string(s)
		}
		parts = append(parts, "severity="+strings.Join(sev, ","))
	}
	if s := strings.TrimSpace(f.Source); s != "" {
		parts = append(parts, "source="+s)
	}
	if len(parts) == 0 {
		return "all incidents"
	}
	return strings.Join(parts, " ")
}

// Apply returns the records matching f as a new slice. records is never
// modified, and the relative order of matches is preserved.
func Apply(records []incident.Record, f Filter) []incident.Record {
	out := make([]incident.Record, 0, len(records))

	category := f.category()
	source := strings.TrimSpace(f.Source)

	var start, end time.Time
	if f.DateRange != nil {
		start = f.DateRange.Start
		end = inclusiveEnd(f.DateRange.End)
	}

	var severities map[incident.Severity]bool
	if len(f.Severities) > 0 {
		severities = make(map[incident.Severity]bool, len(f.Severities))
		for _, s := range f.Severities {
			severities[s] = true
		}
	}

	for _, r := range records {
		if category != "" && !strings.EqualFold(strings.TrimSpace(r.Category), category) {
			continue
		}
		if source != "" && !strings.EqualFold(strings.TrimSpace(r.Source), source) {
			continue
		}
		if severities != nil && !severities[r.Severity] {
			continue
		}
		if f.DateRange != nil {
			if r.OpenedDate == nil {
				continue
			}
			if !start.IsZero() && r.OpenedDate.Before(start) {
				continue
			}
			if !end.IsZero() && r.OpenedDate.After(end) {
				continue
			}
		}
		out = append(out, r)
	}

	return out
}

// inclusiveEnd widens a date-only end bound to the last instant of its day.
func inclusiveEnd(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
	}
	return t
}

// ParseDateRange builds a range from YYYY-MM-DD strings; blank means open.
// Both blank returns nil (no date filter).
func ParseDateRange(from, to string) (*DateRange, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" && to == "" {
		return nil, nil
	}

	var dr DateRange
	if from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return nil, fmt.Errorf("invalid start date %q (expected YYYY-MM-DD): %w", from, err)
		}
		dr.Start = t
	}
	if to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return nil, fmt.Errorf("invalid end date %q (expected YYYY-MM-DD): %w", to, err)
		}
		dr.End = t
	}
	if !dr.Start.IsZero() && !dr.End.IsZero() && dr.End.Before(dr.Start) {
		return nil, fmt.Errorf("end date %s is before start date %s", to, from)
	}
	return &dr, nil
}

// ParseSeverities parses a comma-separated severity list ("critical,high").
func ParseSeverities(list string) ([]incident.Severity, error) {
	var out []incident.Severity
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		found := false
		for _, s := range incident.Severities {
			if strings.EqualFold(string(s), part) {
				out = append(out, s)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown severity %q", part)
		}
	}
	return out, nil
}

// FromArgs assembles a Filter from textual arguments as accepted by the CLI
// and the MCP tools.
func FromArgs(category, from, to, severities, source string) (Filter, error) {
	dr, err := ParseDateRange(from, to)
	if err != nil {
		return Filter{}, err
	}
	sev, err := ParseSeverities(severities)
	if err != nil {
		return Filter{}, err
	}
	return Filter{
		Category:   strings.TrimSpace(category),
		DateRange:  dr,
		Severities: sev,
		Source:     strings.TrimSpace(source),
	}, nil
}
