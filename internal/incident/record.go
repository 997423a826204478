package incident

import (
	"time"
)

// Status is the normalized lifecycle state of an incident.
type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "InProgress"
	StatusResolved   Status = "Resolved"
	StatusClosed     Status = "Closed"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}

// IsTerminal returns true for Resolved and Closed.
func (s Status) IsTerminal() bool {
	return s == StatusResolved || s == StatusClosed
}

// Severity is the normalized impact rating of an incident.
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
)

// Severities lists every severity from most to least severe.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// Ordinal returns 1 for Critical through 4 for Low, 0 for anything else.
func (s Severity) Ordinal() int {
	for i, sev := range Severities {
		if s == sev {
			return i + 1
		}
	}
	return 0
}

// SeverityFromOrdinal maps 1..4 onto Critical..Low.
func SeverityFromOrdinal(n int) (Severity, bool) {
	if n < 1 || n > len(Severities) {
		return "", false
	}
	return Severities[n-1], true
}

// Record is a single incident or defect with canonical typed fields,
// independent of the naming used by the system it was exported from.
type Record struct {
	ID                  string     `json:"id"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	OpenedDate          *time.Time `json:"openedDate"`
	ResolvedDate        *time.Time `json:"resolvedDate"`
	Status              Status     `json:"status"`
	Severity            Severity   `json:"severity"`
	Priority            int        `json:"priority"` // 1 (highest) .. 4, 0 when unset
	Category            string     `json:"category"`
	Subcategory         string     `json:"subcategory"`
	Source              string     `json:"source"`
	RootCause           string     `json:"rootCause"`
	LineOfBusiness      string     `json:"lineOfBusiness"`
	AssignmentGroup     string     `json:"assignmentGroup"`
	SLAMet              *bool      `json:"slaMet"`
	ReopenCount         int        `json:"reopenCount"`
	ResolutionTimeHours *float64   `json:"resolutionTimeHours"`
}

// IsCritical applies the single canonical definition of "critical":
// severity Critical or priority 1.
func (r Record) IsCritical() bool {
	return r.Severity == SeverityCritical || r.Priority == 1
}

// IsResolved returns true when the record reached a terminal status.
func (r Record) IsResolved() bool {
	return r.Status.IsTerminal()
}

// HasResolutionTime returns true when a positive resolution time is recorded.
func (r Record) HasResolutionTime() bool {
	return r.ResolutionTimeHours != nil && *r.ResolutionTimeHours > 0
}

// Validate reports the first data-model invariant the record violates, or "".
func (r Record) Validate() string {
	if r.ResolvedDate != nil && !r.Status.IsTerminal() {
		return "resolvedDate set on non-terminal status"
	}
	if r.ResolutionTimeHours != nil && *r.ResolutionTimeHours < 0 {
		return "negative resolutionTimeHours"
	}
	if r.Severity.Ordinal() == 0 {
		return "unknown severity"
	}
	switch r.Status {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
	default:
		return "unknown status"
	}
	if r.Priority < 0 || r.Priority > 4 {
		return "priority out of range"
	}
	if r.ReopenCount < 0 {
		return "negative reopenCount"
	}
	return ""
}

// TimePtr returns a pointer to a copy of t.
func TimePtr(t time.Time) *time.Time {
	return &t
}

// FloatPtr returns a pointer to a copy of f.
func FloatPtr(f float64) *float64 {
	return &f
}

// BoolPtr returns a pointer to a copy of b.
func BoolPtr(b bool) *bool {
	return &b
}

// DefaultSLATargets returns the resolution-time target in hours per severity
// used when no policy is configured.
func DefaultSLATargets() map[Severity]float64 {
	return map[Severity]float64{
		SeverityCritical: 4,
		SeverityHigh:     24,
		SeverityMedium:   72,
		SeverityLow:      168,
	}
}
