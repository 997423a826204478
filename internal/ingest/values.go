package ingest

import (
	"math"
	"strconv"
	"strings"
	"time"

	"incident-lens/internal/incident"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000-0700", // Jira
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"1/2/2006",
	"02-Jan-2006 15:04:05",
	"02-Jan-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// minYear rejects placeholder dates such as 0001-01-01 that exports use for
// "no date".
const minYear = 1900

// parseDate returns nil for blank, unparseable or placeholder input.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return plausible(t.UTC())
		}
	}
	// Epoch seconds or milliseconds
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		var t time.Time
		switch len(s) {
		case 10:
			t = time.Unix(n, 0).UTC()
		case 13:
			t = time.UnixMilli(n).UTC()
		default:
			return nil
		}
		return plausible(t)
	}
	return nil
}

func plausible(t time.Time) *time.Time {
	if t.Year() < minYear {
		return nil
	}
	return &t
}

// parseNumber coerces anything non-numeric to 0.
func parseNumber(s string) float64 {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, ",", "")
	for _, unit := range []string{"hours", "hrs", "hr", "h"} {
		if strings.HasSuffix(s, unit) {
			s = strings.TrimSpace(strings.TrimSuffix(s, unit))
			break
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// leadingInt reads the digits at the start of s ("1 - Critical" -> 1).
func leadingInt(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	return n, err == nil
}

// parsePriority accepts "2", "P2", "2 - High". Anything outside 1..4 is 0.
func parsePriority(s string) int {
	s = strings.TrimSpace(s)
	if len(s) > 1 && (s[0] == 'p' || s[0] == 'P') {
		s = s[1:]
	}
	var n int
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		// "2.0" style exports; "1.5" is not a priority
		if math.IsInf(f, 0) || f != math.Trunc(f) {
			return 0
		}
		n = int(f)
	} else if lead, ok := leadingInt(s); ok {
		n = lead
	}
	if n < 1 || n > 4 {
		return 0
	}
	return n
}

func parseSeverity(s string) (incident.Severity, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return "", false
	}
	for _, prefix := range []string{"severity", "sev", "s"} {
		if strings.HasPrefix(key, prefix) {
			rest := strings.TrimLeft(strings.TrimPrefix(key, prefix), " -:")
			if n, ok := leadingInt(rest); ok {
				return incident.SeverityFromOrdinal(n)
			}
		}
	}
	if n, ok := leadingInt(key); ok {
		return incident.SeverityFromOrdinal(n)
	}
	switch {
	case strings.Contains(key, "critical"), key == "blocker", key == "urgent", key == "emergency":
		return incident.SeverityCritical, true
	case strings.Contains(key, "high"), key == "major":
		return incident.SeverityHigh, true
	case strings.Contains(key, "medium"), key == "moderate", key == "normal":
		return incident.SeverityMedium, true
	case strings.Contains(key, "low"), key == "minor", key == "trivial", key == "cosmetic":
		return incident.SeverityLow, true
	}
	return "", false
}

func parseStatus(s string) (incident.Status, bool) {
	key := normalizeKey(s)
	switch key {
	case "open", "new", "reported", "todo", "backlog":
		return incident.StatusOpen, true
	case "inprogress", "wip", "active", "assigned", "workinprogress", "pending", "onhold", "inreview", "triage", "investigating":
		return incident.StatusInProgress, true
	case "resolved", "fixed", "done", "complete", "completed":
		return incident.StatusResolved, true
	case "closed", "cancelled", "canceled", "rejected", "duplicate":
		return incident.StatusClosed, true
	}
	return "", false
}

// parseBool returns nil when the flag is unknown.
func parseBool(s string) *bool {
	switch normalizeKey(s) {
	case "true", "yes", "y", "1", "met", "within", "withinsla", "achieved", "pass":
		return incident.BoolPtr(true)
	case "false", "no", "n", "0", "breached", "missed", "notmet", "violated", "fail":
		return incident.BoolPtr(false)
	}
	return nil
}

// parseCount reads a non-negative integer; "yes"/"true" count as one.
func parseCount(s string) int {
	if b := parseBool(s); b != nil && strings.TrimSpace(s) != "0" && strings.TrimSpace(s) != "1" {
		if *b {
			return 1
		}
		return 0
	}
	n := int(math.Floor(parseNumber(s)))
	if n < 0 {
		return 0
	}
	return n
}
