package stats

import (
	"incident-lens/internal/incident"
)

// Summary holds the top-line counts every view is anchored on.
type Summary struct {
	Total                      int     `json:"total"`
	CriticalCount              int     `json:"criticalCount"`
	ResolvedCount              int     `json:"resolvedCount"`
	AverageResolutionTimeHours float64 `json:"averageResolutionTimeHours"`
}

// SummaryStatistics computes the top-line counts. The average covers
// resolved records with a positive resolution time and is 0 when none
// qualify.
func SummaryStatistics(records []incident.Record) Summary {
	s := Summary{Total: len(records)}

	var hours []float64
	for _, r := range records {
		if r.IsCritical() {
			s.CriticalCount++
		}
		if !r.IsResolved() {
			continue
		}
		s.ResolvedCount++
		if r.HasResolutionTime() {
			hours = append(hours, *r.ResolutionTimeHours)
		}
	}

	s.AverageResolutionTimeHours = CalculateMean(hours)
	return s
}

// ReopenSummary describes how often incidents came back after resolution.
type ReopenSummary struct {
	Reopened     int     `json:"reopened"`     // records reopened at least once
	TotalReopens int     `json:"totalReopens"` // sum of ReopenCount
	ReopenRate   float64 `json:"reopenRate"`   // Reopened / total records
}

// ReopenStats aggregates ReopenCount across records.
func ReopenStats(records []incident.Record) ReopenSummary {
	var s ReopenSummary
	for _, r := range records {
		if r.ReopenCount > 0 {
			s.Reopened++
			s.TotalReopens += r.ReopenCount
		}
	}
	if len(records) > 0 {
		s.ReopenRate = float64(s.Reopened) / float64(len(records))
	}
	return s
}
