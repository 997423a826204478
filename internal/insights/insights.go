package insights

import (
	"fmt"

	"incident-lens/internal/stats"
)

// Kind groups insights by the view they describe.
type Kind string

const (
	KindData       Kind = "data"
	KindVolume     Kind = "volume"
	KindResolution Kind = "resolution"
	KindSLA        Kind = "sla"
	KindRootCause  Kind = "root_cause"
	KindTrend      Kind = "trend"
	KindBacklog    Kind = "backlog"
	KindReopen     Kind = "reopen"
)

// Level is how urgently an insight should be read.
type Level string

const (
	LevelInfo     Level = "info"
	LevelWarning  Level = "warning"
	LevelCritical Level = "critical"
)

// Insight is one generated observation.
type Insight struct {
	Kind     Kind   `json:"kind"`
	Severity Level  `json:"severity"`
	Text     string `json:"text"`
}

// Input is the set of aggregates the rules read.
type Input struct {
	Sample     bool
	Summary    stats.Summary
	SLA        stats.SLACompliance
	RootCauses stats.AggregationResult
	Trend      stats.AggregationResult
	Volume     stats.VolumeChart
	Flow       stats.FlowResult
	Reopen     stats.ReopenSummary

	// KnownCauses counts records with a root cause before RootCauses was
	// capped. 0 falls back to the ranking total.
	KnownCauses int
}

// Thresholds tune when an observation escalates.
type Thresholds struct {
	CriticalShare     float64 // critical/total above this warns
	ResolvedShare     float64 // resolved/total below this warns
	SLAWarning        float64 // ratio below this warns
	SLACritical       float64 // ratio below this is critical
	RootCauseShare    float64 // top cause share above this warns
	ReopenRate        float64 // reopen rate above this warns
	MinTrendPeriods   int     // fewer periods than this skips trend rules
	MinRootCauseCount int
}

// DefaultThresholds returns the built-in escalation points.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CriticalShare:     0.2,
		ResolvedShare:     0.5,
		SLAWarning:        0.95,
		SLACritical:       0.8,
		RootCauseShare:    0.3,
		ReopenRate:        0.1,
		MinTrendPeriods:   3,
		MinRootCauseCount: 1,
	}
}

func pct(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}

// Generate applies every rule in a fixed order. Equal input always yields
// equal output.
func Generate(in Input, th Thresholds) []Insight {
	out := []Insight{}
	add := func(kind Kind, level Level, format string, args ...any) {
		out = append(out, Insight{Kind: kind, Severity: level, Text: fmt.Sprintf(format, args...)})
	}

	if in.Sample {
		add(KindData, LevelWarning, "No usable export was loaded; figures are computed from generated sample data.")
	}

	s := in.Summary
	if s.Total == 0 {
		add(KindVolume, LevelInfo, "No incidents match the current filter.")
		return out
	}

	critShare := pct(float64(s.CriticalCount), float64(s.Total))
	level := LevelInfo
	if critShare > th.CriticalShare*100 {
		level = LevelWarning
	}
	add(KindVolume, level, "%d incidents in scope, %d of them critical (%.1f%%).", s.Total, s.CriticalCount, critShare)

	resolvedShare := pct(float64(s.ResolvedCount), float64(s.Total))
	level = LevelInfo
	if resolvedShare < th.ResolvedShare*100 {
		level = LevelWarning
	}
	if s.AverageResolutionTimeHours > 0 {
		add(KindResolution, level, "%d resolved (%.1f%%) with an average resolution time of %.1f hours.",
			s.ResolvedCount, resolvedShare, s.AverageResolutionTimeHours)
	} else {
		add(KindResolution, level, "%d resolved (%.1f%%); no resolution times were recorded.", s.ResolvedCount, resolvedShare)
	}

	slaRule(in.SLA, th, add)
	rootCauseRule(in.RootCauses, in.KnownCauses, th, add)
	trendRule(in.Trend, in.Volume, th, add)

	switch {
	case in.Flow.TotalNet > 0:
		add(KindBacklog, LevelWarning, "Backlog grew by %d: more incidents opened than resolved over the period.", in.Flow.TotalNet)
	case in.Flow.TotalNet < 0:
		add(KindBacklog, LevelInfo, "Backlog shrank by %d: resolutions outpaced new incidents.", -in.Flow.TotalNet)
	}

	if in.Reopen.Reopened > 0 {
		level = LevelInfo
		if in.Reopen.ReopenRate > th.ReopenRate {
			level = LevelWarning
		}
		add(KindReopen, level, "%d incidents were reopened (%.1f%%), %d reopen events in total.",
			in.Reopen.Reopened, in.Reopen.ReopenRate*100, in.Reopen.TotalReopens)
	}

	return out
}

type addFunc func(kind Kind, level Level, format string, args ...any)

func slaRule(sla stats.SLACompliance, th Thresholds, add addFunc) {
	if sla.Met+sla.Breached == 0 {
		add(KindSLA, LevelInfo, "No SLA outcomes are recorded for these incidents.")
		return
	}

	level := LevelInfo
	switch {
	case sla.Ratio < th.SLACritical:
		level = LevelCritical
	case sla.Ratio < th.SLAWarning:
		level = LevelWarning
	}
	add(KindSLA, level, "SLA compliance is %.1f%% (%d met, %d breached).", sla.Ratio*100, sla.Met, sla.Breached)
}

func rootCauseRule(causes stats.AggregationResult, known int, th Thresholds, add addFunc) {
	if causes.Len() == 0 || causes.Values[0] < float64(th.MinRootCauseCount) {
		return
	}

	total := max(float64(known), causes.Total())
	share := pct(causes.Values[0], total)
	level := LevelInfo
	if share > th.RootCauseShare*100 && causes.Len() > 1 {
		level = LevelWarning
	}
	add(KindRootCause, level, "Top root cause is %q with %.0f incidents (%.1f%% of those with a known cause).",
		causes.Labels[0], causes.Values[0], share)
}

func trendRule(trend stats.AggregationResult, chart stats.VolumeChart, th Thresholds, add addFunc) {
	if trend.Len() < th.MinTrendPeriods {
		return
	}

	for _, sig := range chart.Signals {
		switch sig.Type {
		case stats.SignalSpike:
			add(KindTrend, LevelWarning, "Unusual spike in %s: %.0f incidents against an average of %.1f.",
				sig.Label, sig.Value, chart.Average)
		case stats.SignalShift:
			add(KindTrend, LevelWarning, "Sustained shift in volume through %s: eight consecutive periods on one side of the average.", sig.Label)
		}
	}

	if chart.Stable() {
		add(KindTrend, LevelInfo, "Incident volume is stable across %d periods, averaging %.1f per period.", trend.Len(), chart.Average)
	}
}
