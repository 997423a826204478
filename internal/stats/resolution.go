package stats

import (
	"incident-lens/internal/incident"
)

// GroupResolution summarizes resolution times for one group.
type GroupResolution struct {
	Group   string  `json:"group"`
	Count   int     `json:"count"`
	Average float64 `json:"averageHours"`
	Median  float64 `json:"medianHours"`
	P85     float64 `json:"p85Hours"`
}

// ResolutionStats is the per-group resolution-time breakdown.
type ResolutionStats struct {
	Field  incident.Field    `json:"field"`
	Groups []GroupResolution `json:"groups"`
}

// Result projects the per-group averages onto an AggregationResult.
func (s ResolutionStats) Result() AggregationResult {
	result := NewAggregationResult(len(s.Groups))
	for _, g := range s.Groups {
		result.Add(g.Group, g.Average)
	}
	return result
}

// ResolutionTimeStats averages ResolutionTimeHours per value of groupField.
// Only records with a positive resolution time and a non-null group count;
// groups without any such record are omitted. Ordinal fields come out in
// their canonical order, all others in first-seen order.
func ResolutionTimeStats(records []incident.Record, groupField incident.Field) ResolutionStats {
	index := make(map[string]int)
	var labels []string
	var hours [][]float64

	for _, r := range records {
		if !r.HasResolutionTime() {
			continue
		}
		group, ok := r.Value(groupField)
		if !ok {
			continue
		}
		i, seen := index[group]
		if !seen {
			i = len(labels)
			index[group] = i
			labels = append(labels, group)
			hours = append(hours, nil)
		}
		hours[i] = append(hours[i], *r.ResolutionTimeHours)
	}

	if order := incident.CanonicalOrder(groupField); order != nil {
		labels = labels[:0:0]
		for _, l := range order {
			if _, ok := index[l]; ok {
				labels = append(labels, l)
			}
		}
	}

	stats := ResolutionStats{Field: groupField, Groups: make([]GroupResolution, 0, len(labels))}
	for _, l := range labels {
		h := hours[index[l]]
		stats.Groups = append(stats.Groups, GroupResolution{
			Group:   l,
			Count:   len(h),
			Average: CalculateMean(h),
			Median:  CalculateMedianContinuous(h),
			P85:     CalculatePercentile(h, 0.85),
		})
	}
	return stats
}
