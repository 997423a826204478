package stats

import (
	"slices"

	"incident-lens/internal/incident"
)

// groupCount is one distinct value in first-seen order.
type groupCount struct {
	label string
	count int
}

// countByField counts non-null values of field, preserving first-seen order.
func countByField(records []incident.Record, field incident.Field) []groupCount {
	index := make(map[string]int)
	var groups []groupCount

	for _, r := range records {
		v, ok := r.Value(field)
		if !ok {
			continue
		}
		i, seen := index[v]
		if !seen {
			i = len(groups)
			index[v] = i
			groups = append(groups, groupCount{label: v})
		}
		groups[i].count++
	}
	return groups
}

// DistributionByField counts records per distinct value of field, sorted by
// count descending with ties kept in first-seen order. Records where the
// field is null are not counted. topN <= 0 returns every value.
func DistributionByField(records []incident.Record, field incident.Field, topN int) AggregationResult {
	groups := countByField(records, field)

	// SortStableFunc keeps first-seen order among equal counts.
	slices.SortStableFunc(groups, func(a, b groupCount) int {
		return b.count - a.count
	})

	if topN > 0 && len(groups) > topN {
		groups = groups[:topN]
	}

	result := NewAggregationResult(len(groups))
	for _, g := range groups {
		result.Add(g.label, float64(g.count))
	}
	return result
}

// OrderedDistribution counts records per value in the field's canonical
// order (severity, status, priority), including zero-count values. Free-text
// fields fall back to DistributionByField.
func OrderedDistribution(records []incident.Record, field incident.Field) AggregationResult {
	order := incident.CanonicalOrder(field)
	if order == nil {
		return DistributionByField(records, field, 0)
	}

	counts := make(map[string]int, len(order))
	for _, g := range countByField(records, field) {
		counts[g.label] = g.count
	}

	result := NewAggregationResult(len(order))
	for _, label := range order {
		result.Add(label, float64(counts[label]))
	}
	return result
}

// RootCauseRanking ranks root causes by frequency. Records without a root
// cause are ignored.
func RootCauseRanking(records []incident.Record, topN int) AggregationResult {
	return DistributionByField(records, incident.FieldRootCause, topN)
}
