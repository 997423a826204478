package stats

import (
	"slices"

	"incident-lens/internal/incident"
)

// SLACompliance counts met and breached SLA targets.
type SLACompliance struct {
	Met      int     `json:"met"`
	Breached int     `json:"breached"`
	Ratio    float64 `json:"ratio"` // Met / (Met + Breached), 0 when both are 0
}

func (c *SLACompliance) observe(met bool) {
	if met {
		c.Met++
	} else {
		c.Breached++
	}
}

func (c *SLACompliance) finish() {
	if total := c.Met + c.Breached; total > 0 {
		c.Ratio = float64(c.Met) / float64(total)
	}
}

// SLAComplianceRatio computes overall compliance. Records with an unknown
// SLA flag count toward neither side.
func SLAComplianceRatio(records []incident.Record) SLACompliance {
	var c SLACompliance
	for _, r := range records {
		if r.SLAMet != nil {
			c.observe(*r.SLAMet)
		}
	}
	c.finish()
	return c
}

// SLAComplianceByField computes the compliance ratio per value of field,
// ordered by evaluated volume descending with ties in first-seen order.
// Groups with no known SLA flag are omitted.
func SLAComplianceByField(records []incident.Record, field incident.Field) AggregationResult {
	type group struct {
		label string
		c     SLACompliance
	}

	index := make(map[string]int)
	var groups []group

	for _, r := range records {
		if r.SLAMet == nil {
			continue
		}
		v, ok := r.Value(field)
		if !ok {
			continue
		}
		i, seen := index[v]
		if !seen {
			i = len(groups)
			index[v] = i
			groups = append(groups, group{label: v})
		}
		groups[i].c.observe(*r.SLAMet)
	}

	slices.SortStableFunc(groups, func(a, b group) int {
		return (b.c.Met + b.c.Breached) - (a.c.Met + a.c.Breached)
	})

	result := NewAggregationResult(len(groups))
	for _, g := range groups {
		g.c.finish()
		result.Add(g.label, g.c.Ratio)
	}
	return result
}
