package stats

// AggregationResult is the chart-ready {labels, values} pair shared by every
// categorical and time-series view. Labels and Values always have the same
// length; empty results carry empty, non-nil slices.
type AggregationResult struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// NewAggregationResult returns an empty result with capacity n.
func NewAggregationResult(n int) AggregationResult {
	return AggregationResult{
		Labels: make([]string, 0, n),
		Values: make([]float64, 0, n),
	}
}

// Add appends one label/value pair.
func (r *AggregationResult) Add(label string, value float64) {
	r.Labels = append(r.Labels, label)
	r.Values = append(r.Values, value)
}

// Len returns the number of entries.
func (r AggregationResult) Len() int {
	return len(r.Labels)
}

// Total sums the values.
func (r AggregationResult) Total() float64 {
	sum := 0.0
	for _, v := range r.Values {
		sum += v
	}
	return sum
}

// Lookup returns the value for label.
func (r AggregationResult) Lookup(label string) (float64, bool) {
	for i, l := range r.Labels {
		if l == label {
			return r.Values[i], true
		}
	}
	return 0, false
}
