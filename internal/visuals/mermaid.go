package visuals

import (
	"fmt"
	"math"
	"strings"

	"incident-lens/internal/stats"
)

// maxPoints is where xychart labels start overlapping.
const maxPoints = 60

func quote(label string) string {
	return fmt.Sprintf("\"%s\"", strings.ReplaceAll(label, "\"", "'"))
}

func formatValues(values []float64, precision int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%.*f", precision, v)
	}
	return strings.Join(parts, ", ")
}

func quoteLabels(labels []string) string {
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = quote(l)
	}
	return strings.Join(parts, ", ")
}

// axisMax leaves headroom above the largest plotted value.
func axisMax(series ...[]float64) int {
	maxVal := 0.0
	for _, values := range series {
		for _, v := range values {
			if v > maxVal {
				maxVal = v
			}
		}
	}
	return int(math.Ceil(maxVal*1.2)) + 1
}

// subsample keeps every nth point (and the last one) so long series stay legible.
func subsample(res stats.AggregationResult) stats.AggregationResult {
	if res.Len() <= maxPoints {
		return res
	}
	rate := int(math.Ceil(float64(res.Len()) / maxPoints))
	out := stats.NewAggregationResult(maxPoints + 1)
	for i := range res.Labels {
		if i%rate == 0 || i == res.Len()-1 {
			out.Add(res.Labels[i], res.Values[i])
		}
	}
	return out
}

// GeneratePie renders a categorical distribution as a Mermaid pie chart.
func GeneratePie(title string, res stats.AggregationResult) string {
	if res.Len() == 0 || res.Total() == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString(fmt.Sprintf("pie title %s\n", title))
	for i, label := range res.Labels {
		sb.WriteString(fmt.Sprintf("    %s : %g\n", quote(label), res.Values[i]))
	}
	sb.WriteString("```")
	return sb.String()
}

// GenerateBarChart renders any AggregationResult as a Mermaid bar chart.
func GenerateBarChart(title, yLabel string, res stats.AggregationResult) string {
	if res.Len() == 0 {
		return ""
	}
	res = subsample(res)

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"%s\"\n", title))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", quoteLabels(res.Labels)))
	sb.WriteString(fmt.Sprintf("    y-axis \"%s\" 0 --> %d\n", yLabel, axisMax(res.Values)))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", formatValues(res.Values, 1)))
	sb.WriteString("```")
	return sb.String()
}

// GenerateTrendChart renders the incident volume per period with the
// average and upper natural process limit of its XmR chart as reference lines.
func GenerateTrendChart(series stats.AggregationResult, chart stats.VolumeChart) string {
	if series.Len() == 0 {
		return ""
	}
	series = subsample(series)

	averages := make([]float64, series.Len())
	unpls := make([]float64, series.Len())
	for i := range averages {
		averages[i] = chart.Average
		unpls[i] = chart.UNPL
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Incident Volume\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", quoteLabels(series.Labels)))
	sb.WriteString(fmt.Sprintf("    y-axis \"Incidents\" 0 --> %d\n", axisMax(series.Values, unpls)))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", formatValues(series.Values, 0)))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", formatValues(averages, 1)))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", formatValues(unpls, 1)))
	sb.WriteString("```")
	return sb.String()
}

// GenerateFlowChart renders opened versus resolved counts per period.
func GenerateFlowChart(flow stats.FlowResult) string {
	if len(flow.Buckets) == 0 {
		return ""
	}
	opened, resolved := flow.Series()
	opened, resolved = subsample(opened), subsample(resolved)

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Opened vs Resolved\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", quoteLabels(opened.Labels)))
	sb.WriteString(fmt.Sprintf("    y-axis \"Incidents\" 0 --> %d\n", axisMax(opened.Values, resolved.Values)))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", formatValues(opened.Values, 0)))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", formatValues(resolved.Values, 0)))
	sb.WriteString("```")
	return sb.String()
}

// GenerateResolutionChart renders average resolution hours per group with
// the 85th percentile as a line.
func GenerateResolutionChart(title string, rs stats.ResolutionStats) string {
	if len(rs.Groups) == 0 {
		return ""
	}

	labels := make([]string, len(rs.Groups))
	averages := make([]float64, len(rs.Groups))
	p85s := make([]float64, len(rs.Groups))
	for i, g := range rs.Groups {
		labels[i] = g.Group
		averages[i] = g.Average
		p85s[i] = g.P85
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"%s\"\n", title))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", quoteLabels(labels)))
	sb.WriteString(fmt.Sprintf("    y-axis \"Hours\" 0 --> %d\n", axisMax(averages, p85s)))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", formatValues(averages, 1)))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", formatValues(p85s, 1)))
	sb.WriteString("```")
	return sb.String()
}
