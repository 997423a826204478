package dashboard

import (
	"fmt"
	"strings"
	"time"

	"incident-lens/internal/stats"
	"incident-lens/internal/visuals"
)

// RenderMarkdown renders the view as a Markdown report. Mermaid charts are
// embedded when charts is true.
func RenderMarkdown(v View, charts bool) string {
	var sb strings.Builder
	w := func(format string, args ...any) {
		sb.WriteString(fmt.Sprintf(format, args...))
	}

	w("# %s\n\n", v.Title)
	if v.Source.Sample {
		w("> **Sample data.** No usable export was loaded; the figures below come from generated placeholder incidents.\n\n")
	}
	w("- Scope: %s\n", v.Filter)
	w("- Granularity: %s\n", v.Granularity)
	w("- Dataset: `%s` (%s, %d records loaded", v.Source.DatasetID, v.Source.Provenance, v.Source.Loaded)
	if v.Source.Skipped > 0 || v.Source.RowErrors > 0 {
		w(", %d rows skipped, %d unreadable", v.Source.Skipped, v.Source.RowErrors)
	}
	w(")\n")
	w("- Generated: %s\n\n", v.GeneratedAt.Format(time.RFC3339))

	w("## Summary\n\n")
	w("| Total | Critical | Resolved | Avg Resolution (h) | SLA Compliance | Reopened |\n")
	w("|---:|---:|---:|---:|---:|---:|\n")
	w("| %d | %d | %d | %.1f | %s | %d |\n\n",
		v.Summary.Total, v.Summary.CriticalCount, v.Summary.ResolvedCount,
		v.Summary.AverageResolutionTimeHours, slaText(v.SLA), v.Reopen.Reopened)

	if len(v.Insights) > 0 {
		w("## Insights\n\n")
		for _, in := range v.Insights {
			w("- **%s** %s\n", strings.ToUpper(string(in.Severity)), in.Text)
		}
		w("\n")
	}

	section := func(title string, res stats.AggregationResult, valueHeader string, chart string) {
		w("## %s\n\n", title)
		if res.Len() == 0 {
			w("_No data._\n\n")
			return
		}
		if charts && chart != "" {
			w("%s\n\n", chart)
		}
		w("| %s | %s |\n|---|---:|\n", "Value", valueHeader)
		for i, label := range res.Labels {
			w("| %s | %s |\n", escapeCell(label), formatNumber(res.Values[i]))
		}
		w("\n")
	}

	section("Severity", v.BySeverity, "Incidents", visuals.GeneratePie("Severity", v.BySeverity))
	section("Status", v.ByStatus, "Incidents", visuals.GeneratePie("Status", v.ByStatus))
	section("Priority", v.ByPriority, "Incidents", visuals.GenerateBarChart("Priority", "Incidents", v.ByPriority))
	section("Category", v.ByCategory, "Incidents", visuals.GeneratePie("Category", v.ByCategory))
	section("Source", v.BySource, "Incidents", visuals.GenerateBarChart("Source", "Incidents", v.BySource))
	section("Trend", v.Trend, "Opened", visuals.GenerateTrendChart(v.Trend, v.Volume))

	w("## Opened vs Resolved\n\n")
	if len(v.Flow.Buckets) == 0 {
		w("_No data._\n\n")
	} else {
		if charts {
			w("%s\n\n", visuals.GenerateFlowChart(v.Flow))
		}
		w("| Period | Opened | Resolved | Net |\n|---|---:|---:|---:|\n")
		for _, b := range v.Flow.Buckets {
			w("| %s | %d | %d | %+d |\n", b.Label, b.Opened, b.Resolved, b.Net)
		}
		w("\n")
	}

	resolution := func(title string, rs stats.ResolutionStats) {
		w("## %s\n\n", title)
		if len(rs.Groups) == 0 {
			w("_No resolved incidents with a recorded resolution time._\n\n")
			return
		}
		if charts {
			w("%s\n\n", visuals.GenerateResolutionChart(title, rs))
		}
		w("| Group | Count | Avg (h) | Median (h) | P85 (h) |\n|---|---:|---:|---:|---:|\n")
		for _, g := range rs.Groups {
			w("| %s | %d | %.1f | %.1f | %.1f |\n", escapeCell(g.Group), g.Count, g.Average, g.Median, g.P85)
		}
		w("\n")
	}
	resolution("Resolution Time by Severity", v.ResolutionBySeverity)
	resolution("Resolution Time by Category", v.ResolutionByCategory)

	section("SLA Compliance by Category", percentages(v.SLAByCategory), "Compliance %", "")
	section("Top Root Causes", v.RootCauses, "Incidents", visuals.GenerateBarChart("Top Root Causes", "Incidents", v.RootCauses))

	return sb.String()
}

func slaText(c stats.SLACompliance) string {
	if c.Met+c.Breached == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", c.Ratio*100)
}

func percentages(res stats.AggregationResult) stats.AggregationResult {
	out := stats.NewAggregationResult(res.Len())
	for i, l := range res.Labels {
		out.Add(l, stats.Round(res.Values[i]*100, 1))
	}
	return out
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
