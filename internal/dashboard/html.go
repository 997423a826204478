package dashboard

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"incident-lens/internal/stats"
)

// bar is one row of a horizontal bar table.
type bar struct {
	Label string
	Value string
	Width float64 // percent of the largest value
}

type panel struct {
	Title string
	Bars  []bar
}

func bars(res stats.AggregationResult, format func(float64) string) []bar {
	maxVal := 0.0
	for _, v := range res.Values {
		if v > maxVal {
			maxVal = v
		}
	}
	out := make([]bar, res.Len())
	for i, l := range res.Labels {
		width := 0.0
		if maxVal > 0 {
			width = stats.Round(res.Values[i]/maxVal*100, 1)
		}
		out[i] = bar{Label: l, Value: format(res.Values[i]), Width: width}
	}
	return out
}

var pageTemplate = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"ts": func(t time.Time) string { return t.Format(time.RFC3339) },
	"f1": func(v float64) string { return fmt.Sprintf("%.1f", v) },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.View.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; color: #1f2933; }
.banner { background: #fff4e5; border: 1px solid #f0b429; padding: .75rem 1rem; margin-bottom: 1rem; }
.cards { display: flex; gap: 1rem; flex-wrap: wrap; }
.card { border: 1px solid #d9e2ec; border-radius: 6px; padding: .75rem 1rem; min-width: 9rem; }
.card b { display: block; font-size: 1.6rem; }
.panels { display: grid; grid-template-columns: repeat(auto-fill, minmax(22rem, 1fr)); gap: 1.5rem; margin-top: 1.5rem; }
table { border-collapse: collapse; width: 100%; }
td, th { padding: .2rem .4rem; text-align: left; font-size: .9rem; }
.bar { background: #3e7cb1; height: .8rem; }
.info { color: #334e68; } .warning { color: #b44d12; } .critical { color: #ab091e; font-weight: bold; }
</style>
</head>
<body>
<h1>{{.View.Title}}</h1>
{{if .View.Source.Sample}}<div class="banner">Sample data: no usable export was loaded.</div>{{end}}
<p>Scope: {{.View.Filter}} &middot; Granularity: {{.View.Granularity}} &middot; Generated {{ts .View.GeneratedAt}}</p>
<div class="cards">
<div class="card">Total<b>{{.View.Summary.Total}}</b></div>
<div class="card">Critical<b>{{.View.Summary.CriticalCount}}</b></div>
<div class="card">Resolved<b>{{.View.Summary.ResolvedCount}}</b></div>
<div class="card">Avg resolution (h)<b>{{f1 .View.Summary.AverageResolutionTimeHours}}</b></div>
<div class="card">SLA compliance<b>{{.SLA}}</b></div>
</div>
{{with .View.Insights}}<h2>Insights</h2><ul>{{range .}}<li class="{{.Severity}}">{{.Text}}</li>{{end}}</ul>{{end}}
<div class="panels">
{{range .Panels}}<section><h3>{{.Title}}</h3>
{{if .Bars}}<table>{{range .Bars}}<tr><td>{{.Label}}</td><td style="width:60%"><div class="bar" style="width:{{.Width}}%"></div></td><td>{{.Value}}</td></tr>{{end}}</table>{{else}}<p><em>No data.</em></p>{{end}}
</section>
{{end}}</div>
</body>
</html>
`))

// RenderHTML renders the view as a self-contained HTML page.
func RenderHTML(v View) (string, error) {
	count := formatNumber
	hours := func(f float64) string { return fmt.Sprintf("%.1f h", f) }
	percent := func(f float64) string { return fmt.Sprintf("%.1f%%", f*100) }

	data := struct {
		View   View
		SLA    string
		Panels []panel
	}{
		View: v,
		SLA:  slaText(v.SLA),
		Panels: []panel{
			{"Severity", bars(v.BySeverity, count)},
			{"Status", bars(v.ByStatus, count)},
			{"Priority", bars(v.ByPriority, count)},
			{"Category", bars(v.ByCategory, count)},
			{"Trend (" + string(v.Granularity) + ")", bars(v.Trend, count)},
			{"Avg resolution by severity", bars(v.ResolutionBySeverity.Result(), hours)},
			{"Avg resolution by category", bars(v.ResolutionByCategory.Result(), hours)},
			{"SLA compliance by category", bars(v.SLAByCategory, percent)},
			{"Top root causes", bars(v.RootCauses, count)},
			{"Source", bars(v.BySource, count)},
		},
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering dashboard: %w", err)
	}
	return buf.String(), nil
}
