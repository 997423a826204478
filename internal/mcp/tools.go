package mcp

import (
	"fmt"

	"incident-lens/internal/filter"
	"incident-lens/internal/incident"

	"github.com/google/jsonschema-go/jsonschema"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

type LoadExportInput struct {
	Paths   []string `json:"paths,omitempty" jsonschema:"Export files, directories or glob patterns to load (CSV or JSON)."`
	Content string   `json:"content,omitempty" jsonschema:"Inline export text. Used instead of paths when provided."`
	Name    string   `json:"name,omitempty" jsonschema:"Optional name for inline content. The extension selects the parser."`
}

type SummaryInput struct {
	Category string `json:"category,omitempty" jsonschema:"Optional: restrict to one category (case-insensitive). 'all' or empty disables the filter."`
	From     string `json:"from,omitempty" jsonschema:"Optional: earliest opened date, YYYY-MM-DD (inclusive)."`
	To       string `json:"to,omitempty" jsonschema:"Optional: latest opened date, YYYY-MM-DD (inclusive through the end of that day)."`
	Severity string `json:"severity,omitempty" jsonschema:"Optional: comma-separated severities to keep, e.g. 'Critical,High'."`
	Source   string `json:"source,omitempty" jsonschema:"Optional: restrict to one source system (case-insensitive)."`
}

type DistributionInput struct {
	Field    string `json:"field" jsonschema:"Field to group by."`
	TopN     int    `json:"top_n,omitempty" jsonschema:"Optional: keep only the N most frequent values. 0 keeps all."`
	Category string `json:"category,omitempty" jsonschema:"Optional: restrict to one category (case-insensitive). 'all' or empty disables the filter."`
	From     string `json:"from,omitempty" jsonschema:"Optional: earliest opened date, YYYY-MM-DD (inclusive)."`
	To       string `json:"to,omitempty" jsonschema:"Optional: latest opened date, YYYY-MM-DD (inclusive through the end of that day)."`
	Severity string `json:"severity,omitempty" jsonschema:"Optional: comma-separated severities to keep, e.g. 'Critical,High'."`
	Source   string `json:"source,omitempty" jsonschema:"Optional: restrict to one source system (case-insensitive)."`
}

type TrendInput struct {
	Granularity string `json:"granularity,omitempty" jsonschema:"Optional: bucket size. Defaults to the configured granularity."`
	Category    string `json:"category,omitempty" jsonschema:"Optional: restrict to one category (case-insensitive). 'all' or empty disables the filter."`
	From        string `json:"from,omitempty" jsonschema:"Optional: earliest opened date, YYYY-MM-DD (inclusive)."`
	To          string `json:"to,omitempty" jsonschema:"Optional: latest opened date, YYYY-MM-DD (inclusive through the end of that day)."`
	Severity    string `json:"severity,omitempty" jsonschema:"Optional: comma-separated severities to keep, e.g. 'Critical,High'."`
	Source      string `json:"source,omitempty" jsonschema:"Optional: restrict to one source system (case-insensitive)."`
}

type GroupedInput struct {
	GroupBy  string `json:"group_by,omitempty" jsonschema:"Optional: field to break the result down by."`
	Category string `json:"category,omitempty" jsonschema:"Optional: restrict to one category (case-insensitive). 'all' or empty disables the filter."`
	From     string `json:"from,omitempty" jsonschema:"Optional: earliest opened date, YYYY-MM-DD (inclusive)."`
	To       string `json:"to,omitempty" jsonschema:"Optional: latest opened date, YYYY-MM-DD (inclusive through the end of that day)."`
	Severity string `json:"severity,omitempty" jsonschema:"Optional: comma-separated severities to keep, e.g. 'Critical,High'."`
	Source   string `json:"source,omitempty" jsonschema:"Optional: restrict to one source system (case-insensitive)."`
}

type RootCauseInput struct {
	TopN     int    `json:"top_n,omitempty" jsonschema:"Optional: number of root causes to return. Defaults to the configured top N."`
	Category string `json:"category,omitempty" jsonschema:"Optional: restrict to one category (case-insensitive). 'all' or empty disables the filter."`
	From     string `json:"from,omitempty" jsonschema:"Optional: earliest opened date, YYYY-MM-DD (inclusive)."`
	To       string `json:"to,omitempty" jsonschema:"Optional: latest opened date, YYYY-MM-DD (inclusive through the end of that day)."`
	Severity string `json:"severity,omitempty" jsonschema:"Optional: comma-separated severities to keep, e.g. 'Critical,High'."`
	Source   string `json:"source,omitempty" jsonschema:"Optional: restrict to one source system (case-insensitive)."`
}

type DashboardInput struct {
	Format      string `json:"format,omitempty" jsonschema:"Optional: 'json' (default) or 'markdown'."`
	Granularity string `json:"granularity,omitempty" jsonschema:"Optional: trend bucket size."`
	TopN        int    `json:"top_n,omitempty" jsonschema:"Optional: cap for category and root-cause rankings."`
	Category    string `json:"category,omitempty" jsonschema:"Optional: restrict to one category (case-insensitive). 'all' or empty disables the filter."`
	From        string `json:"from,omitempty" jsonschema:"Optional: earliest opened date, YYYY-MM-DD (inclusive)."`
	To          string `json:"to,omitempty" jsonschema:"Optional: latest opened date, YYYY-MM-DD (inclusive through the end of that day)."`
	Severity    string `json:"severity,omitempty" jsonschema:"Optional: comma-separated severities to keep, e.g. 'Critical,High'."`
	Source      string `json:"source,omitempty" jsonschema:"Optional: restrict to one source system (case-insensitive)."`
}

func (in SummaryInput) filter() (filter.Filter, error) {
	return filter.FromArgs(in.Category, in.From, in.To, in.Severity, in.Source)
}

func (in DistributionInput) filter() (filter.Filter, error) {
	return filter.FromArgs(in.Category, in.From, in.To, in.Severity, in.Source)
}

func (in TrendInput) filter() (filter.Filter, error) {
	return filter.FromArgs(in.Category, in.From, in.To, in.Severity, in.Source)
}

func (in GroupedInput) filter() (filter.Filter, error) {
	return filter.FromArgs(in.Category, in.From, in.To, in.Severity, in.Source)
}

func (in RootCauseInput) filter() (filter.Filter, error) {
	return filter.FromArgs(in.Category, in.From, in.To, in.Severity, in.Source)
}

func (in DashboardInput) filter() (filter.Filter, error) {
	return filter.FromArgs(in.Category, in.From, in.To, in.Severity, in.Source)
}

var granularities = []any{"day", "week", "month", "quarter", "year"}

func fieldNames() []any {
	out := make([]any, len(incident.Fields))
	for i, f := range incident.Fields {
		out[i] = string(f)
	}
	return out
}

// schemaFor infers the input schema of T and pins enumerated properties.
func schemaFor[T any](enums map[string][]any) *jsonschema.Schema {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		panic(fmt.Sprintf("input schema for %T: %v", *new(T), err))
	}
	for name, values := range enums {
		if prop, ok := schema.Properties[name]; ok {
			prop.Enum = values
		}
	}
	return schema
}

func (s *Server) registerTools(server *sdk.Server) {
	sdk.AddTool(server, &sdk.Tool{
		Name: "load_export",
		Description: "Load incident exports (CSV or JSON, any common column naming) and make them the active dataset. " +
			"When nothing usable is found, deterministic sample data is loaded instead and flagged as such in every response.",
		InputSchema: schemaFor[LoadExportInput](nil),
	}, s.handleLoadExport)

	sdk.AddTool(server, &sdk.Tool{
		Name:        "get_summary",
		Description: "Top-line counts for the active dataset: total, critical (severity Critical or priority 1), resolved, average resolution hours, SLA compliance and reopens.",
		InputSchema: schemaFor[SummaryInput](nil),
	}, s.handleSummary)

	sdk.AddTool(server, &sdk.Tool{
		Name:        "get_distribution",
		Description: "Count incidents per value of a field, most frequent first. Ties keep the order values were first seen in.",
		InputSchema: schemaFor[DistributionInput](map[string][]any{"field": fieldNames()}),
	}, s.handleDistribution)

	sdk.AddTool(server, &sdk.Tool{
		Name: "get_trend",
		Description: "Incidents opened per period (zero-filled between the first and last period), opened versus resolved flow, " +
			"and process-behavior signals (spikes, dips, sustained shifts) on the volume series.",
		InputSchema: schemaFor[TrendInput](map[string][]any{"granularity": granularities}),
	}, s.handleTrend)

	sdk.AddTool(server, &sdk.Tool{
		Name:        "get_resolution_stats",
		Description: "Average, median and 85th percentile resolution hours per group. Only incidents with a positive resolution time count.",
		InputSchema: schemaFor[GroupedInput](map[string][]any{"group_by": fieldNames()}),
	}, s.handleResolutionStats)

	sdk.AddTool(server, &sdk.Tool{
		Name:        "get_sla_compliance",
		Description: "SLA met versus breached and the compliance ratio (0 when nothing was evaluated), optionally broken down by a field.",
		InputSchema: schemaFor[GroupedInput](map[string][]any{"group_by": fieldNames()}),
	}, s.handleSLACompliance)

	sdk.AddTool(server, &sdk.Tool{
		Name:        "get_root_causes",
		Description: "Rank root causes by frequency. Incidents without a recorded root cause are ignored.",
		InputSchema: schemaFor[RootCauseInput](nil),
	}, s.handleRootCauses)

	sdk.AddTool(server, &sdk.Tool{
		Name:        "get_dashboard",
		Description: "Every view at once (summary, distributions, trend, flow, resolution, SLA, root causes, insights) as JSON or a Markdown report.",
		InputSchema: schemaFor[DashboardInput](map[string][]any{
			"granularity": granularities,
			"format":      {"json", "markdown"},
		}),
	}, s.handleDashboard)
}
