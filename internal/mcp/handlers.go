package mcp

import (
	"context"
	"errors"
	"strings"

	"incident-lens/internal/dashboard"
	"incident-lens/internal/dataset"
	"incident-lens/internal/filter"
	"incident-lens/internal/incident"
	"incident-lens/internal/stats"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

type loadResult struct {
	Records    int                `json:"records"`
	Provenance dataset.Provenance `json:"provenance"`
	Sources    []string           `json:"sources"`
	Skipped    int                `json:"skipped"`
	RowErrors  int                `json:"rowErrors"`
}

func (s *Server) handleLoadExport(ctx context.Context, _ *sdk.CallToolRequest, in LoadExportInput) (*sdk.CallToolResult, any, error) {
	var ds dataset.Dataset
	switch {
	case in.Content != "":
		name := in.Name
		if name == "" {
			name = "inline"
		}
		ds = dataset.FromBytes(name, []byte(in.Content), s.opts.Load)
	case len(in.Paths) > 0:
		paths := dataset.ResolvePaths(in.Paths)
		loaded, err := dataset.LoadFiles(ctx, paths, s.opts.Load)
		if err != nil {
			return nil, nil, err
		}
		ds = loaded
	default:
		return nil, nil, errors.New("provide either paths or content")
	}

	s.replace(ds)
	log.Info().
		Str("dataset", ds.ID.String()).
		Str("provenance", string(ds.Provenance)).
		Int("records", len(ds.Records)).
		Msg("Active dataset replaced")

	return result(wrap(ds, filter.Filter{}, len(ds.Records), loadResult{
		Records:    len(ds.Records),
		Provenance: ds.Provenance,
		Sources:    ds.Sources,
		Skipped:    ds.Skipped,
		RowErrors:  ds.RowErrors,
	}))
}

type summaryResult struct {
	stats.Summary
	SLA    stats.SLACompliance `json:"sla"`
	Reopen stats.ReopenSummary `json:"reopen"`
}

func (s *Server) handleSummary(_ context.Context, _ *sdk.CallToolRequest, in SummaryInput) (*sdk.CallToolResult, any, error) {
	f, err := in.filter()
	if err != nil {
		return nil, nil, err
	}
	ds, records := s.scope(f)
	logCall("get_summary", f, len(records))

	return result(wrap(ds, f, len(records), summaryResult{
		Summary: stats.SummaryStatistics(records),
		SLA:     stats.SLAComplianceRatio(records),
		Reopen:  stats.ReopenStats(records),
	}))
}

type distributionResult struct {
	Field incident.Field `json:"field"`
	stats.AggregationResult
}

func (s *Server) handleDistribution(_ context.Context, _ *sdk.CallToolRequest, in DistributionInput) (*sdk.CallToolResult, any, error) {
	if strings.TrimSpace(in.Field) == "" {
		return nil, nil, errors.New("field is required")
	}
	field, err := parseField(in.Field, "")
	if err != nil {
		return nil, nil, err
	}
	f, err := in.filter()
	if err != nil {
		return nil, nil, err
	}
	ds, records := s.scope(f)
	logCall("get_distribution", f, len(records))

	return result(wrap(ds, f, len(records), distributionResult{
		Field:             field,
		AggregationResult: stats.DistributionByField(records, field, in.TopN),
	}))
}

type trendResult struct {
	Granularity stats.Granularity       `json:"granularity"`
	Opened      stats.AggregationResult `json:"opened"`
	Flow        stats.FlowResult        `json:"flow"`
	Volume      stats.VolumeChart       `json:"volume"`
	Stable      bool                    `json:"stable"`
}

func (s *Server) handleTrend(_ context.Context, _ *sdk.CallToolRequest, in TrendInput) (*sdk.CallToolResult, any, error) {
	f, err := in.filter()
	if err != nil {
		return nil, nil, err
	}
	gran := s.opts.Granularity
	if in.Granularity != "" {
		gran = stats.ParseGranularity(in.Granularity)
	}
	ds, records := s.scope(f)
	logCall("get_trend", f, len(records))

	opened := stats.TimeSeriesByPeriod(records, gran)
	volume := stats.AnalyzeVolume(opened)
	return result(wrap(ds, f, len(records), trendResult{
		Granularity: gran,
		Opened:      opened,
		Flow:        stats.FlowByPeriod(records, gran),
		Volume:      volume,
		Stable:      volume.Stable(),
	}))
}

func (s *Server) handleResolutionStats(_ context.Context, _ *sdk.CallToolRequest, in GroupedInput) (*sdk.CallToolResult, any, error) {
	field, err := parseField(in.GroupBy, incident.FieldSeverity)
	if err != nil {
		return nil, nil, err
	}
	f, err := in.filter()
	if err != nil {
		return nil, nil, err
	}
	ds, records := s.scope(f)
	logCall("get_resolution_stats", f, len(records))

	return result(wrap(ds, f, len(records), stats.ResolutionTimeStats(records, field)))
}

type slaResult struct {
	Overall stats.SLACompliance      `json:"overall"`
	GroupBy incident.Field           `json:"groupBy,omitempty"`
	Groups  *stats.AggregationResult `json:"groups,omitempty"`
}

func (s *Server) handleSLACompliance(_ context.Context, _ *sdk.CallToolRequest, in GroupedInput) (*sdk.CallToolResult, any, error) {
	field, err := parseField(in.GroupBy, "")
	if err != nil {
		return nil, nil, err
	}
	f, err := in.filter()
	if err != nil {
		return nil, nil, err
	}
	ds, records := s.scope(f)
	logCall("get_sla_compliance", f, len(records))

	res := slaResult{Overall: stats.SLAComplianceRatio(records)}
	if field != "" {
		groups := stats.SLAComplianceByField(records, field)
		res.GroupBy = field
		res.Groups = &groups
	}
	return result(wrap(ds, f, len(records), res))
}

func (s *Server) handleRootCauses(_ context.Context, _ *sdk.CallToolRequest, in RootCauseInput) (*sdk.CallToolResult, any, error) {
	f, err := in.filter()
	if err != nil {
		return nil, nil, err
	}
	topN := in.TopN
	if topN <= 0 {
		topN = s.opts.TopN
	}
	ds, records := s.scope(f)
	logCall("get_root_causes", f, len(records))

	return result(wrap(ds, f, len(records), stats.RootCauseRanking(records, topN)))
}

func (s *Server) handleDashboard(_ context.Context, _ *sdk.CallToolRequest, in DashboardInput) (*sdk.CallToolResult, any, error) {
	f, err := in.filter()
	if err != nil {
		return nil, nil, err
	}
	q := dashboard.Query{Filter: f, Granularity: s.opts.Granularity, TopN: s.opts.TopN}
	if in.Granularity != "" {
		q.Granularity = stats.Granularity(in.Granularity)
	}
	if in.TopN > 0 {
		q.TopN = in.TopN
	}

	ds := s.Dataset()
	view := dashboard.Build(ds, q)
	logCall("get_dashboard", f, view.Summary.Total)

	switch strings.ToLower(in.Format) {
	case "", "json":
		return result(wrap(ds, f, view.Summary.Total, view))
	case "markdown", "md":
		return textResult(dashboard.RenderMarkdown(view, s.opts.Charts))
	default:
		return nil, nil, errors.New("format must be json or markdown")
	}
}
