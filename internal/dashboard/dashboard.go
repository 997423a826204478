package dashboard

import (
	"time"

	"incident-lens/internal/dataset"
	"incident-lens/internal/filter"
	"incident-lens/internal/incident"
	"incident-lens/internal/insights"
	"incident-lens/internal/stats"
)

// DefaultTopN caps categorical rankings when the query leaves TopN unset.
const DefaultTopN = 10

// Query selects and shapes a dashboard.
type Query struct {
	Filter      filter.Filter     `json:"filter"`
	Granularity stats.Granularity `json:"granularity"`
	TopN        int               `json:"topN"`
}

func (q Query) normalized() Query {
	q.Granularity = stats.ParseGranularity(string(q.Granularity))
	if q.TopN <= 0 {
		q.TopN = DefaultTopN
	}
	return q
}

// Source describes where the records came from.
type Source struct {
	DatasetID  string             `json:"datasetId"`
	Provenance dataset.Provenance `json:"provenance"`
	Sample     bool               `json:"sample"`
	Files      []string           `json:"files"`
	Skipped    int                `json:"skipped"`
	RowErrors  int                `json:"rowErrors"`
	Loaded     int                `json:"loaded"` // records before filtering
	LoadedAt   time.Time          `json:"loadedAt"`
}

// View holds every aggregate the dashboard renders.
type View struct {
	Title       string            `json:"title"`
	Source      Source            `json:"source"`
	Filter      string            `json:"filter"`
	Granularity stats.Granularity `json:"granularity"`
	GeneratedAt time.Time         `json:"generatedAt"`

	Summary stats.Summary       `json:"summary"`
	SLA     stats.SLACompliance `json:"sla"`
	Reopen  stats.ReopenSummary `json:"reopen"`

	BySeverity    stats.AggregationResult `json:"bySeverity"`
	ByStatus      stats.AggregationResult `json:"byStatus"`
	ByPriority    stats.AggregationResult `json:"byPriority"`
	ByCategory    stats.AggregationResult `json:"byCategory"`
	BySource      stats.AggregationResult `json:"bySource"`
	RootCauses    stats.AggregationResult `json:"rootCauses"`
	SLAByCategory stats.AggregationResult `json:"slaByCategory"`
	Trend         stats.AggregationResult `json:"trend"`
	Volume        stats.VolumeChart       `json:"volume"`
	Flow          stats.FlowResult        `json:"flow"`

	ResolutionBySeverity stats.ResolutionStats `json:"resolutionBySeverity"`
	ResolutionByCategory stats.ResolutionStats `json:"resolutionByCategory"`

	Insights []insights.Insight `json:"insights"`
}

// Build filters the dataset once and computes every view from the result.
func Build(ds dataset.Dataset, q Query) View {
	q = q.normalized()
	records := filter.Apply(ds.Records, q.Filter)

	v := View{
		Title: "Incident Dashboard",
		Source: Source{
			DatasetID:  ds.ID.String(),
			Provenance: ds.Provenance,
			Sample:     ds.IsSample(),
			Files:      ds.Sources,
			Skipped:    ds.Skipped,
			RowErrors:  ds.RowErrors,
			Loaded:     len(ds.Records),
			LoadedAt:   ds.LoadedAt,
		},
		Filter:      q.Filter.String(),
		Granularity: q.Granularity,
		GeneratedAt: time.Now().UTC(),

		Summary: stats.SummaryStatistics(records),
		SLA:     stats.SLAComplianceRatio(records),
		Reopen:  stats.ReopenStats(records),

		BySeverity:    stats.OrderedDistribution(records, incident.FieldSeverity),
		ByStatus:      stats.OrderedDistribution(records, incident.FieldStatus),
		ByPriority:    stats.OrderedDistribution(records, incident.FieldPriority),
		ByCategory:    stats.DistributionByField(records, incident.FieldCategory, q.TopN),
		BySource:      stats.DistributionByField(records, incident.FieldSource, q.TopN),
		RootCauses:    stats.RootCauseRanking(records, q.TopN),
		SLAByCategory: stats.SLAComplianceByField(records, incident.FieldCategory),
		Trend:         stats.TimeSeriesByPeriod(records, q.Granularity),
		Flow:          stats.FlowByPeriod(records, q.Granularity),

		ResolutionBySeverity: stats.ResolutionTimeStats(records, incident.FieldSeverity),
		ResolutionByCategory: stats.ResolutionTimeStats(records, incident.FieldCategory),
	}
	if v.Source.Files == nil {
		v.Source.Files = []string{}
	}
	v.Volume = stats.AnalyzeVolume(v.Trend)

	v.Insights = insights.Generate(insights.Input{
		Sample:      v.Source.Sample,
		Summary:     v.Summary,
		SLA:         v.SLA,
		RootCauses:  v.RootCauses,
		KnownCauses: int(stats.RootCauseRanking(records, 0).Total()),
		Trend:       v.Trend,
		Volume:      v.Volume,
		Flow:        v.Flow,
		Reopen:      v.Reopen,
	}, insights.DefaultThresholds())

	return v
}
