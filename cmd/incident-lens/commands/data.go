package commands

import (
	"context"

	"incident-lens/internal/config"
	"incident-lens/internal/dataset"
	"incident-lens/internal/fallback"
	"incident-lens/internal/ingest"

	"github.com/rs/zerolog/log"
)

// datasetOptions maps the application configuration onto ingestion settings.
func datasetOptions(c *config.AppConfig) dataset.Options {
	return dataset.Options{
		Ingest: ingest.Options{
			Aliases:    ingest.DefaultAliases().Merge(c.ColumnAliases),
			SLATargets: c.SLATargets,
		},
		Fallback: fallback.Config{
			Seed:       c.FallbackSeed,
			Count:      c.FallbackCount,
			SLATargets: c.SLATargets,
		},
		Concurrency: c.LoadConcurrency,
	}
}

// loadDataset loads the given exports, or the configured ones when inputs is
// empty. Without any export the sample data set is returned.
func loadDataset(ctx context.Context, c *config.AppConfig, inputs []string) (dataset.Dataset, error) {
	opts := datasetOptions(c)
	if len(inputs) == 0 {
		inputs = c.Exports
	}

	paths := dataset.ResolvePaths(inputs)
	if len(paths) == 0 {
		log.Warn().Msg("No exports configured, using sample data")
		return dataset.Sample(opts.Fallback), nil
	}
	return dataset.LoadFiles(ctx, paths, opts)
}
