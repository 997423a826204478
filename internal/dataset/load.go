package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"incident-lens/internal/ingest"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

// LoadFiles reads and ingests every path concurrently, concatenating the
// records in argument order. A file that cannot be read contributes nothing
// and is logged. Only context cancellation produces an error; an empty
// outcome falls back to sample data.
func LoadFiles(ctx context.Context, paths []string, opts Options) (Dataset, error) {
	limit := opts.Concurrency
	if limit <= 0 {
		limit = defaultConcurrency
	}

	contents := make([][]byte, len(paths))
	results := make([]ingest.Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			data, err := os.ReadFile(path)
			if err != nil {
				log.Warn().Err(err).Str("path", path).Msg("Export unreadable, treating as empty")
				return nil
			}

			res := Ingest(path, data, opts.Ingest)
			log.Debug().
				Str("path", path).
				Int("records", len(res.Records)).
				Int("skipped", res.Skipped).
				Int("rowErrors", res.RowErrors).
				Msg("Ingested export")

			contents[i] = data
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Dataset{}, fmt.Errorf("loading exports: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Dataset{}, fmt.Errorf("loading exports: %w", err)
	}

	ds := assemble(paths, contents, results, opts)
	if ds.IsSample() {
		log.Warn().Strs("paths", paths).Msg("No usable records found, substituting sample data")
	} else {
		log.Info().
			Int("records", len(ds.Records)).
			Int("files", len(paths)).
			Str("dataset", ds.ID.String()).
			Msg("Dataset loaded")
	}
	return ds, nil
}

// ResolvePaths expands directories to the exports they contain and glob
// patterns to their matches. Plain file paths pass through unchanged, even
// when missing, so LoadFiles can report them.
func ResolvePaths(inputs []string) []string {
	var out []string
	for _, in := range inputs {
		in = strings.TrimSpace(in)
		if in == "" {
			continue
		}

		if strings.ContainsAny(in, "*?[") {
			matches, err := filepath.Glob(in)
			if err != nil {
				log.Warn().Err(err).Str("pattern", in).Msg("Invalid export pattern")
				continue
			}
			slices.Sort(matches)
			out = append(out, matches...)
			continue
		}

		info, err := os.Stat(in)
		if err != nil || !info.IsDir() {
			out = append(out, in)
			continue
		}

		entries, err := os.ReadDir(in)
		if err != nil {
			log.Warn().Err(err).Str("dir", in).Msg("Cannot list export directory")
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(e.Name())) {
			case ".csv", ".tsv", ".json":
				out = append(out, filepath.Join(in, e.Name()))
			}
		}
	}
	return out
}
