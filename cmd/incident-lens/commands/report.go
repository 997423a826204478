package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"incident-lens/internal/dashboard"
	"incident-lens/internal/filter"
	"incident-lens/internal/stats"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var reportFlags struct {
	category    string
	from        string
	to          string
	severity    string
	source      string
	granularity string
	top         int
	format      string
	out         string
	open        bool
}

var reportCmd = &cobra.Command{
	Use:   "report [exports...]",
	Short: "Render a dashboard report from exports",
	Long: `Report loads the given exports (files, directories or glob patterns; defaults to
INCIDENT_EXPORTS), applies the filter flags and renders the dashboard as JSON,
Markdown or a standalone HTML page.`,
	Example: `  incident-lens report exports/*.csv --category Network --from 2025-01-01
  incident-lens report --format html --open`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := filter.FromArgs(reportFlags.category, reportFlags.from, reportFlags.to, reportFlags.severity, reportFlags.source)
		if err != nil {
			return err
		}

		format := strings.ToLower(reportFlags.format)
		if reportFlags.open {
			format = "html"
		}
		switch format {
		case "json", "markdown", "md", "html":
		default:
			return fmt.Errorf("unsupported format %q (expected json, markdown or html)", reportFlags.format)
		}

		ds, err := loadDataset(cmd.Context(), cfg, args)
		if err != nil {
			return err
		}

		granularity := cfg.DefaultGranularity
		if reportFlags.granularity != "" {
			granularity = reportFlags.granularity
		}
		topN := cfg.DefaultTopN
		if reportFlags.top > 0 {
			topN = reportFlags.top
		}

		view := dashboard.Build(ds, dashboard.Query{
			Filter:      f,
			Granularity: stats.ParseGranularity(granularity),
			TopN:        topN,
		})

		body, err := render(view, format)
		if err != nil {
			return err
		}

		path, err := writeReport(cmd.OutOrStdout(), body, reportFlags.out, reportFlags.open)
		if err != nil {
			return err
		}
		if path == "" {
			return nil
		}

		log.Info().Str("path", path).Str("format", format).Int("incidents", view.Summary.Total).Msg("Report written")
		if reportFlags.open {
			return browser.OpenFile(path)
		}
		return nil
	},
}

func render(view dashboard.View, format string) (string, error) {
	switch format {
	case "markdown", "md":
		return dashboard.RenderMarkdown(view, cfg.EnableMermaidCharts), nil
	case "html":
		return dashboard.RenderHTML(view)
	default:
		out, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encoding report: %w", err)
		}
		return string(out) + "\n", nil
	}
}

// writeReport writes body to out, or to stdout when out is empty. A report
// that is to be opened always goes to a file. It returns the file path, if
// any.
func writeReport(stdout io.Writer, body, out string, open bool) (string, error) {
	if out == "" && !open {
		_, err := io.WriteString(stdout, body)
		return "", err
	}

	if out == "" {
		tmp, err := os.CreateTemp("", "incident-lens-*.html")
		if err != nil {
			return "", fmt.Errorf("creating report file: %w", err)
		}
		defer tmp.Close()
		if _, err := tmp.WriteString(body); err != nil {
			return "", fmt.Errorf("writing report: %w", err)
		}
		return tmp.Name(), nil
	}

	if err := os.WriteFile(out, []byte(body), 0644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return out, nil
}

func init() {
	flags := reportCmd.Flags()
	flags.StringVar(&reportFlags.category, "category", "", "only incidents in this category ('all' disables)")
	flags.StringVar(&reportFlags.from, "from", "", "earliest opened date, YYYY-MM-DD")
	flags.StringVar(&reportFlags.to, "to", "", "latest opened date, YYYY-MM-DD (inclusive)")
	flags.StringVar(&reportFlags.severity, "severity", "", "comma-separated severities to keep")
	flags.StringVar(&reportFlags.source, "source", "", "only incidents from this source system")
	flags.StringVar(&reportFlags.granularity, "granularity", "", "trend bucket: day, week, month, quarter or year")
	flags.IntVar(&reportFlags.top, "top", 0, "cap for category and root-cause rankings")
	flags.StringVarP(&reportFlags.format, "format", "f", "markdown", "output format: json, markdown or html")
	flags.StringVarP(&reportFlags.out, "out", "o", "", "write the report to this file instead of stdout")
	flags.BoolVar(&reportFlags.open, "open", false, "render HTML and open it in the default browser")

	rootCmd.AddCommand(reportCmd)
}
