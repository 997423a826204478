package commands

import (
	"context"

	"incident-lens/internal/mcp"
	"incident-lens/internal/stats"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve [exports...]",
	Short: "Serve the analytics as MCP tools over stdio",
	Long: `Serve loads the given exports (or INCIDENT_EXPORTS) and exposes the analytics
as MCP tools on stdin/stdout. Clients can swap the data set with load_export.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), args)
	},
}

func runServe(ctx context.Context, inputs []string) error {
	ds, err := loadDataset(ctx, cfg, inputs)
	if err != nil {
		return err
	}

	server := mcp.NewServer(ds, mcp.Options{
		Version:     Version,
		Load:        datasetOptions(cfg),
		Granularity: stats.ParseGranularity(cfg.DefaultGranularity),
		TopN:        cfg.DefaultTopN,
		Charts:      cfg.EnableMermaidCharts,
	})
	return server.Serve(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
