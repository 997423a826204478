package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"incident-lens/internal/config"
	"incident-lens/internal/logging"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "incident-lens",
	Short: "Incident Lens turns incident and defect exports into dashboards",
	Long: `Incident Lens ingests incident or defect exports (CSV or JSON, with any of the
common column namings) and computes summary statistics, distributions, trends,
resolution times, SLA compliance and root-cause rankings.

Run without a subcommand to serve the analytics as MCP tools over stdio.
When no usable export is found, deterministic sample data is used and flagged.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Init(verbose); err != nil {
			return err
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("Incident Lens starting")
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), nil)
	},
}

// Execute runs the root command until it completes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.Version = Version
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
