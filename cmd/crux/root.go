package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/j-veylop/crux-dashboard-tui/internal/version"
)

// NewRootCmd creates the root command. Without a subcommand it starts the
// dashboard TUI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crux",
		Short: "Compare Chrome UX Report metrics across sites",
		Long: `crux fetches Chrome UX Report p75 metrics for a list of sites from a
report backend and shows them side by side, with averages, sums, insights and
recommendations.

Environment Variables:
  CRUX_BACKEND_URL      Report backend base URL (default: http://localhost:3001)
  CRUX_URLS_FILE        Seed file of URLs, watched for changes
  CRUX_EXPORT_DIR       Directory for PDF and Markdown exports
  CRUX_LOG_FILE         Log file used while the dashboard runs
  CRUX_REQUEST_TIMEOUT  Per request timeout, e.g. 30s (default: none)
  CRUX_NOTIFY           Desktop notification when a search completes

A .env file in the current directory or the config directory is read for
variables that are not already set.`,
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(logLevel(cmd))
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func logLevel(cmd *cobra.Command) slog.Level {
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
