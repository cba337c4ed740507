package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kurozz/matrix-control/internal/config"
	"github.com/kurozz/matrix-control/internal/logger"
	"github.com/kurozz/matrix-control/internal/service/common"
	"github.com/kurozz/matrix-control/internal/service/reader"
	"github.com/kurozz/matrix-control/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// logLevel stores the requested logging level.
	logLevel string
	// intervalSeconds stores the monitor interval override.
	intervalSeconds float64

	// rootCmd represents the base command for reading the input matrix.
	rootCmd = &cobra.Command{
		Use:   "matrix-read",
		Short: "Read the input matrix state.",
		Long: `Scans the input matrix (reed switches, keypad) and reports per-cell
state.

Without flags, performs a single scan and prints the grid as JSON on
standard output. With --interval, re-scans continuously and renders a live
text grid until interrupted; a clean interrupt exits 0.

Exit codes:
  0  success (including a clean interrupt)
  1  generic failure
  5  hardware access failure
  6  configuration missing or malformed
  7  sensor read failure`,
		Example: `  matrix-read
  matrix-read --interval 1.0
  matrix-read --interval 0.2`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return reader.Run(ctx, &reader.Options{
				ConfigPath:      cfgPath,
				Continuous:      cmd.Flags().Changed("interval"),
				IntervalSeconds: intervalSeconds,
				Out:             os.Stdout,
			})
		},
	}
)

// Execute runs the matrix-read CLI and exits with the documented code for
// the failure kind, so scripted callers can branch without parsing text.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Error(context.Background(), err.Error())
		os.Exit(common.ExitCode(err))
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "logging level (debug, info, warn, error, fatal)")
	rootCmd.Flags().Float64VarP(&intervalSeconds, "interval", "i", 0, "enable continuous monitoring with this interval in seconds")

	rootCmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		if level, ok := logger.ParseLogLevel(logLevel); ok {
			logger.SetLevel(level)
		}
	}
}
