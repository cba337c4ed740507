package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kurozz/matrix-control/internal/config"
	"github.com/kurozz/matrix-control/internal/logger"
	"github.com/kurozz/matrix-control/internal/service/common"
	"github.com/kurozz/matrix-control/internal/service/writer"
	"github.com/kurozz/matrix-control/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// logLevel stores the requested logging level.
	logLevel string

	// rootCmd represents the base command for activating a position.
	rootCmd = &cobra.Command{
		Use:   "matrix-write <position> <duration>",
		Short: "Activate one output matrix position for a bounded time.",
		Long: `Energizes one position of the output matrix (relays, LEDs) and blocks
until the duration elapses, then deactivates it.

Positions are addressed as column letter + row number ("A1", "B2") or as a
1-based row-major index ("4"). Duration is in seconds, between 0.5 and 600.
Only one position can be energized at a time; the force_off_on_conflict
configuration key decides whether a new activation pre-empts the current one
or fails.

An interrupt (Ctrl+C, SIGTERM) during the wait deactivates the position
before the process exits.

Exit codes:
  0  success (including a clean interrupt)
  1  generic failure
  2  invalid position
  3  position already active / conflict
  4  invalid duration
  5  hardware access failure
  6  configuration missing or malformed`,
		Example: `  matrix-write A2 2.0
  matrix-write 4 5.0
  matrix-write reset`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, args []string) error {
			// Deactivate on interrupt as well as on timeout.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			duration, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("%w: %q is not a number of seconds", writer.ErrInvalidDuration, args[1])
			}

			return writer.Run(ctx, &writer.Options{
				ConfigPath:      cfgPath,
				Position:        args[0],
				DurationSeconds: duration,
			})
		},
	}

	// resetCmd unconditionally deactivates the whole output matrix.
	resetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Deactivate every output matrix position.",
		Long: `Drives every row and column pin of the output matrix to the inactive
level and clears controller state. Useful after a configuration change or a
crashed activation. Always exits 0 once the sweep completes.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return writer.RunReset(ctx, &writer.Options{ConfigPath: cfgPath})
		},
	}
)

// Execute runs the matrix-write CLI and exits with the documented code for
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
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "logging level (debug, info, warn, error, fatal)")

	rootCmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		if level, ok := logger.ParseLogLevel(logLevel); ok {
			logger.SetLevel(level)
		}
	}

	rootCmd.AddCommand(resetCmd)
}
