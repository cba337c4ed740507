package writer

import (
	"context"
	"fmt"
	"time"

	"github.com/kurozz/matrix-control/internal/config"
	"github.com/kurozz/matrix-control/internal/domain/matrix"
	"github.com/kurozz/matrix-control/internal/gpio"
	"github.com/kurozz/matrix-control/internal/logger"
)

// Options configures one matrix-write invocation.
type Options struct {
	// ConfigPath to the YAML settings file, defaults to standard filename if empty.
	ConfigPath string

	// Position is the position token (alphanumeric or numeric).
	Position string

	// DurationSeconds is how long the position stays energized.
	DurationSeconds float64
}

// Run activates one position and blocks until it is deactivated again.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "matrix-write")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	// Validate the request before touching hardware.
	position, err := matrix.ParsePosition(opts.Position, cfg.Output.Geometry())
	if err != nil {
		return err
	}

	duration := time.Duration(opts.DurationSeconds * float64(time.Second))
	if err := ValidateDuration(duration); err != nil {
		return err
	}

	driver, err := gpio.Open(cfg.Driver)
	if err != nil {
		return err
	}

	defer func() {
		_ = driver.Close()
	}()

	controller, err := New(driver, cfg.Output)
	if err != nil {
		return err
	}

	logger.DebugKV(ctx, "Output matrix ready",
		"geometry", cfg.Output.Geometry().String(),
		"position", position.String(),
		"index", position.Index(cfg.Output.Geometry()),
	)

	return controller.Activate(ctx, position, duration)
}

// RunReset drives every output pin inactive and clears controller state.
func RunReset(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "matrix-write")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	driver, err := gpio.Open(cfg.Driver)
	if err != nil {
		return err
	}

	defer func() {
		_ = driver.Close()
	}()

	// Construction already drives every pin inactive; Reset repeats the
	// sweep so the command stays correct if construction semantics change.
	controller, err := New(driver, cfg.Output)
	if err != nil {
		return fmt.Errorf("configure output matrix: %w", err)
	}

	controller.Reset(ctx)

	return nil
}
