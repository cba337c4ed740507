package reader

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/kurozz/matrix-control/internal/config"
	"github.com/kurozz/matrix-control/internal/gpio"
	"github.com/kurozz/matrix-control/internal/logger"
	"github.com/kurozz/matrix-control/internal/render"
)

// Options configures one matrix-read invocation.
type Options struct {
	// ConfigPath to the YAML settings file, defaults to standard filename if empty.
	ConfigPath string

	// Continuous enables the monitor loop instead of a one-shot read.
	Continuous bool

	// IntervalSeconds overrides the configured monitor interval.
	// Zero keeps the configured default.
	IntervalSeconds float64

	// Out receives the rendered frames. Defaults to standard output in the
	// command wiring.
	Out io.Writer
}

// Run performs a one-shot JSON read, or monitors continuously until the
// context is cancelled.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "matrix-read")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	interval := cfg.Input.MonitorInterval()

	if opts.IntervalSeconds != 0 {
		if opts.IntervalSeconds < config.MinMonitorInterval || opts.IntervalSeconds > config.MaxMonitorInterval {
			return fmt.Errorf("%w: interval must be between %gs and %gs",
				config.ErrInvalid, config.MinMonitorInterval, config.MaxMonitorInterval)
		}

		interval = time.Duration(opts.IntervalSeconds * float64(time.Second))
	}

	driver, err := gpio.Open(cfg.Driver)
	if err != nil {
		return err
	}

	defer func() {
		_ = driver.Close()
	}()

	scanner, err := NewScanner(driver, cfg.Input)
	if err != nil {
		return err
	}

	logger.DebugKV(ctx, "Input matrix ready", "geometry", scanner.Geometry().String(), "interval", interval.String())

	if opts.Continuous {
		return Monitor(ctx, scanner, interval, opts.Out)
	}

	frame, err := scanner.Scan(ctx)
	if err != nil {
		return err
	}

	doc, err := render.JSON(frame)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	if _, err := fmt.Fprintln(opts.Out, string(doc)); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}

	return nil
}
