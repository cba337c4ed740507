package reader

import (
	"context"
	"io"
	"time"

	"github.com/kurozz/matrix-control/internal/domain/matrix"
	"github.com/kurozz/matrix-control/internal/logger"
	"github.com/kurozz/matrix-control/internal/render"
)

// Monitor repeats scans at a fixed interval and re-renders the grid on out
// until the context is cancelled. Cell changes are logged at debug level.
// A clean cancellation returns nil; a failed scan returns its error.
func Monitor(ctx context.Context, scanner *Scanner, interval time.Duration, out io.Writer) error {
	var previous matrix.Frame

	// Render immediately so the first frame does not wait a full interval.
	previous, err := monitorTick(ctx, scanner, interval, out, previous)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Monitor stopped")
			return nil
		case <-ticker.C:
			previous, err = monitorTick(ctx, scanner, interval, out, previous)
			if err != nil {
				return err
			}
		}
	}
}

// monitorTick performs one scan-and-render pass and reports cell deltas.
func monitorTick(
	ctx context.Context,
	scanner *Scanner,
	interval time.Duration,
	out io.Writer,
	previous matrix.Frame,
) (matrix.Frame, error) {
	frame, err := scanner.Scan(ctx)
	if err != nil {
		if ctx.Err() != nil {
			// Cancelled mid-scan: not a sensor fault.
			return previous, nil
		}

		return nil, err
	}

	render.MonitorFrame(out, frame, interval)

	for _, position := range frame.Diff(previous) {
		logger.DebugKV(ctx, "Cell changed", "position", position.String(), "closed", frame.At(position))
	}

	return frame, nil
}
