package writer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kurozz/matrix-control/internal/config"
	"github.com/kurozz/matrix-control/internal/domain/matrix"
	"github.com/kurozz/matrix-control/internal/gpio"
	"github.com/kurozz/matrix-control/internal/logger"
)

// Activation duration bounds in seconds.
const (
	// MinDuration is the shortest accepted activation.
	MinDuration = 500 * time.Millisecond
	// MaxDuration is the longest accepted activation (10 minutes).
	MaxDuration = 600 * time.Second
)

var (
	// ErrInvalidDuration is returned when the requested activation time is
	// outside [MinDuration, MaxDuration].
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrAlreadyActive is returned when the requested position is already
	// energized and pre-emption is disabled.
	ErrAlreadyActive = errors.New("position already active")

	// ErrConflict is returned when another position is energized and
	// pre-emption is disabled.
	ErrConflict = errors.New("another position is active")
)

// State names the controller's observable states.
type State string

const (
	// StateIdle means no position is energized.
	StateIdle State = "IDLE"
	// StateActive means exactly one position is energized.
	StateActive State = "ACTIVE"
)

// activation is the record of one energized position.
type activation struct {
	position    matrix.Position
	activatedAt time.Time
	deadline    time.Time
	// preempted is closed when a force-off or reset ends this activation
	// from outside its own wait.
	preempted chan struct{}
}

// Controller is the single-active-position state machine for the output
// matrix. It owns the driver's output pins exclusively; construction drives
// every pin to the inactive level so no stale activation survives a restart.
type Controller struct {
	driver   gpio.Driver
	pinout   config.PinMap
	geometry matrix.Geometry
	forceOff bool
	safety   time.Duration
	inactive gpio.Level

	mu      sync.Mutex
	current *activation
}

// New configures every row and column pin as an output at the inactive level
// and returns a controller in the IDLE state.
func New(driver gpio.Driver, cfg config.OutputConfig) (*Controller, error) {
	c := &Controller{
		driver:   driver,
		pinout:   cfg.Pinout,
		geometry: cfg.Geometry(),
		forceOff: cfg.ForceOffOnConflict,
		safety:   cfg.SafetyTimeout(),
		inactive: cfg.Pinout.Active.Invert(),
	}

	for _, pin := range append(append([]int{}, c.pinout.Rows...), c.pinout.Cols...) {
		if err := driver.ConfigureOutput(pin, c.inactive); err != nil {
			return nil, fmt.Errorf("configure output matrix: %w", err)
		}
	}

	return c, nil
}

// ValidateDuration checks the activation duration bounds.
func ValidateDuration(d time.Duration) error {
	if d < MinDuration || d > MaxDuration {
		return fmt.Errorf("%w: %s must be between %s and %s", ErrInvalidDuration, d, MinDuration, MaxDuration)
	}

	return nil
}

// Activate energizes the position and blocks until the duration elapses, the
// safety watchdog fires, the context is cancelled or the activation is
// pre-empted. The position is deactivated before Activate returns, whichever
// path ends the wait.
func (c *Controller) Activate(ctx context.Context, position matrix.Position, duration time.Duration) (err error) {
	if err := ValidateDuration(duration); err != nil {
		return err
	}

	if !c.geometry.Contains(position) {
		return fmt.Errorf("%w: %s outside %s matrix", matrix.ErrInvalidPosition, position, c.geometry)
	}

	act, err := c.begin(ctx, position, duration)
	if err != nil {
		return err
	}

	// The deactivation guarantee: runs on timeout, interrupt, pre-emption
	// and panic alike, without masking an earlier error.
	defer func() {
		if endErr := c.end(act); endErr != nil && err == nil {
			err = endErr
		}
	}()

	logger.Infof(ctx, "Position %s: activated for %s", position, duration)

	timer := time.NewTimer(duration)
	defer timer.Stop()

	// The safety timeout is a second, coarser watchdog above the per-call
	// timer, catching activations stuck past the configured ceiling.
	var safetyC <-chan time.Time

	if c.safety > 0 {
		safety := time.NewTimer(c.safety)
		defer safety.Stop()

		safetyC = safety.C
	}

	select {
	case <-timer.C:
		logger.Infof(ctx, "Position %s: deactivated", position)
	case <-safetyC:
		logger.Warnf(ctx, "Position %s: safety timeout after %s, deactivating", position, c.safety)
	case <-act.preempted:
		logger.Infof(ctx, "Position %s: pre-empted", position)
	case <-ctx.Done():
		logger.Infof(ctx, "Position %s: interrupted, deactivating", position)
	}

	return nil
}

// begin performs the conflict check and drives the pin pair active.
func (c *Controller) begin(ctx context.Context, position matrix.Position, duration time.Duration) (*activation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil {
		if !c.forceOff {
			if c.current.position == position {
				return nil, fmt.Errorf("%w: %s", ErrAlreadyActive, position)
			}

			return nil, fmt.Errorf("%w: %s, deactivate it first", ErrConflict, c.current.position)
		}

		// Pre-empt: the previous pair goes inactive before the new pair is
		// energized, so at most one pair is ever at the active level.
		if err := c.drivePair(c.current.position, c.inactive); err != nil {
			return nil, err
		}

		close(c.current.preempted)
		c.current = nil

		logger.Debugf(ctx, "Previous activation pre-empted")
	}

	if err := c.drivePair(position, c.pinout.Active); err != nil {
		// Best effort: leave nothing half-energized.
		_ = c.drivePair(position, c.inactive)

		return nil, err
	}

	now := time.Now()
	c.current = &activation{
		position:    position,
		activatedAt: now,
		deadline:    now.Add(duration),
		preempted:   make(chan struct{}),
	}

	return c.current, nil
}

// end deactivates the pins of act if it is still the current activation.
func (c *Controller) end(act *activation) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != act {
		// Already ended by a pre-emption or reset.
		return nil
	}

	c.current = nil

	if err := c.drivePair(act.position, c.inactive); err != nil {
		return fmt.Errorf("deactivate %s: %w", act.position, err)
	}

	return nil
}

// drivePair sets the row and column pins of a position to one level,
// column first, matching the energizing order of the hardware layout.
func (c *Controller) drivePair(position matrix.Position, level gpio.Level) error {
	if err := c.driver.Set(c.pinout.Cols[position.Col], level); err != nil {
		return err
	}

	return c.driver.Set(c.pinout.Rows[position.Row], level)
}

// Reset unconditionally drives every row and column pin to the inactive
// level and clears the state. It never fails: pin errors are logged and the
// sweep continues, so a partial wiring fault cannot leave pins energized.
func (c *Controller) Reset(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil {
		close(c.current.preempted)
		c.current = nil
	}

	for _, pin := range append(append([]int{}, c.pinout.Rows...), c.pinout.Cols...) {
		if err := c.driver.Set(pin, c.inactive); err != nil {
			logger.ErrorKV(ctx, "Reset: pin left unverified", "pin", pin, "error", err)
		}
	}

	logger.Info(ctx, "All positions deactivated, state cleared")
}

// State reports whether a position is currently energized.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil {
		return StateActive
	}

	return StateIdle
}

// Active returns the energized position and its deadline, if any.
func (c *Controller) Active() (matrix.Position, time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return matrix.Position{}, time.Time{}, false
	}

	return c.current.position, c.current.deadline, true
}
