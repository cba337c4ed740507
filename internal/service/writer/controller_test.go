package writer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kurozz/matrix-control/internal/config"
	"github.com/kurozz/matrix-control/internal/domain/matrix"
	"github.com/kurozz/matrix-control/internal/gpio"
)

// testPinout is a 3x3 output matrix on arbitrary BCM pins.
func testPinout() config.PinMap {
	return config.PinMap{
		Rows:   []int{17, 27, 22},
		Cols:   []int{5, 6, 13},
		Active: gpio.High,
	}
}

func newController(t *testing.T, forceOff bool, safetySeconds float64) (*Controller, *gpio.Fake) {
	t.Helper()

	fake := gpio.NewFake()

	controller, err := New(fake, config.OutputConfig{
		Pinout:               testPinout(),
		ForceOffOnConflict:   forceOff,
		SafetyTimeoutSeconds: safetySeconds,
	})
	require.NoError(t, err)

	return controller, fake
}

// requireAllInactive asserts every row and column pin is at the inactive level.
func requireAllInactive(t *testing.T, fake *gpio.Fake, pinout config.PinMap) {
	t.Helper()

	inactive := pinout.Active.Invert()

	for _, pin := range append(append([]int{}, pinout.Rows...), pinout.Cols...) {
		require.Equal(t, inactive, fake.LevelOf(pin), "pin %d", pin)
	}
}

// maxEnergizedPairs replays the event history and returns the largest number
// of row/column pin pairs simultaneously at the active level.
func maxEnergizedPairs(events []gpio.Event, pinout config.PinMap) int {
	levels := make(map[int]gpio.Level)
	most := 0

	for _, event := range events {
		levels[event.Pin] = event.Level

		pairs := 0

		for _, rowPin := range pinout.Rows {
			for _, colPin := range pinout.Cols {
				if levels[rowPin] == pinout.Active && levels[colPin] == pinout.Active {
					pairs++
				}
			}
		}

		if pairs > most {
			most = pairs
		}
	}

	return most
}

// waitActive blocks until the controller reports an energized position.
func waitActive(t *testing.T, controller *Controller) {
	t.Helper()

	require.Eventually(t, func() bool {
		return controller.State() == StateActive
	}, time.Second, time.Millisecond)
}

// TestValidateDuration checks the inclusive bounds.
func TestValidateDuration(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateDuration(500*time.Millisecond))
	require.NoError(t, ValidateDuration(600*time.Second))

	require.ErrorIs(t, ValidateDuration(490*time.Millisecond), ErrInvalidDuration)
	require.ErrorIs(t, ValidateDuration(600*time.Second+10*time.Millisecond), ErrInvalidDuration)
}

// TestNewDrivesAllPinsInactive verifies the startup pin-inactive pass.
func TestNewDrivesAllPinsInactive(t *testing.T) {
	t.Parallel()

	controller, fake := newController(t, false, 0)

	requireAllInactive(t, fake, testPinout())
	require.Equal(t, StateIdle, controller.State())
}

// TestActivateTimesOut runs the 3x3 end-to-end example: position "4" decodes
// to A2 (row 1, col 0), stays energized for the duration and the controller
// returns to IDLE with every pin inactive.
func TestActivateTimesOut(t *testing.T) {
	t.Parallel()

	controller, fake := newController(t, false, 0)

	position, err := matrix.ParsePosition("4", matrix.Geometry{Rows: 3, Cols: 3})
	require.NoError(t, err)
	require.Equal(t, matrix.Position{Row: 1, Col: 0}, position)
	require.Equal(t, "A2", position.String())

	started := time.Now()
	require.NoError(t, controller.Activate(context.Background(), position, MinDuration))
	require.GreaterOrEqual(t, time.Since(started), MinDuration)

	require.Equal(t, StateIdle, controller.State())
	requireAllInactive(t, fake, testPinout())
	require.Equal(t, 1, maxEnergizedPairs(fake.Events, testPinout()))
}

// TestActivateRejectsOutOfBounds verifies the geometry check.
func TestActivateRejectsOutOfBounds(t *testing.T) {
	t.Parallel()

	controller, _ := newController(t, false, 0)

	err := controller.Activate(context.Background(), matrix.Position{Row: 3, Col: 0}, MinDuration)
	require.ErrorIs(t, err, matrix.ErrInvalidPosition)
}

// TestActivateConflictStrict verifies AlreadyActive and Conflict under the
// strict policy.
func TestActivateConflictStrict(t *testing.T) {
	t.Parallel()

	controller, fake := newController(t, false, 0)

	first := matrix.Position{Row: 0, Col: 0}
	done := make(chan error, 1)

	go func() {
		done <- controller.Activate(context.Background(), first, 2*time.Second)
	}()

	waitActive(t, controller)

	// Same position: AlreadyActive.
	err := controller.Activate(context.Background(), first, MinDuration)
	require.ErrorIs(t, err, ErrAlreadyActive)

	// Different position: Conflict.
	err = controller.Activate(context.Background(), matrix.Position{Row: 1, Col: 1}, MinDuration)
	require.ErrorIs(t, err, ErrConflict)

	// Reset ends the pending activation and deactivates everything.
	controller.Reset(context.Background())
	require.NoError(t, <-done)
	requireAllInactive(t, fake, testPinout())
}

// TestActivateForceOff verifies pre-emption and timer re-arming under the
// force-off policy, and that at most one pair is ever energized.
func TestActivateForceOff(t *testing.T) {
	t.Parallel()

	controller, fake := newController(t, true, 0)

	first := matrix.Position{Row: 0, Col: 0}
	done := make(chan error, 1)

	go func() {
		done <- controller.Activate(context.Background(), first, 10*time.Second)
	}()

	waitActive(t, controller)

	// A new activation pre-empts the blocked one, including for the same
	// position, which re-arms the timer.
	require.NoError(t, controller.Activate(context.Background(), first, MinDuration))
	require.NoError(t, <-done)

	require.Equal(t, StateIdle, controller.State())
	requireAllInactive(t, fake, testPinout())
	require.Equal(t, 1, maxEnergizedPairs(fake.Events, testPinout()))
}

// TestActivateInterrupted verifies the cleanup guarantee on cancellation.
func TestActivateInterrupted(t *testing.T) {
	t.Parallel()

	controller, fake := newController(t, false, 0)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	started := time.Now()
	require.NoError(t, controller.Activate(ctx, matrix.Position{Row: 2, Col: 2}, 10*time.Second))
	require.Less(t, time.Since(started), 2*time.Second)

	require.Equal(t, StateIdle, controller.State())
	requireAllInactive(t, fake, testPinout())
}

// TestSafetyTimeout verifies that the global ceiling overrides a longer
// per-call duration.
func TestSafetyTimeout(t *testing.T) {
	t.Parallel()

	controller, fake := newController(t, false, 0.6)

	started := time.Now()
	require.NoError(t, controller.Activate(context.Background(), matrix.Position{Row: 0, Col: 1}, 10*time.Second))
	require.Less(t, time.Since(started), 5*time.Second)

	require.Equal(t, StateIdle, controller.State())
	requireAllInactive(t, fake, testPinout())
}

// TestResetIdle verifies reset is a no-op error-wise on an idle controller.
func TestResetIdle(t *testing.T) {
	t.Parallel()

	controller, fake := newController(t, false, 0)

	controller.Reset(context.Background())

	require.Equal(t, StateIdle, controller.State())
	requireAllInactive(t, fake, testPinout())
}

// TestActiveAccessor verifies the position and deadline reporting.
func TestActiveAccessor(t *testing.T) {
	t.Parallel()

	controller, _ := newController(t, false, 0)

	_, _, ok := controller.Active()
	require.False(t, ok)

	position := matrix.Position{Row: 1, Col: 2}
	done := make(chan error, 1)

	go func() {
		done <- controller.Activate(context.Background(), position, time.Second)
	}()

	waitActive(t, controller)

	active, deadline, ok := controller.Active()
	require.True(t, ok)
	require.Equal(t, position, active)
	require.WithinDuration(t, time.Now().Add(time.Second), deadline, 500*time.Millisecond)

	require.NoError(t, <-done)
}
