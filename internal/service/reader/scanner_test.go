package reader

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kurozz/matrix-control/internal/config"
	"github.com/kurozz/matrix-control/internal/domain/matrix"
	"github.com/kurozz/matrix-control/internal/gpio"
)

var (
	testRows = []int{23, 24, 25}
	testCols = []int{16, 20, 21}
)

// testInput is a 3x3 input matrix with pull-down rows, closed reads HIGH.
func testInput() config.InputConfig {
	return config.InputConfig{
		Matrix: config.InputMatrix{
			Rows:   testRows,
			Cols:   testCols,
			Pull:   gpio.PullDown,
			Closed: gpio.High,
		},
	}
}

// TestNewScannerRejectsUnobservablePolarity verifies the wiring sanity check:
// a closed state equal to the pull idle level can never be sensed.
func TestNewScannerRejectsUnobservablePolarity(t *testing.T) {
	t.Parallel()

	cfg := testInput()
	cfg.Matrix.Closed = gpio.Low // idle level for pull-down

	_, err := NewScanner(gpio.NewFake(), cfg)
	require.ErrorIs(t, err, config.ErrInvalid)
}

// TestScanFrame runs the 3x3 end-to-end example: closed switches at A1, C2
// and B3 come back as exactly those cells.
func TestScanFrame(t *testing.T) {
	t.Parallel()

	fake := gpio.NewFake()

	scanner, err := NewScanner(fake, testInput())
	require.NoError(t, err)

	// row0=[true,false,false], row1=[false,false,true], row2=[false,true,false]
	fake.CloseSwitch(testRows[0], testCols[0])
	fake.CloseSwitch(testRows[1], testCols[2])
	fake.CloseSwitch(testRows[2], testCols[1])

	frame, err := scanner.Scan(context.Background())
	require.NoError(t, err)

	require.Equal(t, matrix.Frame{
		{true, false, false},
		{false, false, true},
		{false, true, false},
	}, frame)

	// Every frame is a fresh snapshot: releasing a switch shows up on the
	// next scan without any state carried between frames.
	fake.OpenSwitch(testRows[0], testCols[0])

	frame, err = scanner.Scan(context.Background())
	require.NoError(t, err)
	require.False(t, frame.At(matrix.Position{Row: 0, Col: 0}))
	require.True(t, frame.At(matrix.Position{Row: 2, Col: 1}))
}

// TestScanIsolation replays the event history: at most one column is at the
// select level at any instant, and one frame issues exactly cols cycles.
func TestScanIsolation(t *testing.T) {
	t.Parallel()

	fake := gpio.NewFake()

	scanner, err := NewScanner(fake, testInput())
	require.NoError(t, err)

	fake.Events = nil // drop configuration events

	_, err = scanner.Scan(context.Background())
	require.NoError(t, err)

	selected := make(map[int]bool)
	cycles := 0

	for _, event := range fake.Events {
		if event.Level == gpio.High {
			selected[event.Pin] = true
			cycles++
		} else {
			delete(selected, event.Pin)
		}

		require.LessOrEqual(t, len(selected), 1, "two columns selected at once")
	}

	require.Equal(t, len(testCols), cycles)
	require.Empty(t, selected, "columns left selected after scan")
}

// TestScanPullUpPolarity verifies the inverted wiring: pull-up rows idle
// HIGH, a closed switch pulls the row to the LOW select level.
func TestScanPullUpPolarity(t *testing.T) {
	t.Parallel()

	cfg := testInput()
	cfg.Matrix.Pull = gpio.PullUp
	cfg.Matrix.Closed = gpio.Low

	fake := gpio.NewFake()

	scanner, err := NewScanner(fake, cfg)
	require.NoError(t, err)

	fake.CloseSwitch(testRows[1], testCols[1])

	frame, err := scanner.Scan(context.Background())
	require.NoError(t, err)

	require.True(t, frame.At(matrix.Position{Row: 1, Col: 1}))
	require.False(t, frame.At(matrix.Position{Row: 0, Col: 0}))
}

// TestScanSensorFailure verifies the error kind and that the selected column
// is restored to idle.
func TestScanSensorFailure(t *testing.T) {
	t.Parallel()

	fake := gpio.NewFake()

	scanner, err := NewScanner(fake, testInput())
	require.NoError(t, err)

	fake.ReadError = &gpio.Error{Op: "read pin 23", Err: errors.New("disconnected")}

	_, err = scanner.Scan(context.Background())
	require.ErrorIs(t, err, ErrSensorRead)
	require.ErrorIs(t, err, gpio.ErrHardware)

	for _, pin := range testCols {
		require.Equal(t, gpio.Low, fake.LevelOf(pin), "column pin %d not restored", pin)
	}
}

// TestScanCancelled verifies cancellation between cycles.
func TestScanCancelled(t *testing.T) {
	t.Parallel()

	fake := gpio.NewFake()

	scanner, err := NewScanner(fake, testInput())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = scanner.Scan(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
