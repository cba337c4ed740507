package reader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kurozz/matrix-control/internal/config"
	"github.com/kurozz/matrix-control/internal/domain/matrix"
	"github.com/kurozz/matrix-control/internal/gpio"
)

// ErrSensorRead is matched by every failure inside a scan cycle, as opposed
// to configuration or setup failures before the first cycle.
var ErrSensorRead = errors.New("sensor read failed")

// ScanError wraps a mid-scan failure so callers can match ErrSensorRead
// while keeping the underlying cause.
type ScanError struct {
	// Err is the underlying cause.
	Err error
}

func (e *ScanError) Error() string {
	return "scan failed: " + e.Err.Error()
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// Is reports a match for ErrSensorRead.
func (e *ScanError) Is(target error) bool {
	return target == ErrSensorRead
}

// Scanner produces full-grid snapshots of the input matrix.
//
// Polarity is resolved once at construction: the select level equals the
// configured closed state (a closed switch propagates the selected column's
// level onto its row line), and the idle level is its opposite, which the
// pull resistors hold the rows at.
type Scanner struct {
	driver      gpio.Driver
	rows        []int
	cols        []int
	geometry    matrix.Geometry
	selectLevel gpio.Level
	idleLevel   gpio.Level
	settle      time.Duration
}

// NewScanner configures the column pins as outputs at the idle level and the
// row pins as inputs with the configured pull resistor.
func NewScanner(driver gpio.Driver, cfg config.InputConfig) (*Scanner, error) {
	wiring := cfg.Matrix

	// A closed state equal to the idle level can never be observed: the
	// rows already rest there. That is a wiring description error.
	if wiring.Closed == wiring.Pull.IdleLevel() {
		return nil, fmt.Errorf("%w: closed_state %s is the idle level for pull_mode %s",
			config.ErrInvalid, wiring.Closed, wiring.Pull)
	}

	s := &Scanner{
		driver:      driver,
		rows:        wiring.Rows,
		cols:        wiring.Cols,
		geometry:    cfg.Geometry(),
		selectLevel: wiring.Closed,
		idleLevel:   wiring.Closed.Invert(),
		settle:      wiring.SettleTime(),
	}

	for _, pin := range s.cols {
		if err := driver.ConfigureOutput(pin, s.idleLevel); err != nil {
			return nil, fmt.Errorf("configure column pin %d: %w", pin, err)
		}
	}

	for _, pin := range s.rows {
		if err := driver.ConfigureInput(pin, wiring.Pull); err != nil {
			return nil, fmt.Errorf("configure row pin %d: %w", pin, err)
		}
	}

	return s, nil
}

// Geometry returns the input matrix dimensions.
func (s *Scanner) Geometry() matrix.Geometry {
	return s.geometry
}

// Scan produces a fresh frame in exactly one select-and-read cycle per
// column. Cycles are strictly sequential: rows are shared across columns, so
// selecting two columns at once would make the reading indeterminate.
func (s *Scanner) Scan(ctx context.Context) (matrix.Frame, error) {
	frame := matrix.NewFrame(s.geometry)

	for colIdx, colPin := range s.cols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := s.scanColumn(frame, colIdx, colPin); err != nil {
			return nil, err
		}
	}

	return frame, nil
}

// scanColumn runs one select-settle-sense cycle. The column returns to the
// idle level on every path, including a failed row read.
func (s *Scanner) scanColumn(frame matrix.Frame, colIdx, colPin int) error {
	if err := s.driver.Set(colPin, s.selectLevel); err != nil {
		return &ScanError{Err: fmt.Errorf("select column %d: %w", colIdx, err)}
	}

	defer func() {
		_ = s.driver.Set(colPin, s.idleLevel)
	}()

	time.Sleep(s.settle)

	for rowIdx, rowPin := range s.rows {
		level, err := s.driver.Read(rowPin)
		if err != nil {
			return &ScanError{Err: fmt.Errorf("sense row %d: %w", rowIdx, err)}
		}

		frame[rowIdx][colIdx] = level == s.selectLevel
	}

	return nil
}
