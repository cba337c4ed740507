package gpio

import (
	"errors"
	"fmt"
	"strings"
)

// Level is an electrical pin level.
type Level int

const (
	// Low is the logical 0 level.
	Low Level = 0
	// High is the logical 1 level.
	High Level = 1
)

// Invert returns the opposite level.
func (l Level) Invert() Level {
	if l == High {
		return Low
	}

	return High
}

// String returns "HIGH" or "LOW".
func (l Level) String() string {
	if l == High {
		return "HIGH"
	}

	return "LOW"
}

// ParseLevel converts "HIGH" or "LOW" (case-insensitive) to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "HIGH":
		return High, nil
	case "LOW":
		return Low, nil
	default:
		return Low, fmt.Errorf("level must be HIGH or LOW, got %q", s)
	}
}

// Pull selects the internal pull resistor of an input pin.
type Pull int

const (
	// PullDown ties an idle input to Low.
	PullDown Pull = iota
	// PullUp ties an idle input to High.
	PullUp
)

// IdleLevel returns the level an unconnected input rests at.
func (p Pull) IdleLevel() Level {
	if p == PullUp {
		return High
	}

	return Low
}

// String returns "UP" or "DOWN".
func (p Pull) String() string {
	if p == PullUp {
		return "UP"
	}

	return "DOWN"
}

// ParsePull converts "UP" or "DOWN" (case-insensitive) to a Pull.
func ParsePull(s string) (Pull, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "UP":
		return PullUp, nil
	case "DOWN":
		return PullDown, nil
	default:
		return PullDown, fmt.Errorf("pull mode must be UP or DOWN, got %q", s)
	}
}

// ErrHardware indicates a pin access failure: permission denied, line busy,
// chip missing. Callers branch on it with errors.Is.
var ErrHardware = errors.New("hardware access failed")

// Error wraps a pin-level failure so callers can match ErrHardware while
// keeping the underlying cause.
type Error struct {
	// Op describes the failed operation, e.g. "request pin 17".
	Op string
	// Err is the underlying cause.
	Err error
}

func (e *Error) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports a match for ErrHardware.
func (e *Error) Is(target error) bool {
	return target == ErrHardware
}

// Driver abstracts pin access. Implementations own the underlying hardware
// resource until Close.
type Driver interface {
	// ConfigureOutput claims a pin for output and drives it to initial.
	ConfigureOutput(pin int, initial Level) error
	// ConfigureInput claims a pin for input with the given pull resistor.
	ConfigureInput(pin int, pull Pull) error
	// Set drives a previously configured output pin.
	Set(pin int, level Level) error
	// Read samples a previously configured pin.
	Read(pin int) (Level, error)
	// Close releases all claimed pins and the hardware resource.
	Close() error
}

// Backend names accepted by Open.
const (
	// BackendGpiocdev is the Linux GPIO character device backend.
	BackendGpiocdev = "gpiocdev"
	// BackendRPIO is the memory-mapped /dev/gpiomem backend.
	BackendRPIO = "rpio"
)

// Open creates a real driver by backend name. An empty name selects the
// character device backend.
func Open(backend string) (Driver, error) {
	switch backend {
	case "", BackendGpiocdev:
		return openGpiocdev()
	case BackendRPIO:
		return openRPIO()
	default:
		return nil, fmt.Errorf("unknown gpio driver %q (want %s or %s)", backend, BackendGpiocdev, BackendRPIO)
	}
}
