package common

import (
	"errors"

	"github.com/kurozz/matrix-control/internal/config"
	"github.com/kurozz/matrix-control/internal/domain/matrix"
	"github.com/kurozz/matrix-control/internal/gpio"
	"github.com/kurozz/matrix-control/internal/service/reader"
	"github.com/kurozz/matrix-control/internal/service/writer"
)

// Exit codes shared by matrix-write and matrix-read. They are part of the
// command contract and must stay stable.
const (
	// ExitOK is returned on success and on a clean interrupt.
	ExitOK = 0
	// ExitFailure is the generic failure code.
	ExitFailure = 1
	// ExitInvalidPosition: the position token or coordinate is out of range.
	ExitInvalidPosition = 2
	// ExitConflict: the requested or another position is already active.
	ExitConflict = 3
	// ExitInvalidDuration: the activation duration is out of bounds.
	ExitInvalidDuration = 4
	// ExitHardware: pin access denied, busy or disconnected.
	ExitHardware = 5
	// ExitConfiguration: required configuration absent or malformed.
	ExitConfiguration = 6
	// ExitSensorRead: an input scan failed mid-read.
	ExitSensorRead = 7
)

// ExitCode maps an error to its command exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, matrix.ErrInvalidPosition):
		return ExitInvalidPosition
	case errors.Is(err, writer.ErrAlreadyActive), errors.Is(err, writer.ErrConflict):
		return ExitConflict
	case errors.Is(err, writer.ErrInvalidDuration):
		return ExitInvalidDuration
	case errors.Is(err, config.ErrInvalid):
		return ExitConfiguration
	case errors.Is(err, reader.ErrSensorRead):
		return ExitSensorRead
	case errors.Is(err, gpio.ErrHardware):
		return ExitHardware
	default:
		return ExitFailure
	}
}
