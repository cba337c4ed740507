//go:build !linux

package gpio

import "errors"

// Real drivers require the Linux GPIO interfaces.

func openGpiocdev() (Driver, error) {
	return nil, &Error{Op: "open gpio", Err: errors.New("not supported on this platform (requires Linux)")}
}

func openRPIO() (Driver, error) {
	return nil, &Error{Op: "open gpio", Err: errors.New("not supported on this platform (requires Linux)")}
}
