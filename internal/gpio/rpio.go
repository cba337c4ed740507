//go:build linux

package gpio

import (
	"errors"
	"fmt"

	"github.com/stianeikeland/go-rpio/v4"
)

// rpioDriver drives pins through memory-mapped /dev/gpiomem. It is the
// fallback for kernels without a usable GPIO character device.
type rpioDriver struct {
	configured map[int]struct{}
}

func openRPIO() (Driver, error) {
	if err := rpio.Open(); err != nil {
		return nil, &Error{Op: "open /dev/gpiomem", Err: err}
	}

	return &rpioDriver{
		configured: make(map[int]struct{}),
	}, nil
}

func (d *rpioDriver) ConfigureOutput(pin int, initial Level) error {
	if err := checkRange(pin); err != nil {
		return err
	}

	p := rpio.Pin(pin)
	p.Output()
	p.Write(toState(initial))
	d.configured[pin] = struct{}{}

	return nil
}

func (d *rpioDriver) ConfigureInput(pin int, pull Pull) error {
	if err := checkRange(pin); err != nil {
		return err
	}

	p := rpio.Pin(pin)
	p.Input()

	if pull == PullUp {
		p.PullUp()
	} else {
		p.PullDown()
	}

	d.configured[pin] = struct{}{}

	return nil
}

func (d *rpioDriver) Set(pin int, level Level) error {
	if _, ok := d.configured[pin]; !ok {
		return &Error{Op: fmt.Sprintf("set pin %d", pin), Err: errors.New("pin not configured")}
	}

	rpio.Pin(pin).Write(toState(level))

	return nil
}

func (d *rpioDriver) Read(pin int) (Level, error) {
	if _, ok := d.configured[pin]; !ok {
		return Low, &Error{Op: fmt.Sprintf("read pin %d", pin), Err: errors.New("pin not configured")}
	}

	if rpio.Pin(pin).Read() == rpio.High {
		return High, nil
	}

	return Low, nil
}

func (d *rpioDriver) Close() error {
	if err := rpio.Close(); err != nil {
		return &Error{Op: "close /dev/gpiomem", Err: err}
	}

	return nil
}

// checkRange rejects offsets outside the uint8 range rpio addresses.
func checkRange(pin int) error {
	if pin < 0 || pin > 255 {
		return &Error{Op: fmt.Sprintf("configure pin %d", pin), Err: errors.New("pin out of range for rpio backend")}
	}

	return nil
}

func toState(level Level) rpio.State {
	if level == High {
		return rpio.High
	}

	return rpio.Low
}
