//go:build linux

package gpio

import (
	"errors"
	"fmt"
	"syscall"

	"github.com/warthog618/go-gpiocdev"
)

// defaultChip is the GPIO character device all Raspberry Pi models expose.
const defaultChip = "gpiochip0"

// cdevDriver drives pins through the Linux GPIO character device.
type cdevDriver struct {
	chip  *gpiocdev.Chip
	lines map[int]*gpiocdev.Line
}

func openGpiocdev() (Driver, error) {
	chip, err := gpiocdev.NewChip(defaultChip)
	if err != nil {
		return nil, &Error{Op: "open " + defaultChip, Err: err}
	}

	return &cdevDriver{
		chip:  chip,
		lines: make(map[int]*gpiocdev.Line),
	}, nil
}

func (d *cdevDriver) ConfigureOutput(pin int, initial Level) error {
	line, err := d.chip.RequestLine(pin, gpiocdev.AsOutput(int(initial)))
	if err != nil {
		return requestError(pin, err)
	}

	d.replaceLine(pin, line)

	return nil
}

func (d *cdevDriver) ConfigureInput(pin int, pull Pull) error {
	bias := gpiocdev.WithPullDown
	if pull == PullUp {
		bias = gpiocdev.WithPullUp
	}

	line, err := d.chip.RequestLine(pin, gpiocdev.AsInput, bias)
	if err != nil {
		return requestError(pin, err)
	}

	d.replaceLine(pin, line)

	return nil
}

func (d *cdevDriver) Set(pin int, level Level) error {
	line, ok := d.lines[pin]
	if !ok {
		return &Error{Op: fmt.Sprintf("set pin %d", pin), Err: errors.New("pin not configured")}
	}

	if err := line.SetValue(int(level)); err != nil {
		return &Error{Op: fmt.Sprintf("set pin %d", pin), Err: err}
	}

	return nil
}

func (d *cdevDriver) Read(pin int) (Level, error) {
	line, ok := d.lines[pin]
	if !ok {
		return Low, &Error{Op: fmt.Sprintf("read pin %d", pin), Err: errors.New("pin not configured")}
	}

	value, err := line.Value()
	if err != nil {
		return Low, &Error{Op: fmt.Sprintf("read pin %d", pin), Err: err}
	}

	if value != 0 {
		return High, nil
	}

	return Low, nil
}

func (d *cdevDriver) Close() error {
	var errs []error

	for pin, line := range d.lines {
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pin %d: %w", pin, err))
		}
	}

	if err := d.chip.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close chip: %w", err))
	}

	if len(errs) > 0 {
		return &Error{Op: "close driver", Err: errors.Join(errs...)}
	}

	return nil
}

// replaceLine stores a freshly requested line, releasing any previous claim
// on the same offset.
func (d *cdevDriver) replaceLine(pin int, line *gpiocdev.Line) {
	if old, ok := d.lines[pin]; ok {
		_ = old.Close()
	}

	d.lines[pin] = line
}

// requestError wraps a line request failure. EBUSY means another process
// holds the line; that is the de facto cross-process mutual exclusion, so
// name the competitor when it can be found.
func requestError(pin int, err error) error {
	if errors.Is(err, syscall.EBUSY) {
		if hint := busyHint(); hint != "" {
			err = fmt.Errorf("%w (%s)", err, hint)
		}
	}

	return &Error{Op: fmt.Sprintf("request pin %d", pin), Err: err}
}
