package gpio

import (
	"errors"
	"fmt"
	"sync"
)

// Event records one level change applied to an output pin.
type Event struct {
	// Pin is the affected pin.
	Pin int
	// Level is the level the pin was driven to.
	Level Level
}

// switchKey identifies one simulated switch by its row and column pins.
type switchKey struct {
	rowPin int
	colPin int
}

// Fake is an in-memory Driver that simulates a switch matrix.
//
// Output pins hold whatever level they were last driven to. Input pins rest
// at the idle level implied by their pull resistor; closing a simulated
// switch connects a row pin to a column pin, so the row follows the column's
// driven level. Every output transition is appended to Events so tests can
// assert ordering invariants.
type Fake struct {
	mu sync.Mutex

	levels  map[int]Level
	pulls   map[int]Pull
	outputs map[int]struct{}
	inputs  map[int]struct{}
	closed  map[switchKey]struct{}

	// Events is the ordered history of output level changes.
	Events []Event

	// Closed reports whether Close was called.
	Closed bool

	// SetError, if set, is returned by every Set call.
	SetError error
	// ReadError, if set, is returned by every Read call.
	ReadError error
}

// NewFake returns an empty fake driver.
func NewFake() *Fake {
	return &Fake{
		levels:  make(map[int]Level),
		pulls:   make(map[int]Pull),
		outputs: make(map[int]struct{}),
		inputs:  make(map[int]struct{}),
		closed:  make(map[switchKey]struct{}),
	}
}

func (f *Fake) ConfigureOutput(pin int, initial Level) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.inputs, pin)
	f.outputs[pin] = struct{}{}
	f.levels[pin] = initial
	f.Events = append(f.Events, Event{Pin: pin, Level: initial})

	return nil
}

func (f *Fake) ConfigureInput(pin int, pull Pull) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.outputs, pin)
	f.inputs[pin] = struct{}{}
	f.pulls[pin] = pull

	return nil
}

func (f *Fake) Set(pin int, level Level) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.SetError != nil {
		return f.SetError
	}

	if _, ok := f.outputs[pin]; !ok {
		return &Error{Op: fmt.Sprintf("set pin %d", pin), Err: errors.New("pin not configured as output")}
	}

	f.levels[pin] = level
	f.Events = append(f.Events, Event{Pin: pin, Level: level})

	return nil
}

func (f *Fake) Read(pin int) (Level, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ReadError != nil {
		return Low, f.ReadError
	}

	if _, ok := f.outputs[pin]; ok {
		return f.levels[pin], nil
	}

	if _, ok := f.inputs[pin]; !ok {
		return Low, &Error{Op: fmt.Sprintf("read pin %d", pin), Err: errors.New("pin not configured")}
	}

	return f.inputLevel(pin), nil
}

func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Closed = true

	return nil
}

// CloseSwitch closes the simulated switch between a row pin and a column pin.
func (f *Fake) CloseSwitch(rowPin, colPin int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed[switchKey{rowPin: rowPin, colPin: colPin}] = struct{}{}
}

// OpenSwitch opens the simulated switch between a row pin and a column pin.
func (f *Fake) OpenSwitch(rowPin, colPin int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.closed, switchKey{rowPin: rowPin, colPin: colPin})
}

// LevelOf returns the current level of an output pin.
func (f *Fake) LevelOf(pin int) Level {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.levels[pin]
}

// inputLevel resolves a row pin's level: the idle pull level unless a closed
// switch connects it to a column driven away from idle.
func (f *Fake) inputLevel(pin int) Level {
	idle := f.pulls[pin].IdleLevel()

	for key := range f.closed {
		if key.rowPin != pin {
			continue
		}

		if colLevel, ok := f.levels[key.colPin]; ok && colLevel != idle {
			return colLevel
		}
	}

	return idle
}
