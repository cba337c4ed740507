// Package gpio provides pin-level I/O with hardware abstraction.
//
// The Driver interface covers the three operations the matrix engine needs:
// configuring a pin, driving a level and reading a level. Two real backends
// are available on Linux (the GPIO character device via go-gpiocdev, and
// /dev/gpiomem via go-rpio), selected by the "driver" key in the
// configuration. The Fake driver simulates a switch matrix in memory so the
// engine can be tested without hardware.
package gpio
