// Package writer drives the output matrix.
//
// The Controller holds the single-active-position state machine: it
// energizes one row/column pin pair for a bounded duration, blocks until the
// deadline (or the safety watchdog, an interrupt or a pre-emption) and
// guarantees the pins return to the inactive level on every exit path.
package writer
