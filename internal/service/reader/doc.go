// Package reader samples the input matrix.
//
// The Scanner multiplexes the grid one column at a time: it selects a column
// pin, waits for the electrical transient to settle, senses every row pin
// and moves on. Columns are never selected concurrently because the row
// lines are shared. The Monitor repeats scans at a fixed interval until the
// context is cancelled.
package reader
