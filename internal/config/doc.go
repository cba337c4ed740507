// Package config defines the per-installation matrix settings and provides
// helpers to load, validate and save them in YAML format.
//
// One document describes both matrices: pin maps and activation policy for
// the output matrix, wiring polarity and monitor defaults for the input
// matrix. Matrix geometry is derived from the pin list lengths, so it cannot
// drift from the wiring description.
package config
