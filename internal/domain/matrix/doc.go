// Package matrix contains core domain types for row/column switch matrices.
//
// It defines Geometry (matrix dimensions), Position (one addressable cell
// with its alphanumeric and numeric notations) and Frame (a boolean snapshot
// of a full input scan).
package matrix
