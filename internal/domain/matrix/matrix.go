package matrix

import "fmt"

// Geometry describes the dimensions of a matrix.
type Geometry struct {
	// Rows is the number of row lines, must be positive.
	Rows int
	// Cols is the number of column lines, must be positive.
	Cols int
}

// Valid reports whether both dimensions are positive.
func (g Geometry) Valid() bool {
	return g.Rows > 0 && g.Cols > 0
}

// Contains reports whether the position lies inside the geometry.
func (g Geometry) Contains(p Position) bool {
	return p.Row >= 0 && p.Row < g.Rows && p.Col >= 0 && p.Col < g.Cols
}

// String returns the dimensions in "3x3" form.
func (g Geometry) String() string {
	return fmt.Sprintf("%dx%d", g.Rows, g.Cols)
}

// AllPositions returns every position of the geometry in row-major order.
func AllPositions(g Geometry) []Position {
	positions := make([]Position, 0, g.Rows*g.Cols)

	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			positions = append(positions, Position{Row: row, Col: col})
		}
	}

	return positions
}

// Frame is a value snapshot of a full input scan, one boolean per cell in
// row-major order. True means the switch at that cell is closed.
type Frame [][]bool

// NewFrame returns a zeroed frame shaped by the geometry.
func NewFrame(g Geometry) Frame {
	frame := make(Frame, g.Rows)
	for row := range frame {
		frame[row] = make([]bool, g.Cols)
	}

	return frame
}

// At returns the state of one cell.
func (f Frame) At(p Position) bool {
	return f[p.Row][p.Col]
}

// Equal reports whether two frames have identical shape and cell states.
func (f Frame) Equal(other Frame) bool {
	if len(f) != len(other) {
		return false
	}

	for row := range f {
		if len(f[row]) != len(other[row]) {
			return false
		}

		for col := range f[row] {
			if f[row][col] != other[row][col] {
				return false
			}
		}
	}

	return true
}

// Diff returns the positions whose state differs from the previous frame.
// A nil previous frame yields the positions that are currently closed.
func (f Frame) Diff(prev Frame) []Position {
	var changed []Position

	for row := range f {
		for col := range f[row] {
			was := prev != nil && prev[row][col]
			if f[row][col] != was {
				changed = append(changed, Position{Row: row, Col: col})
			}
		}
	}

	return changed
}
