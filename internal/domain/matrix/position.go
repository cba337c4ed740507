package matrix

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidPosition is returned when a position token cannot be decoded or
// the decoded coordinate falls outside the matrix geometry.
var ErrInvalidPosition = errors.New("invalid position")

// Position is one addressable cell of a matrix. Row and Col are zero-based.
type Position struct {
	// Row is the zero-based row index.
	Row int
	// Col is the zero-based column index.
	Col int
}

// ParsePosition decodes a position token against the geometry.
//
// Two notations are accepted:
//   - alphanumeric: column letter + 1-based row number, e.g. "A1" is
//     column 0, row 0;
//   - numeric: 1-based row-major linear index, e.g. "4" on a 3x3 matrix is
//     row 1, column 0.
//
// Tokens are case-insensitive and surrounding whitespace is ignored.
func ParsePosition(token string, g Geometry) (Position, error) {
	token = strings.ToUpper(strings.TrimSpace(token))

	if isAlphanumeric(token) {
		return parseAlphanumeric(token, g)
	}

	if n, err := strconv.Atoi(token); err == nil {
		return parseIndex(n, g)
	}

	return Position{}, fmt.Errorf("%w: %q is neither alphanumeric (A1) nor numeric (4)", ErrInvalidPosition, token)
}

// String returns the canonical alphanumeric form, e.g. "B1" for row 0, col 1.
func (p Position) String() string {
	return fmt.Sprintf("%c%d", 'A'+rune(p.Col), p.Row+1)
}

// Index returns the 1-based row-major linear index of the position.
func (p Position) Index(g Geometry) int {
	return p.Row*g.Cols + p.Col + 1
}

// isAlphanumeric reports whether the token is one letter followed by digits.
func isAlphanumeric(token string) bool {
	if len(token) < 2 {
		return false
	}

	if token[0] < 'A' || token[0] > 'Z' {
		return false
	}

	for _, c := range token[1:] {
		if c < '0' || c > '9' {
			return false
		}
	}

	return true
}

func parseAlphanumeric(token string, g Geometry) (Position, error) {
	col := int(token[0] - 'A')

	rowNum, err := strconv.Atoi(token[1:])
	if err != nil {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidPosition, token)
	}

	p := Position{Row: rowNum - 1, Col: col}

	if p.Row < 0 || p.Row >= g.Rows {
		return Position{}, fmt.Errorf("%w: %q row out of range (1-%d)", ErrInvalidPosition, token, g.Rows)
	}

	if p.Col >= g.Cols {
		return Position{}, fmt.Errorf("%w: %q column out of range (A-%c)", ErrInvalidPosition, token, 'A'+rune(g.Cols-1))
	}

	return p, nil
}

func parseIndex(n int, g Geometry) (Position, error) {
	if n < 1 || n > g.Rows*g.Cols {
		return Position{}, fmt.Errorf("%w: index %d out of range (1-%d)", ErrInvalidPosition, n, g.Rows*g.Cols)
	}

	return Position{
		Row: (n - 1) / g.Cols,
		Col: (n - 1) % g.Cols,
	}, nil
}
