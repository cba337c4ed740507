package matrix

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestGeometry covers validity, containment and formatting.
func TestGeometry(t *testing.T) {
	t.Parallel()

	g := Geometry{Rows: 3, Cols: 4}
	require.True(t, g.Valid())
	require.Equal(t, "3x4", g.String())

	require.False(t, Geometry{Rows: 0, Cols: 4}.Valid())
	require.False(t, Geometry{Rows: 3, Cols: -1}.Valid())

	require.True(t, g.Contains(Position{Row: 0, Col: 0}))
	require.True(t, g.Contains(Position{Row: 2, Col: 3}))
	require.False(t, g.Contains(Position{Row: 3, Col: 0}))
	require.False(t, g.Contains(Position{Row: 0, Col: 4}))
	require.False(t, g.Contains(Position{Row: -1, Col: 0}))
}

// TestAllPositions verifies row-major enumeration.
func TestAllPositions(t *testing.T) {
	t.Parallel()

	positions := AllPositions(Geometry{Rows: 2, Cols: 2})
	require.Equal(t, []Position{
		{Row: 0, Col: 0},
		{Row: 0, Col: 1},
		{Row: 1, Col: 0},
		{Row: 1, Col: 1},
	}, positions)
}

// TestFrame covers construction, equality and diffing.
func TestFrame(t *testing.T) {
	t.Parallel()

	g := Geometry{Rows: 2, Cols: 3}

	a := NewFrame(g)
	require.Len(t, a, 2)
	require.Len(t, a[0], 3)

	b := NewFrame(g)
	require.True(t, a.Equal(b))

	b[1][2] = true
	require.False(t, a.Equal(b))
	require.True(t, b.At(Position{Row: 1, Col: 2}))

	// Diff against the previous frame names exactly the changed cells.
	changed := b.Diff(a)
	require.Equal(t, []Position{{Row: 1, Col: 2}}, changed)

	// Diff against nil names the closed cells.
	require.Equal(t, []Position{{Row: 1, Col: 2}}, b.Diff(nil))
	require.Empty(t, a.Diff(nil))
}
