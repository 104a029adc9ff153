package fluid

import "fmt"

// Grid describes a square lattice of N interior cells per side surrounded by
// a one-cell border ring. Storage is row-major.
type Grid struct {
	N int
}

func NewGrid(n int) Grid { return Grid{N: n} }

// Side is the lattice side length including the border.
func (g Grid) Side() int { return g.N + 2 }

// Size is the number of cells, and the length of every field buffer.
func (g Grid) Size() int { return (g.N + 2) * (g.N + 2) }

// Index returns the flat offset of (x, y). Both coordinates must lie in
// [0, N+1]; anything else is a caller error.
func (g Grid) Index(x, y int) int { return x + (g.N+2)*y }

// Coord is the inverse of Index.
func (g Grid) Coord(i int) (x, y int) {
	side := g.N + 2
	return i % side, i / side
}

// Contains reports whether (x, y) lies on the lattice, border included.
func (g Grid) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x <= g.N+1 && y <= g.N+1
}

// Interior reports whether (x, y) is a cell the solver updates.
func (g Grid) Interior(x, y int) bool {
	return x >= 1 && y >= 1 && x <= g.N && y <= g.N
}

// CheckedIndex is Index with validation, for coordinates that come from
// outside the program (user input, network messages, config files).
func (g Grid) CheckedIndex(x, y int) (int, error) {
	if !g.Contains(x, y) {
		return 0, fmt.Errorf("%w: (%d, %d) not in [0, %d]", ErrOutOfBounds, x, y, g.N+1)
	}
	return g.Index(x, y), nil
}

// CheckOffset validates a flat offset.
func (g Grid) CheckOffset(i int) error {
	if i < 0 || i >= g.Size() {
		return fmt.Errorf("%w: offset %d not in [0, %d)", ErrOutOfBounds, i, g.Size())
	}
	return nil
}
