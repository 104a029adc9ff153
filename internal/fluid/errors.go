package fluid

import "errors"

// Validation errors returned by host-facing helpers. The solver itself never
// returns errors.
var (
	// ErrInvalidConfig indicates a grid size or diffusion rate that cannot be simulated.
	ErrInvalidConfig = errors.New("fluid: invalid configuration")

	// ErrOutOfBounds indicates a coordinate or flat index outside the lattice.
	ErrOutOfBounds = errors.New("fluid: coordinate outside grid")
)
