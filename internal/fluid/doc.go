// Package fluid implements a 2D Eulerian grid fluid kernel in the style of
// "stable fluids".
//
// A [Fluid] owns six field buffers laid out on a square lattice of side n+2
// (n interior cells plus a one-cell border ring):
//
//   - velocity x/y and density (current)
//   - initial velocity x/y and initial density (sources for the next step)
//
// Each call to [Fluid.Step] diffuses and then advects velocity, followed by
// density, swapping the current/initial buffers around each pass. Sources
// injected with [Fluid.AddDensity] and [Fluid.AddVelocity] always land in the
// initial buffers and accumulate until the next step consumes them.
//
// # Boundaries
//
// Only interior cells are written by the solver. Border cells keep whatever
// value was last placed there (zero after construction).
//
// # Indexing
//
// Flat offsets follow [Grid.Index]. The solver does not validate indices on
// the hot path: an out-of-range offset aborts with Go's bounds-check panic.
// Host layers validate externally derived coordinates with
// [Grid.CheckedIndex] first.
//
// # Example
//
//	f := fluid.New(fluid.NewConfig(64, 0.5))
//	f.AddDensity(f.Index(32, 32), 100)
//	f.Step()
//	d := f.DensityAt(f.Index(32, 32))
//
// # Thread Safety
//
// Fluid is NOT safe for concurrent use. Callers that share one instance
// across goroutines serialize access themselves.
package fluid
