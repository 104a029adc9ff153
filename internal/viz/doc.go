// Package viz provides the interactive terminal view of a running fluid.
//
// The package implements a TUI using the Bubble Tea framework:
//
//   - [Model]: heat map of the density field with a movable cursor
//   - [App]: scene picker that launches a Model
//   - Theme selection with 5 built-in color ramps
//
// # Key Bindings
//
//	Arrows/hjkl    - Move cursor
//	D / Enter      - Inject density at the cursor
//	Shift+Arrows   - Push velocity at the cursor
//	Space          - Pause/Resume simulation
//	N              - Single step
//	+ / -          - Scale the time step
//	R              - Reset all fields
//	T              - Cycle color themes
//	?              - Show help overlay
//
// Mouse clicks on the heat map inject density at the clicked cell.
package viz
