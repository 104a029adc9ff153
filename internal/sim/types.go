package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/fluidsim/internal/fluid"
)

var (
	// ErrInvalidState indicates a density field holding NaN or Inf.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")

	ErrNoProbe = errors.New("sim: probe offset outside the grid")
)

// Source injects into the initial fields before a frame is stepped.
type Source interface {
	Apply(f *fluid.Fluid, frame int)
}

type Metric interface {
	Name() string
	Observe(f *fluid.Fluid)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f *fluid.Fluid, stat FrameStat)
}

type Config struct {
	Frames int
	Dt     float64
	// Probe is the flat offset whose density is recorded each frame.
	// Negative disables it.
	Probe         int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Frames:        100,
		Dt:            fluid.DefaultDt,
		Probe:         -1,
		ValidateState: true,
	}
}

// FrameStat summarises the current fields after one step.
type FrameStat struct {
	Frame    int     `json:"frame"`
	Mass     float64 `json:"mass"`
	Peak     float64 `json:"peak"`
	Probe    float64 `json:"probe"`
	MaxSpeed float64 `json:"max_speed"`
}

func (s FrameStat) Valid() bool {
	for _, v := range []float64{s.Mass, s.Peak, s.MaxSpeed} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type Result struct {
	N          int
	Frames     []FrameStat
	Metrics    map[string]float64
	StepsTaken int
	// Density is the current density field after the last frame.
	Density []float64
}

// Series extracts one column of the frame statistics.
func (r *Result) Series(pick func(FrameStat) float64) []float64 {
	out := make([]float64, len(r.Frames))
	for i, s := range r.Frames {
		out[i] = pick(s)
	}
	return out
}

// RunError wraps a failure with the frame it happened on.
type RunError struct {
	Frame   int
	Wrapped error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("frame %d: %v", e.Frame, e.Wrapped)
}

func (e *RunError) Unwrap() error {
	return e.Wrapped
}
