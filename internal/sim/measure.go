package sim

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/fluidsim/internal/fluid"
)

// Measure computes the statistics of the current fields. scratch must hold
// f.BufferLength() values; its contents are overwritten.
func Measure(f *fluid.Fluid, probe int, scratch []float64) FrameStat {
	n := f.CopyDensity(scratch)
	d := scratch[:n]

	stat := FrameStat{
		Frame: f.Frame(),
		Mass:  floats.Sum(d),
		Peak:  floats.Max(d),
	}
	if probe >= 0 && probe < f.BufferLength() {
		stat.Probe = f.DensityAt(probe)
	}
	for i := range d {
		vx, vy := f.VelocityAt(i)
		if s := math.Hypot(vx, vy); s > stat.MaxSpeed || math.IsNaN(s) {
			stat.MaxSpeed = s
		}
	}
	return stat
}
