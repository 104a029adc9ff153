package sim

import (
	"math/rand"

	"github.com/san-kum/fluidsim/internal/fluid"
)

// Emitter is a Source that injects at one cell for a window of frames.
type Emitter struct {
	Index   int
	Density float64
	VX, VY  float64
	Start   int
	Stop    int // 0 means never
	Jitter  float64

	rng *rand.Rand
}

// NewEmitter validates (x, y) against g.
func NewEmitter(g fluid.Grid, x, y int, density, vx, vy float64) (*Emitter, error) {
	i, err := g.CheckedIndex(x, y)
	if err != nil {
		return nil, err
	}
	return &Emitter{Index: i, Density: density, VX: vx, VY: vy}, nil
}

func (e *Emitter) WithWindow(start, stop int) *Emitter {
	e.Start, e.Stop = start, stop
	return e
}

// WithJitter perturbs the velocity by uniform noise in [-amount, amount).
func (e *Emitter) WithJitter(amount float64, rng *rand.Rand) *Emitter {
	e.Jitter, e.rng = amount, rng
	return e
}

func (e *Emitter) Active(frame int) bool {
	return frame >= e.Start && (e.Stop == 0 || frame < e.Stop)
}

func (e *Emitter) Apply(f *fluid.Fluid, frame int) {
	if !e.Active(frame) {
		return
	}
	if e.Density != 0 {
		f.AddDensity(e.Index, e.Density)
	}
	vx, vy := e.VX, e.VY
	if e.Jitter > 0 && e.rng != nil {
		vx += e.Jitter * (2*e.rng.Float64() - 1)
		vy += e.Jitter * (2*e.rng.Float64() - 1)
	}
	if vx != 0 || vy != 0 {
		f.AddVelocity(e.Index, vx, vy)
	}
}
