package fluid

import (
	"fmt"
	"math"
)

// DefaultDt is the time step a new Fluid starts with.
const DefaultDt = 0.1

// Config fixes the size and diffusivity of a simulation. It is not mutated
// after construction.
type Config struct {
	N         int
	Diffusion float64
}

func NewConfig(n int, diffusion float64) Config {
	return Config{N: n, Diffusion: diffusion}
}

// Validate reports whether the configuration can be simulated.
func (c Config) Validate() error {
	if c.N < 1 {
		return fmt.Errorf("%w: n must be at least 1, got %d", ErrInvalidConfig, c.N)
	}
	if c.Diffusion < 0 || math.IsNaN(c.Diffusion) || math.IsInf(c.Diffusion, 0) {
		return fmt.Errorf("%w: diffusion must be a non-negative finite number, got %g", ErrInvalidConfig, c.Diffusion)
	}
	return nil
}

// Fluid is the simulation state: three current fields and three initial
// (source) fields, all of length Grid.Size().
type Fluid struct {
	cfg  Config
	grid Grid
	dt   float64

	vx, vy     []float64
	vx0, vy0   []float64
	density    []float64
	density0   []float64
	stepsTaken int
}

// New allocates a zero-filled simulation. cfg is not validated; use
// Config.Validate for values that come from outside the program.
func New(cfg Config) *Fluid {
	g := NewGrid(cfg.N)
	size := g.Size()
	return &Fluid{
		cfg:      cfg,
		grid:     g,
		dt:       DefaultDt,
		vx:       make([]float64, size),
		vy:       make([]float64, size),
		vx0:      make([]float64, size),
		vy0:      make([]float64, size),
		density:  make([]float64, size),
		density0: make([]float64, size),
	}
}

func (f *Fluid) Config() Config { return f.cfg }
func (f *Fluid) Grid() Grid     { return f.grid }

// Index maps lattice coordinates to a flat offset.
func (f *Fluid) Index(x, y int) int { return f.grid.Index(x, y) }

func (f *Fluid) InteriorSize() int { return f.cfg.N }
func (f *Fluid) BufferLength() int { return f.grid.Size() }

func (f *Fluid) Dt() float64 { return f.dt }

// SetDt replaces the time step used by subsequent injections and steps.
func (f *Fluid) SetDt(dt float64) { f.dt = dt }

// Frame returns the number of completed steps.
func (f *Fluid) Frame() int { return f.stepsTaken }

// AddDensity adds dt*value to the initial density at flat offset i.
func (f *Fluid) AddDensity(i int, value float64) {
	f.density0[i] += f.dt * value
}

// AddVelocity adds dt*(vx, vy) to the initial velocity at flat offset i.
func (f *Fluid) AddVelocity(i int, vx, vy float64) {
	f.vx0[i] += f.dt * vx
	f.vy0[i] += f.dt * vy
}

// DensityAt returns the current density at flat offset i.
func (f *Fluid) DensityAt(i int) float64 { return f.density[i] }

// VelocityAt returns the current velocity at flat offset i.
func (f *Fluid) VelocityAt(i int) (vx, vy float64) { return f.vx[i], f.vy[i] }

// CopyDensity copies the current density field into dst and returns the
// number of values copied.
func (f *Fluid) CopyDensity(dst []float64) int { return copy(dst, f.density) }

// Density returns a copy of the current density field.
func (f *Fluid) Density() []float64 {
	d := make([]float64, len(f.density))
	copy(d, f.density)
	return d
}

// Reset zeroes all six fields and the frame counter. dt is kept.
func (f *Fluid) Reset() {
	for _, buf := range [][]float64{f.vx, f.vy, f.vx0, f.vy0, f.density, f.density0} {
		for i := range buf {
			buf[i] = 0
		}
	}
	f.stepsTaken = 0
}

// Step advances one frame: the velocity step followed by the density step.
func (f *Fluid) Step() {
	f.velocityStep()
	f.densityStep()
	f.stepsTaken++
}

// velocityStep diffuses then advects both velocity components. The swap
// between the passes makes advection read the diffused field as its source
// and trace back along the pre-diffusion field; the second swap restores
// the buffer roles.
func (f *Fluid) velocityStep() {
	f.diffusePass(f.vx, f.vx0)
	f.diffusePass(f.vy, f.vy0)
	f.vx, f.vx0 = f.vx0, f.vx
	f.vy, f.vy0 = f.vy0, f.vy
	f.advectVelocity()
	f.vx, f.vx0 = f.vx0, f.vx
	f.vy, f.vy0 = f.vy0, f.vy
}

// densityStep diffuses then advects density along the settled velocity.
func (f *Fluid) densityStep() {
	f.diffusePass(f.density, f.density0)
	f.density, f.density0 = f.density0, f.density
	f.advectPass(f.density, f.density0)
	f.density, f.density0 = f.density0, f.density
}
