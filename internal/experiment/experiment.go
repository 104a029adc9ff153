package experiment

import (
	"context"
	"math/rand"

	"github.com/san-kum/fluidsim/internal/config"
	"github.com/san-kum/fluidsim/internal/fluid"
	"github.com/san-kum/fluidsim/internal/sim"
)

// Experiment is a Simulator assembled from a scene configuration.
type Experiment struct {
	cfg        *config.Config
	simulator  *sim.Simulator
	randSource *rand.Rand
}

// New validates cfg and builds the fluid, its emitters and the default
// metrics.
func New(cfg *config.Config) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Experiment{
		cfg:        cfg,
		randSource: rand.New(rand.NewSource(cfg.Seed)),
	}

	f := fluid.New(cfg.Fluid())
	f.SetDt(cfg.Dt)
	e.simulator = sim.New(f)

	for _, src := range cfg.Sources {
		em, err := sim.NewEmitter(f.Grid(), src.X, src.Y, src.Density, src.VX, src.VY)
		if err != nil {
			return nil, err
		}
		em.WithWindow(src.Start, src.Stop)
		if src.Jitter > 0 {
			em.WithJitter(src.Jitter, e.randSource)
		}
		e.simulator.AddSource(em)
	}

	for _, m := range NewRegistry().DefaultMetrics() {
		e.simulator.AddMetric(m)
	}
	return e, nil
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// SimConfig is the run configuration derived from the scene.
func (e *Experiment) SimConfig() sim.Config {
	p := e.cfg.ProbePoint()
	return sim.Config{
		Frames:        e.cfg.Frames,
		Dt:            e.cfg.Dt,
		Probe:         e.simulator.Fluid().Index(p.X, p.Y),
		ValidateState: true,
	}
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	return e.simulator.Run(ctx, e.SimConfig())
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

// Sweep runs the scene once per diffusion rate, concurrently. Run i is
// seeded with cfg.Seed+i.
func Sweep(ctx context.Context, cfg *config.Config, rates []float64) ([]*sim.Result, error) {
	build := func(diffusion float64, seed int64) (*sim.Simulator, error) {
		c := cfg.Clone()
		c.Diffusion = diffusion
		c.Seed = seed
		e, err := New(c)
		if err != nil {
			return nil, err
		}
		return e.simulator, nil
	}

	base, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return sim.NewSweep(rates, build, cfg.Seed).Run(ctx, base.SimConfig())
}
