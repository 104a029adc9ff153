package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/fluidsim/internal/fluid"
)

type Simulator struct {
	fluid     *fluid.Fluid
	sources   []Source
	metrics   []Metric
	observers []Observer
	scratch   []float64
}

func New(f *fluid.Fluid) *Simulator {
	return &Simulator{
		fluid:     f,
		sources:   make([]Source, 0),
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		scratch:   make([]float64, f.BufferLength()),
	}
}

func (s *Simulator) AddSource(src Source)   { s.sources = append(s.sources, src) }
func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Fluid() *fluid.Fluid { return s.fluid }

// Run steps cfg.Frames frames. On cancellation or an invalid state the
// frames completed so far are returned alongside the error.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	f := s.fluid
	f.SetDt(cfg.Dt)

	result := &Result{
		N:       f.InteriorSize(),
		Frames:  make([]FrameStat, 0, cfg.Frames),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	var runErr error
	for i := 0; i < cfg.Frames; i++ {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		s.stepFrame()

		stat := Measure(f, cfg.Probe, s.scratch)
		if cfg.ValidateState && !stat.Valid() {
			runErr = &RunError{Frame: stat.Frame, Wrapped: ErrInvalidState}
			break
		}

		for _, m := range s.metrics {
			m.Observe(f)
		}
		for _, obs := range s.observers {
			obs.OnFrame(f, stat)
		}

		result.Frames = append(result.Frames, stat)
		result.StepsTaken++
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Density = f.Density()

	return result, runErr
}

// Advance applies the active sources and steps one frame without
// recording anything.
func (s *Simulator) Advance() {
	s.stepFrame()
}

func (s *Simulator) stepFrame() {
	frame := s.fluid.Frame()
	for _, src := range s.sources {
		src.Apply(s.fluid, frame)
	}
	s.fluid.Step()
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 || math.IsNaN(cfg.Dt) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Frames < 0 {
		return fmt.Errorf("frames must not be negative, got %d", cfg.Frames)
	}
	if cfg.Probe >= 0 {
		if err := s.fluid.Grid().CheckOffset(cfg.Probe); err != nil {
			return fmt.Errorf("%w: %w", ErrNoProbe, err)
		}
	}
	return nil
}
