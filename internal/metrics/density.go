package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/fluidsim/internal/fluid"
)

// snapshot copies the current density of f into buf, growing it when the
// grid size changes.
func snapshot(buf []float64, f *fluid.Fluid) []float64 {
	if len(buf) != f.BufferLength() {
		buf = make([]float64, f.BufferLength())
	}
	f.CopyDensity(buf)
	return buf
}

// TotalMass reports the summed density of the last observed frame.
type TotalMass struct {
	name    string
	buf     []float64
	last    float64
	samples int
}

func NewTotalMass() *TotalMass {
	return &TotalMass{name: "total_mass"}
}

func (m *TotalMass) Name() string { return m.name }

func (m *TotalMass) Observe(f *fluid.Fluid) {
	m.buf = snapshot(m.buf, f)
	m.last = floats.Sum(m.buf)
	m.samples++
}

func (m *TotalMass) Value() float64 { return m.last }

func (m *TotalMass) Reset() {
	m.last = 0
	m.samples = 0
}

// PeakDensity reports the largest density seen in any observed frame.
type PeakDensity struct {
	name string
	buf  []float64
	peak float64
}

func NewPeakDensity() *PeakDensity {
	return &PeakDensity{name: "peak_density"}
}

func (p *PeakDensity) Name() string { return p.name }

func (p *PeakDensity) Observe(f *fluid.Fluid) {
	p.buf = snapshot(p.buf, f)
	p.peak = math.Max(p.peak, floats.Max(p.buf))
}

func (p *PeakDensity) Value() float64 { return p.peak }

func (p *PeakDensity) Reset() { p.peak = 0 }

// MaxSpeed reports the largest velocity magnitude seen in any observed
// frame.
type MaxSpeed struct {
	name   string
	speeds []float64
	max    float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{name: "max_speed"}
}

func (s *MaxSpeed) Name() string { return s.name }

func (s *MaxSpeed) Observe(f *fluid.Fluid) {
	if len(s.speeds) != f.BufferLength() {
		s.speeds = make([]float64, f.BufferLength())
	}
	for i := range s.speeds {
		vx, vy := f.VelocityAt(i)
		s.speeds[i] = math.Hypot(vx, vy)
	}
	s.max = math.Max(s.max, floats.Max(s.speeds))
}

func (s *MaxSpeed) Value() float64 { return s.max }

func (s *MaxSpeed) Reset() { s.max = 0 }
