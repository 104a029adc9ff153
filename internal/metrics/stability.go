package metrics

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/fluidsim/internal/fluid"
)

// Stability is the fraction of observed frames whose density is finite and
// within [-threshold, threshold].
type Stability struct {
	name       string
	threshold  float64
	buf        []float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f *fluid.Fluid) {
	s.buf = snapshot(s.buf, f)
	s.samples++
	if floats.HasNaN(s.buf) || floats.Max(s.buf) > s.threshold || floats.Min(s.buf) < -s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
