package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/fluidsim/internal/sim"
)

func TestNextPow2(t *testing.T) {
	tests := []struct{ n, want int }{
		{1, 1}, {2, 2}, {3, 4}, {64, 64}, {65, 128},
	}
	for _, tt := range tests {
		if got := nextPow2(tt.n); got != tt.want {
			t.Errorf("nextPow2(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestSpectrumDominant(t *testing.T) {
	const n = 64
	series := make([]float64, n)
	for i := range series {
		series[i] = 3 + math.Sin(2*math.Pi*8*float64(i)/n)
	}

	s := NewSpectrum(series, 0.1)
	if s.Size != 64 || len(s.Power) != 32 {
		t.Fatalf("size %d with %d bins", s.Size, len(s.Power))
	}
	if s.Power[0] > 1e-9 {
		t.Errorf("DC bin = %v, want 0 after mean removal", s.Power[0])
	}

	freq, power := s.Dominant()
	if math.Abs(freq-1.25) > 1e-12 {
		t.Errorf("dominant frequency = %v, want 1.25", freq)
	}
	if math.Abs(power-32) > 1e-6 {
		t.Errorf("dominant power = %v, want 32", power)
	}
}

func TestPowerSpectrumPads(t *testing.T) {
	ps := PowerSpectrum(make([]float64, 100))
	if len(ps) != 64 {
		t.Errorf("expected 64 bins for 100 samples, got %d", len(ps))
	}
	if PowerSpectrum([]float64{1}) != nil {
		t.Error("expected nil for a single sample")
	}
}

func TestPhaseCurve(t *testing.T) {
	pts := PhaseCurve([]float64{1, 2, 3}, []float64{4, 5})
	if len(pts) != 2 || pts[1] != (Point{X: 2, Y: 5}) {
		t.Errorf("PhaseCurve = %v", pts)
	}
}

func TestPhaseToASCII(t *testing.T) {
	pts := PhaseCurve([]float64{0, 1, 2}, []float64{0, 1, 2})
	out := PhaseToASCII(pts, 20, 10)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(lines))
	}
	if !strings.Contains(out, "@") || strings.Count(out, "•") != 2 {
		t.Errorf("unexpected plot:\n%s", out)
	}
	if PhaseToASCII(nil, 20, 10) != "" {
		t.Error("expected empty plot for no points")
	}
}

func TestResponse(t *testing.T) {
	results := []*sim.Result{
		{Frames: []sim.FrameStat{{Mass: 1, Peak: 4, Probe: 2}, {Mass: 2, Peak: 6, Probe: 4}}},
		nil,
		{Frames: []sim.FrameStat{{Mass: 5, Peak: 1, Probe: 1}}},
	}

	pts := Response([]float64{0, 0.5, 1}, results)
	if len(pts) != 2 {
		t.Fatalf("expected 2 points, got %d", len(pts))
	}
	if pts[0].Rate != 0 || pts[0].FinalMass != 2 || pts[0].Peak != 6 || pts[0].MeanProbe != 3 {
		t.Errorf("first point = %+v", pts[0])
	}
	if pts[1].Rate != 1 || pts[1].FinalMass != 5 {
		t.Errorf("second point = %+v", pts[1])
	}
}
