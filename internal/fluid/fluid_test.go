package fluid

import (
	"errors"
	"math"
	"testing"
)

func TestNewZeroFilled(t *testing.T) {
	f := New(NewConfig(3, 0.5))

	if f.InteriorSize() != 3 {
		t.Errorf("InteriorSize = %d, want 3", f.InteriorSize())
	}
	if f.BufferLength() != 25 {
		t.Errorf("BufferLength = %d, want 25", f.BufferLength())
	}
	if f.Dt() != DefaultDt {
		t.Errorf("Dt = %v, want %v", f.Dt(), DefaultDt)
	}

	for name, buf := range f.buffers() {
		if len(buf) != 25 {
			t.Errorf("%s has length %d, want 25", name, len(buf))
		}
		for i, v := range buf {
			if v != 0 {
				t.Fatalf("%s[%d] = %v, want 0", name, i, v)
			}
		}
	}
}

func (f *Fluid) buffers() map[string][]float64 {
	return map[string][]float64{
		"velocity_x":         f.vx,
		"velocity_y":         f.vy,
		"initial_velocity_x": f.vx0,
		"initial_velocity_y": f.vy0,
		"density":            f.density,
		"initial_density":    f.density0,
	}
}

func TestInjectionIsAdditive(t *testing.T) {
	a := New(NewConfig(3, 0))
	b := New(NewConfig(3, 0))
	a.SetDt(0.25)
	b.SetDt(0.25)
	i := a.Index(1, 3)

	a.AddDensity(i, 3)
	a.AddDensity(i, 5)
	b.AddDensity(i, 8)

	a.AddVelocity(i, 1, -2)
	a.AddVelocity(i, 3, 6)
	b.AddVelocity(i, 4, 4)

	if a.density0[i] != b.density0[i] {
		t.Errorf("density: two calls = %v, one call = %v", a.density0[i], b.density0[i])
	}
	if a.vx0[i] != b.vx0[i] || a.vy0[i] != b.vy0[i] {
		t.Errorf("velocity: two calls = (%v,%v), one call = (%v,%v)", a.vx0[i], a.vy0[i], b.vx0[i], b.vy0[i])
	}
	if a.density0[i] != 2 {
		t.Errorf("initial density = %v, want dt*8 = 2", a.density0[i])
	}
	if a.density[i] != 0 {
		t.Error("injection touched the current density buffer")
	}
}

func TestStepZeroDiffusionScenario(t *testing.T) {
	f := New(NewConfig(3, 0))
	centre := f.Index(2, 2)

	f.AddDensity(centre, 100)
	f.Step()

	if got := f.DensityAt(centre); got != 10.0 {
		t.Errorf("density at centre = %v, want exactly 10", got)
	}
	if f.Frame() != 1 {
		t.Errorf("Frame = %d, want 1", f.Frame())
	}
}

func TestStepDiffusionScenario(t *testing.T) {
	f := New(NewConfig(3, 1.0))
	g := f.Grid()
	f.AddDensity(f.Index(2, 2), 100)
	f.Step()

	for _, p := range [][2]int{{1, 2}, {3, 2}, {2, 1}, {2, 3}} {
		if got := f.DensityAt(f.Index(p[0], p[1])); got <= 0 {
			t.Errorf("neighbour (%d,%d) density = %v, want > 0", p[0], p[1], got)
		}
	}

	for y := 0; y < g.Side(); y++ {
		for x := 0; x < g.Side(); x++ {
			if g.Interior(x, y) {
				continue
			}
			if got := f.DensityAt(f.Index(x, y)); got != 0 {
				t.Errorf("border (%d,%d) density = %v, want 0", x, y, got)
			}
		}
	}
}

func TestStepKeepsBufferLengths(t *testing.T) {
	f := New(NewConfig(5, 0.8))
	f.AddDensity(f.Index(3, 3), 50)
	f.AddVelocity(f.Index(3, 3), 4, -2)

	for step := 0; step < 25; step++ {
		f.Step()
	}

	if f.BufferLength() != 49 {
		t.Errorf("BufferLength = %d, want 49", f.BufferLength())
	}
	for name, buf := range f.buffers() {
		if len(buf) != 49 {
			t.Errorf("%s has length %d after 25 steps, want 49", name, len(buf))
		}
	}
}

func TestVelocityStepBufferRoles(t *testing.T) {
	f := New(NewConfig(3, 0))
	centre := f.Index(2, 2)
	f.AddVelocity(centre, 10, 0) // initial vx = 1

	f.Step()

	// Current velocity holds the diffused field (identity at zero diffusion).
	if vx, vy := f.VelocityAt(centre); vx != 1 || vy != 0 {
		t.Errorf("current velocity = (%v,%v), want (1,0)", vx, vy)
	}
	// Initial velocity holds the advected field: traced back to x = 1.9.
	if got := f.vx0[centre]; math.Abs(got-0.9) > 1e-12 {
		t.Errorf("initial vx after step = %v, want 0.9", got)
	}
}

func TestVelocityAdvectionComponentOrder(t *testing.T) {
	f := New(NewConfig(3, 0))
	centre := f.Index(2, 2)
	f.AddVelocity(centre, 10, 10)

	f.Step()

	// vx traces back to (1.9, 1.9); vy then traces along the updated vx
	// (0.81) to (1.919, 1.9).
	if got := f.vx0[centre]; math.Abs(got-0.81) > 1e-12 {
		t.Errorf("advected vx = %v, want 0.81", got)
	}
	if got := f.vy0[centre]; math.Abs(got-0.8271) > 1e-12 {
		t.Errorf("advected vy = %v, want 0.8271", got)
	}
}

func TestBorderInjectionStays(t *testing.T) {
	f := New(NewConfig(3, 2.0))
	corner := f.Index(0, 0)
	f.AddDensity(corner, 40)

	for i := 0; i < 5; i++ {
		f.Step()
	}

	if f.density0[corner] != 4 {
		t.Errorf("border source = %v, want 4", f.density0[corner])
	}
	if f.DensityAt(corner) != 0 {
		t.Errorf("current border density = %v, want 0", f.DensityAt(corner))
	}
}

func TestResetKeepsDt(t *testing.T) {
	f := New(NewConfig(4, 1))
	f.SetDt(0.05)
	f.AddDensity(f.Index(2, 2), 10)
	f.Step()
	f.Reset()

	if f.Frame() != 0 {
		t.Errorf("Frame after reset = %d", f.Frame())
	}
	if f.Dt() != 0.05 {
		t.Errorf("Dt after reset = %v, want 0.05", f.Dt())
	}
	for name, buf := range f.buffers() {
		for i, v := range buf {
			if v != 0 {
				t.Fatalf("%s[%d] = %v after reset", name, i, v)
			}
		}
	}
}

func TestCopyDensityIsolation(t *testing.T) {
	f := New(NewConfig(3, 0))
	f.AddDensity(f.Index(1, 1), 10)
	f.Step()

	snap := f.Density()
	snap[f.Index(1, 1)] = -1
	if f.DensityAt(f.Index(1, 1)) != 1 {
		t.Error("Density() result aliases the simulation buffer")
	}

	dst := make([]float64, 4)
	if n := f.CopyDensity(dst); n != 4 {
		t.Errorf("CopyDensity into short buffer copied %d, want 4", n)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"valid", NewConfig(16, 0.5), true},
		{"zero diffusion", NewConfig(1, 0), true},
		{"zero n", NewConfig(0, 0.5), false},
		{"negative diffusion", NewConfig(8, -1), false},
		{"nan diffusion", NewConfig(8, math.NaN()), false},
		{"inf diffusion", NewConfig(8, math.Inf(1)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestOutOfRangeOffsetPanics(t *testing.T) {
	f := New(NewConfig(3, 0))
	defer func() {
		if recover() == nil {
			t.Error("expected bounds-check panic")
		}
	}()
	f.AddDensity(f.BufferLength(), 1)
}
