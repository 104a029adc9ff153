package fluid

import (
	"math"
	"testing"
)

func TestGaussSeidelRegression(t *testing.T) {
	eqs := []Equation[struct{}]{
		{Eval: func(v []float64, _ struct{}) float64 { return (3 + 2*v[1] + v[2] + v[3]) / 10 }},
		{Eval: func(v []float64, _ struct{}) float64 { return (15 + 2*v[0] + v[2] + v[3]) / 10 }},
		{Eval: func(v []float64, _ struct{}) float64 { return (27 + v[0] + v[1] + v[3]) / 10 }},
		{Eval: func(v []float64, _ struct{}) float64 { return (-9 + v[0] + v[1] + 2*v[2]) / 10 }},
	}

	got := GaussSeidel(eqs, []float64{0, 0, 0, 0}, 10)
	want := []float64{1, 2, 3, 0}

	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-6 {
			t.Errorf("x%d = %.10f, want %.1f", i, got[i], want[i])
		}
	}
}

func TestGaussSeidelSequentialUpdate(t *testing.T) {
	// x1 depends on x0; a Jacobi sweep would still see x0 = 0.
	eqs := []Equation[float64]{
		NewEquation(func(v []float64, c float64) float64 { return c }, 1),
		NewEquation(func(v []float64, c float64) float64 { return v[0] + c }, 1),
	}

	got := GaussSeidel(eqs, []float64{0, 0}, 1)
	if got[0] != 1 || got[1] != 2 {
		t.Errorf("after one sweep got %v, want [1 2]", got)
	}
}

func TestGaussSeidelFixedIterations(t *testing.T) {
	calls := 0
	eqs := []Equation[int]{
		NewEquation(func(v []float64, _ int) float64 {
			calls++
			return v[0] + 1
		}, 0),
	}

	initial := []float64{5}
	got := GaussSeidel(eqs, initial, 7)

	if calls != 7 {
		t.Errorf("evaluator called %d times, want 7", calls)
	}
	if got[0] != 12 {
		t.Errorf("got %v, want 12", got[0])
	}
	if initial[0] != 5 {
		t.Error("initial vector was modified")
	}

	zero := GaussSeidel(eqs, initial, 0)
	if zero[0] != 5 {
		t.Errorf("zero iterations returned %v, want initial value", zero[0])
	}
}

func TestGaussSeidelDeterministic(t *testing.T) {
	eqs := make([]Equation[DiffusionArgs], 4)
	for i, c := range []float64{1.5, -2, 0.25, 8} {
		eqs[i] = NewEquation(RelaxedValue, DiffusionArgs{Value: c, K: 0.7})
	}

	a := GaussSeidel(eqs, []float64{0, 0, 0, 0}, DiffusionIterations)
	b := GaussSeidel(eqs, []float64{0, 0, 0, 0}, DiffusionIterations)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("run differs at %d: %v vs %v", i, a[i], b[i])
		}
	}
}
