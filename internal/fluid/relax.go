package fluid

// Equation computes the next value of one unknown from the current contents
// of the whole unknown vector. Args carries the equation's fixed parameters.
type Equation[T any] struct {
	Eval func(v []float64, args T) float64
	Args T
}

func NewEquation[T any](eval func(v []float64, args T) float64, args T) Equation[T] {
	return Equation[T]{Eval: eval, Args: args}
}

func (e Equation[T]) Call(v []float64) float64 {
	return e.Eval(v, e.Args)
}

// GaussSeidel runs a fixed number of Gauss-Seidel sweeps over eqs starting
// from initial and returns the final vector. initial is not modified.
// eqs[i] produces unknown i, so len(eqs) must equal len(initial).
func GaussSeidel[T any](eqs []Equation[T], initial []float64, iterations int) []float64 {
	v := make([]float64, len(initial))
	copy(v, initial)
	Relax(v, eqs, iterations)
	return v
}

// Relax is GaussSeidel operating in place on v.
//
// Unknowns are updated sequentially, so later equations in a sweep already
// see the values written earlier in the same sweep. There is no convergence
// test: exactly iterations sweeps run.
func Relax[T any](v []float64, eqs []Equation[T], iterations int) {
	for it := 0; it < iterations; it++ {
		for i := range v {
			v[i] = eqs[i].Call(v)
		}
	}
}
