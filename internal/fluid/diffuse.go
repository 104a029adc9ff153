package fluid

// DiffusionIterations is the fixed Gauss-Seidel budget per cell.
const DiffusionIterations = 10

// DiffusionArgs parameterizes one diffusion equation: the fixed source value
// it is anchored to and the stiffness K = dt * diffusion rate.
type DiffusionArgs struct {
	Value float64
	K     float64
}

// RelaxedValue is the implicit diffusion update of a.Value coupled to the
// mean of the four relaxation unknowns in v.
func RelaxedValue(v []float64, a DiffusionArgs) float64 {
	return (a.Value + a.K*(v[0]+v[1]+v[2]+v[3])/4) / (1 + a.K)
}

// diffuse returns the diffused value of interior cell (x, y) of src.
//
// The relaxation is local to the cell: its four neighbour source values are
// fixed constants of a self-contained 4-unknown system.
func (f *Fluid) diffuse(x, y int, src []float64) float64 {
	k := f.dt * f.cfg.Diffusion
	g := f.grid

	eqs := [4]Equation[DiffusionArgs]{
		{Eval: RelaxedValue, Args: DiffusionArgs{Value: src[g.Index(x+1, y)], K: k}},
		{Eval: RelaxedValue, Args: DiffusionArgs{Value: src[g.Index(x-1, y)], K: k}},
		{Eval: RelaxedValue, Args: DiffusionArgs{Value: src[g.Index(x, y+1)], K: k}},
		{Eval: RelaxedValue, Args: DiffusionArgs{Value: src[g.Index(x, y-1)], K: k}},
	}
	var v [4]float64
	Relax(v[:], eqs[:], DiffusionIterations)

	return RelaxedValue(v[:], DiffusionArgs{Value: src[g.Index(x, y)], K: k})
}

// diffusePass writes every interior cell of dst from src.
func (f *Fluid) diffusePass(dst, src []float64) {
	n := f.cfg.N
	for x := 1; x <= n; x++ {
		for y := 1; y <= n; y++ {
			dst[f.grid.Index(x, y)] = f.diffuse(x, y, src)
		}
	}
}
