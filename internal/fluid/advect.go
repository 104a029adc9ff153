package fluid

import "math"

// backtrace returns the continuous position the fluid at interior cell
// (x, y) came from one time step ago, using the current velocity field.
func (f *Fluid) backtrace(x, y int) (px, py float64) {
	i := f.grid.Index(x, y)
	return float64(x) - f.vx[i]*f.dt, float64(y) - f.vy[i]*f.dt
}

// sample bilinearly interpolates src at (px, py). The bounding lattice
// points are clamped to [0, N+1], so positions that leave the grid read the
// border.
func (f *Fluid) sample(px, py float64, src []float64) float64 {
	hi := float64(f.cfg.N + 1)
	x0, x1 := clamp(math.Floor(px), 0, hi), clamp(math.Ceil(px), 0, hi)
	y0, y1 := clamp(math.Floor(py), 0, hi), clamp(math.Ceil(py), 0, hi)

	at := func(x, y float64) float64 {
		return src[f.grid.Index(int(x), int(y))]
	}

	top := lerp(x0, at(x0, y0), x1, at(x1, y0), px)
	bottom := lerp(x0, at(x0, y1), x1, at(x1, y1), px)
	return lerp(y0, top, y1, bottom, py)
}

// lerp interpolates between (x0, f0) and (x1, f1) at x. Coincident
// endpoints return f0.
func lerp(x0, f0, x1, f1, x float64) float64 {
	if x0 == x1 {
		return f0
	}
	return f0 + (x-x0)*(f1-f0)/(x1-x0)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// advect returns the semi-Lagrangian update of interior cell (x, y) of src.
func (f *Fluid) advect(x, y int, src []float64) float64 {
	px, py := f.backtrace(x, y)
	return f.sample(px, py, src)
}

// advectPass writes every interior cell of dst from src.
func (f *Fluid) advectPass(dst, src []float64) {
	n := f.cfg.N
	for x := 1; x <= n; x++ {
		for y := 1; y <= n; y++ {
			dst[f.grid.Index(x, y)] = f.advect(x, y, src)
		}
	}
}

// advectVelocity advects both velocity components in place. Per cell, vx
// is written first and vy then traces back along the updated vx.
func (f *Fluid) advectVelocity() {
	n := f.cfg.N
	for x := 1; x <= n; x++ {
		for y := 1; y <= n; y++ {
			i := f.grid.Index(x, y)
			px, py := f.backtrace(x, y)
			f.vx[i] = f.sample(px, py, f.vx0)
			px, py = f.backtrace(x, y)
			f.vy[i] = f.sample(px, py, f.vy0)
		}
	}
}
