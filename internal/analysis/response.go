package analysis

import (
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/fluidsim/internal/sim"
)

// RatePoint summarises one run of a diffusion sweep.
type RatePoint struct {
	Rate      float64
	FinalMass float64
	Peak      float64
	MeanProbe float64
	StdProbe  float64
}

// Response pairs each rate with the outcome of its run. results[i] must be
// the run for rates[i]; nil results are skipped.
func Response(rates []float64, results []*sim.Result) []RatePoint {
	points := make([]RatePoint, 0, len(rates))
	for i, rate := range rates {
		if i >= len(results) || results[i] == nil || len(results[i].Frames) == 0 {
			continue
		}
		r := results[i]
		probe := r.Series(func(s sim.FrameStat) float64 { return s.Probe })
		peaks := r.Series(func(s sim.FrameStat) float64 { return s.Peak })

		p := RatePoint{
			Rate:      rate,
			FinalMass: r.Frames[len(r.Frames)-1].Mass,
			MeanProbe: stat.Mean(probe, nil),
		}
		if len(probe) > 1 {
			p.StdProbe = stat.StdDev(probe, nil)
		}
		for _, v := range peaks {
			p.Peak = max(p.Peak, v)
		}
		points = append(points, p)
	}
	return points
}
