// Package analysis turns the per-frame statistics of a run into
// diagnostics:
//
//   - [NewSpectrum]: power spectrum of a sampled series (probe density,
//     total mass) and its dominant frequency
//   - [PhaseCurve] and [PhaseToASCII]: one series plotted against another
//   - [Response]: how a diffusion sweep's outcome varies with the rate
//
// # Oscillation Detection
//
// A swirl scene makes the probe density oscillate as fluid circulates
// past it:
//
//	s := analysis.NewSpectrum(result.Series(func(st sim.FrameStat) float64 { return st.Probe }), dt)
//	freq, _ := s.Dominant()
package analysis
