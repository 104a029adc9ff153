package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
)

// nextPow2 returns the smallest power of two >= n.
func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// PowerSpectrum returns the magnitude of the first half of the DFT of data
// after removing its mean and zero-padding it to a power of two.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}

	padded := make([]float64, nextPow2(len(data)))
	copy(padded, data)
	mean := floats.Sum(data) / float64(len(data))
	for i := range data {
		padded[i] -= mean
	}

	out := fft.FFTReal(padded)
	ps := make([]float64, len(out)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(out[i])
	}
	return ps
}

type Spectrum struct {
	Power []float64
	// Dt is the sample spacing of the input series.
	Dt float64
	// Size is the padded transform length.
	Size int
}

func NewSpectrum(series []float64, dt float64) Spectrum {
	ps := PowerSpectrum(series)
	return Spectrum{Power: ps, Dt: dt, Size: 2 * len(ps)}
}

// Frequency of bin k in cycles per unit time.
func (s Spectrum) Frequency(k int) float64 {
	if s.Size == 0 || s.Dt == 0 {
		return 0
	}
	return float64(k) / (float64(s.Size) * s.Dt)
}

// Dominant returns the frequency and power of the strongest non-DC bin.
func (s Spectrum) Dominant() (freq, power float64) {
	if len(s.Power) < 2 {
		return 0, 0
	}
	k := 1 + floats.MaxIdx(s.Power[1:])
	return s.Frequency(k), s.Power[k]
}
