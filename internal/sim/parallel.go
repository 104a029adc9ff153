package sim

import (
	"context"
	"fmt"
	"sync"
)

// Factory builds an independent Simulator for one diffusion rate. seed is
// distinct per run.
type Factory func(diffusion float64, seed int64) (*Simulator, error)

// Sweep runs one Simulator per diffusion rate concurrently. Each run owns
// its Fluid; nothing is shared between goroutines.
type Sweep struct {
	rates     []float64
	build     Factory
	seedStart int64
}

func NewSweep(rates []float64, build Factory, seedStart int64) *Sweep {
	return &Sweep{rates: rates, build: build, seedStart: seedStart}
}

// Run returns results in the order of the rates.
func (sw *Sweep) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(sw.rates))
	errs := make([]error, len(sw.rates))

	var wg sync.WaitGroup
	for i, rate := range sw.rates {
		wg.Add(1)
		go func(idx int, rate float64) {
			defer wg.Done()

			s, err := sw.build(rate, sw.seedStart+int64(idx))
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = s.Run(ctx, cfg)
		}(i, rate)
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("diffusion %g: %w", sw.rates[i], err)
		}
	}

	return results, nil
}
