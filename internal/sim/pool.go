package sim

import (
	"sync"

	"github.com/san-kum/fluidsim/internal/fluid"
)

// FramePool recycles density snapshot buffers of one grid size.
type FramePool struct {
	pool sync.Pool
	size int
}

func NewFramePool(size int) *FramePool {
	return &FramePool{
		size: size,
		pool: sync.Pool{
			New: func() interface{} {
				return make([]float64, size)
			},
		},
	}
}

func (p *FramePool) Size() int { return p.size }

func (p *FramePool) Get() []float64 {
	return p.pool.Get().([]float64)
}

// Put returns buf to the pool. Buffers of the wrong size are dropped.
func (p *FramePool) Put(buf []float64) {
	if len(buf) == p.size {
		for i := range buf {
			buf[i] = 0
		}
		p.pool.Put(buf)
	}
}

// Snapshot copies the current density of f into a pooled buffer.
func (p *FramePool) Snapshot(f *fluid.Fluid) []float64 {
	dst := p.Get()
	f.CopyDensity(dst)
	return dst
}
