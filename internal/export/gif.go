package export

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"io"

	"github.com/san-kum/fluidsim/internal/fluid"
	"github.com/san-kum/fluidsim/internal/sim"
)

var ErrNoFrames = errors.New("export: no frames recorded")

type GIFOptions struct {
	Palette string
	// Scale is the pixel size of one cell.
	Scale int
	// Every records one frame in Every.
	Every int
	// Max fixes the density mapped to the top of the palette. Zero
	// normalises each frame to its own peak.
	Max float64
	// Delay between frames in 100ths of a second.
	Delay int
}

// GIFRecorder is a sim.Observer that collects the interior density of
// every recorded frame as a paletted image.
type GIFRecorder struct {
	n       int
	opts    GIFOptions
	palette color.Palette
	pool    *sim.FramePool
	frames  []*image.Paletted
	seen    int
}

func NewGIFRecorder(n int, opts GIFOptions) (*GIFRecorder, error) {
	pal, err := Palette(opts.Palette)
	if err != nil {
		return nil, err
	}
	if opts.Scale < 1 {
		opts.Scale = 1
	}
	if opts.Every < 1 {
		opts.Every = 1
	}
	if opts.Delay <= 0 {
		opts.Delay = 4
	}
	return &GIFRecorder{
		n:       n,
		opts:    opts,
		palette: pal,
		pool:    sim.NewFramePool(fluid.NewGrid(n).Size()),
	}, nil
}

func (r *GIFRecorder) OnFrame(f *fluid.Fluid, stat sim.FrameStat) {
	r.seen++
	if (r.seen-1)%r.opts.Every != 0 {
		return
	}
	buf := r.pool.Snapshot(f)
	r.AddFrame(buf)
	r.pool.Put(buf)
}

// AddFrame renders one full-lattice density buffer.
func (r *GIFRecorder) AddFrame(density []float64) {
	g := fluid.NewGrid(r.n)
	s := r.opts.Scale
	img := image.NewPaletted(image.Rect(0, 0, r.n*s, r.n*s), r.palette)

	max := r.opts.Max
	if max == 0 {
		for y := 1; y <= r.n; y++ {
			for x := 1; x <= r.n; x++ {
				if v := density[g.Index(x, y)]; v > max {
					max = v
				}
			}
		}
	}

	for y := 1; y <= r.n; y++ {
		for x := 1; x <= r.n; x++ {
			idx := level(density[g.Index(x, y)], max)
			for py := 0; py < s; py++ {
				row := img.Pix[((y-1)*s+py)*img.Stride:]
				for px := 0; px < s; px++ {
					row[(x-1)*s+px] = idx
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

func (r *GIFRecorder) Len() int { return len(r.frames) }

func (r *GIFRecorder) Encode(w io.Writer) error {
	if len(r.frames) == 0 {
		return ErrNoFrames
	}
	anim := gif.GIF{
		Image: r.frames,
		Delay: make([]int, len(r.frames)),
	}
	for i := range anim.Delay {
		anim.Delay[i] = r.opts.Delay
	}
	return gif.EncodeAll(w, &anim)
}
