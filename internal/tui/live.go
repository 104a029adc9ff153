package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/fluidsim/internal/fluid"
	"github.com/san-kum/fluidsim/internal/sim"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// Ramp orders shade characters from empty to dense.
const Ramp = " .:-=+*#%@"

// Shade maps v in [0, max] onto Ramp.
func Shade(v, max float64) byte {
	if max <= 0 || v <= 0 {
		return Ramp[0]
	}
	i := int(v / max * float64(len(Ramp)-1))
	if i >= len(Ramp) {
		i = len(Ramp) - 1
	}
	return Ramp[i]
}

// Printer is a sim.Observer that repaints the interior density as shade
// characters, at most frameRate times per second. frameRate 0 repaints
// every frame.
type Printer struct {
	out       io.Writer
	name      string
	frameRate int
	lastFrame time.Time
	clear     bool
	buf       []float64
}

func NewPrinter(out io.Writer, name string, frameRate int) *Printer {
	return &Printer{out: out, name: name, frameRate: frameRate, clear: true}
}

// NoClear disables the ANSI clear sequence, for non-terminal writers.
func (p *Printer) NoClear() *Printer {
	p.clear = false
	return p
}

func (p *Printer) OnFrame(f *fluid.Fluid, stat sim.FrameStat) {
	if p.frameRate > 0 {
		if time.Since(p.lastFrame) < time.Second/time.Duration(p.frameRate) {
			return
		}
		p.lastFrame = time.Now()
	}

	if len(p.buf) != f.BufferLength() {
		p.buf = make([]float64, f.BufferLength())
	}
	f.CopyDensity(p.buf)
	fmt.Fprint(p.out, p.render(f.Grid(), stat))
}

func (p *Printer) render(g fluid.Grid, stat sim.FrameStat) string {
	var b strings.Builder
	if p.clear {
		b.WriteString(clearScreen)
	}
	b.WriteString(fmt.Sprintf("  %s  frame=%d  mass=%.3f  peak=%.3f\n", p.name, stat.Frame, stat.Mass, stat.Peak))
	b.WriteString("  +" + strings.Repeat("-", g.N) + "+\n")

	for y := 1; y <= g.N; y++ {
		b.WriteString("  |")
		for x := 1; x <= g.N; x++ {
			b.WriteByte(Shade(p.buf[g.Index(x, y)], stat.Peak))
		}
		b.WriteString("|\n")
	}

	b.WriteString("  +" + strings.Repeat("-", g.N) + "+\n")
	return b.String()
}

func (p *Printer) Start() { fmt.Fprint(p.out, hideCursor) }
func (p *Printer) Stop()  { fmt.Fprint(p.out, showCursor) }
