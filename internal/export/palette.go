package export

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/mazznoer/colorgrad"
)

var ErrUnknownPalette = errors.New("export: unknown palette")

var gradients = map[string]func() colorgrad.Gradient{
	"viridis": colorgrad.Viridis,
	"inferno": colorgrad.Inferno,
	"magma":   colorgrad.Magma,
	"plasma":  colorgrad.Plasma,
	"turbo":   colorgrad.Turbo,
}

// Palette returns a 256-entry palette sampled from the named gradient.
// Index 0 is the colour of zero density.
func Palette(name string) (color.Palette, error) {
	fn, ok := gradients[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPalette, name)
	}
	pal := color.Palette{}
	for _, c := range fn().Colors(256) {
		pal = append(pal, c)
	}
	return pal, nil
}

func ListPalettes() []string {
	names := make([]string, 0, len(gradients))
	for name := range gradients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// level maps v in [0, max] to a palette index, clamping outside values.
func level(v, max float64) uint8 {
	if max <= 0 || v <= 0 || math.IsNaN(v) {
		return 0
	}
	t := v / max
	if t >= 1 {
		return 255
	}
	return uint8(t * 255)
}
