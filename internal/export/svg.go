package export

import (
	"fmt"
	"image/color"
	"strings"
)

// DensityToSVG renders a density lattice (rows of y) as a heat map of
// cellSize-pixel squares. The border ring is skipped.
func DensityToSVG(grid [][]float64, palette string, cellSize float64) (string, error) {
	pal, err := Palette(palette)
	if err != nil {
		return "", err
	}

	side := len(grid)
	n := side - 2
	if n < 1 {
		return "", fmt.Errorf("export: lattice of %d rows has no interior", side)
	}

	max := 0.0
	for y := 1; y <= n; y++ {
		for x := 1; x <= n && x < len(grid[y]); x++ {
			if grid[y][x] > max {
				max = grid[y][x]
			}
		}
	}

	size := float64(n) * cellSize
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, size, size, size, size, hex(pal[0])))

	for y := 1; y <= n; y++ {
		for x := 1; x <= n && x < len(grid[y]); x++ {
			idx := level(grid[y][x], max)
			if idx == 0 {
				continue
			}
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, float64(x-1)*cellSize, float64(y-1)*cellSize, cellSize, cellSize, hex(pal[idx])))
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String(), nil
}

func hex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
