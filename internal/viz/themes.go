package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI. Ramp runs from empty to dense
// cells.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Muted     lipgloss.Color
	Warning   lipgloss.Color
	Ramp      []lipgloss.Color
}

var (
	ThemeOcean = Theme{
		Name:      "ocean",
		Primary:   lipgloss.Color("#00a8cc"),
		Secondary: lipgloss.Color("#0077be"),
		Accent:    lipgloss.Color("#ffd700"),
		Muted:     lipgloss.Color("#4488aa"),
		Warning:   lipgloss.Color("#ffcc00"),
		Ramp: []lipgloss.Color{
			"#000814", "#001d3d", "#003566", "#005f99",
			"#0089c7", "#22b1e0", "#7fd6f0", "#e0f7ff",
		},
	}

	ThemeEmber = Theme{
		Name:      "ember",
		Primary:   lipgloss.Color("#ff6b35"),
		Secondary: lipgloss.Color("#feca57"),
		Accent:    lipgloss.Color("#00ffff"),
		Muted:     lipgloss.Color("#8b6b5c"),
		Warning:   lipgloss.Color("#ff4757"),
		Ramp: []lipgloss.Color{
			"#0a0000", "#3d0000", "#6a0400", "#9d1a00",
			"#d13c00", "#f07010", "#fbb040", "#fff1c0",
		},
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#00ff00"),
		Secondary: lipgloss.Color("#00cc00"),
		Accent:    lipgloss.Color("#ffff00"),
		Muted:     lipgloss.Color("#005500"),
		Warning:   lipgloss.Color("#ff0000"),
		Ramp: []lipgloss.Color{
			"#000800", "#002200", "#003d00", "#005a00",
			"#008000", "#00a800", "#33d633", "#aaffaa",
		},
	}

	ThemeMono = Theme{
		Name:      "mono",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Accent:    lipgloss.Color("#0088ff"),
		Muted:     lipgloss.Color("#888888"),
		Warning:   lipgloss.Color("#ffaa00"),
		Ramp: []lipgloss.Color{
			"#000000", "#1c1c1c", "#383838", "#555555",
			"#717171", "#8e8e8e", "#c6c6c6", "#ffffff",
		},
	}

	ThemeNeon = Theme{
		Name:      "neon",
		Primary:   lipgloss.Color("#ff00ff"),
		Secondary: lipgloss.Color("#00ffff"),
		Accent:    lipgloss.Color("#ffff00"),
		Muted:     lipgloss.Color("#666666"),
		Warning:   lipgloss.Color("#ff8800"),
		Ramp: []lipgloss.Color{
			"#0a0a0a", "#1a0033", "#3d0066", "#6a0099",
			"#a000c8", "#d400e6", "#ff55ff", "#ffccff",
		},
	}

	// Default theme
	CurrentTheme = ThemeOcean

	Themes = []Theme{
		ThemeOcean,
		ThemeEmber,
		ThemeRetroGreen,
		ThemeMono,
		ThemeNeon,
	}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeOcean
}

// SetTheme changes the current theme
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme returns the theme after name, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
