package config

import "sort"

var Presets = map[string]*Config{
	"still": {
		N: 32, Diffusion: 0.2, Dt: 0.1, Frames: 50,
	},
	"puff": {
		N: 32, Diffusion: 0.5, Dt: 0.1, Frames: 150,
		Sources: []Emitter{
			{X: 16, Y: 16, Density: 400, Stop: 5},
		},
	},
	"jet": {
		N: 48, Diffusion: 0.1, Dt: 0.1, Frames: 300,
		Sources: []Emitter{
			{X: 4, Y: 24, Density: 60, VX: 40, Jitter: 4},
		},
	},
	"swirl": {
		N: 48, Diffusion: 0.05, Dt: 0.1, Frames: 400, Seed: 7,
		Sources: []Emitter{
			{X: 12, Y: 24, Density: 40, VY: -30, Jitter: 2},
			{X: 36, Y: 24, Density: 40, VY: 30, Jitter: 2},
			{X: 24, Y: 12, VX: 30},
			{X: 24, Y: 36, VX: -30},
		},
	},
}

// GetPreset returns a copy of the named preset with default render and
// server settings filled in, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := p.Clone()
	def := DefaultConfig()
	cfg.Render = def.Render
	cfg.Server = def.Server
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
