package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/fluidsim/internal/fluid"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.N != DefaultN {
		t.Errorf("expected n %d, got %d", DefaultN, cfg.N)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("puff")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0].Density != 400 {
		t.Errorf("unexpected puff sources: %+v", cfg.Sources)
	}
	if cfg.Render.Palette != DefaultPalette {
		t.Errorf("expected palette %s, got %s", DefaultPalette, cfg.Render.Palette)
	}

	cfg.Sources[0].Density = 1
	if Presets["puff"].Sources[0].Density != 400 {
		t.Error("GetPreset returned a shared config")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsValid(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			if err := GetPreset(name).Validate(); err != nil {
				t.Errorf("preset %s invalid: %v", name, err)
			}
		})
	}
}

func TestListPresetsSorted(t *testing.T) {
	names := ListPresets()
	want := []string{"jet", "puff", "still", "swirl"}
	if len(names) != len(want) {
		t.Fatalf("expected %d presets, got %d", len(want), len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("presets[%d] = %s, want %s", i, names[i], want[i])
		}
	}
}

func TestProbePoint(t *testing.T) {
	cfg := DefaultConfig()
	cfg.N = 9
	if p := cfg.ProbePoint(); p != (Point{X: 5, Y: 5}) {
		t.Errorf("default probe = %+v, want centre (5,5)", p)
	}

	cfg.Probe = &Point{X: 2, Y: 3}
	if p := cfg.ProbePoint(); p != (Point{X: 2, Y: 3}) {
		t.Errorf("probe = %+v, want (2,3)", p)
	}

	cfg.Probe = &Point{}
	if p := cfg.ProbePoint(); p != (Point{}) {
		t.Errorf("probe = %+v, want the corner cell (0,0)", p)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("corner probe rejected: %v", err)
	}
}

func TestProbeCornerFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corner.yaml")
	if err := os.WriteFile(path, []byte("n: 4\nprobe: {x: 0, y: 0}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Probe == nil || cfg.ProbePoint() != (Point{}) {
		t.Errorf("probe = %v, want (0,0)", cfg.Probe)
	}
}

func TestCloneCopiesProbe(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Probe = &Point{X: 1, Y: 1}
	cp := cfg.Clone()
	cp.Probe.X = 7
	if cfg.Probe.X != 1 {
		t.Error("Clone shares the probe with the original")
	}
}

func TestValidateKeepsCause(t *testing.T) {
	cfg := DefaultConfig()
	cfg.N = 0
	err := cfg.Validate()
	if !errors.Is(err, ErrInvalid) || !errors.Is(err, fluid.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalid wrapping fluid.ErrInvalidConfig, got %v", err)
	}

	cfg = DefaultConfig()
	cfg.Probe = &Point{X: 100, Y: 1}
	if err := cfg.Validate(); !errors.Is(err, fluid.ErrOutOfBounds) {
		t.Errorf("expected fluid.ErrOutOfBounds, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero n", func(c *Config) { c.N = 0 }},
		{"negative diffusion", func(c *Config) { c.Diffusion = -1 }},
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative frames", func(c *Config) { c.Frames = -5 }},
		{"probe outside", func(c *Config) { c.Probe = &Point{X: 100, Y: 1} }},
		{"source outside", func(c *Config) { c.Sources = []Emitter{{X: -1, Y: 3}} }},
		{"source window", func(c *Config) { c.Sources = []Emitter{{X: 1, Y: 1, Start: 10, Stop: 5}} }},
		{"negative jitter", func(c *Config) { c.Sources = []Emitter{{X: 1, Y: 1, Jitter: -1}} }},
		{"zero scale", func(c *Config) { c.Render.Scale = 0 }},
		{"zero fps", func(c *Config) { c.Server.FPS = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")

	cfg := GetPreset("swirl")
	cfg.Probe = &Point{X: 10, Y: 11}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.N != cfg.N || loaded.Diffusion != cfg.Diffusion || loaded.Seed != cfg.Seed {
		t.Errorf("loaded %+v, want %+v", loaded, cfg)
	}
	if len(loaded.Sources) != 4 || loaded.Sources[0].VY != -30 {
		t.Errorf("sources not round-tripped: %+v", loaded.Sources)
	}
	if loaded.Probe == nil || *loaded.Probe != *cfg.Probe {
		t.Errorf("probe = %+v, want %+v", loaded.Probe, cfg.Probe)
	}
}
