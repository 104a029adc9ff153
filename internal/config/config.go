package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fluidsim/internal/fluid"
)

const (
	DefaultN         = 48
	DefaultDiffusion = 0.2
	DefaultDt        = fluid.DefaultDt
	DefaultFrames    = 200
	DefaultPalette   = "viridis"
	DefaultScale     = 4
	DefaultAddr      = ":8080"
	DefaultFPS       = 30
)

var ErrInvalid = errors.New("config: invalid configuration")

type Config struct {
	N         int          `yaml:"n"`
	Diffusion float64      `yaml:"diffusion"`
	Dt        float64      `yaml:"dt"`
	Frames    int          `yaml:"frames"`
	Seed      int64        `yaml:"seed"`
	Probe     *Point       `yaml:"probe,omitempty"`
	Sources   []Emitter    `yaml:"sources"`
	Render    RenderConfig `yaml:"render"`
	Server    ServerConfig `yaml:"server"`
}

type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Emitter injects density and velocity at one cell on every frame in
// [Start, Stop). Stop 0 keeps it on forever. Jitter adds seeded uniform
// noise of that amplitude to the velocity.
type Emitter struct {
	X       int     `yaml:"x"`
	Y       int     `yaml:"y"`
	Density float64 `yaml:"density"`
	VX      float64 `yaml:"vx"`
	VY      float64 `yaml:"vy"`
	Jitter  float64 `yaml:"jitter"`
	Start   int     `yaml:"start"`
	Stop    int     `yaml:"stop"`
}

type RenderConfig struct {
	Palette string `yaml:"palette"`
	Scale   int    `yaml:"scale"`
	Every   int    `yaml:"every"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	FPS  int    `yaml:"fps"`
}

func DefaultConfig() *Config {
	return &Config{
		N:         DefaultN,
		Diffusion: DefaultDiffusion,
		Dt:        DefaultDt,
		Frames:    DefaultFrames,
		Render: RenderConfig{
			Palette: DefaultPalette,
			Scale:   DefaultScale,
			Every:   1,
		},
		Server: ServerConfig{
			Addr: DefaultAddr,
			FPS:  DefaultFPS,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Fluid returns the solver configuration.
func (c *Config) Fluid() fluid.Config {
	return fluid.NewConfig(c.N, c.Diffusion)
}

// ProbePoint returns the cell whose density series is recorded. A nil
// probe means the grid centre.
func (c *Config) ProbePoint() Point {
	if c.Probe == nil {
		return Point{X: (c.N + 1) / 2, Y: (c.N + 1) / 2}
	}
	return *c.Probe
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Sources = append([]Emitter(nil), c.Sources...)
	if c.Probe != nil {
		p := *c.Probe
		cp.Probe = &p
	}
	return &cp
}

func (c *Config) Validate() error {
	if err := c.Fluid().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Dt <= 0 || math.IsNaN(c.Dt) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalid, c.Dt)
	}
	if c.Frames < 0 {
		return fmt.Errorf("%w: frames must not be negative, got %d", ErrInvalid, c.Frames)
	}

	g := fluid.NewGrid(c.N)
	p := c.ProbePoint()
	if _, err := g.CheckedIndex(p.X, p.Y); err != nil {
		return fmt.Errorf("%w: probe: %w", ErrInvalid, err)
	}
	for i, e := range c.Sources {
		if _, err := g.CheckedIndex(e.X, e.Y); err != nil {
			return fmt.Errorf("%w: source %d: %w", ErrInvalid, i, err)
		}
		if e.Start < 0 || (e.Stop != 0 && e.Stop <= e.Start) {
			return fmt.Errorf("%w: source %d: bad frame window [%d, %d)", ErrInvalid, i, e.Start, e.Stop)
		}
		if e.Jitter < 0 {
			return fmt.Errorf("%w: source %d: negative jitter", ErrInvalid, i)
		}
	}

	if c.Render.Scale < 1 {
		return fmt.Errorf("%w: render scale must be at least 1", ErrInvalid)
	}
	if c.Render.Every < 1 {
		return fmt.Errorf("%w: render every must be at least 1", ErrInvalid)
	}
	if c.Server.FPS < 1 {
		return fmt.Errorf("%w: server fps must be at least 1", ErrInvalid)
	}
	return nil
}
