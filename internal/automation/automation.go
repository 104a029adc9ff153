// Package automation runs scripted sequences of scenes from a YAML file.
package automation

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/fluidsim/internal/config"
	"github.com/san-kum/fluidsim/internal/experiment"
	"github.com/san-kum/fluidsim/internal/sim"
	"github.com/san-kum/fluidsim/internal/storage"
)

var ErrEmptyScenario = errors.New("automation: scenario has no steps")

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is one scene run. Preset selects the base scene (the default scene
// when empty); the remaining fields override it when set.
type Step struct {
	Preset    string             `yaml:"preset"`
	N         int                `yaml:"n"`
	Diffusion *float64           `yaml:"diffusion"`
	Dt        float64            `yaml:"dt"`
	Frames    int                `yaml:"frames"`
	Seed      int64              `yaml:"seed"`
	Sources   []config.Emitter   `yaml:"sources"`
	SaveAs    string             `yaml:"save_as"`
	Expect    map[string]float64 `yaml:"expect_max"`
}

// StepResult is the outcome of one step. RunID is empty when the step was
// not saved.
type StepResult struct {
	Step   int
	Scene  string
	RunID  string
	Result *sim.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, ErrEmptyScenario
	}
	return &scenario, nil
}

// Scene resolves the configuration the step runs.
func (s Step) Scene() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	}
	if s.N != 0 {
		cfg.N = s.N
	}
	if s.Diffusion != nil {
		cfg.Diffusion = *s.Diffusion
	}
	if s.Dt != 0 {
		cfg.Dt = s.Dt
	}
	if s.Frames != 0 {
		cfg.Frames = s.Frames
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if len(s.Sources) > 0 {
		cfg.Sources = append([]config.Emitter(nil), s.Sources...)
	}
	return cfg, cfg.Validate()
}

func (s Step) name() string {
	switch {
	case s.SaveAs != "":
		return s.SaveAs
	case s.Preset != "":
		return s.Preset
	}
	return "step"
}

// RunScenario executes all steps in order. Steps with SaveAs set are
// written to st when st is not nil. A step whose metrics exceed an
// expect_max bound fails the scenario.
func RunScenario(ctx context.Context, scenario *Scenario, st *storage.Store, logger *log.Logger) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		logger.Info("running step", "step", i+1, "of", len(scenario.Steps), "scene", step.name())

		cfg, err := step.Scene()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		exp, err := experiment.New(cfg)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: i + 1, Scene: step.name(), Result: result}
		if step.SaveAs != "" && st != nil {
			sr.RunID, err = st.Save(storage.RunMetadata{
				Scene:     step.SaveAs,
				Seed:      cfg.Seed,
				N:         cfg.N,
				Diffusion: cfg.Diffusion,
				Dt:        cfg.Dt,
				Sources:   len(cfg.Sources),
			}, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			logger.Info("saved step", "step", i+1, "run", sr.RunID)
		}
		results = append(results, sr)

		for name, bound := range step.Expect {
			got, ok := result.Metrics[name]
			if !ok {
				return results, fmt.Errorf("step %d: unknown metric %s", i+1, name)
			}
			if got > bound {
				return results, fmt.Errorf("step %d: %s = %g exceeds %g", i+1, name, got, bound)
			}
		}
	}

	return results, nil
}
