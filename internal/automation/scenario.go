// Package automation runs scripted batches of evolution runs described in
// YAML.
package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/san-kum/dotevo/internal/config"
	"github.com/san-kum/dotevo/internal/evo"
	"github.com/san-kum/dotevo/internal/sim"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted sequence of runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run. Zero fields keep the value of the preset,
// or of the defaults when no preset is named.
type ScenarioStep struct {
	SaveAs       string  `yaml:"save_as"`
	Preset       string  `yaml:"preset"`
	Population   int     `yaml:"population"`
	GenomeLength int     `yaml:"genome_length"`
	MutationRate float64 `yaml:"mutation_rate"`
	GoalReward   float64 `yaml:"goal_reward"`
	Generations  int     `yaml:"generations"`
	Seed         int64   `yaml:"seed"`
}

// StepResult pairs a finished run with the config it ran with.
type StepResult struct {
	Name   string
	Config *config.Config
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
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// Config resolves the step against its preset and validates the result.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		if cfg = config.GetPreset(s.Preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	}
	if s.Population != 0 {
		cfg.Population = s.Population
	}
	if s.GenomeLength != 0 {
		cfg.GenomeLength = s.GenomeLength
	}
	if s.MutationRate != 0 {
		cfg.MutationRate = s.MutationRate
	}
	if s.GoalReward != 0 {
		cfg.GoalReward = s.GoalReward
	}
	if s.Generations != 0 {
		cfg.Generations = s.Generations
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s ScenarioStep) name(i int) string {
	switch {
	case s.SaveAs != "":
		return s.SaveAs
	case s.Preset != "":
		return s.Preset
	}
	return fmt.Sprintf("step%d", i+1)
}

// RunScenario executes all steps in order. build wraps each step's
// parameters in a simulator. On error the steps that finished are
// returned with it.
func RunScenario(
	ctx context.Context,
	scenario *Scenario,
	build func(p evo.Params) (*sim.Simulator, error),
	logger *slog.Logger,
) ([]StepResult, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.name(i)
		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		logger.Info("scenario step", "step", i+1, "of", len(scenario.Steps), "name", name, "generations", cfg.Generations)

		s, err := build(cfg.Params())
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := s.Run(ctx, sim.Config{Generations: cfg.Generations})
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Name: name, Config: cfg, Result: result})
	}

	return results, nil
}
