package config

import (
	"fmt"
	"os"

	"github.com/san-kum/dotevo/internal/evo"
	"gopkg.in/yaml.v3"
)

const (
	DefaultGenerations   = 50
	DefaultFPS           = 30
	DefaultStepsPerFrame = 4
)

// Config is a run description as stored in YAML files and presets. The arena
// is fixed and therefore not part of it.
type Config struct {
	Population    int     `yaml:"population"`
	GenomeLength  int     `yaml:"genome_length"`
	MutationRate  float64 `yaml:"mutation_rate"`
	GoalReward    float64 `yaml:"goal_reward"`
	Generations   int     `yaml:"generations"`
	Seed          int64   `yaml:"seed"`
	FPS           int     `yaml:"fps"`
	StepsPerFrame int     `yaml:"steps_per_frame"`
}

func DefaultConfig() *Config {
	return &Config{
		Population:    evo.DefaultPopulation,
		GenomeLength:  evo.DefaultGenomeLength,
		MutationRate:  evo.DefaultMutationRate,
		GoalReward:    evo.DefaultGoalReward,
		Generations:   DefaultGenerations,
		FPS:           DefaultFPS,
		StepsPerFrame: DefaultStepsPerFrame,
	}
}

// Load reads a YAML file over the defaults, so a file may set only the
// fields it cares about.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a YAML file over a copy of base. base is not modified.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params converts the config into engine parameters on the default world.
func (c *Config) Params() evo.Params {
	return evo.Params{
		World:          evo.DefaultWorld(),
		PopulationSize: c.Population,
		GenomeLength:   c.GenomeLength,
		MutationRate:   c.MutationRate,
		GoalReward:     c.GoalReward,
		Seed:           c.Seed,
	}
}

func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if c.Generations < 0 {
		return fmt.Errorf("generations must not be negative, got %d", c.Generations)
	}
	if c.FPS < 0 || c.StepsPerFrame < 0 {
		return fmt.Errorf("fps and steps_per_frame must not be negative")
	}
	return nil
}
