package config

import "sort"

var Presets = map[string]*Config{
	"classic": {
		Population: 1000, GenomeLength: 1000, MutationRate: 0.1, GoalReward: 10000,
		Generations: 50, FPS: 30, StepsPerFrame: 4,
	},
	"small": {
		Population: 200, GenomeLength: 800, MutationRate: 0.1, GoalReward: 10000,
		Generations: 100, FPS: 30, StepsPerFrame: 6,
	},
	"quick": {
		Population: 100, GenomeLength: 600, MutationRate: 0.05, GoalReward: 10000,
		Generations: 30, FPS: 60, StepsPerFrame: 10,
	},
	"hot": {
		Population: 500, GenomeLength: 1000, MutationRate: 0.3, GoalReward: 10000,
		Generations: 50, FPS: 30, StepsPerFrame: 4,
	},
	"cold": {
		Population: 500, GenomeLength: 1000, MutationRate: 0.01, GoalReward: 10000,
		Generations: 50, FPS: 30, StepsPerFrame: 4,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
