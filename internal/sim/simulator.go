package sim

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/dotevo/internal/evo"
)

const ctxCheckInterval = 64

type Simulator struct {
	pop       *evo.Population
	metrics   []Metric
	observers []Observer
	frames    []FrameObserver
	logger    *slog.Logger
	views     []evo.AgentView
}

type Option func(*Simulator)

func WithLogger(l *slog.Logger) Option         { return func(s *Simulator) { s.logger = l } }
func WithMetric(m Metric) Option               { return func(s *Simulator) { s.metrics = append(s.metrics, m) } }
func WithObserver(o Observer) Option           { return func(s *Simulator) { s.observers = append(s.observers, o) } }
func WithFrameObserver(o FrameObserver) Option { return func(s *Simulator) { s.frames = append(s.frames, o) } }

func New(pop *evo.Population, opts ...Option) *Simulator {
	s := &Simulator{
		pop:       pop,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddMetric(m Metric)               { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)           { s.observers = append(s.observers, o) }
func (s *Simulator) AddFrameObserver(o FrameObserver) { s.frames = append(s.frames, o) }

func (s *Simulator) Population() *evo.Population { return s.pop }

// RunGeneration ticks the population until every agent has stopped, then
// replaces it with the next generation.
func (s *Simulator) RunGeneration(ctx context.Context) (evo.GenerationStats, error) {
	limit := s.pop.Params().GenomeLength + 1
	for !s.pop.AllInactive() {
		if s.pop.Ticks() >= limit {
			return evo.GenerationStats{}, fmt.Errorf("generation %d: %w", s.pop.Generation(), ErrRunawayGeneration)
		}
		if s.pop.Ticks()%ctxCheckInterval == 0 {
			select {
			case <-ctx.Done():
				return evo.GenerationStats{}, ctx.Err()
			default:
			}
		}
		s.pop.Tick()
	}

	s.views = s.pop.Views(s.views)
	for _, f := range s.frames {
		f.OnFrame(s.pop.Generation(), s.views)
	}

	prev, hadRecord := s.pop.MinStep()
	stats := s.pop.Advance()
	s.log(stats, prev, hadRecord)

	for _, m := range s.metrics {
		m.Observe(stats)
	}
	for _, o := range s.observers {
		o.OnGeneration(stats)
	}
	return stats, nil
}

func (s *Simulator) log(stats evo.GenerationStats, prev int, hadRecord bool) {
	if stats.MinStep != 0 && (!hadRecord || stats.MinStep < prev) {
		s.logger.Info("new step record", "gen", stats.Generation, "steps", stats.MinStep)
	}
	s.logger.Info("generation",
		"gen", stats.Generation,
		"best_fitness", stats.BestFitness,
		"reached", stats.Reached,
		"dead", stats.Dead,
		"min_step", stats.MinStep,
		"ticks", stats.Ticks,
	)
	s.logger.Debug("fitness", "gen", stats.Generation, "mean", stats.MeanFitness, "sum", stats.FitnessSum, "best_index", stats.BestIndex)
}

// Run advances cfg.Generations generations. If ctx is cancelled part way,
// the returned Result still covers the generations that finished.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result := &Result{
		History: make([]evo.GenerationStats, 0, cfg.Generations),
		Metrics: make(map[string]float64),
	}
	defer s.finish(result)

	for i := 0; i < cfg.Generations; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		stats, err := s.RunGeneration(ctx)
		if err != nil {
			return result, err
		}
		result.History = append(result.History, stats)
		result.Ticks += stats.Ticks
	}

	return result, nil
}

func (s *Simulator) finish(result *Result) {
	if len(result.History) > 0 {
		result.Final = make([]evo.AgentView, len(s.views))
		copy(result.Final, s.views)
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Generations <= 0 {
		return fmt.Errorf("generations must be positive, got %d", cfg.Generations)
	}
	return nil
}
