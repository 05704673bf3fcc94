package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/dotevo/internal/automation"
	"github.com/san-kum/dotevo/internal/config"
	"github.com/san-kum/dotevo/internal/evo"
	"github.com/san-kum/dotevo/internal/export"
	"github.com/san-kum/dotevo/internal/gui"
	"github.com/san-kum/dotevo/internal/metrics"
	"github.com/san-kum/dotevo/internal/optim"
	"github.com/san-kum/dotevo/internal/sim"
	"github.com/san-kum/dotevo/internal/storage"
	"github.com/san-kum/dotevo/internal/viz"
	"github.com/spf13/cobra"
)

func newSimulator(p evo.Params, logger *slog.Logger) (*sim.Simulator, error) {
	pop, err := evo.NewPopulation(p)
	if err != nil {
		return nil, err
	}
	s := sim.New(pop, sim.WithLogger(logger))
	for _, m := range metrics.Defaults() {
		s.AddMetric(m)
	}
	return s, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger()

	s, err := newSimulator(cfg.Params(), logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	fmt.Printf("running %d generations of %d dots (seed %d)...\n", cfg.Generations, cfg.Population, cfg.Seed)
	start := time.Now()

	result, err := s.Run(ctx, sim.Config{Generations: cfg.Generations})
	if err != nil {
		if !errors.Is(err, context.Canceled) || len(result.History) == 0 {
			return err
		}
		logger.Warn("interrupted", "completed", len(result.History))
	}

	elapsed := time.Since(start)
	last, _ := result.Last()

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("generations: %d\n", len(result.History))
	fmt.Printf("ticks: %d\n", result.Ticks)
	fmt.Printf("last generation: %d reached, %d dead\n", last.Reached, last.Dead)
	if last.MinStep > 0 {
		fmt.Printf("fewest steps taken: %d\n", last.MinStep)
	} else {
		fmt.Println("fewest steps taken: goal not reached yet")
	}

	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)

	if records := stepRecords(result.History); len(records) > 1 {
		chart := asciigraph.Plot(records, asciigraph.Height(10), asciigraph.Width(60), asciigraph.Caption("fewest steps"))
		fmt.Printf("\n%s\n", chart)
	}

	if svgPath != "" && len(result.Final) > 0 {
		svg := export.ArenaSVG(cfg.Params().World, result.Final)
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("\nfinal generation written to %s\n", svgPath)
	}

	if noSave {
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	name := preset
	if name == "" {
		name = "custom"
	}
	runID, err := st.Save(newMetadata(name, cfg, result.Metrics), result.History)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func newMetadata(name string, cfg *config.Config, m map[string]float64) *storage.RunMetadata {
	return &storage.RunMetadata{
		Name:         name,
		Seed:         cfg.Seed,
		Population:   cfg.Population,
		GenomeLength: cfg.GenomeLength,
		MutationRate: cfg.MutationRate,
		GoalReward:   cfg.GoalReward,
		Metrics:      m,
	}
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, m[name])
	}
}

// stepRecords returns the step record of every generation that had one.
func stepRecords(history []evo.GenerationStats) []float64 {
	out := make([]float64, 0, len(history))
	for _, g := range history {
		if g.MinStep > 0 {
			out = append(out, float64(g.MinStep))
		}
	}
	return out
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("generations") && configFile == "" && preset == "" {
		cfg.Generations = 0
	}

	// Log records would tear the alt screen, so they are dropped unless
	// verbose output was asked for.
	logger := slog.New(slog.DiscardHandler)
	if verbose {
		logger = newLogger()
	}
	s, err := newSimulator(cfg.Params(), logger)
	if err != nil {
		return err
	}

	model := viz.NewLive(cmd.Context(), s, viz.LiveConfig{
		FPS:           cfg.FPS,
		StepsPerFrame: cfg.StepsPerFrame,
		Generations:   cfg.Generations,
		Theme:         theme,
	})
	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if live, ok := final.(viz.Live); ok && live.Err() != nil {
		return live.Err()
	}
	return nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	s, err := newSimulator(cfg.Params(), newLogger())
	if err != nil {
		return err
	}
	return gui.Run(cmd.Context(), s, frameRate)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tGENS\tPOP\tGENOME\tMUTATION\tSEED\tFEWEST")

	for _, run := range runs {
		fewest := "-"
		if v := run.Metrics["fewest_steps"]; v > 0 {
			fewest = strconv.Itoa(int(v))
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%.3f\t%d\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Generations,
			run.Population,
			run.GenomeLength,
			run.MutationRate,
			run.Seed,
			fewest,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	history, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}
	if len(history) < 2 {
		return fmt.Errorf("run %s has too few generations to plot", runID)
	}

	reached := make([]float64, len(history))
	best := make([]float64, len(history))
	for i, g := range history {
		reached[i] = float64(g.Reached)
		best[i] = g.BestFitness
	}

	fmt.Printf("run %s (%d generations, %d dots)\n\n", meta.ID, meta.Generations, meta.Population)
	fmt.Println(asciigraph.Plot(reached, asciigraph.Height(10), asciigraph.Width(60), asciigraph.Caption("dots reaching the goal")))
	fmt.Println()
	fmt.Println(asciigraph.Plot(best, asciigraph.Height(10), asciigraph.Width(60), asciigraph.Caption("best fitness")))

	records := stepRecords(history)
	if len(records) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(records, asciigraph.Height(10), asciigraph.Width(60), asciigraph.Caption("fewest steps")))
	}

	if svgPath != "" {
		if len(records) < 2 {
			return fmt.Errorf("run %s has no step record to write", runID)
		}
		if err := os.WriteFile(svgPath, []byte(export.SeriesToSVG(records, 800, 300, "#00ff88")), 0644); err != nil {
			return err
		}
		fmt.Printf("\nstep record written to %s\n", svgPath)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPOP\tGENOME\tMUTATION\tGENS")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%d\t%.2f\t%d\n", name, p.Population, p.GenomeLength, p.MutationRate, p.Generations)
	}
	return w.Flush()
}

func parseFloats(s string) ([]float64, error) {
	var out []float64
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", f, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	var names []string
	var ranges [][]float64
	if rs, err := parseFloats(rates); err != nil {
		return fmt.Errorf("--rates: %w", err)
	} else if len(rs) > 0 {
		names = append(names, optim.ParamMutationRate)
		ranges = append(ranges, rs)
	}
	if ps, err := parseFloats(populations); err != nil {
		return fmt.Errorf("--populations: %w", err)
	} else if len(ps) > 0 {
		names = append(names, optim.ParamPopulation)
		ranges = append(ranges, ps)
	}
	if len(names) == 0 {
		return fmt.Errorf("nothing to sweep: set --rates or --populations")
	}

	logger := newLogger()
	quiet := slog.New(slog.DiscardHandler)
	if verbose {
		quiet = logger
	}
	build := func(values map[string]float64) (*sim.Simulator, error) {
		p, err := optim.ApplyParams(cfg.Params(), values)
		if err != nil {
			return nil, err
		}
		logger.Info("sweep point", "params", values)
		return newSimulator(p, quiet)
	}

	ctx := cmd.Context()
	gs := optim.NewGridSearch(names, ranges)
	points, err := gs.SearchAll(ctx, build, sim.Config{Generations: cfg.Generations}, metricName)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(names, "\t"))+"\t"+strings.ToUpper(metricName))
	for _, pt := range points {
		for _, name := range names {
			fmt.Fprintf(w, "%g\t", pt.Params[name])
		}
		fmt.Fprintf(w, "%.6g\n", pt.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	best, _ := optim.Best(points)
	if best.Value == 0 {
		fmt.Printf("\nno combination produced a %s value\n", metricName)
		return nil
	}
	fmt.Printf("\nbest %s: %.6g with", metricName, best.Value)
	for _, name := range names {
		fmt.Printf(" %s=%g", name, best.Params[name])
	}
	fmt.Println()
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if numRuns <= 0 {
		return fmt.Errorf("--runs must be positive, got %d", numRuns)
	}

	quiet := slog.New(slog.DiscardHandler)
	if verbose {
		quiet = newLogger()
	}
	ens := sim.NewEnsemble(cfg.Params(), numRuns, func(pop *evo.Population) *sim.Simulator {
		s := sim.New(pop, sim.WithLogger(quiet.With("seed", pop.Params().Seed)))
		for _, m := range metrics.Defaults() {
			s.AddMetric(m)
		}
		return s
	})

	ctx := cmd.Context()
	fmt.Printf("running %d seeds x %d generations...\n", numRuns, cfg.Generations)
	start := time.Now()
	results, err := ens.Run(ctx, sim.Config{Generations: cfg.Generations})
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	names := metrics.Names()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\t"+strings.ToUpper(strings.Join(names, "\t")))
	sums := make([]float64, len(names))
	for i, r := range results {
		fmt.Fprintf(w, "%d", cfg.Seed+int64(i))
		for j, name := range names {
			v := r.Metrics[name]
			sums[j] += v
			fmt.Fprintf(w, "\t%.6g", v)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprint(w, "MEAN")
	for _, sum := range sums {
		fmt.Fprintf(w, "\t%.6g", sum/float64(len(results)))
	}
	fmt.Fprintln(w)
	return w.Flush()
}

func runBatch(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	logger := newLogger()

	quiet := slog.New(slog.DiscardHandler)
	if verbose {
		quiet = logger
	}
	build := func(p evo.Params) (*sim.Simulator, error) { return newSimulator(p, quiet) }

	base := time.Now().UnixNano()
	for i := range scenario.Steps {
		if scenario.Steps[i].Seed == 0 {
			scenario.Steps[i].Seed = base + int64(i)
		}
	}

	results, runErr := automation.RunScenario(cmd.Context(), scenario, build, logger)

	var st *storage.Store
	if !noSave && len(results) > 0 {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tGENS\tPOP\tMUTATION\tFIRST_SOLVE\tFEWEST\tRUN_ID")
	for _, r := range results {
		runID := "-"
		if st != nil {
			id, err := st.Save(newMetadata(r.Name, r.Config, r.Result.Metrics), r.Result.History)
			if err != nil {
				return err
			}
			runID = id
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%.3f\t%g\t%g\t%s\n",
			r.Name,
			len(r.Result.History),
			r.Config.Population,
			r.Config.MutationRate,
			r.Result.Metrics["first_solve"],
			r.Result.Metrics["fewest_steps"],
			runID,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}
