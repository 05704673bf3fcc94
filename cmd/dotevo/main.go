package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/san-kum/dotevo/internal/config"
	"github.com/spf13/cobra"
)

var (
	dataDir      string
	verbose      bool
	population   int
	genomeLength int
	mutationRate float64
	goalReward   float64
	generations  int
	seed         int64
	configFile   string
	preset       string
	svgPath      string
	noSave       bool
	// live view
	frameRate     int
	stepsPerFrame int
	theme         string
	// sweep and ensemble
	rates       string
	populations string
	metricName  string
	numRuns     int
)

// main registers the dotevo commands and exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:          "dotevo",
		Short:        "evolve dots that learn to reach a goal",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".dotevo", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run generations headless and save the run",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addParamFlags(runCmd)
	runCmd.Flags().StringVar(&svgPath, "svg", "", "write the final generation as SVG")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not save the run")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch the population evolve in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addParamFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	liveCmd.Flags().IntVar(&stepsPerFrame, "speed", config.DefaultStepsPerFrame, "ticks per frame")
	liveCmd.Flags().StringVar(&theme, "theme", "classic", "color theme")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "watch the population evolve in a window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	addParamFlags(guiCmd)
	guiCmd.Flags().IntVar(&frameRate, "fps", 60, "frame rate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run history",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "also write the step record as SVG")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search over mutation rate and population size",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addParamFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&rates, "rates", "0.01,0.05,0.1,0.2", "comma-separated mutation rates")
	sweepCmd.Flags().StringVar(&populations, "populations", "", "comma-separated population sizes")
	sweepCmd.Flags().StringVar(&metricName, "metric", "fewest_steps", "metric to minimise")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run several seeds in parallel and summarise them",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	addParamFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 4, "number of runs")

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run every step of a scenario file and save each run",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().BoolVar(&noSave, "no-save", false, "do not save the runs")

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, listCmd, plotCmd, exportJSONCmd, presetsCmd, sweepCmd, ensembleCmd, batchCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func addParamFlags(cmd *cobra.Command) {
	defaults := config.DefaultConfig()
	cmd.Flags().IntVar(&population, "population", defaults.Population, "number of dots")
	cmd.Flags().IntVar(&genomeLength, "genome", defaults.GenomeLength, "moves per genome")
	cmd.Flags().Float64Var(&mutationRate, "mutation", defaults.MutationRate, "per-move mutation probability")
	cmd.Flags().Float64Var(&goalReward, "reward", defaults.GoalReward, "fitness reward for reaching the goal")
	cmd.Flags().IntVar(&generations, "generations", defaults.Generations, "generations to run")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// resolveConfig layers the preset, then the config file, then any flags set
// on the command line.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		fileCfg, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = fileCfg
	}

	flags := cmd.Flags()
	if flags.Changed("population") {
		cfg.Population = population
	}
	if flags.Changed("genome") {
		cfg.GenomeLength = genomeLength
	}
	if flags.Changed("mutation") {
		cfg.MutationRate = mutationRate
	}
	if flags.Changed("reward") {
		cfg.GoalReward = goalReward
	}
	if flags.Changed("generations") {
		cfg.Generations = generations
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("fps") {
		cfg.FPS = frameRate
	}
	if flags.Changed("speed") {
		cfg.StepsPerFrame = stepsPerFrame
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
