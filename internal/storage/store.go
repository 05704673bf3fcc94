package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/dotevo/internal/evo"
)

const (
	metadataFile    = "metadata.json"
	generationsFile = "generations.csv"
)

var csvHeader = []string{
	"generation", "best_fitness", "mean_fitness", "fitness_sum",
	"best_steps", "best_reached", "reached", "dead", "ticks", "min_step",
}

// Store keeps one directory per run holding its metadata and per-generation
// statistics. Genomes are never written.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Timestamp    time.Time          `json:"timestamp"`
	Seed         int64              `json:"seed"`
	Population   int                `json:"population"`
	GenomeLength int                `json:"genome_length"`
	MutationRate float64            `json:"mutation_rate"`
	GoalReward   float64            `json:"goal_reward"`
	Generations  int                `json:"generations"`
	Metrics      map[string]float64 `json:"metrics"`
}

// Save writes a new run and returns its id, derived from meta.Name and the
// current time. meta.ID and meta.Timestamp are filled in.
func (s *Store) Save(meta *RunMetadata, history []evo.GenerationStats) (string, error) {
	name := meta.Name
	if name == "" {
		name = "custom"
	}
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%d", name, now.UnixNano())
	meta.Timestamp = now
	meta.Generations = len(history)

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, generationsFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(csvHeader); err != nil {
		return "", err
	}
	for _, g := range history {
		if err := w.Write(encodeStats(g)); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return meta.ID, nil
}

func encodeStats(g evo.GenerationStats) []string {
	return []string{
		strconv.Itoa(g.Generation),
		strconv.FormatFloat(g.BestFitness, 'g', -1, 64),
		strconv.FormatFloat(g.MeanFitness, 'g', -1, 64),
		strconv.FormatFloat(g.FitnessSum, 'g', -1, 64),
		strconv.Itoa(g.BestSteps),
		strconv.FormatBool(g.BestReached),
		strconv.Itoa(g.Reached),
		strconv.Itoa(g.Dead),
		strconv.Itoa(g.Ticks),
		strconv.Itoa(g.MinStep),
	}
}

func decodeStats(record []string) (evo.GenerationStats, error) {
	var g evo.GenerationStats
	if len(record) != len(csvHeader) {
		return g, fmt.Errorf("expected %d fields, got %d", len(csvHeader), len(record))
	}

	ints := []struct {
		dst *int
		src string
	}{
		{&g.Generation, record[0]},
		{&g.BestSteps, record[4]},
		{&g.Reached, record[6]},
		{&g.Dead, record[7]},
		{&g.Ticks, record[8]},
		{&g.MinStep, record[9]},
	}
	for _, f := range ints {
		v, err := strconv.Atoi(f.src)
		if err != nil {
			return g, err
		}
		*f.dst = v
	}

	floats := []struct {
		dst *float64
		src string
	}{
		{&g.BestFitness, record[1]},
		{&g.MeanFitness, record[2]},
		{&g.FitnessSum, record[3]},
	}
	for _, f := range floats {
		v, err := strconv.ParseFloat(f.src, 64)
		if err != nil {
			return g, err
		}
		*f.dst = v
	}

	reached, err := strconv.ParseBool(record[5])
	if err != nil {
		return g, err
	}
	g.BestReached = reached
	return g, nil
}

// List returns every readable run, oldest first. Directories without valid
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}

		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadHistory(runID string) ([]evo.GenerationStats, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, generationsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []evo.GenerationStats{}, nil
	}

	history := make([]evo.GenerationStats, 0, len(records)-1)
	for i, record := range records[1:] {
		g, err := decodeStats(record)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", generationsFile, i+2, err)
		}
		history = append(history, g)
	}
	return history, nil
}

// ExportData is a run with its history inlined, for JSON export.
type ExportData struct {
	RunMetadata
	History []evo.GenerationStats `json:"history"`
}

func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	history, err := s.LoadHistory(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{RunMetadata: *meta, History: history})
}
