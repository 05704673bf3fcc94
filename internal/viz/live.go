package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/dotevo/internal/evo"
	"github.com/san-kum/dotevo/internal/sim"
)

const (
	canvasWidth       = 72
	canvasHeight      = 34
	historyCapacity   = 600
	maxStepsPerFrame  = 256
	defaultLiveFPS    = 30
	defaultLiveStride = 4
)

type TickMsg time.Time

// LiveConfig controls pacing of the live view. Generations of 0 runs until
// the user quits.
type LiveConfig struct {
	FPS           int
	StepsPerFrame int
	Generations   int
	Theme         string
}

// frameBuffer keeps the last generation's final positions so they can be
// shown while the next generation waits to start.
type frameBuffer struct {
	generation int
	views      []evo.AgentView
}

func (f *frameBuffer) OnFrame(generation int, views []evo.AgentView) {
	f.generation = generation
	f.views = append(f.views[:0], views...)
}

// Live is a Bubble Tea model that animates a population one frame at a
// time. Every frame advances the population by a fixed number of ticks.
// Once all agents have stopped the generation is replaced and its final
// frame is held for half a second.
type Live struct {
	ctx           context.Context
	sim           *sim.Simulator
	pop           *evo.Population
	final         *frameBuffer
	fps           int
	stepsPerFrame int
	generations   int
	hold          int
	completed     int
	running       bool
	done          bool
	showFitness   bool
	theme         Theme
	styles        palette
	canvas        *Canvas
	views         []evo.AgentView
	last          evo.GenerationStats
	records       []float64
	fitness       []float64
	err           error
}

// NewLive wraps s in a live model. The simulator's population must not be
// stepped by anyone else while the model runs.
func NewLive(ctx context.Context, s *sim.Simulator, cfg LiveConfig) Live {
	if cfg.FPS <= 0 {
		cfg.FPS = defaultLiveFPS
	}
	if cfg.StepsPerFrame <= 0 {
		cfg.StepsPerFrame = defaultLiveStride
	}
	theme := GetTheme(cfg.Theme)
	final := &frameBuffer{}
	s.AddFrameObserver(final)

	m := Live{
		ctx:           ctx,
		sim:           s,
		pop:           s.Population(),
		final:         final,
		fps:           cfg.FPS,
		stepsPerFrame: min(cfg.StepsPerFrame, maxStepsPerFrame),
		generations:   cfg.Generations,
		running:       true,
		theme:         theme,
		styles:        newPalette(theme),
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		records:       make([]float64, 0, historyCapacity),
		fitness:       make([]float64, 0, historyCapacity),
	}
	m.views = m.pop.Views(nil)
	return m
}

func (m Live) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Live) Init() tea.Cmd { return m.tick() }

// Update handles input events and steps the population.
func (m Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "+", "=":
			m.stepsPerFrame = min(m.stepsPerFrame*2, maxStepsPerFrame)
		case "-", "_":
			m.stepsPerFrame = max(m.stepsPerFrame/2, 1)
		case "n":
			if !m.done && m.err == nil {
				m.hold = 0
				m.finishGeneration()
			}
		case "c":
			m.showFitness = !m.showFitness
		case "t":
			m.theme = NextTheme(m.theme)
			m.styles = newPalette(m.theme)
		}
	case TickMsg:
		if m.running && !m.done && m.err == nil {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

// Err reports the error that stopped the model, if any.
func (m Live) Err() error { return m.err }

// Completed is the number of generations replaced so far.
func (m Live) Completed() int { return m.completed }

// step advances one frame.
func (m *Live) step() {
	if m.hold > 0 {
		m.hold--
		if m.hold == 0 {
			m.views = m.pop.Views(m.views)
		}
		return
	}

	for i := 0; i < m.stepsPerFrame && !m.pop.AllInactive(); i++ {
		m.pop.Tick()
	}
	if m.pop.AllInactive() {
		m.finishGeneration()
		return
	}
	m.views = m.pop.Views(m.views)
}

// finishGeneration runs the current generation to completion and replaces
// it, leaving its final frame on screen.
func (m *Live) finishGeneration() {
	stats, err := m.sim.RunGeneration(m.ctx)
	if err != nil {
		m.err = err
		return
	}
	m.completed++
	m.last = stats
	m.views = append(m.views[:0], m.final.views...)
	m.hold = max(m.fps/2, 1)

	if stats.MinStep > 0 {
		m.records = appendCapped(m.records, float64(stats.MinStep))
	}
	m.fitness = appendCapped(m.fitness, stats.BestFitness)

	if m.generations > 0 && m.completed >= m.generations {
		m.done = true
	}
}

func appendCapped(xs []float64, v float64) []float64 {
	xs = append(xs, v)
	if len(xs) > historyCapacity {
		xs = xs[1:]
	}
	return xs
}

// draw renders the arena onto the canvas. The elite is drawn last.
func (m *Live) draw() {
	m.canvas.Clear()
	w := m.pop.Params().World
	b := w.Bounds
	proj := NewProjection(m.canvas, b.Max.X+b.Min.X, b.Max.Y+b.Min.Y)

	x0, y0 := proj.Point(b.Min)
	x1, y1 := proj.Point(b.Max)
	m.canvas.DrawLine(x0, y0, x1, y0)
	m.canvas.DrawLine(x1, y0, x1, y1)
	m.canvas.DrawLine(x1, y1, x0, y1)
	m.canvas.DrawLine(x0, y1, x0, y0)

	gx, gy := proj.Point(w.Goal)
	m.canvas.Cross(gx, gy, 1)

	elite := -1
	for i, v := range m.views {
		if v.Elite {
			elite = i
			continue
		}
		x, y := proj.Point(v.Pos)
		m.canvas.Set(x, y)
	}
	if elite >= 0 {
		x, y := proj.Point(m.views[elite].Pos)
		m.canvas.Block(x, y)
	}
}

func (m Live) status() string {
	switch {
	case m.err != nil:
		return m.styles.barLow.Render("ERROR")
	case m.done:
		return m.styles.emphasis.Render("DONE")
	case !m.running:
		return m.styles.paused.Render("PAUSED")
	case m.hold > 0:
		return m.styles.paused.Render(fmt.Sprintf("GENERATION %d DONE", m.last.Generation))
	}
	return m.styles.running.Render("RUNNING")
}

// View renders the TUI interface.
func (m Live) View() string {
	m.draw()
	st := m.styles
	canvasView := st.canvas.Render(m.canvas.String())

	var active, dead, reached int
	for _, v := range m.views {
		switch v.Status {
		case evo.Active:
			active++
		case evo.Dead:
			dead++
		case evo.ReachedGoal:
			reached++
		}
	}

	row := func(label, value string) string {
		return st.label.Render(label) + st.value.Render(value) + "\n"
	}

	var s strings.Builder
	s.WriteString(st.header.Render("SMART DOTS") + "\n")
	s.WriteString(m.status() + "\n\n")

	s.WriteString(row("Generation", fmt.Sprintf("%d", m.pop.Generation())))
	s.WriteString(row("Tick", fmt.Sprintf("%d / %d", m.pop.Ticks(), m.pop.Params().GenomeLength)))
	s.WriteString(row("Active", fmt.Sprintf("%d", active)))
	s.WriteString(row("Dead", fmt.Sprintf("%d", dead)))
	s.WriteString(row("Reached", fmt.Sprintf("%d", reached)))
	record := "-"
	if r, ok := m.pop.MinStep(); ok {
		record = fmt.Sprintf("%d steps", r)
	}
	s.WriteString(row("Record", record))
	s.WriteString(row("Speed", fmt.Sprintf("%d ticks/frame", m.stepsPerFrame)))
	if len(m.views) > 0 {
		s.WriteString(st.label.Render("Reach rate") + st.progressBar(float64(reached)/float64(len(m.views)), 20) + "\n")
	}

	series, caption := m.records, "Fewest steps"
	if m.showFitness {
		series, caption = m.fitness, "Best fitness"
	}
	if len(series) > 1 {
		chart := asciigraph.Plot(series, asciigraph.Height(6), asciigraph.Width(34), asciigraph.Caption(caption))
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	if m.err != nil {
		s.WriteString("\n" + st.barLow.Render(m.err.Error()) + "\n")
	}

	s.WriteString(st.help.Render("─────────────────────\nSP:Pause  +/-:Speed  N:Finish\nC:Chart   T:Theme    Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.panel.Render(s.String()))
}
