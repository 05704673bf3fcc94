package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// palette is the set of lipgloss styles derived from one theme.
type palette struct {
	canvas   lipgloss.Style
	panel    lipgloss.Style
	header   lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	running  lipgloss.Style
	paused   lipgloss.Style
	graph    lipgloss.Style
	help     lipgloss.Style
	barHigh  lipgloss.Style
	barMid   lipgloss.Style
	barLow   lipgloss.Style
	emphasis lipgloss.Style
}

func newPalette(t Theme) palette {
	return palette{
		canvas: lipgloss.NewStyle().Foreground(t.Primary).Padding(1, 2),
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(46),
		header:   lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),
		label:    lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:    lipgloss.NewStyle().Foreground(t.Text),
		running:  lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		paused:   lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		graph:    lipgloss.NewStyle().Foreground(t.Success).Padding(1, 0),
		help:     lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		barHigh:  lipgloss.NewStyle().Foreground(t.Success),
		barMid:   lipgloss.NewStyle().Foreground(t.Warning),
		barLow:   lipgloss.NewStyle().Foreground(t.Error),
		emphasis: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
	}
}

// progressBar renders a fraction in [0, 1] as a colored bar.
func (p palette) progressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	if percent > 0.6 {
		return p.barHigh.Render(bar)
	} else if percent > 0.2 {
		return p.barMid.Render(bar)
	}
	return p.barLow.Render(bar)
}
