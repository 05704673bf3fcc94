package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/dotevo/internal/evo"
)

const dotRadius = 2.5

var statusFill = map[evo.Status]string{
	evo.Active:      "#000000",
	evo.Dead:        "#9a9a9a",
	evo.ReachedGoal: "#1f5fd6",
}

// ArenaSVG draws one frame of a population: the live region, the goal and
// every agent. The elite is drawn last so it stays visible on top.
func ArenaSVG(w evo.World, views []evo.AgentView) string {
	width := w.Bounds.Max.X + w.Bounds.Min.X
	height := w.Bounds.Max.Y + w.Bounds.Min.Y

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#faebd7"/>
`, width, height, width, height))

	sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="none" stroke="#444466"/>
`, w.Bounds.Min.X, w.Bounds.Min.Y, w.Bounds.Max.X-w.Bounds.Min.X, w.Bounds.Max.Y-w.Bounds.Min.Y))

	sb.WriteString(fmt.Sprintf(`<circle class="goal" cx="%d" cy="%d" r="%.1f" fill="#ff0000"/>
`, w.Goal.X, w.Goal.Y, w.GoalRadius))

	elite := -1
	for i, v := range views {
		if v.Elite {
			elite = i
			continue
		}
		writeDot(&sb, v, statusFill[v.Status], "dot")
	}
	if elite >= 0 {
		writeDot(&sb, views[elite], "#00c000", "elite")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func writeDot(sb *strings.Builder, v evo.AgentView, fill, class string) {
	sb.WriteString(fmt.Sprintf(`<circle class="%s" cx="%d" cy="%d" r="%.1f" fill="%s"/>
`, class, v.Pos.X, v.Pos.Y, dotRadius, fill))
}

// SeriesToSVG plots values against their index as a single polyline, for
// per-generation histories such as the step record.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minV, maxV := values[0], values[0]
	for _, v := range values {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	rangeV := maxV - minV
	if rangeV == 0 {
		rangeV = 1
	}
	minV -= rangeV * 0.1
	maxV += rangeV * 0.1
	rangeV = maxV - minV
	last := float64(len(values) - 1)

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, v := range values {
		x := float64(i) / last * float64(width)
		y := float64(height) - (v-minV)/rangeV*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
