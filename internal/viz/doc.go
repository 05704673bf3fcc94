// Package viz draws a running population in the terminal.
//
// [Live] is a Bubble Tea model that steps a [sim.Simulator] a few ticks per
// frame and renders the arena on a braille [Canvas], next to a lipgloss
// stats panel and an asciigraph chart of the step record.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	+/-   - Double/halve ticks per frame
//	N     - Finish the current generation
//	C     - Toggle record/fitness chart
//	T     - Cycle color themes
//	Q     - Quit
package viz
