//go:build gui

package gui

import (
	"context"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/dotevo/internal/evo"
	"github.com/san-kum/dotevo/internal/sim"
)

const (
	windowWidth  = 600
	windowHeight = 600
	dotRadius    = 2
	eliteRadius  = 4
)

var (
	ColBg    = rl.NewColor(250, 235, 215, 255) // Antique white
	ColGoal  = rl.Red
	ColDot   = rl.Black
	ColElite = rl.NewColor(0, 200, 0, 255)
	ColText  = rl.DarkGray
)

type App struct {
	Sim     *sim.Simulator
	Pop     *evo.Population
	Running bool
	FPS     int

	final frameBuffer
	views []evo.AgentView
	hold  int
	err   error
}

type frameBuffer struct {
	views []evo.AgentView
}

func (f *frameBuffer) OnFrame(_ int, views []evo.AgentView) {
	f.views = append(f.views[:0], views...)
}

func initWindow(fps int) {
	rl.InitWindow(windowWidth, windowHeight, "dotevo")
	rl.SetTargetFPS(int32(fps))
}

// Run opens a window and animates s one tick per frame until the window is
// closed or ctx is cancelled.
func Run(ctx context.Context, s *sim.Simulator, fps int) error {
	if fps <= 0 {
		fps = 60
	}
	app := &App{Sim: s, Pop: s.Population(), Running: true, FPS: fps}
	s.AddFrameObserver(&app.final)

	initWindow(fps)
	defer rl.CloseWindow()

	for !rl.WindowShouldClose() && app.err == nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		app.Update(ctx)
		app.Draw()
	}
	return app.err
}

func (a *App) Update(ctx context.Context) {
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if !a.Running {
		return
	}
	if a.hold > 0 {
		a.hold--
		if a.hold == 0 {
			a.views = a.Pop.Views(a.views)
		}
		return
	}

	if !a.Pop.AllInactive() {
		a.Pop.Tick()
	}
	if a.Pop.AllInactive() {
		if _, err := a.Sim.RunGeneration(ctx); err != nil {
			a.err = err
			return
		}
		a.views = append(a.views[:0], a.final.views...)
		a.hold = max(a.FPS/2, 1)
		return
	}
	a.views = a.Pop.Views(a.views)
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	w := a.Pop.Params().World
	rl.DrawCircle(int32(w.Goal.X), int32(w.Goal.Y), float32(w.GoalRadius), ColGoal)

	elite := -1
	for i, v := range a.views {
		if v.Elite {
			elite = i
			continue
		}
		rl.DrawCircle(int32(v.Pos.X), int32(v.Pos.Y), dotRadius, ColDot)
	}
	if elite >= 0 {
		p := a.views[elite].Pos
		rl.DrawCircle(int32(p.X), int32(p.Y), eliteRadius, ColElite)
	}

	a.DrawHUD()
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	status := "RUNNING"
	if !a.Running {
		status = "PAUSED"
	}
	record := "-"
	if r, ok := a.Pop.MinStep(); ok {
		record = fmt.Sprintf("%d", r)
	}
	text := fmt.Sprintf("GEN %d   TICK %d   RECORD %s   %s", a.Pop.Generation(), a.Pop.Ticks(), record, status)
	rl.DrawText(text, 10, windowHeight-30, 16, ColText)
}
