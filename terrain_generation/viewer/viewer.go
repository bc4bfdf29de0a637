// Package viewer opens a window that shows every stage of a finished
// pipeline run as a hillshaded image. It never regenerates terrain.
package viewer

import (
	"errors"
	"fmt"

	"github.com/JackDobie/Procedural-Terrain/terrain_generation/config"
	"github.com/JackDobie/Procedural-Terrain/terrain_generation/core"
	"github.com/JackDobie/Procedural-Terrain/terrain_generation/pipeline"
	"github.com/JackDobie/Procedural-Terrain/terrain_generation/render"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type stage struct {
	name  string
	grid  *core.HeightGrid
	image *ebiten.Image // built on first draw
}

type App struct {
	result  *pipeline.Result
	stages  []stage
	current int
	panel   *StatsPanel
}

// NewApp prepares the stages of res. Without kept stages only the final grid
// is shown.
func NewApp(res *pipeline.Result) *App {
	a := &App{result: res, panel: NewStatsPanel(res)}
	for _, s := range res.Stages {
		a.stages = append(a.stages, stage{name: s.Name, grid: s.Grid})
	}
	if len(a.stages) == 0 {
		a.stages = append(a.stages, stage{name: "final", grid: res.Grid})
	}
	a.current = len(a.stages) - 1
	a.syncPanel()
	return a
}

func (a *App) syncPanel() {
	a.panel.SetStage(fmt.Sprintf("stage %d/%d: %s", a.current+1, len(a.stages), a.stages[a.current].name))
}

func (a *App) step(delta int) {
	n := len(a.stages)
	a.current = ((a.current+delta)%n + n) % n
	a.syncPanel()
}

func (a *App) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeyTab), inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		a.step(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		a.step(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyD):
		a.panel.Toggle()
	}
	a.panel.Update()
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(config.BackgroundColor)

	s := &a.stages[a.current]
	if s.grid.Empty() {
		ebitenutil.DebugPrintAt(screen, "empty grid: size not supported by "+a.result.Report.Generator, 10, 10)
		a.panel.Draw(screen)
		return
	}
	if s.image == nil {
		s.image = ebiten.NewImageFromImage(render.Shade(s.grid, render.FitOptions(s.grid.Size(), config.PreviewPx)))
	}

	// scale down to fit the area left of the panel
	w, h := s.image.Bounds().Dx(), s.image.Bounds().Dy()
	avail := float64(min(config.WindowW-config.PanelW-30, config.WindowH-40))
	scale := min(1, avail/float64(max(w, h)))

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(10, 30)
	screen.DrawImage(s.image, op)

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s  (%d/%d)", s.name, a.current+1, len(a.stages)), 10, 8)
	a.panel.Draw(screen)
}

func (a *App) Layout(outsideW, outsideH int) (int, int) {
	return config.WindowW, config.WindowH
}

// Run blocks until the window is closed.
func Run(res *pipeline.Result) error {
	ebiten.SetWindowTitle(fmt.Sprintf("Terrain %s (seed %d)", res.Report.Generator, res.Seed))
	ebiten.SetWindowSize(config.WindowW, config.WindowH)

	if err := ebiten.RunGame(NewApp(res)); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
