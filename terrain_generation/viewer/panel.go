package viewer

import (
	"bytes"
	"image/color"

	"github.com/JackDobie/Procedural-Terrain/terrain_generation/config"
	"github.com/JackDobie/Procedural-Terrain/terrain_generation/pipeline"
	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// StatsPanel shows the run report next to the preview. It is read-only.
type StatsPanel struct {
	ui       *ebitenui.UI
	visible  bool
	fontFace text.Face

	stageLabel *widget.Text
}

func NewStatsPanel(res *pipeline.Result) *StatsPanel {
	p := &StatsPanel{visible: true}
	p.fontFace = loadFont(14)
	p.ui = p.buildUI(res)
	return p
}

func loadFont(size float64) text.Face {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		panic(err)
	}
	return &text.GoTextFace{
		Source: source,
		Size:   size,
	}
}

func (p *StatsPanel) buildUI(res *pipeline.Result) *ebitenui.UI {
	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)

	// right-hand column
	panel := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Padding(widget.NewInsetsSimple(10)),
			widget.RowLayoutOpts.Spacing(6),
		)),
		widget.ContainerOpts.BackgroundImage(panelBackground()),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionEnd,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
				Padding:            widget.NewInsetsSimple(10),
			}),
			widget.WidgetOpts.MinSize(config.PanelW, 0),
		),
	)

	panel.AddChild(p.label("TERRAIN RUN", color.RGBA{255, 220, 100, 255}))
	p.stageLabel = p.label("", color.RGBA{180, 180, 255, 255})
	panel.AddChild(p.stageLabel)
	for _, f := range res.Fields() {
		panel.AddChild(p.row(f.Label, f.Value))
	}
	panel.AddChild(p.label("Tab / arrows: stage   D: panel", color.RGBA{128, 128, 128, 255}))

	root.AddChild(panel)
	return &ebitenui.UI{Container: root}
}

func panelBackground() *image.NineSlice {
	img := ebiten.NewImage(1, 1)
	img.Fill(config.PanelColor)
	return image.NewNineSliceSimple(img, 0, 0)
}

func (p *StatsPanel) label(s string, clr color.Color) *widget.Text {
	return widget.NewText(
		widget.TextOpts.Text(s, &p.fontFace, clr),
		widget.TextOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{
				Stretch: true,
			}),
		),
	)
}

func (p *StatsPanel) row(name, value string) *widget.Container {
	row := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(10),
		)),
	)
	row.AddChild(widget.NewText(
		widget.TextOpts.Text(name, &p.fontFace, color.RGBA{200, 200, 200, 255}),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.MinSize(110, 0)),
	))
	row.AddChild(widget.NewText(
		widget.TextOpts.Text(value, &p.fontFace, config.TextColor),
	))
	return row
}

// SetStage updates the stage line, e.g. "stage 2/3: particle".
func (p *StatsPanel) SetStage(s string) {
	p.stageLabel.Label = s
}

func (p *StatsPanel) Toggle() {
	p.visible = !p.visible
}

func (p *StatsPanel) IsVisible() bool {
	return p.visible
}

func (p *StatsPanel) Update() {
	if p.visible {
		p.ui.Update()
	}
}

func (p *StatsPanel) Draw(screen *ebiten.Image) {
	if p.visible {
		p.ui.Draw(screen)
	}
}
