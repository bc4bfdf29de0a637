// Package config holds the viewer's display defaults and reads terrain
// settings from ini files.
package config

import "image/color"

var (
	WindowW   = 960
	WindowH   = 720
	PreviewPx = 640 // longest side of a stage image
	PanelW    = 260
)

var (
	BackgroundColor color.Color = color.RGBA{R: 20, G: 25, B: 30, A: 255}
	PanelColor      color.Color = color.RGBA{R: 30, G: 30, B: 40, A: 220}
	TextColor       color.Color = color.RGBA{R: 220, G: 220, B: 220, A: 255}
)
