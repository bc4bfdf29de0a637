// Package render turns a height grid into a hillshaded preview image.
package render

import (
	"image"
	"image/color"
	"math"

	"github.com/JackDobie/Procedural-Terrain/terrain_generation/core"
	"github.com/fogleman/gg"
	"github.com/go-gl/mathgl/mgl64"
)

type Options struct {
	CellPx      int        // pixels per grid cell, at least 1
	HeightScale float64    // vertical exaggeration applied before computing normals
	Light       mgl64.Vec3 // direction towards the light, y is up
	Ambient     float64
	Background  color.Color
}

// DefaultOptions lights the terrain from the upper left.
func DefaultOptions() Options {
	return Options{
		CellPx:      4,
		HeightScale: 1,
		Light:       mgl64.Vec3{-0.5, 0.8, -0.3},
		Ambient:     0.3,
		Background:  color.RGBA{20, 25, 30, 255},
	}
}

// FitOptions returns DefaultOptions with CellPx chosen so the image is at
// most maxPx wide.
func FitOptions(size, maxPx int) Options {
	opts := DefaultOptions()
	if size > 0 {
		opts.CellPx = max(1, maxPx/size)
	}
	return opts
}

// Shade draws one square per cell. Colour follows the height, brightness
// follows ambient + diffuse lighting of the surface normal.
func Shade(grid *core.HeightGrid, opts Options) image.Image {
	if grid.Empty() {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	px := max(1, opts.CellPx)
	size := grid.Size()
	dc := gg.NewContext(size*px, size*px)
	if opts.Background != nil {
		dc.SetColor(opts.Background)
		dc.Clear()
	}

	light := opts.Light
	if light.Len() == 0 {
		light = DefaultOptions().Light
	}
	light = light.Normalize()
	lo, hi := grid.MinMax()

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			n := Normal(grid, x, y, opts.HeightScale)
			intensity := math.Max(0, n.Dot(light))
			intensity = opts.Ambient + (1-opts.Ambient)*intensity

			// Height tint: dark green lowlands to pale highlands
			t := 0.0
			if hi > lo {
				t = (grid.At(x, y) - lo) / (hi - lo)
			}
			h := t * 64
			dc.SetRGB255(
				int(clamp((80+h*2)*intensity, 0, 255)),
				int(clamp((120+h*1.5)*intensity, 0, 255)),
				int(clamp((80+h*0.5)*intensity, 0, 255)),
			)
			dc.DrawRectangle(float64(x*px), float64(y*px), float64(px), float64(px))
			dc.Fill()
		}
	}
	return dc.Image()
}

// Normal is the unit surface normal at a cell from central differences,
// clamped at the edges.
func Normal(grid *core.HeightGrid, x, y int, heightScale float64) mgl64.Vec3 {
	if heightScale == 0 {
		heightScale = 1
	}
	dx := (grid.Sample(x+1, y, core.Clamp) - grid.Sample(x-1, y, core.Clamp)) * 0.5 * heightScale
	dz := (grid.Sample(x, y+1, core.Clamp) - grid.Sample(x, y-1, core.Clamp)) * 0.5 * heightScale
	return mgl64.Vec3{-dx, 1, -dz}.Normalize()
}

// SavePNG writes the image to path.
func SavePNG(path string, img image.Image) error {
	return gg.SavePNG(path, img)
}

func clamp(v, minV, maxV float64) float64 {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
