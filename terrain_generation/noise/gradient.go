package noise

import (
	"fmt"
	"math"

	"github.com/JackDobie/Procedural-Terrain/terrain_generation/core"
	"github.com/go-gl/mathgl/mgl64"
)

// GradientConfig holds the parameters of gradient (Perlin) noise.
type GradientConfig struct {
	Scale       float64    // lattice cells spanned by the whole output
	Offset      mgl64.Vec2 // shift in lattice space
	Octaves     int        // 0 = single plain sample
	Persistence float64    // amplitude factor per octave, [0, 1]
	Ridged      bool       // fold the result into ridge lines
	MaxHeight   float64    // ridged fold divisor; 0 disables the v/maxHeight term
	FieldSize   int        // lattice points per side; 0 = output size
	ClampScale  bool       // limit Scale to MaxScale when octaves are summed
}

// DefaultGradientConfig returns sensible defaults for terrain noise generation.
func DefaultGradientConfig() GradientConfig {
	return GradientConfig{
		Scale:       8,
		Octaves:     4,
		Persistence: 0.5,
		MaxHeight:   1,
	}
}

func (c GradientConfig) Validate() error {
	if c.Octaves < 0 {
		return fmt.Errorf("octaves %d < 0: %w", c.Octaves, core.ErrInvalidParameter)
	}
	if !core.IsFinite(c.Persistence) || c.Persistence < 0 || c.Persistence > 1 {
		return fmt.Errorf("persistence %v outside [0, 1]: %w", c.Persistence, core.ErrInvalidParameter)
	}
	if c.Scale < 0 || !core.IsFinite(c.Scale) {
		return fmt.Errorf("scale %v: %w", c.Scale, core.ErrInvalidParameter)
	}
	if c.FieldSize < 0 {
		return fmt.Errorf("field size %d < 0: %w", c.FieldSize, core.ErrInvalidParameter)
	}
	if c.MaxHeight < 0 || !core.IsFinite(c.MaxHeight) {
		return fmt.Errorf("max height %v: %w", c.MaxHeight, core.ErrInvalidParameter)
	}
	if !core.IsFinite(c.Offset.X()) || !core.IsFinite(c.Offset.Y()) {
		return fmt.Errorf("offset %v: %w", c.Offset, core.ErrInvalidParameter)
	}
	return nil
}

// Bound is the largest magnitude a sample can reach. Each gradient component
// lies in [-1, 1) and each corner offset in [0, 1], so every dot product, and
// therefore every interpolation and amplitude-normalised sum of them, stays
// within |g|·|d| ≤ √2·√2 = 2.
func (c GradientConfig) Bound() float64 {
	b := 2.0
	if c.Ridged && c.MaxHeight > 0 {
		b *= 1 + 1/c.MaxHeight
	}
	return b
}

// MaxScale is the largest scale that keeps the finest octave inside one
// period of a fieldSize lattice.
func MaxScale(fieldSize, octaves int) float64 {
	maxScale := fieldSize
	for i := 1; i < octaves; i++ {
		maxScale /= 2
	}
	maxScale--
	if maxScale < 0 {
		return 0
	}
	return float64(maxScale)
}

// Clamped returns c with Scale limited to MaxScale for the given output size.
func (c GradientConfig) Clamped(size int) GradientConfig {
	field := c.FieldSize
	if field == 0 {
		field = size
	}
	if m := MaxScale(field, c.Octaves); c.Scale > m {
		c.Scale = m
	}
	return c
}

// GradientField is the immutable lattice of gradient vectors.
type GradientField struct {
	size      int
	gradients []mgl64.Vec2
}

// NewGradientField draws size*size gradients from rng in row-major order.
func NewGradientField(rng *core.Rng, size int) *GradientField {
	f := &GradientField{size: size, gradients: make([]mgl64.Vec2, size*size)}
	for i := range f.gradients {
		f.gradients[i] = mgl64.Vec2{rng.Range(1), rng.Range(1)}
	}
	return f
}

func (f *GradientField) Size() int { return f.size }

// dotGridGradient dots the lattice gradient at (ix, iy) with the offset to (x, y).
// Lattice indices wrap, so any sample position is valid.
func (f *GradientField) dotGridGradient(ix, iy int, x, y float64) float64 {
	gx := (ix%f.size + f.size) % f.size
	gy := (iy%f.size + f.size) % f.size
	g := f.gradients[gy*f.size+gx]
	return (x-float64(ix))*g.X() + (y-float64(iy))*g.Y()
}

// Noise samples one octave at (x, y).
func (f *GradientField) Noise(x, y float64) float64 {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	x1 := x0 + 1
	y1 := y0 + 1

	sx := core.Fade(x - float64(x0))
	sy := core.Fade(y - float64(y0))

	ix0 := core.Lerp(f.dotGridGradient(x0, y0, x, y), f.dotGridGradient(x1, y0, x, y), sx)
	ix1 := core.Lerp(f.dotGridGradient(x0, y1, x, y), f.dotGridGradient(x1, y1, x, y), sx)
	return core.Lerp(ix0, ix1, sy)
}

// OctaveNoise sums octaves with doubling frequency and amplitude scaled by
// persistence, normalised by the amplitude total.
func (f *GradientField) OctaveNoise(x, y float64, octaves int, persistence float64) float64 {
	total := 0.0
	frequency := 1.0
	amplitude := 1.0
	maxValue := 0.0
	for i := 0; i < octaves; i++ {
		total += f.Noise(x*frequency, y*frequency) * amplitude
		maxValue += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	if maxValue == 0 {
		return total
	}
	return total / maxValue
}

// Gradient is the gradient-noise generator.
type Gradient struct {
	cfg GradientConfig
}

func NewGradient(cfg GradientConfig) *Gradient {
	return &Gradient{cfg: cfg}
}

func (g *Gradient) Name() string { return "perlin" }

func (g *Gradient) Config() GradientConfig { return g.cfg }

// Generate builds one gradient field from rng and samples it at every cell.
func (g *Gradient) Generate(rng *core.Rng, size int) (*core.HeightGrid, error) {
	if err := g.cfg.Validate(); err != nil {
		return nil, err
	}
	if size <= 0 {
		return core.NewHeightGrid(0), nil
	}
	fieldSize := g.cfg.FieldSize
	if fieldSize == 0 {
		fieldSize = size
	}
	scale := g.cfg.Scale
	if g.cfg.ClampScale && g.cfg.Octaves > 0 {
		scale = g.cfg.Clamped(size).Scale
	}
	field := NewGradientField(rng, fieldSize)
	grid := core.NewHeightGrid(size)

	for j := 0; j < size; j++ {
		for i := 0; i < size; i++ {
			x := float64(i)/float64(size)*scale + g.cfg.Offset.X()
			y := float64(j)/float64(size)*scale + g.cfg.Offset.Y()
			grid.SetAt(i, j, g.sample(field, x, y))
		}
	}
	return grid, nil
}

func (g *Gradient) sample(field *GradientField, x, y float64) float64 {
	var v float64
	if g.cfg.Octaves > 0 {
		v = field.OctaveNoise(x, y, g.cfg.Octaves, g.cfg.Persistence)
	} else {
		v = field.Noise(x, y)
	}
	if g.cfg.Ridged {
		v = -math.Abs(v)
		if g.cfg.MaxHeight > 0 {
			v += v / g.cfg.MaxHeight
		}
	}
	return v
}
