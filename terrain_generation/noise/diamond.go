package noise

import (
	"fmt"

	"github.com/JackDobie/Procedural-Terrain/terrain_generation/core"
)

// DiamondSquareConfig holds the parameters of diamond-square subdivision.
type DiamondSquareConfig struct {
	OffsetRange float64     // initial random offset, drawn from [-range, range)
	Smoothness  float64     // range shrink per round, [0, 1]
	Clamp       bool        // clamp every written value into [0, 1]
	Policy      core.Policy // core.Clamp (bounded map) or core.Wrap (seamless tile)
}

func DefaultDiamondSquareConfig() DiamondSquareConfig {
	return DiamondSquareConfig{
		OffsetRange: 1,
		Smoothness:  0.5,
		Policy:      core.Clamp,
	}
}

func (c DiamondSquareConfig) Validate() error {
	if c.OffsetRange < 0 || !core.IsFinite(c.OffsetRange) {
		return fmt.Errorf("offset range %v: %w", c.OffsetRange, core.ErrInvalidParameter)
	}
	if !core.IsFinite(c.Smoothness) || c.Smoothness < 0 || c.Smoothness > 1 {
		return fmt.Errorf("smoothness %v outside [0, 1]: %w", c.Smoothness, core.ErrInvalidParameter)
	}
	if c.Policy != core.Clamp && c.Policy != core.Wrap {
		return fmt.Errorf("diamond-square policy %s: %w", c.Policy, core.ErrInvalidParameter)
	}
	return nil
}

// DiamondSquare is the fractal subdivision generator. The requested size is
// the number of subdivision cells per side and must be a power of two; the
// returned grid holds size+1 points per side.
type DiamondSquare struct {
	cfg DiamondSquareConfig
}

func NewDiamondSquare(cfg DiamondSquareConfig) *DiamondSquare {
	return &DiamondSquare{cfg: cfg}
}

func (d *DiamondSquare) Name() string { return "diamond-square" }

func (d *DiamondSquare) Config() DiamondSquareConfig { return d.cfg }

// Generate runs the subdivision. A size that is not a power of two of at
// least 2 yields the empty grid and no error.
func (d *DiamondSquare) Generate(rng *core.Rng, size int) (*core.HeightGrid, error) {
	if err := d.cfg.Validate(); err != nil {
		return nil, err
	}
	if size < 2 || !core.IsPowerOfTwo(size) {
		return core.NewHeightGrid(0), nil
	}

	grid := core.NewHeightGrid(size + 1)
	wrap := d.cfg.Policy == core.Wrap
	r := d.cfg.OffsetRange

	if wrap {
		v := d.clamp(rng.Range(r))
		grid.SetAt(0, 0, v)
		grid.SetAt(size, 0, v)
		grid.SetAt(0, size, v)
		grid.SetAt(size, size, v)
	} else {
		grid.SetAt(0, 0, d.clamp(rng.Range(r)))
		grid.SetAt(size, 0, d.clamp(rng.Range(r)))
		grid.SetAt(0, size, d.clamp(rng.Range(r)))
		grid.SetAt(size, size, d.clamp(rng.Range(r)))
	}

	for side := size; side >= 2; side /= 2 {
		half := side / 2

		// square step
		for y := 0; y < size; y += side {
			for x := 0; x < size; x += side {
				avg := (grid.At(x, y) + grid.At(x+side, y) +
					grid.At(x, y+side) + grid.At(x+side, y+side)) / 4
				grid.SetAt(x+half, y+half, d.clamp(avg+rng.Range(r)))
			}
		}

		// diamond step
		for y := 0; y <= size; y += half {
			for x := (y + half) % side; x <= size; x += side {
				if wrap {
					if x == size || y == size {
						continue
					}
					avg := d.wrappedAverage(grid, x, y, half, size)
					v := d.clamp(avg + rng.Range(r))
					grid.SetAt(x, y, v)
					if x == 0 {
						grid.SetAt(size, y, v)
					}
					if y == 0 {
						grid.SetAt(x, size, v)
					}
					continue
				}
				avg := boundedAverage(grid, x, y, half, size)
				grid.SetAt(x, y, d.clamp(avg+rng.Range(r)))
			}
		}

		r -= r * 0.5 * d.cfg.Smoothness
	}
	return grid, nil
}

// boundedAverage averages the in-bounds diamond corners around (x, y).
func boundedAverage(grid *core.HeightGrid, x, y, half, size int) float64 {
	sum := 0.0
	n := 0
	for _, p := range [4][2]int{{x - half, y}, {x + half, y}, {x, y - half}, {x, y + half}} {
		if p[0] < 0 || p[1] < 0 || p[0] > size || p[1] > size {
			continue
		}
		sum += grid.At(p[0], p[1])
		n++
	}
	return sum / float64(n)
}

// wrappedAverage averages the diamond corners with period size on both axes.
func (d *DiamondSquare) wrappedAverage(grid *core.HeightGrid, x, y, half, size int) float64 {
	wrap := func(v int) int { return (v%size + size) % size }
	return (grid.At(wrap(x-half), y) + grid.At(wrap(x+half), y) +
		grid.At(x, wrap(y-half)) + grid.At(x, wrap(y+half))) / 4
}

func (d *DiamondSquare) clamp(v float64) float64 {
	if !d.cfg.Clamp {
		return v
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
