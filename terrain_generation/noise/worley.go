package noise

import (
	"fmt"

	"github.com/JackDobie/Procedural-Terrain/terrain_generation/core"
	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/exp/slices"
)

// WorleyConfig holds the parameters of Worley distance noise.
type WorleyConfig struct {
	Points int     // feature points K
	Rank   int     // 1-indexed nearest rank n, 1 <= n <= K
	Scale  float64 // distance multiplier; 0 means 1

	// MinDist > 0 scatters the points as a Poisson disc with this spacing
	// instead of uniformly. Points then caps the count.
	MinDist float64
}

func DefaultWorleyConfig() WorleyConfig {
	return WorleyConfig{Points: 16, Rank: 1, Scale: 1}
}

func (c WorleyConfig) Validate() error {
	if c.Points < 1 {
		return fmt.Errorf("worley points %d < 1: %w", c.Points, core.ErrInvalidParameter)
	}
	if c.Rank < 1 || c.Rank > c.Points {
		return fmt.Errorf("worley rank %d outside [1, %d]: %w", c.Rank, c.Points, core.ErrInvalidParameter)
	}
	if c.Scale < 0 || !core.IsFinite(c.Scale) {
		return fmt.Errorf("worley scale %v: %w", c.Scale, core.ErrInvalidParameter)
	}
	if c.MinDist < 0 || !core.IsFinite(c.MinDist) {
		return fmt.Errorf("worley min distance %v: %w", c.MinDist, core.ErrInvalidParameter)
	}
	return nil
}

func (c WorleyConfig) scale() float64 {
	if c.Scale == 0 {
		return 1
	}
	return c.Scale
}

// FeatureSet is a fixed scatter of feature points.
type FeatureSet struct {
	points []mgl64.Vec2
	scale  float64
}

// NewFeatureSet scatters k points uniformly in [0, size)², drawing x then y
// for each point.
func NewFeatureSet(rng *core.Rng, k, size int, scale float64) *FeatureSet {
	fs := &FeatureSet{points: make([]mgl64.Vec2, k), scale: scale}
	for i := range fs.points {
		fs.points[i] = mgl64.Vec2{rng.Float64() * float64(size), rng.Float64() * float64(size)}
	}
	return fs
}

// NewPoissonFeatureSet scatters at most k points with PoissonDisc spacing.
func NewPoissonFeatureSet(rng *core.Rng, k, size int, minDist, scale float64) *FeatureSet {
	return &FeatureSet{points: PoissonDisc(rng, size, minDist, k), scale: scale}
}

func (fs *FeatureSet) Points() []mgl64.Vec2 { return fs.points }

// Distances returns the scaled distances from (x, y) to every point, ascending.
func (fs *FeatureSet) Distances(x, y float64) []float64 {
	return fs.appendDistances(make([]float64, 0, len(fs.points)), x, y)
}

func (fs *FeatureSet) appendDistances(dst []float64, x, y float64) []float64 {
	p := mgl64.Vec2{x, y}
	for _, fp := range fs.points {
		dst = append(dst, fp.Sub(p).Len()*fs.scale)
	}
	slices.Sort(dst)
	return dst
}

// Nth returns the distance to the n-th nearest point (1-indexed).
func (fs *FeatureSet) Nth(x, y float64, n int) (float64, error) {
	if n < 1 || n > len(fs.points) {
		return 0, fmt.Errorf("rank %d outside [1, %d]: %w", n, len(fs.points), core.ErrInvalidParameter)
	}
	return fs.Distances(x, y)[n-1], nil
}

// Worley is the distance-noise generator.
type Worley struct {
	cfg WorleyConfig
}

func NewWorley(cfg WorleyConfig) *Worley {
	return &Worley{cfg: cfg}
}

func (w *Worley) Name() string { return "worley" }

func (w *Worley) Config() WorleyConfig { return w.cfg }

// Generate scatters the feature points and stores the Rank-th nearest
// distance at every cell.
func (w *Worley) Generate(rng *core.Rng, size int) (*core.HeightGrid, error) {
	if err := w.cfg.Validate(); err != nil {
		return nil, err
	}
	if size <= 0 {
		return core.NewHeightGrid(0), nil
	}
	var fs *FeatureSet
	if w.cfg.MinDist > 0 {
		fs = NewPoissonFeatureSet(rng, w.cfg.Points, size, w.cfg.MinDist, w.cfg.scale())
		if n := len(fs.Points()); n < w.cfg.Rank {
			return nil, fmt.Errorf("worley spacing %v leaves %d points for rank %d: %w", w.cfg.MinDist, n, w.cfg.Rank, core.ErrInvalidParameter)
		}
	} else {
		fs = NewFeatureSet(rng, w.cfg.Points, size, w.cfg.scale())
	}
	grid := core.NewHeightGrid(size)
	buf := make([]float64, 0, w.cfg.Points)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			buf = fs.appendDistances(buf[:0], float64(x), float64(y))
			grid.SetAt(x, y, buf[w.cfg.Rank-1])
		}
	}
	return grid, nil
}
