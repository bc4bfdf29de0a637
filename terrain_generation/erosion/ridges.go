package eros

import (
	"math"

	"github.com/JackDobie/Procedural-Terrain/terrain_generation/core"
	"github.com/aquilax/go-perlin"
)

// RidgeConfig controls ridge detection and enhancement.
type RidgeConfig struct {
	Enabled       bool    // Whether ridge enhancement is active
	Threshold     float64 // Minimum ridgeness score to enhance (0-1)
	BoostAmount   float64 // Maximum height boost in height units
	NoiseAmount   float64 // Jaggedness noise amplitude
	NoiseFreq     float64 // Jaggedness noise frequency, per cell
	Iterations    int     // Number of enhancement passes
	MinHeight     float64 // Minimum elevation for ridge enhancement
	MinHeightMode string  // "absolute" = raw height, "normalized" = 0-1 within the grid
}

// DefaultRidgeConfig returns a balanced ridge enhancement configuration.
func DefaultRidgeConfig() RidgeConfig {
	return RidgeConfig{
		Enabled:       true,
		Threshold:     0.3, // Moderate threshold
		BoostAmount:   1.5, // Noticeable but not extreme
		NoiseAmount:   0.3, // Some jaggedness
		NoiseFreq:     0.05,
		Iterations:    1,
		MinHeight:     0.5,          // Only enhance upper half of terrain
		MinHeightMode: "normalized", // Use normalized height (0-1 within grid)
	}
}

// SubtleRidges returns a configuration for gentle ridge enhancement.
func SubtleRidges() RidgeConfig {
	return RidgeConfig{
		Enabled:       true,
		Threshold:     0.4,
		BoostAmount:   0.8,
		NoiseAmount:   0.2,
		NoiseFreq:     0.03,
		Iterations:    1,
		MinHeight:     0.3,
		MinHeightMode: "normalized",
	}
}

// DramaticRidges returns a configuration for pronounced, jagged ridges.
func DramaticRidges() RidgeConfig {
	return RidgeConfig{
		Enabled:       true,
		Threshold:     0.2,
		BoostAmount:   3.0,
		NoiseAmount:   0.8,
		NoiseFreq:     0.1,
		Iterations:    2,
		MinHeight:     0.4,
		MinHeightMode: "normalized",
	}
}

// ComputeRidgeness calculates how "ridge-like" a cell is.
// Returns a value from 0 (not a ridge) to 1 (strong ridge).
//
// A ridge is characterized by:
// - Being higher than most neighbors (but not all - that's a peak)
// - Having neighbors that are lower in opposing directions
func ComputeRidgeness(grid *core.HeightGrid, x, y int) float64 {
	return ridgeness(grid, x, y, grid.Neighbors(x, y, core.Moore, core.Clamp))
}

func ridgeness(grid *core.HeightGrid, x, y int, neighbors []core.Neighbor) float64 {
	if len(neighbors) < 3 {
		return 0
	}

	h := grid.At(x, y)
	lowerCount := 0
	higherCount := 0
	for _, n := range neighbors {
		if n.Height < h {
			lowerCount++
		} else {
			higherCount++
		}
	}

	// Pure peaks and pure valleys aren't ridges
	if higherCount == 0 || lowerCount == 0 {
		return 0
	}

	lowerRatio := float64(lowerCount) / float64(len(neighbors))
	if lowerRatio < 0.5 {
		return 0 // More neighbors are higher - this is a slope, not a ridge
	}

	// Maximum ridgeness when ~75% of neighbors are lower
	const optimalRatio = 0.75
	score := 1.0 - math.Abs(lowerRatio-optimalRatio)/0.25
	if score < 0 {
		score = 0
	}

	// Ridges should have significant drops
	varianceFactor := math.Min(1.0, heightVariance(h, neighbors)/2.0)

	return score * varianceFactor
}

// heightVariance is the RMS difference between h and its neighbours.
func heightVariance(h float64, neighbors []core.Neighbor) float64 {
	if len(neighbors) == 0 {
		return 0
	}
	sumSqDiff := 0.0
	for _, n := range neighbors {
		diff := n.Height - h
		sumSqDiff += diff * diff
	}
	return math.Sqrt(sumSqDiff / float64(len(neighbors)))
}

// RidgenessMap scores every cell of the grid.
func RidgenessMap(grid *core.HeightGrid) []float64 {
	size := grid.Size()
	scores := make([]float64, size*size)
	var nbuf []core.Neighbor
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			nbuf = grid.AppendNeighbors(nbuf[:0], x, y, core.Moore, core.Clamp)
			scores[grid.Index(x, y)] = ridgeness(grid, x, y, nbuf)
		}
	}
	return scores
}

// EnhanceRidges detects ridge lines and raises them for more dramatic peaks.
// Jaggedness comes from Perlin noise seeded with seed. Ridgeness is scored for
// the whole grid before any cell is raised. It returns the number of raised
// cells over all iterations.
func EnhanceRidges(grid *core.HeightGrid, cfg RidgeConfig, seed int64) int {
	if !cfg.Enabled || cfg.Iterations <= 0 || grid.Empty() {
		return 0
	}

	jag := perlin.NewPerlin(2, 2, 3, seed)
	raised := 0

	for iter := 0; iter < cfg.Iterations; iter++ {
		minHeight, maxHeight := grid.MinMax()
		heightRange := maxHeight - minHeight
		meetsMinHeight := func(h float64) bool {
			if cfg.MinHeightMode == "absolute" {
				return h >= cfg.MinHeight
			}
			if heightRange < 1e-9 {
				return true // Flat terrain, apply everywhere
			}
			return (h-minHeight)/heightRange >= cfg.MinHeight
		}

		scores := RidgenessMap(grid)
		size := grid.Size()
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				score := scores[grid.Index(x, y)]
				if score < cfg.Threshold || score == 0 {
					continue
				}
				h := grid.At(x, y)
				if !meetsMinHeight(h) {
					continue
				}

				boost := score * cfg.BoostAmount
				noise := jag.Noise2D(float64(x)*cfg.NoiseFreq+1000.0, float64(y)*cfg.NoiseFreq+1000.0) * cfg.NoiseAmount

				if v := h + boost + noise; core.IsFinite(v) {
					grid.SetAt(x, y, v)
					raised++
				}
			}
		}
	}
	return raised
}

// FindRidgeLines groups connected cells whose ridgeness reaches threshold.
// Each line is a list of grid indices.
func FindRidgeLines(grid *core.HeightGrid, threshold float64) [][]int {
	scores := RidgenessMap(grid)
	isRidge := make([]bool, len(scores))
	for i, s := range scores {
		isRidge[i] = s > 0 && s >= threshold
	}

	size := grid.Size()
	visited := make([]bool, len(scores))
	var lines [][]int
	var nbuf []core.Neighbor

	for i := range scores {
		if !isRidge[i] || visited[i] {
			continue
		}

		var line []int
		queue := []int{i}
		visited[i] = true
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			line = append(line, current)

			nbuf = grid.AppendNeighbors(nbuf[:0], current%size, current/size, core.Moore, core.Clamp)
			for _, n := range nbuf {
				j := grid.Index(n.X, n.Y)
				if !visited[j] && isRidge[j] {
					visited[j] = true
					queue = append(queue, j)
				}
			}
		}
		lines = append(lines, line)
	}
	return lines
}
