package eros

import (
	"math"

	"github.com/JackDobie/Procedural-Terrain/terrain_generation/core"
	"github.com/ojrac/opensimplex-go"
)

// HardnessConfig controls how rock hardness is computed across the terrain.
// Hardness values range from 0.0 (soft, easily eroded) to 1.0 (hard, resists erosion).
type HardnessConfig struct {
	Enabled         bool    // Whether hardness affects erosion
	ElevationWeight float64 // How much elevation affects hardness (0-1)
	NoiseWeight     float64 // How much noise variation to add (0-1)
	NoiseFrequency  float64 // Frequency of hardness noise (lower = larger features)
	BaseHardness    float64 // Minimum hardness for all cells (0-1)
	ElevationPower  float64 // Exponent for elevation curve (1=linear, 2=quadratic)
}

// DefaultHardnessConfig returns a balanced hardness configuration.
func DefaultHardnessConfig() HardnessConfig {
	return HardnessConfig{
		Enabled:         true,
		ElevationWeight: 0.7,  // Elevation is primary factor
		NoiseWeight:     0.3,  // Some random variation
		NoiseFrequency:  0.05, // Large-scale variation
		BaseHardness:    0.1,  // Even valleys have some resistance
		ElevationPower:  2.0,  // Quadratic - peaks are much harder
	}
}

// SubtleHardness returns a configuration with minimal hardness variation.
func SubtleHardness() HardnessConfig {
	return HardnessConfig{
		Enabled:         true,
		ElevationWeight: 0.5,
		NoiseWeight:     0.2,
		NoiseFrequency:  0.1,
		BaseHardness:    0.2,
		ElevationPower:  1.5,
	}
}

// StrongHardness returns a configuration where peaks strongly resist erosion.
func StrongHardness() HardnessConfig {
	return HardnessConfig{
		Enabled:         true,
		ElevationWeight: 0.8,
		NoiseWeight:     0.4,
		NoiseFrequency:  0.025,
		BaseHardness:    0.05,
		ElevationPower:  3.0, // Cubic - very strong peak protection
	}
}

// ComputeHardnessMap calculates a hardness value in [0, 1] for every cell.
// Noise variation comes from an OpenSimplex field seeded with seed.
// A disabled config yields an all-zero map (no resistance).
func ComputeHardnessMap(grid *core.HeightGrid, cfg HardnessConfig, seed int64) *core.HeightGrid {
	size := grid.Size()
	hardness := core.NewHeightGrid(size)
	if !cfg.Enabled || size == 0 {
		return hardness
	}

	minHeight, maxHeight := grid.MinMax()
	heightRange := maxHeight - minHeight
	if heightRange < 1e-9 {
		// Flat terrain - use base hardness everywhere
		for i := range hardness.Cells() {
			hardness.Cells()[i] = clamp01(cfg.BaseHardness)
		}
		return hardness
	}

	simplex := opensimplex.New(seed)
	totalWeight := cfg.ElevationWeight + cfg.NoiseWeight

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			normalizedHeight := (grid.At(x, y) - minHeight) / heightRange

			// Apply power curve (makes peaks much harder than mid-elevations)
			elevationFactor := math.Pow(normalizedHeight, cfg.ElevationPower)

			// Noise returns [-1, 1], normalize to [0, 1]
			noiseValue := simplex.Eval2(float64(x)*cfg.NoiseFrequency, float64(y)*cfg.NoiseFrequency)
			noiseFactor := clamp01((noiseValue + 1.0) / 2.0)

			weighted := elevationFactor*cfg.ElevationWeight + noiseFactor*cfg.NoiseWeight
			if totalWeight > 0 {
				weighted /= totalWeight
			}

			h := cfg.BaseHardness + weighted*(1.0-cfg.BaseHardness)
			if !core.IsFinite(h) {
				h = cfg.BaseHardness
			}
			hardness.SetAt(x, y, clamp01(h))
		}
	}
	return hardness
}

// AverageHardness returns the mean hardness of the map, 0 for an empty map.
func AverageHardness(hardness *core.HeightGrid) float64 {
	if hardness == nil || hardness.Empty() {
		return 0
	}
	return hardness.Sum() / float64(len(hardness.Cells()))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
