package eros

import (
	"fmt"

	"github.com/JackDobie/Procedural-Terrain/terrain_generation/core"
)

// PeakConfig combines hardness and ridge enhancement settings.
// Hardness protects peaks during droplet erosion; ridges are raised afterwards.
type PeakConfig struct {
	Hardness HardnessConfig
	Ridge    RidgeConfig
}

// Validate rejects non-finite or negative settings in the enabled parts.
func (c PeakConfig) Validate() error {
	type field struct {
		name string
		v    float64
	}
	var fields []field
	if h := c.Hardness; h.Enabled {
		fields = append(fields,
			field{"hardness elevation weight", h.ElevationWeight},
			field{"hardness noise weight", h.NoiseWeight},
			field{"hardness noise frequency", h.NoiseFrequency},
			field{"base hardness", h.BaseHardness},
			field{"hardness elevation power", h.ElevationPower})
	}
	if r := c.Ridge; r.Enabled {
		if r.Iterations < 0 {
			return fmt.Errorf("ridge iterations %d: %w", r.Iterations, core.ErrInvalidParameter)
		}
		fields = append(fields,
			field{"ridge threshold", r.Threshold},
			field{"ridge boost", r.BoostAmount},
			field{"ridge noise amount", r.NoiseAmount},
			field{"ridge noise frequency", r.NoiseFreq},
			field{"ridge min height", r.MinHeight})
	}
	for _, f := range fields {
		if f.v < 0 || !core.IsFinite(f.v) {
			return fmt.Errorf("%s %v: %w", f.name, f.v, core.ErrInvalidParameter)
		}
	}
	return nil
}

// DefaultPeakConfig returns a balanced peak enhancement configuration.
func DefaultPeakConfig() PeakConfig {
	return PeakConfig{
		Hardness: DefaultHardnessConfig(),
		Ridge:    DefaultRidgeConfig(),
	}
}

// SubtlePeaks returns a configuration for gentle peak preservation.
// Good for rolling hills or terrain where peaks shouldn't be too prominent.
func SubtlePeaks() PeakConfig {
	return PeakConfig{
		Hardness: SubtleHardness(),
		Ridge:    SubtleRidges(),
	}
}

// DramaticPeaks returns a configuration for prominent, jagged peaks.
func DramaticPeaks() PeakConfig {
	return PeakConfig{
		Hardness: StrongHardness(),
		Ridge:    DramaticRidges(),
	}
}

// HardnessOnly protects peaks during erosion without enhancing them afterward.
func HardnessOnly() PeakConfig {
	return PeakConfig{
		Hardness: DefaultHardnessConfig(),
		Ridge:    RidgeConfig{Enabled: false},
	}
}

// RidgesOnly erodes normally, then enhances ridges.
func RidgesOnly() PeakConfig {
	return PeakConfig{
		Hardness: HardnessConfig{Enabled: false},
		Ridge:    DefaultRidgeConfig(),
	}
}

// NoPeaks returns a configuration with both systems disabled.
func NoPeaks() PeakConfig {
	return PeakConfig{
		Hardness: HardnessConfig{Enabled: false},
		Ridge:    RidgeConfig{Enabled: false},
	}
}

// AlpinePeaks returns a configuration mimicking alpine mountain ranges.
// Strong hardness at elevation with dramatic, jagged ridges.
func AlpinePeaks() PeakConfig {
	return PeakConfig{
		Hardness: HardnessConfig{
			Enabled:         true,
			ElevationWeight: 0.85,
			NoiseWeight:     0.25,
			NoiseFrequency:  0.04,
			BaseHardness:    0.05,
			ElevationPower:  2.5,
		},
		Ridge: RidgeConfig{
			Enabled:       true,
			Threshold:     0.25,
			BoostAmount:   2.5,
			NoiseAmount:   0.6,
			NoiseFreq:     0.08,
			Iterations:    2,
			MinHeight:     0.6, // Only enhance upper 40% of terrain
			MinHeightMode: "normalized",
		},
	}
}

// RollingHills returns a configuration for gentle, rounded terrain.
func RollingHills() PeakConfig {
	return PeakConfig{
		Hardness: HardnessConfig{
			Enabled:         true,
			ElevationWeight: 0.4,
			NoiseWeight:     0.3,
			NoiseFrequency:  0.1,
			BaseHardness:    0.3,
			ElevationPower:  1.2,
		},
		Ridge: RidgeConfig{
			Enabled:       true,
			Threshold:     0.5,
			BoostAmount:   0.5,
			NoiseAmount:   0.1,
			NoiseFreq:     0.02,
			Iterations:    1,
			MinHeight:     0.2,
			MinHeightMode: "normalized",
		},
	}
}

// VolcanicPeaks returns a configuration for volcanic-style terrain.
// Very hard peaks with moderate ridge enhancement.
func VolcanicPeaks() PeakConfig {
	return PeakConfig{
		Hardness: HardnessConfig{
			Enabled:         true,
			ElevationWeight: 0.9,
			NoiseWeight:     0.2,
			NoiseFrequency:  0.075,
			BaseHardness:    0.0,
			ElevationPower:  3.0,
		},
		Ridge: RidgeConfig{
			Enabled:       true,
			Threshold:     0.35,
			BoostAmount:   2.0,
			NoiseAmount:   0.4,
			NoiseFreq:     0.06,
			Iterations:    1,
			MinHeight:     0.7, // Only the very top
			MinHeightMode: "normalized",
		},
	}
}

var peakPresets = map[string]func() PeakConfig{
	"default":  DefaultPeakConfig,
	"subtle":   SubtlePeaks,
	"dramatic": DramaticPeaks,
	"hardness": HardnessOnly,
	"ridges":   RidgesOnly,
	"none":     NoPeaks,
	"alpine":   AlpinePeaks,
	"hills":    RollingHills,
	"volcanic": VolcanicPeaks,
}

// PeakPreset looks up a peak preset by name; ok is false for unknown names.
func PeakPreset(name string) (PeakConfig, bool) {
	fn, ok := peakPresets[name]
	if !ok {
		return PeakConfig{}, false
	}
	return fn(), true
}
