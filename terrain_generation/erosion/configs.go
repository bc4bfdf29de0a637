package eros

import (
	"fmt"
	"strings"

	"github.com/JackDobie/Procedural-Terrain/terrain_generation/core"
	"golang.org/x/exp/slices"
)

// SubtleErosion creates gentle, minimal terrain modification.
// Good for adding slight weathering to otherwise pristine terrain.
func SubtleErosion() ErosionConfig {
	return ErosionConfig{
		Pinertia:        0.05,   // Low inertia - droplets follow terrain closely
		PCapacity:       4.0,    // Lower capacity - less sediment transport
		PDeposition:     0.0005, // Very slow deposition
		PErosion:        0.0005, // Very slow erosion
		PEvaporation:    0.02,   // Faster evaporation - shorter droplet lifetime
		PMinSlope:       0.001,
		Gravity:         0.05, // Gentle gravity
		Radius:          2,
		InitialWater:    1,
		InitialVelocity: 1,
		Iterations:      1,
		NumDroplets:     2000, // Fewer droplets
		NumSteps:        30,   // Shorter simulation
	}
}

// AverageErosion provides balanced, natural-looking erosion.
// Suitable for general terrain generation.
func AverageErosion() ErosionConfig {
	return ErosionConfig{
		Pinertia:        0.1,
		PCapacity:       10.0,
		PDeposition:     0.001,
		PErosion:        0.001,
		PEvaporation:    0.01,
		PMinSlope:       0.07,
		Gravity:         0.1,
		Radius:          3,
		InitialWater:    1,
		InitialVelocity: 1,
		Iterations:      1,
		NumDroplets:     4000,
		NumSteps:        50,
	}
}

// HeavyErosion creates deep valleys and significant terrain carving.
// Simulates long-term geological erosion or high rainfall environments.
func HeavyErosion() ErosionConfig {
	return ErosionConfig{
		Pinertia:        0.3,  // Slightly more inertia - creates smoother channels
		PCapacity:       8.0,  // High capacity - can transport lots of sediment
		PDeposition:     0.2,  // Faster deposition in valleys
		PErosion:        0.7,  // Aggressive erosion
		PEvaporation:    0.02, // Slow evaporation - droplets travel far
		PMinSlope:       0.01, // Erodes even flatter areas
		Gravity:         10.0, // Strong gravity - faster downhill movement
		Radius:          3,
		InitialWater:    1,
		InitialVelocity: 1,
		Iterations:      4,
		NumDroplets:     25_000, // Many droplets
		NumSteps:        200,    // Long simulation
	}
}

// ArtisticErosion creates stylized, exaggerated terrain features.
// High inertia causes swirling patterns, extreme capacity creates
// dramatic sediment deposits, and inverted gravity/erosion ratios
// produce otherworldly landscapes.
func ArtisticErosion() ErosionConfig {
	return ErosionConfig{
		Pinertia:        0.7,    // Very high inertia - droplets resist turning, create swirls
		PCapacity:       50.0,   // Extreme capacity - massive sediment transport
		PDeposition:     0.01,   // Fast deposition - creates visible sediment fans
		PErosion:        0.0002, // Very slow erosion relative to deposition
		PEvaporation:    0.002,  // Very slow evaporation - droplets travel extremely far
		PMinSlope:       0.01,   // Only erodes steeper slopes
		Gravity:         0.02,   // Weak gravity - floaty, dreamlike movement
		Radius:          4,
		InitialWater:    1,
		InitialVelocity: 1,
		Iterations:      1,
		NumDroplets:     6000,
		NumSteps:        100, // Long simulation to see full effect
	}
}

// ============================================================================
// Combined Erosion Presets (Hydraulic + Thermal)
// ============================================================================

// CombinedErosionConfig holds both hydraulic and thermal erosion settings.
type CombinedErosionConfig struct {
	Hydraulic ErosionConfig
	Thermal   ThermalConfig
}

// Passes expands the combination into pipeline passes: the droplet pass,
// then the thermal pass when it is enabled.
func (c CombinedErosionConfig) Passes() []Spec {
	passes := []Spec{ParticlePass(c.Hydraulic)}
	if c.Thermal.Enabled {
		passes = append(passes, ThermalPass(c.Thermal))
	}
	return passes
}

// NaturalErosion returns a balanced combination of hydraulic and thermal erosion.
// Produces realistic terrain with carved channels and talus deposits.
func NaturalErosion() CombinedErosionConfig {
	return CombinedErosionConfig{
		Hydraulic: AverageErosion(),
		Thermal:   DefaultThermalConfig(),
	}
}

// AggressiveErosion returns heavy hydraulic erosion with aggressive thermal weathering.
// Creates deeply carved terrain with significant talus accumulation.
func AggressiveErosion() CombinedErosionConfig {
	thermal := HeavyThermal()
	thermal.Timing = TimingInterleaved
	return CombinedErosionConfig{
		Hydraulic: HeavyErosion(),
		Thermal:   thermal,
	}
}

// GentleWeathering returns subtle erosion for light terrain modification.
// Good for adding natural character without dramatic changes.
func GentleWeathering() CombinedErosionConfig {
	return CombinedErosionConfig{
		Hydraulic: SubtleErosion(),
		Thermal:   SubtleThermal(),
	}
}

// HydraulicOnly returns hydraulic erosion with thermal disabled.
// Use when you only want water-based erosion.
func HydraulicOnly() CombinedErosionConfig {
	return CombinedErosionConfig{
		Hydraulic: HeavyErosion(),
		Thermal: ThermalConfig{
			Enabled: false,
		},
	}
}

// Stylized returns the artistic droplet settings with no thermal weathering,
// so the sediment fans stay sharp.
func Stylized() CombinedErosionConfig {
	return CombinedErosionConfig{Hydraulic: ArtisticErosion()}
}

// ThermalOnly returns thermal erosion with minimal hydraulic erosion.
// Use when you only want slope-based material movement.
func ThermalOnly() CombinedErosionConfig {
	return CombinedErosionConfig{
		Hydraulic: SubtleErosion(),
		Thermal:   HeavyThermal(),
	}
}

var presets = map[string]func() CombinedErosionConfig{
	"natural":    NaturalErosion,
	"aggressive": AggressiveErosion,
	"gentle":     GentleWeathering,
	"hydraulic":  HydraulicOnly,
	"thermal":    ThermalOnly,
	"artistic":   Stylized,
}

// Presets lists the combined preset names in sorted order.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Preset looks up a combined preset by name.
func Preset(name string) (CombinedErosionConfig, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if fn, ok := presets[key]; ok {
		return fn(), nil
	}
	if s := core.Suggest(key, Presets()); s != "" {
		return CombinedErosionConfig{}, fmt.Errorf("unknown erosion preset %q (did you mean %q?): %w", name, s, core.ErrInvalidParameter)
	}
	return CombinedErosionConfig{}, fmt.Errorf("unknown erosion preset %q, want one of %s: %w", name, strings.Join(Presets(), ", "), core.ErrInvalidParameter)
}
