package eros

import (
	"fmt"

	"github.com/JackDobie/Procedural-Terrain/terrain_generation/core"
)

const (
	TimingAfter       = "after"
	TimingInterleaved = "interleaved"
)

// ThermalConfig holds parameters for thermal erosion simulation.
type ThermalConfig struct {
	Enabled        bool    // Whether thermal erosion is active
	TalusThreshold float64 // Height difference a neighbour must exceed before material slides
	TransferRate   float64 // Fraction of the excess moved per iteration (0.1-0.5)
	Iterations     int     // Number of thermal erosion passes
	Policy         core.Policy
	Connectivity   core.Connectivity
	Timing         string // "after" or "interleaved"
}

// DefaultThermalConfig returns a balanced thermal erosion configuration.
func DefaultThermalConfig() ThermalConfig {
	return ThermalConfig{
		Enabled:        true,
		TalusThreshold: 0.57, // ~30 degrees angle of repose over one cell
		TransferRate:   0.25,
		Iterations:     20,
		Timing:         TimingAfter,
	}
}

// SubtleThermal returns a light thermal erosion configuration.
func SubtleThermal() ThermalConfig {
	return ThermalConfig{
		Enabled:        true,
		TalusThreshold: 0.7, // ~35 degrees - only very steep slopes
		TransferRate:   0.1,
		Iterations:     10,
		Timing:         TimingAfter,
	}
}

// HeavyThermal returns an aggressive thermal erosion configuration.
func HeavyThermal() ThermalConfig {
	return ThermalConfig{
		Enabled:        true,
		TalusThreshold: 0.4, // ~22 degrees - triggers on gentler slopes
		TransferRate:   0.5,
		Iterations:     50,
		Timing:         TimingAfter,
	}
}

func (c ThermalConfig) Validate() error {
	if c.TalusThreshold < 0 || !core.IsFinite(c.TalusThreshold) {
		return fmt.Errorf("talus threshold %v: %w", c.TalusThreshold, core.ErrInvalidParameter)
	}
	if !core.IsFinite(c.TransferRate) || c.TransferRate < 0 || c.TransferRate > 1 {
		return fmt.Errorf("transfer rate %v outside [0, 1]: %w", c.TransferRate, core.ErrInvalidParameter)
	}
	if c.Iterations < 0 {
		return fmt.Errorf("thermal iterations %d: %w", c.Iterations, core.ErrInvalidParameter)
	}
	switch c.Timing {
	case "", TimingAfter, TimingInterleaved:
	default:
		return fmt.Errorf("thermal timing %q: %w", c.Timing, core.ErrInvalidParameter)
	}
	return nil
}

// Interleaved reports whether the pass runs one iteration after each
// hydraulic iteration instead of on its own.
func (c ThermalConfig) Interleaved() bool { return c.Timing == TimingInterleaved }

// Thermal simulates talus/scree accumulation by moving material from steep
// slopes to neighbouring lower cells.
//
// Every cell is evaluated against the heights at the start of the iteration;
// the moves are accumulated and applied once the whole grid has been visited,
// so the result does not depend on visiting order and the height sum is kept.
type Thermal struct {
	cfg    ThermalConfig
	deltas []float64
	snap   *core.HeightGrid
	nbuf   []core.Neighbor
}

func NewThermal(cfg ThermalConfig) *Thermal {
	return &Thermal{cfg: cfg}
}

func (t *Thermal) Name() string { return "thermal" }

func (t *Thermal) Config() ThermalConfig { return t.cfg }

// Erode runs the configured iterations. rng is unused; thermal erosion is
// fully determined by the grid.
func (t *Thermal) Erode(grid *core.HeightGrid, _ *core.Rng) error {
	if err := t.cfg.Validate(); err != nil {
		return err
	}
	if !t.cfg.Enabled {
		return nil
	}
	for iter := 0; iter < t.cfg.Iterations; iter++ {
		t.Step(grid)
	}
	return nil
}

// Step runs a single iteration, used when interleaving with hydraulic erosion.
func (t *Thermal) Step(grid *core.HeightGrid) {
	if !t.cfg.Enabled || grid.Empty() {
		return
	}
	size := grid.Size()
	if t.snap == nil || t.snap.Size() != size {
		t.snap = grid.Clone()
		t.deltas = make([]float64, size*size)
	} else {
		_ = t.snap.CopyFrom(grid)
		for i := range t.deltas {
			t.deltas[i] = 0
		}
	}

	minAngle := t.cfg.TalusThreshold
	c := t.cfg.TransferRate

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			h := t.snap.At(x, y)
			t.nbuf = t.snap.AppendNeighbors(t.nbuf[:0], x, y, t.cfg.Connectivity, t.cfg.Policy)

			dTotal, dMax := 0.0, 0.0
			count := 0
			for _, n := range t.nbuf {
				d := h - n.Height
				if d <= minAngle {
					continue
				}
				dTotal += d
				if d > dMax {
					dMax = d
				}
				count++
			}
			if count == 0 {
				continue
			}

			idx := grid.Index(x, y)
			for _, n := range t.nbuf {
				d := h - n.Height
				if d <= minAngle {
					continue
				}
				var amount float64
				if count == 1 {
					amount = c * (d - minAngle)
				} else {
					amount = c * (dMax - minAngle) * d / dTotal
				}
				t.deltas[idx] -= amount
				t.deltas[grid.Index(n.X, n.Y)] += amount
			}
		}
	}

	// Apply deltas after full iteration to avoid order-dependent results
	cells := grid.Cells()
	for i := range cells {
		cells[i] += t.deltas[i]
	}
}
