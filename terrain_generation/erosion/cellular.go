package eros

import (
	"fmt"
	"log"

	"github.com/JackDobie/Procedural-Terrain/terrain_generation/core"
)

// CellularConfig holds parameters for grid-based hydraulic erosion, where
// water and dissolved sediment live in maps parallel to the height grid.
type CellularConfig struct {
	Iterations   int
	Rain         float64 // water added to every cell per iteration
	Solubility   float64 // height dissolved per unit of water
	Evaporation  float64 // fraction of water lost per iteration, [0, 1]
	Capacity     float64 // sediment a unit of water can hold
	MaxHeight    float64 // cells above this are reverted; 0 disables the bound
	Policy       core.Policy
	Connectivity core.Connectivity
}

// DefaultCellularConfig returns a moderate rain-and-runoff configuration.
func DefaultCellularConfig() CellularConfig {
	return CellularConfig{
		Iterations:   50,
		Rain:         0.01,
		Solubility:   0.01,
		Evaporation:  0.5,
		Capacity:     0.01,
		Connectivity: core.Moore,
	}
}

func (c CellularConfig) Validate() error {
	if c.Iterations < 0 {
		return fmt.Errorf("cellular iterations %d: %w", c.Iterations, core.ErrInvalidParameter)
	}
	if !core.IsFinite(c.Evaporation) || c.Evaporation < 0 || c.Evaporation > 1 {
		return fmt.Errorf("evaporation %v outside [0, 1]: %w", c.Evaporation, core.ErrInvalidParameter)
	}
	for name, v := range map[string]float64{
		"rain":       c.Rain,
		"solubility": c.Solubility,
		"capacity":   c.Capacity,
		"max height": c.MaxHeight,
	} {
		if v < 0 || !core.IsFinite(v) {
			return fmt.Errorf("%s %v: %w", name, v, core.ErrInvalidParameter)
		}
	}
	return nil
}

// Cellular is the whole-grid hydraulic erosion simulator.
type Cellular struct {
	cfg       CellularConfig
	logger    *log.Logger
	anomalies int

	water, sediment []float64
	nextWater       []float64
	nextSediment    []float64
	prev            []float64
	nbuf            []core.Neighbor
}

// NewCellular builds the simulator. A nil logger logs to log.Default().
func NewCellular(cfg CellularConfig, logger *log.Logger) *Cellular {
	if logger == nil {
		logger = log.Default()
	}
	return &Cellular{cfg: cfg, logger: logger}
}

func (c *Cellular) Name() string { return "cellular" }

func (c *Cellular) Config() CellularConfig { return c.cfg }

// Anomalies is the number of cells reverted by the numerical guard since
// the simulator was built.
func (c *Cellular) Anomalies() int { return c.anomalies }

// Erode runs the configured iterations. Water and sediment maps start at
// zero; sediment still suspended at the end is deposited where it is.
func (c *Cellular) Erode(grid *core.HeightGrid, _ *core.Rng) error {
	if err := c.cfg.Validate(); err != nil {
		return err
	}
	if c.cfg.Iterations == 0 || grid.Empty() {
		return nil
	}

	n := len(grid.Cells())
	c.water = make([]float64, n)
	c.sediment = make([]float64, n)
	c.nextWater = make([]float64, n)
	c.nextSediment = make([]float64, n)
	c.prev = make([]float64, n)

	for iter := 0; iter < c.cfg.Iterations; iter++ {
		c.iterate(grid, iter)
	}

	heights := grid.Cells()
	for i := range heights {
		heights[i] += c.sediment[i]
	}
	c.water, c.sediment = nil, nil
	c.nextWater, c.nextSediment = nil, nil
	c.prev = nil
	return nil
}

func (c *Cellular) iterate(grid *core.HeightGrid, iter int) {
	heights := grid.Cells()
	copy(c.prev, heights)

	// rain and dissolve
	for i := range heights {
		c.water[i] += c.cfg.Rain
		amount := c.cfg.Solubility * c.water[i]
		c.sediment[i] += amount
		heights[i] -= amount
		if limit := c.cfg.Capacity * c.water[i]; c.sediment[i] > limit {
			heights[i] += c.sediment[i] - limit
			c.sediment[i] = limit
		}
	}

	c.transport(grid)

	// evaporate and deposit
	for i := range heights {
		c.water[i] *= 1 - c.cfg.Evaporation
		if limit := c.cfg.Capacity * c.water[i]; c.sediment[i] > limit {
			heights[i] += c.sediment[i] - limit
			c.sediment[i] = limit
		}
	}

	c.guard(grid, iter)
}

// transport moves water downhill by energy (height + water). Each cell
// sends at most enough water to level itself with the mean energy of the
// cell and its lower neighbours, shared in proportion to the energy
// difference. Sediment travels with the same fraction of the cell's water.
// All flows are computed from the state before the step.
func (c *Cellular) transport(grid *core.HeightGrid) {
	size := grid.Size()
	heights := grid.Cells()
	copy(c.nextWater, c.water)
	copy(c.nextSediment, c.sediment)

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			i := grid.Index(x, y)
			w := c.water[i]
			if w <= 0 {
				continue
			}
			a := heights[i] + w
			c.nbuf = grid.AppendNeighbors(c.nbuf[:0], x, y, c.cfg.Connectivity, c.cfg.Policy)

			sum := a
			count := 1
			dTotal := 0.0
			for _, nb := range c.nbuf {
				an := nb.Height + c.water[grid.Index(nb.X, nb.Y)]
				if an >= a {
					continue
				}
				sum += an
				count++
				dTotal += a - an
			}
			if count == 1 || dTotal <= 0 {
				continue
			}
			move := a - sum/float64(count)
			if move > w {
				move = w
			}
			if move <= 0 {
				continue
			}

			carried := c.sediment[i] * move / w
			for _, nb := range c.nbuf {
				j := grid.Index(nb.X, nb.Y)
				an := nb.Height + c.water[j]
				if an >= a {
					continue
				}
				share := (a - an) / dTotal
				c.nextWater[i] -= move * share
				c.nextWater[j] += move * share
				c.nextSediment[i] -= carried * share
				c.nextSediment[j] += carried * share
			}
		}
	}

	c.water, c.nextWater = c.nextWater, c.water
	c.sediment, c.nextSediment = c.nextSediment, c.sediment
}

// guard reverts any cell that became non-finite or rose above MaxHeight
// during the iteration, and clears its water and sediment.
func (c *Cellular) guard(grid *core.HeightGrid, iter int) {
	heights := grid.Cells()
	size := grid.Size()
	for i, h := range heights {
		if core.IsFinite(h) && (c.cfg.MaxHeight == 0 || h <= c.cfg.MaxHeight) {
			continue
		}
		c.logger.Printf("cellular erosion: iteration %d cell (%d, %d) height %v reverted to %v",
			iter, i%size, i/size, h, c.prev[i])
		heights[i] = c.prev[i]
		c.water[i] = 0
		c.sediment[i] = 0
		c.anomalies++
	}
}
