package eros

/** Some Notes:

### Direction Calculation
The direction is a blend of the previous direction and the negative gradient,
weighted by Pinertia in [0, 1]. 1 means the gradient is ignored and the
direction never changes, 0 means the droplet always follows the steepest descent.

dirNew = dirOld · pinertia − g · (1 − pinertia)
posNew += dirNew

A blend with (almost) zero length keeps the previous direction. The result is
normalized so the droplet advances one cell per step.

### Sign convention
climb = h_new − h_old. A positive climb is uphill: the droplet drops up to
`climb` of its sediment to fill the hole behind it. Otherwise the drop is
−climb and carrying capacity is max(drop, PMinSlope)·velocity·water·PCapacity.

Erosion and deposition act on the cells around the droplet's new position.

*/

import (
	"fmt"
	"math"

	"github.com/JackDobie/Procedural-Terrain/terrain_generation/core"
	"github.com/go-gl/mathgl/mgl64"
)

type ErosionConfig struct {
	Pinertia        float64 // Must always be clamped between 0 and 1
	PCapacity       float64
	PDeposition     float64
	PErosion        float64
	PEvaporation    float64
	PMinSlope       float64
	Gravity         float64
	Radius          float64 // erosion brush radius in cells
	InitialWater    float64
	InitialVelocity float64
	Iterations      int
	NumDroplets     int // per iteration
	NumSteps        int // droplet lifetime
}

func (c ErosionConfig) Validate() error {
	if !core.IsFinite(c.Pinertia) || c.Pinertia < 0 || c.Pinertia > 1 {
		return fmt.Errorf("inertia %v outside [0, 1]: %w", c.Pinertia, core.ErrInvalidParameter)
	}
	if !core.IsFinite(c.PEvaporation) || c.PEvaporation < 0 || c.PEvaporation > 1 {
		return fmt.Errorf("evaporation %v outside [0, 1]: %w", c.PEvaporation, core.ErrInvalidParameter)
	}
	for name, v := range map[string]float64{
		"capacity":         c.PCapacity,
		"deposition":       c.PDeposition,
		"erosion":          c.PErosion,
		"gravity":          c.Gravity,
		"radius":           c.Radius,
		"initial water":    c.InitialWater,
		"initial velocity": c.InitialVelocity,
	} {
		if v < 0 || !core.IsFinite(v) {
			return fmt.Errorf("%s %v: %w", name, v, core.ErrInvalidParameter)
		}
	}
	if !core.IsFinite(c.PMinSlope) {
		return fmt.Errorf("min slope %v: %w", c.PMinSlope, core.ErrInvalidParameter)
	}
	if c.Iterations < 0 || c.NumDroplets < 0 || c.NumSteps < 0 {
		return fmt.Errorf("negative droplet counts (%d, %d, %d): %w", c.Iterations, c.NumDroplets, c.NumSteps, core.ErrInvalidParameter)
	}
	return nil
}

type Droplet struct {
	Pos      mgl64.Vec2
	Dir      mgl64.Vec2 // According to gradient
	Velocity float64
	Water    float64
	Sediment float64
}

// Particle is the droplet-based hydraulic erosion simulator.
type Particle struct {
	cfg        ErosionConfig
	resistance *core.HeightGrid
}

func NewParticle(cfg ErosionConfig) *Particle {
	return &Particle{cfg: cfg}
}

func (p *Particle) Name() string { return "particle" }

func (p *Particle) Config() ErosionConfig { return p.cfg }

// SetResistance installs a per-cell hardness map in [0, 1]; erosion removes
// (1 - hardness) of what it would otherwise take. nil disables it.
func (p *Particle) SetResistance(hardness *core.HeightGrid) {
	p.resistance = hardness
}

// Erode runs Iterations rounds of NumDroplets droplets over grid.
func (p *Particle) Erode(grid *core.HeightGrid, rng *core.Rng) error {
	if err := p.cfg.Validate(); err != nil {
		return err
	}
	if p.resistance != nil && p.resistance.Size() != grid.Size() {
		return fmt.Errorf("hardness map %d for grid %d: %w", p.resistance.Size(), grid.Size(), core.ErrInvalidParameter)
	}
	for iter := 0; iter < p.cfg.Iterations; iter++ {
		p.Iterate(grid, rng)
	}
	return nil
}

// Iterate releases one round of NumDroplets droplets. Grids smaller than
// 2x2 have no cell a droplet can spawn on.
func (p *Particle) Iterate(grid *core.HeightGrid, rng *core.Rng) {
	size := grid.Size()
	if size < 2 {
		return
	}
	for i := 0; i < p.cfg.NumDroplets; i++ {
		droplet := p.NewDroplet(rng.IntN(size-1), rng.IntN(size-1))
		for step := 0; step < p.cfg.NumSteps; step++ {
			if !p.Step(grid, &droplet) {
				break
			}
		}
	}
}

func (p *Particle) NewDroplet(x, y int) Droplet {
	return Droplet{
		Pos:      mgl64.Vec2{float64(x), float64(y)},
		Velocity: p.cfg.InitialVelocity,
		Water:    p.cfg.InitialWater,
	}
}

// Step advances the droplet by one cell and applies its erosion or
// deposition. It returns false when the droplet's life is over.
func (p *Particle) Step(grid *core.HeightGrid, d *Droplet) bool {
	limit := float64(grid.Size() - 1)
	hOld, grad := grid.Bilinear(d.Pos.X(), d.Pos.Y())

	p.MoveDroplet(d, grad)

	d.Pos = d.Pos.Add(d.Dir)
	if d.Pos.X() < 0 || d.Pos.Y() < 0 || d.Pos.X() >= limit || d.Pos.Y() >= limit {
		return false
	}

	hNew, _ := grid.Bilinear(d.Pos.X(), d.Pos.Y())
	climb := hNew - hOld

	if climb > 0 {
		// Uphill (deposition)
		amount := math.Min(d.Sediment, climb)
		d.Sediment -= p.DepositAt(grid, d.Pos, amount)
	} else {
		// Downhill movement (erosion)
		drop := -climb
		capacity := math.Max(drop, p.cfg.PMinSlope) * d.Velocity * d.Water * p.cfg.PCapacity
		if d.Sediment >= capacity {
			d.Sediment -= p.DepositAt(grid, d.Pos, (d.Sediment-capacity)*p.cfg.PDeposition)
		} else {
			amount := math.Min((capacity-d.Sediment)*p.cfg.PErosion, drop)
			d.Sediment += p.ErodeAt(grid, d.Pos, amount)
		}
	}

	d.Velocity = math.Sqrt(math.Max(0, d.Velocity*d.Velocity-climb*p.cfg.Gravity))
	d.Water *= 1 - p.cfg.PEvaporation

	return core.IsFinite(d.Velocity) && core.IsFinite(d.Sediment) && core.IsFinite(d.Water)
}

// MoveDroplet blends the droplet's direction with the downhill gradient.
func (p *Particle) MoveDroplet(d *Droplet, grad mgl64.Vec2) {
	dirNew := d.Dir.Mul(p.cfg.Pinertia).Sub(grad.Mul(1 - p.cfg.Pinertia))
	if dirNew.Dot(dirNew) < 1e-20 {
		return
	}
	d.Dir = core.Normalize(dirNew)
}

// DepositAt spreads amount over the 4 cells around pos with bilinear weights
// and returns what was placed. Cells off the grid receive nothing.
func (p *Particle) DepositAt(grid *core.HeightGrid, pos mgl64.Vec2, amount float64) float64 {
	if amount <= 0 || !core.IsFinite(amount) {
		return 0
	}
	x0 := int(math.Floor(pos.X()))
	y0 := int(math.Floor(pos.Y()))
	dx := pos.X() - float64(x0)
	dy := pos.Y() - float64(y0)

	placed := 0.0
	for _, c := range [4]struct {
		x, y int
		w    float64
	}{
		{x0, y0, (1 - dx) * (1 - dy)},
		{x0 + 1, y0, dx * (1 - dy)},
		{x0, y0 + 1, (1 - dx) * dy},
		{x0 + 1, y0 + 1, dx * dy},
	} {
		if !grid.InBounds(c.x, c.y) || c.w == 0 {
			continue
		}
		grid.AddAt(c.x, c.y, amount*c.w)
		placed += amount * c.w
	}
	return placed
}

// ErodeAt removes amount from the cells within Radius of pos, weighted by
// max(0, Radius - distance) and normalized over the in-bounds cells. It
// returns what was actually removed.
func (p *Particle) ErodeAt(grid *core.HeightGrid, pos mgl64.Vec2, amount float64) float64 {
	if amount <= 0 || !core.IsFinite(amount) {
		return 0
	}
	r := p.cfg.Radius
	reach := int(math.Ceil(r))
	cx := int(math.Floor(pos.X()))
	cy := int(math.Floor(pos.Y()))

	type cell struct {
		x, y int
		w    float64
	}
	var cells []cell
	weightSum := 0.0
	for y := cy - reach; y <= cy+reach; y++ {
		for x := cx - reach; x <= cx+reach; x++ {
			if !grid.InBounds(x, y) {
				continue
			}
			dist := mgl64.Vec2{float64(x), float64(y)}.Sub(pos).Len()
			w := r - dist
			if w <= 0 {
				continue
			}
			cells = append(cells, cell{x, y, w})
			weightSum += w
		}
	}
	if weightSum <= 0 {
		return 0
	}

	removed := 0.0
	for _, c := range cells {
		take := amount * c.w / weightSum
		if p.resistance != nil {
			take *= 1 - p.resistance.At(c.x, c.y)
		}
		grid.AddAt(c.x, c.y, -take)
		removed += take
	}
	return removed
}
