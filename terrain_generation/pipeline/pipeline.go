// Package pipeline runs one terrain generation: a noise generator builds the
// raw grid, erosion passes refine it in order, optional peak shaping is
// applied and the result is validated before it is handed out.
package pipeline

import (
	"fmt"
	"log"
	"time"

	"github.com/JackDobie/Procedural-Terrain/terrain_generation/core"
	eros "github.com/JackDobie/Procedural-Terrain/terrain_generation/erosion"
	"github.com/JackDobie/Procedural-Terrain/terrain_generation/noise"
	"github.com/google/uuid"
)

type Config struct {
	Seed      int64
	Size      int
	MaxHeight float64 // > 0 rescales the raw noise into [0, MaxHeight] before erosion
	Noise     noise.Spec
	Passes    []eros.Spec
	Peaks     eros.PeakConfig

	KeepStages bool        // keep a copy of the grid after every stage
	Logger     *log.Logger // nil means log.Default()
}

// DefaultConfig returns a 128x128 gradient-noise terrain with natural erosion.
func DefaultConfig() Config {
	return Config{
		Seed:      1,
		Size:      128,
		MaxHeight: 32,
		Noise:     noise.DefaultSpec(),
		Passes:    eros.NaturalErosion().Passes(),
		Peaks:     eros.NoPeaks(),
	}
}

// Validate checks every setting that can be checked before generation.
// Grid sizes are not checked here: an unsupported size yields the empty grid.
func (c Config) Validate() error {
	if c.MaxHeight < 0 || !core.IsFinite(c.MaxHeight) {
		return fmt.Errorf("max height %v: %w", c.MaxHeight, core.ErrInvalidParameter)
	}
	if _, err := c.Noise.Generator(); err != nil {
		return err
	}
	if err := c.Peaks.Validate(); err != nil {
		return err
	}
	for i, pass := range c.Passes {
		if err := pass.Validate(); err != nil {
			return fmt.Errorf("pass %d (%s): %w", i, pass.Kind, err)
		}
	}
	return nil
}

type Stats struct {
	Min, Max, Sum float64
}

func statsOf(g *core.HeightGrid) Stats {
	lo, hi := g.MinMax()
	return Stats{Min: lo, Max: hi, Sum: g.Sum()}
}

type PassReport struct {
	Name      string
	Duration  time.Duration
	Anomalies int
}

type Report struct {
	Generator  string
	Before     Stats // after generation and rescaling
	After      Stats
	Passes     []PassReport
	Anomalies  int // cells reverted by numerical guards, all passes
	RidgeCells int
	RidgeLines int
	Total      time.Duration
}

// Stage is a snapshot of the grid after one step of the run.
type Stage struct {
	Name     string
	Grid     *core.HeightGrid
	Duration time.Duration
}

type Result struct {
	RunID  uuid.UUID
	Seed   int64
	Grid   *core.HeightGrid
	Stages []Stage
	Report Report
}

func (r *Result) keep(enabled bool, name string, g *core.HeightGrid, d time.Duration) {
	if !enabled {
		return
	}
	r.Stages = append(r.Stages, Stage{Name: name, Grid: g.Clone(), Duration: d})
}

// Run executes one generation. All randomness is drawn from a single
// stream seeded with cfg.Seed, so equal configs give bit-identical grids.
func Run(cfg Config) (*Result, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res := &Result{RunID: uuid.New(), Seed: cfg.Seed}
	rng := core.NewRng(cfg.Seed)
	began := time.Now()

	gen, err := cfg.Noise.Generator()
	if err != nil {
		return nil, err
	}
	res.Report.Generator = gen.Name()

	start := time.Now()
	grid, err := gen.Generate(rng, cfg.Size)
	if err != nil {
		return nil, fmt.Errorf("run %s: %s: %w", res.RunID, gen.Name(), err)
	}
	res.Grid = grid
	if grid.Empty() {
		logger.Printf("run %s: %s does not support size %d, returning an empty grid", res.RunID, gen.Name(), cfg.Size)
		return res, nil
	}
	if cfg.MaxHeight > 0 {
		grid.Normalize(0, cfg.MaxHeight)
	}
	res.keep(cfg.KeepStages, gen.Name(), grid, time.Since(start))
	res.Report.Before = statsOf(grid)

	var hardness *core.HeightGrid
	if cfg.Peaks.Hardness.Enabled {
		hardness = eros.ComputeHardnessMap(grid, cfg.Peaks.Hardness, rng.Int64())
	}

	for i := 0; i < len(cfg.Passes); i++ {
		pass := cfg.Passes[i]
		sim, err := pass.Simulator(logger)
		if err != nil {
			return nil, fmt.Errorf("run %s: pass %d: %w", res.RunID, i, err)
		}
		name := sim.Name()
		start := time.Now()

		if p, ok := sim.(*eros.Particle); ok && hardness != nil {
			p.SetResistance(hardness)
		}
		if p, ok := sim.(*eros.Particle); ok && interleavesWith(cfg.Passes, i) {
			th := eros.NewThermal(cfg.Passes[i+1].Thermal)
			erodeInterleaved(p, th, grid, rng)
			name += "+" + th.Name()
			i++
		} else if err := sim.Erode(grid, rng); err != nil {
			return nil, fmt.Errorf("run %s: %s: %w", res.RunID, name, err)
		}

		pr := PassReport{Name: name, Duration: time.Since(start)}
		if c, ok := sim.(interface{ Anomalies() int }); ok {
			pr.Anomalies = c.Anomalies()
			res.Report.Anomalies += pr.Anomalies
		}
		res.Report.Passes = append(res.Report.Passes, pr)
		if err := grid.Validate(); err != nil {
			return nil, fmt.Errorf("run %s: after %s: %w", res.RunID, name, err)
		}
		res.keep(cfg.KeepStages, name, grid, pr.Duration)
	}

	if cfg.Peaks.Ridge.Enabled {
		start := time.Now()
		res.Report.RidgeCells = eros.EnhanceRidges(grid, cfg.Peaks.Ridge, rng.Int64())
		res.Report.RidgeLines = len(eros.FindRidgeLines(grid, cfg.Peaks.Ridge.Threshold))
		res.keep(cfg.KeepStages, "ridges", grid, time.Since(start))
	}

	if err := grid.Validate(); err != nil {
		return nil, fmt.Errorf("run %s: %w", res.RunID, err)
	}
	res.Report.After = statsOf(grid)
	res.Report.Total = time.Since(began)

	logger.Printf("run %s: seed %d, %s %dx%d, %d passes, %d anomalies, %v",
		res.RunID, cfg.Seed, gen.Name(), grid.Size(), grid.Size(), len(res.Report.Passes), res.Report.Anomalies, res.Report.Total)
	return res, nil
}

// interleavesWith reports whether pass i+1 is an enabled thermal pass that
// asks to run between the iterations of pass i.
func interleavesWith(passes []eros.Spec, i int) bool {
	if i+1 >= len(passes) {
		return false
	}
	next := passes[i+1]
	return next.Kind == eros.KindThermal && next.Thermal.Enabled && next.Thermal.Interleaved()
}

// erodeInterleaved runs one thermal step after every droplet iteration, then
// any thermal steps left over. Both configs are validated by Config.Validate.
func erodeInterleaved(p *eros.Particle, th *eros.Thermal, grid *core.HeightGrid, rng *core.Rng) {
	hydraulic := p.Config().Iterations
	thermal := th.Config().Iterations
	for iter := 0; iter < hydraulic; iter++ {
		p.Iterate(grid, rng)
		if iter < thermal {
			th.Step(grid)
		}
	}
	for iter := hydraulic; iter < thermal; iter++ {
		th.Step(grid)
	}
}
