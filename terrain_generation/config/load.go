package config

import (
	"fmt"
	"strings"

	"github.com/JackDobie/Procedural-Terrain/terrain_generation/core"
	eros "github.com/JackDobie/Procedural-Terrain/terrain_generation/erosion"
	"github.com/JackDobie/Procedural-Terrain/terrain_generation/noise"
	"github.com/JackDobie/Procedural-Terrain/terrain_generation/pipeline"
	"github.com/larspensjo/config"
)

// Load reads an ini file into a pipeline config. Missing sections and keys
// keep the values of pipeline.DefaultConfig; the erosion preset named in
// [terrain] is applied before the [particle] and [thermal] sections.
//
//	[terrain]
//	seed = 42
//	size = 256
//	noise = diamond-square
//	erosion = natural
//	passes = particle, thermal
//	peaks = alpine
func Load(path string) (pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()
	file, err := config.ReadDefault(path)
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	r := &reader{file: file, path: path}

	cfg.Seed = int64(r.integer("terrain", "seed", int(cfg.Seed)))
	cfg.Size = r.integer("terrain", "size", cfg.Size)
	cfg.MaxHeight = r.number("terrain", "max_height", cfg.MaxHeight)
	cfg.KeepStages = r.boolean("terrain", "keep_stages", cfg.KeepStages)
	if name, ok := r.text("terrain", "noise"); ok {
		kind, err := noise.ParseKind(name)
		r.fail(err)
		cfg.Noise.Kind = kind
	}

	combined := eros.NaturalErosion()
	if name, ok := r.text("terrain", "erosion"); ok {
		preset, err := eros.Preset(name)
		r.fail(err)
		if err == nil {
			combined = preset
		}
	}
	if name, ok := r.text("terrain", "peaks"); ok {
		peaks, found := eros.PeakPreset(name)
		if !found {
			r.fail(fmt.Errorf("%s: unknown peak preset %q: %w", path, name, core.ErrInvalidParameter))
		}
		cfg.Peaks = peaks
	}

	r.gradient(&cfg.Noise.Gradient)
	r.diamond(&cfg.Noise.DiamondSquare)
	r.worley(&cfg.Noise.Worley)
	r.particle(&combined.Hydraulic)
	r.thermal(&combined.Thermal)
	cellular := eros.DefaultCellularConfig()
	r.cellular(&cellular)
	r.peaks(&cfg.Peaks)

	cfg.Passes = combined.Passes()
	if list, ok := r.text("terrain", "passes"); ok {
		cfg.Passes = cfg.Passes[:0:0]
		for _, name := range strings.Split(list, ",") {
			if strings.TrimSpace(name) == "" {
				continue
			}
			kind, err := eros.ParseKind(name)
			if err != nil {
				r.fail(err)
				continue
			}
			cfg.Passes = append(cfg.Passes, eros.Spec{
				Kind:     kind,
				Particle: combined.Hydraulic,
				Cellular: cellular,
				Thermal:  combined.Thermal,
			})
		}
	}

	if r.err != nil {
		return cfg, r.err
	}
	return cfg, cfg.Validate()
}

// reader wraps the ini file and keeps the first error it meets.
type reader struct {
	file *config.Config
	path string
	err  error
}

func (r *reader) fail(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

func (r *reader) has(section, key string) bool {
	return r.file.HasSection(section) && r.file.HasOption(section, key)
}

func (r *reader) bad(section, key string, err error) {
	r.fail(fmt.Errorf("%s: [%s] %s: %v: %w", r.path, section, key, err, core.ErrInvalidParameter))
}

func (r *reader) text(section, key string) (string, bool) {
	if !r.has(section, key) {
		return "", false
	}
	v, err := r.file.String(section, key)
	if err != nil {
		r.bad(section, key, err)
		return "", false
	}
	return strings.TrimSpace(v), true
}

func (r *reader) integer(section, key string, def int) int {
	if !r.has(section, key) {
		return def
	}
	v, err := r.file.Int(section, key)
	if err != nil {
		r.bad(section, key, err)
		return def
	}
	return v
}

func (r *reader) number(section, key string, def float64) float64 {
	if !r.has(section, key) {
		return def
	}
	v, err := r.file.Float(section, key)
	if err != nil {
		r.bad(section, key, err)
		return def
	}
	return v
}

func (r *reader) boolean(section, key string, def bool) bool {
	if !r.has(section, key) {
		return def
	}
	v, err := r.file.Bool(section, key)
	if err != nil {
		r.bad(section, key, err)
		return def
	}
	return v
}

func (r *reader) policy(section string, def core.Policy) core.Policy {
	name, ok := r.text(section, "policy")
	if !ok {
		return def
	}
	p, ok := core.ParsePolicy(strings.ToLower(name))
	if !ok {
		r.bad(section, "policy", fmt.Errorf("unknown edge policy %q", name))
		return def
	}
	return p
}

func (r *reader) connectivity(section string, def core.Connectivity) core.Connectivity {
	name, ok := r.text(section, "connectivity")
	if !ok {
		return def
	}
	switch strings.ToLower(name) {
	case "moore", "8":
		return core.Moore
	case "von-neumann", "vonneumann", "4":
		return core.VonNeumann
	}
	r.bad(section, "connectivity", fmt.Errorf("unknown neighbourhood %q", name))
	return def
}

func (r *reader) gradient(c *noise.GradientConfig) {
	const s = "perlin"
	c.Scale = r.number(s, "scale", c.Scale)
	c.Offset[0] = r.number(s, "offset_x", c.Offset[0])
	c.Offset[1] = r.number(s, "offset_y", c.Offset[1])
	c.Octaves = r.integer(s, "octaves", c.Octaves)
	c.Persistence = r.number(s, "persistence", c.Persistence)
	c.Ridged = r.boolean(s, "ridged", c.Ridged)
	c.MaxHeight = r.number(s, "max_height", c.MaxHeight)
	c.FieldSize = r.integer(s, "field_size", c.FieldSize)
	c.ClampScale = r.boolean(s, "clamp_scale", c.ClampScale)
}

func (r *reader) diamond(c *noise.DiamondSquareConfig) {
	const s = "diamond"
	c.OffsetRange = r.number(s, "offset_range", c.OffsetRange)
	c.Smoothness = r.number(s, "smoothness", c.Smoothness)
	c.Clamp = r.boolean(s, "clamp", c.Clamp)
	c.Policy = r.policy(s, c.Policy)
}

func (r *reader) worley(c *noise.WorleyConfig) {
	const s = "worley"
	c.Points = r.integer(s, "points", c.Points)
	c.Rank = r.integer(s, "rank", c.Rank)
	c.Scale = r.number(s, "scale", c.Scale)
	c.MinDist = r.number(s, "min_dist", c.MinDist)
}

func (r *reader) particle(c *eros.ErosionConfig) {
	const s = "particle"
	c.Iterations = r.integer(s, "iterations", c.Iterations)
	c.NumDroplets = r.integer(s, "droplets", c.NumDroplets)
	c.NumSteps = r.integer(s, "steps", c.NumSteps)
	c.Pinertia = r.number(s, "inertia", c.Pinertia)
	c.PCapacity = r.number(s, "capacity", c.PCapacity)
	c.PDeposition = r.number(s, "deposition", c.PDeposition)
	c.PErosion = r.number(s, "erosion", c.PErosion)
	c.PEvaporation = r.number(s, "evaporation", c.PEvaporation)
	c.PMinSlope = r.number(s, "min_slope", c.PMinSlope)
	c.Gravity = r.number(s, "gravity", c.Gravity)
	c.Radius = r.number(s, "radius", c.Radius)
	c.InitialWater = r.number(s, "initial_water", c.InitialWater)
	c.InitialVelocity = r.number(s, "initial_velocity", c.InitialVelocity)
}

func (r *reader) cellular(c *eros.CellularConfig) {
	const s = "cellular"
	c.Iterations = r.integer(s, "iterations", c.Iterations)
	c.Rain = r.number(s, "rain", c.Rain)
	c.Solubility = r.number(s, "solubility", c.Solubility)
	c.Evaporation = r.number(s, "evaporation", c.Evaporation)
	c.Capacity = r.number(s, "capacity", c.Capacity)
	c.MaxHeight = r.number(s, "max_height", c.MaxHeight)
	c.Policy = r.policy(s, c.Policy)
	c.Connectivity = r.connectivity(s, c.Connectivity)
}

func (r *reader) thermal(c *eros.ThermalConfig) {
	const s = "thermal"
	c.Enabled = r.boolean(s, "enabled", c.Enabled)
	c.Iterations = r.integer(s, "iterations", c.Iterations)
	c.TalusThreshold = r.number(s, "talus", c.TalusThreshold)
	c.TransferRate = r.number(s, "rate", c.TransferRate)
	c.Policy = r.policy(s, c.Policy)
	c.Connectivity = r.connectivity(s, c.Connectivity)
	if timing, ok := r.text(s, "timing"); ok {
		c.Timing = timing
	}
}

func (r *reader) peaks(c *eros.PeakConfig) {
	const s = "peaks"
	c.Hardness.Enabled = r.boolean(s, "hardness", c.Hardness.Enabled)
	c.Ridge.Enabled = r.boolean(s, "ridges", c.Ridge.Enabled)
	c.Ridge.Threshold = r.number(s, "ridge_threshold", c.Ridge.Threshold)
	c.Ridge.BoostAmount = r.number(s, "ridge_boost", c.Ridge.BoostAmount)
}
