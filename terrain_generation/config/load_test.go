package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/JackDobie/Procedural-Terrain/terrain_generation/core"
	eros "github.com/JackDobie/Procedural-Terrain/terrain_generation/erosion"
	"github.com/JackDobie/Procedural-Terrain/terrain_generation/noise"
)

func writeIni(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "terrain.ini")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeIni(t, `[terrain]
seed = 42
size = 64
noise = diamond
erosion = aggressive
passes = particle, thermal, cellular
peaks = alpine

[diamond]
smoothness = 0.8
policy = wrap

[particle]
droplets = 500
radius = 2

[thermal]
talus = 0.3

[cellular]
iterations = 5
connectivity = 4
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Seed != 42 || cfg.Size != 64 {
		t.Fatalf("seed %d size %d", cfg.Seed, cfg.Size)
	}
	if cfg.Noise.Kind != noise.KindDiamondSquare {
		t.Fatalf("noise kind %v", cfg.Noise.Kind)
	}
	if cfg.Noise.DiamondSquare.Smoothness != 0.8 || cfg.Noise.DiamondSquare.Policy != core.Wrap {
		t.Fatalf("diamond section %+v", cfg.Noise.DiamondSquare)
	}
	if len(cfg.Passes) != 3 {
		t.Fatalf("%d passes", len(cfg.Passes))
	}
	p := cfg.Passes[0]
	if p.Kind != eros.KindParticle || p.Particle.NumDroplets != 500 || p.Particle.Radius != 2 {
		t.Fatalf("particle pass %+v", p.Particle)
	}
	// untouched keys come from the aggressive preset
	if p.Particle.Iterations != eros.HeavyErosion().Iterations {
		t.Fatalf("particle iterations %d", p.Particle.Iterations)
	}
	th := cfg.Passes[1].Thermal
	if th.TalusThreshold != 0.3 || !th.Interleaved() {
		t.Fatalf("thermal pass %+v", th)
	}
	c := cfg.Passes[2].Cellular
	if cfg.Passes[2].Kind != eros.KindCellular || c.Iterations != 5 || c.Connectivity != core.VonNeumann {
		t.Fatalf("cellular pass %+v", c)
	}
	if !cfg.Peaks.Ridge.Enabled || cfg.Peaks.Ridge.BoostAmount != eros.AlpinePeaks().Ridge.BoostAmount {
		t.Fatalf("peaks %+v", cfg.Peaks)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeIni(t, "[terrain]\nsize = 16\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Size != 16 || cfg.Noise.Kind != noise.KindGradient {
		t.Fatalf("cfg %+v", cfg)
	}
	if len(cfg.Passes) != len(eros.NaturalErosion().Passes()) {
		t.Fatalf("%d passes", len(cfg.Passes))
	}
}

func TestLoadPerlin(t *testing.T) {
	cfg, err := Load(writeIni(t, `[terrain]
erosion = artistic

[perlin]
scale = 400
clamp_scale = true
`))
	if err != nil {
		t.Fatal(err)
	}
	g := cfg.Noise.Gradient
	if g.Scale != 400 || !g.ClampScale {
		t.Fatalf("perlin section %+v", g)
	}
	if len(cfg.Passes) != 1 || cfg.Passes[0].Particle != eros.ArtisticErosion() {
		t.Fatalf("artistic passes %+v", cfg.Passes)
	}
}

func TestLoadErrors(t *testing.T) {
	for name, body := range map[string]string{
		"unknown noise":   "[terrain]\nnoise = perlni\n",
		"unknown preset":  "[terrain]\nerosion = natral\n",
		"unknown peaks":   "[terrain]\npeaks = everest\n",
		"unknown pass":    "[terrain]\npasses = particle, wind\n",
		"bad int":         "[terrain]\nsize = big\n",
		"bad policy":      "[diamond]\npolicy = bounce\n",
		"invalid thermal": "[thermal]\nrate = 4\n",
		"invalid ridges":  "[peaks]\nridges = true\nridge_boost = -1\n",
	} {
		if _, err := Load(writeIni(t, body)); !errors.Is(err, core.ErrInvalidParameter) {
			t.Errorf("%s: err = %v", name, err)
		}
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.ini")); err == nil {
		t.Error("missing file should fail")
	}
}
