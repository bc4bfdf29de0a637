package eros

import (
	"bytes"
	"errors"
	"log"
	"math"
	"strings"
	"testing"

	"github.com/JackDobie/Procedural-Terrain/terrain_generation/core"
	"github.com/go-gl/mathgl/mgl64"
)

// hills returns a smooth, deterministic test terrain.
func hills(size int) *core.HeightGrid {
	g := core.NewHeightGrid(size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			g.SetAt(x, y, 4*math.Sin(float64(x)*0.3)*math.Cos(float64(y)*0.25)+0.05*float64(x)+4)
		}
	}
	return g
}

func fromRows(t *testing.T, rows [][]float64) *core.HeightGrid {
	t.Helper()
	g, err := core.FromRows(rows)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func smallParticle() ErosionConfig {
	cfg := AverageErosion()
	cfg.NumDroplets = 300
	cfg.NumSteps = 40
	cfg.PErosion = 0.3
	cfg.PDeposition = 0.3
	return cfg
}

func TestIdentityErosion(t *testing.T) {
	zeroIter := smallParticle()
	zeroIter.Iterations = 0
	zeroDrops := smallParticle()
	zeroDrops.NumDroplets = 0
	zeroSteps := smallParticle()
	zeroSteps.NumSteps = 0

	cellular := DefaultCellularConfig()
	cellular.Iterations = 0
	thermal := HeavyThermal()
	thermal.Iterations = 0
	disabled := HeavyThermal()
	disabled.Enabled = false

	sims := map[string]Simulator{
		"particle iterations=0": NewParticle(zeroIter),
		"particle droplets=0":   NewParticle(zeroDrops),
		"particle lifetime=0":   NewParticle(zeroSteps),
		"cellular iterations=0": NewCellular(cellular, nil),
		"thermal iterations=0":  NewThermal(thermal),
		"thermal disabled":      NewThermal(disabled),
	}
	for name, sim := range sims {
		g := hills(24)
		before := g.Clone()
		if err := sim.Erode(g, core.NewRng(1)); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !g.Equal(before) {
			t.Errorf("%s changed the grid", name)
		}
	}
}

func TestErosionDeterministic(t *testing.T) {
	sims := []func() Simulator{
		func() Simulator { return NewParticle(smallParticle()) },
		func() Simulator { return NewCellular(DefaultCellularConfig(), nil) },
		func() Simulator { return NewThermal(HeavyThermal()) },
	}
	for _, build := range sims {
		a, b := hills(32), hills(32)
		if err := build().Erode(a, core.NewRng(5)); err != nil {
			t.Fatal(err)
		}
		if err := build().Erode(b, core.NewRng(5)); err != nil {
			t.Fatal(err)
		}
		name := build().Name()
		if !a.Equal(b) {
			t.Errorf("%s: identical inputs gave different grids", name)
		}
		if a.Equal(hills(32)) {
			t.Errorf("%s: grid was not modified", name)
		}
		if err := a.Validate(); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestParticleLocalMaximum(t *testing.T) {
	g := fromRows(t, [][]float64{
		{1, 0},
		{0, 0},
	})
	cfg := ErosionConfig{
		Pinertia:        0,
		PCapacity:       4,
		PDeposition:     0.3,
		PErosion:        0.3,
		PEvaporation:    0.01,
		PMinSlope:       0.01,
		Gravity:         4,
		Radius:          1,
		InitialWater:    1,
		InitialVelocity: 1,
		Iterations:      1,
		NumDroplets:     1,
		NumSteps:        1,
	}
	before := g.Sum()
	if err := NewParticle(cfg).Erode(g, core.NewRng(42)); err != nil {
		t.Fatal(err)
	}
	// the droplet leaves the peak diagonally and erodes around where it lands
	drop := 1 - math.Pow(1-math.Sqrt(0.5), 2)
	if math.Abs(before-g.Sum()-drop) > 1e-9 {
		t.Fatalf("sum %v -> %v, want a loss of %v", before, g.Sum(), drop)
	}
	if math.Abs(g.At(0, 0)-1) > 1e-9 {
		t.Fatalf("peak = %v, want it untouched", g.At(0, 0))
	}
	if math.Abs(g.At(1, 0)-g.At(0, 1)) > 1e-12 {
		t.Fatalf("asymmetric erosion: %v", g.Rows())
	}
	if !(g.At(1, 1) < g.At(1, 0) && g.At(1, 0) < 0) {
		t.Fatalf("nearest cell should lose most: %v", g.Rows())
	}
}

func TestParticleHardnessResists(t *testing.T) {
	g := fromRows(t, [][]float64{
		{1, 0},
		{0, 0},
	})
	cfg := smallParticle()
	cfg.Pinertia = 0
	cfg.Radius = 1
	cfg.NumDroplets = 1
	cfg.NumSteps = 1

	hard := core.NewHeightGrid(2)
	for i := range hard.Cells() {
		hard.Cells()[i] = 1
	}
	p := NewParticle(cfg)
	p.SetResistance(hard)
	before := g.Clone()
	if err := p.Erode(g, core.NewRng(1)); err != nil {
		t.Fatal(err)
	}
	if !g.Equal(before) {
		t.Fatalf("fully hard rock was eroded: %v", g.Rows())
	}

	p.SetResistance(core.NewHeightGrid(3))
	if err := p.Erode(g, core.NewRng(1)); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("mismatched hardness err = %v", err)
	}
}

func TestParticleLeavesAtPit(t *testing.T) {
	g := fromRows(t, [][]float64{
		{0, 1},
		{1, 1},
	})
	cfg := smallParticle()
	cfg.Pinertia = 0
	cfg.NumDroplets = 1
	before := g.Clone()
	if err := NewParticle(cfg).Erode(g, core.NewRng(3)); err != nil {
		t.Fatal(err)
	}
	if !g.Equal(before) {
		t.Fatalf("droplet walking off the grid changed it: %v", g.Rows())
	}
}

func TestParticleDepositsUphill(t *testing.T) {
	g := fromRows(t, [][]float64{
		{0, 1, 2},
		{0, 1, 2},
		{0, 1, 2},
	})
	cfg := smallParticle()
	cfg.Pinertia = 1
	cfg.Gravity = 0.5
	p := NewParticle(cfg)

	d := p.NewDroplet(0, 0)
	d.Dir = mgl64.Vec2{1, 0}
	d.Sediment = 0.5
	if !p.Step(g, &d) {
		t.Fatal("droplet ended inside the grid")
	}
	if d.Sediment != 0 {
		t.Fatalf("sediment = %v, want 0", d.Sediment)
	}
	if g.At(1, 0) != 1.5 || g.At(0, 0) != 0 {
		t.Fatalf("deposit landed wrong: %v, want 0.5 added at the new position", g.Rows())
	}
	if want := math.Sqrt(1 - 0.5); math.Abs(d.Velocity-want) > 1e-12 {
		t.Fatalf("velocity = %v, want %v", d.Velocity, want)
	}
	if d.Pos != (mgl64.Vec2{1, 0}) {
		t.Fatalf("position = %v", d.Pos)
	}
}

func TestParticleKernels(t *testing.T) {
	g := core.NewHeightGrid(6)
	p := NewParticle(ErosionConfig{Radius: 2})

	placed := p.DepositAt(g, mgl64.Vec2{2.25, 3.5}, 1)
	if math.Abs(placed-1) > 1e-12 || math.Abs(g.Sum()-1) > 1e-12 {
		t.Fatalf("deposit placed %v, grid sum %v", placed, g.Sum())
	}
	if math.Abs(g.At(2, 3)-0.375) > 1e-12 || math.Abs(g.At(3, 4)-0.125) > 1e-12 {
		t.Fatalf("bilinear weights wrong: %v", g.Rows())
	}

	g = core.NewHeightGrid(6)
	removed := p.ErodeAt(g, mgl64.Vec2{0, 0}, 0.6)
	if math.Abs(removed-0.6) > 1e-12 || math.Abs(g.Sum()+0.6) > 1e-12 {
		t.Fatalf("erode removed %v, grid sum %v", removed, g.Sum())
	}
	if g.At(0, 0) >= g.At(1, 0) {
		t.Fatalf("centre should lose most: %v", g.Rows())
	}

	zero := NewParticle(ErosionConfig{Radius: 0})
	if r := zero.ErodeAt(g, mgl64.Vec2{2, 2}, 1); r != 0 {
		t.Fatalf("zero radius removed %v", r)
	}
}

func TestParticleValidate(t *testing.T) {
	bad := []ErosionConfig{
		{Pinertia: 1.5},
		{PEvaporation: -0.1},
		{Radius: -1},
		{NumDroplets: -5},
		{PMinSlope: math.NaN()},
		{Pinertia: math.NaN()},
		{PEvaporation: math.NaN()},
	}
	for _, cfg := range bad {
		if err := NewParticle(cfg).Erode(hills(4), core.NewRng(1)); !errors.Is(err, core.ErrInvalidParameter) {
			t.Errorf("%+v: err = %v", cfg, err)
		}
	}
}

func TestThermalConservesHeight(t *testing.T) {
	for _, policy := range []core.Policy{core.Clamp, core.Wrap, core.MirrorEdge} {
		for _, conn := range []core.Connectivity{core.VonNeumann, core.Moore} {
			cfg := HeavyThermal()
			cfg.Policy = policy
			cfg.Connectivity = conn
			cfg.TalusThreshold = 0.2
			g := hills(20)
			before := g.Sum()
			if err := NewThermal(cfg).Erode(g, nil); err != nil {
				t.Fatal(err)
			}
			if math.Abs(g.Sum()-before) > 1e-9*math.Abs(before) {
				t.Errorf("%s/%d: sum %v -> %v", policy, conn, before, g.Sum())
			}
		}
	}
}

func TestThermalSpike(t *testing.T) {
	g := fromRows(t, [][]float64{
		{0, 0, 0},
		{0, 1, 0},
		{0, 0, 0},
	})
	th := NewThermal(ThermalConfig{Enabled: true, TalusThreshold: 0.1, TransferRate: 0.5, Iterations: 1})
	if err := th.Erode(g, nil); err != nil {
		t.Fatal(err)
	}
	// four qualifying neighbours each get c*(dMax-minAngle)*d/dTotal
	if math.Abs(g.At(1, 1)-0.55) > 1e-12 {
		t.Fatalf("centre = %v, want 0.55", g.At(1, 1))
	}
	for _, c := range [][2]int{{1, 0}, {0, 1}, {2, 1}, {1, 2}} {
		if math.Abs(g.At(c[0], c[1])-0.1125) > 1e-12 {
			t.Errorf("neighbour %v = %v, want 0.1125", c, g.At(c[0], c[1]))
		}
	}
	for _, c := range [][2]int{{0, 0}, {2, 0}, {0, 2}, {2, 2}} {
		if g.At(c[0], c[1]) != 0 {
			t.Errorf("corner %v = %v, want 0", c, g.At(c[0], c[1]))
		}
	}
}

func TestThermalReadsSnapshot(t *testing.T) {
	g := fromRows(t, [][]float64{
		{1, 0.95},
		{0.95, 0},
	})
	th := NewThermal(ThermalConfig{Enabled: true, TalusThreshold: 0.1, TransferRate: 0.5, Iterations: 1})
	th.Step(g)

	// each slope cell has one qualifying neighbour and moves c*(d-minAngle);
	// the peak sees only 0.05 drops and stays put
	want := [][]float64{
		{1, 0.525},
		{0.525, 0.85},
	}
	for y, row := range want {
		for x, v := range row {
			if math.Abs(g.At(x, y)-v) > 1e-12 {
				t.Errorf("(%d,%d) = %v, want %v", x, y, g.At(x, y), v)
			}
		}
	}
}

func TestThermalValidate(t *testing.T) {
	for _, cfg := range []ThermalConfig{
		{Enabled: true, TalusThreshold: -1},
		{Enabled: true, TransferRate: 2},
		{Enabled: true, TransferRate: math.NaN()},
		{Enabled: true, Timing: "before"},
	} {
		if err := NewThermal(cfg).Erode(hills(4), nil); !errors.Is(err, core.ErrInvalidParameter) {
			t.Errorf("%+v: err = %v", cfg, err)
		}
	}
	if !(ThermalConfig{Timing: TimingInterleaved}).Interleaved() {
		t.Fatal("interleaved timing not reported")
	}
}

func TestCellularConservesHeight(t *testing.T) {
	g := hills(24)
	before := g.Sum()
	cfg := DefaultCellularConfig()
	cfg.Solubility = 0.05
	c := NewCellular(cfg, nil)
	if err := c.Erode(g, nil); err != nil {
		t.Fatal(err)
	}
	if math.Abs(g.Sum()-before) > 1e-9*before {
		t.Fatalf("sum %v -> %v", before, g.Sum())
	}
	if c.Anomalies() != 0 {
		t.Fatalf("anomalies = %d on a well-behaved grid", c.Anomalies())
	}
}

func TestCellularGuardReverts(t *testing.T) {
	g := core.NewHeightGrid(5)
	g.SetAt(2, 2, 1)
	before := g.Clone()

	var buf bytes.Buffer
	cfg := CellularConfig{Iterations: 3, Rain: 0.1, Evaporation: 0.5, Capacity: 0.1, MaxHeight: 0.9}
	c := NewCellular(cfg, log.New(&buf, "", 0))
	if err := c.Erode(g, nil); err != nil {
		t.Fatal(err)
	}
	if c.Anomalies() != 3 {
		t.Fatalf("anomalies = %d, want 3", c.Anomalies())
	}
	if !g.Equal(before) {
		t.Fatalf("grid changed: %v", g.Rows())
	}
	if !strings.Contains(buf.String(), "cell (2, 2)") {
		t.Fatalf("revert not logged: %q", buf.String())
	}
}

func TestCellularValidate(t *testing.T) {
	for _, cfg := range []CellularConfig{
		{Iterations: -1},
		{Iterations: 1, Evaporation: 1.5},
		{Iterations: 1, Evaporation: math.NaN()},
		{Iterations: 1, Rain: -1},
		{Iterations: 1, MaxHeight: math.Inf(1)},
	} {
		if err := NewCellular(cfg, nil).Erode(hills(4), nil); !errors.Is(err, core.ErrInvalidParameter) {
			t.Errorf("%+v: err = %v", cfg, err)
		}
	}
}

func TestParseKindAndSpec(t *testing.T) {
	for name, want := range map[string]Kind{"particle": KindParticle, "Cellular": KindCellular, "thermal": KindThermal, "hydraulic": KindParticle} {
		got, err := ParseKind(name)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseKind("thermla"); err == nil || !strings.Contains(err.Error(), `did you mean "thermal"`) {
		t.Fatalf("typo err = %v", err)
	}

	for _, s := range []Spec{ParticlePass(AverageErosion()), CellularPass(DefaultCellularConfig()), ThermalPass(DefaultThermalConfig())} {
		sim, err := s.Simulator(nil)
		if err != nil {
			t.Fatal(err)
		}
		if sim.Name() != s.Kind.String() {
			t.Errorf("kind %v built %q", s.Kind, sim.Name())
		}
		if err := s.Validate(); err != nil {
			t.Errorf("preset %v invalid: %v", s.Kind, err)
		}
	}
	if _, err := (Spec{Kind: 9}).Simulator(nil); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("unknown kind err = %v", err)
	}
}

func TestPresets(t *testing.T) {
	for _, name := range Presets() {
		c, err := Preset(name)
		if err != nil {
			t.Fatalf("Preset(%q): %v", name, err)
		}
		for _, pass := range c.Passes() {
			if err := pass.Validate(); err != nil {
				t.Errorf("%s: %v", name, err)
			}
		}
	}
	if got := len(HydraulicOnly().Passes()); got != 1 {
		t.Fatalf("hydraulic-only passes = %d", got)
	}
	if !AggressiveErosion().Thermal.Interleaved() {
		t.Fatal("aggressive preset should interleave thermal erosion")
	}
	art, err := Preset("Artistic")
	if err != nil {
		t.Fatal(err)
	}
	if passes := art.Passes(); len(passes) != 1 || passes[0].Particle != ArtisticErosion() {
		t.Fatalf("artistic passes = %+v", passes)
	}
	if _, err := Preset("natrual"); err == nil || !strings.Contains(err.Error(), "natural") {
		t.Fatalf("typo err = %v", err)
	}
	for _, name := range []string{"alpine", "none", "volcanic"} {
		p, ok := PeakPreset(name)
		if !ok {
			t.Errorf("peak preset %q missing", name)
		}
		if err := p.Validate(); err != nil {
			t.Errorf("peak preset %q: %v", name, err)
		}
	}
}
