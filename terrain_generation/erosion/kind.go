// Package eros holds the erosion simulators that refine a generated height
// grid in place: droplet (particle) hydraulic erosion, cellular hydraulic
// erosion and thermal talus erosion, plus the hardness and ridge passes that
// shape peaks.
package eros

import (
	"fmt"
	"log"
	"strings"

	"github.com/JackDobie/Procedural-Terrain/terrain_generation/core"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Simulator mutates a grid in place. Simulators that need randomness draw
// it from rng only.
type Simulator interface {
	Name() string
	Erode(grid *core.HeightGrid, rng *core.Rng) error
}

type Kind int

const (
	KindParticle Kind = iota
	KindCellular
	KindThermal
)

var kindNames = map[string]Kind{
	"particle": KindParticle,
	"cellular": KindCellular,
	"thermal":  KindThermal,
}

func (k Kind) String() string {
	for name, v := range kindNames {
		if v == k {
			return name
		}
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Kinds lists the accepted simulator names in sorted order.
func Kinds() []string {
	names := maps.Keys(kindNames)
	slices.Sort(names)
	return names
}

func ParseKind(name string) (Kind, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "hydraulic", "droplet":
		return KindParticle, nil
	}
	if k, ok := kindNames[key]; ok {
		return k, nil
	}
	if s := core.Suggest(key, Kinds()); s != "" {
		return 0, fmt.Errorf("unknown erosion model %q (did you mean %q?): %w", name, s, core.ErrInvalidParameter)
	}
	return 0, fmt.Errorf("unknown erosion model %q, want one of %s: %w", name, strings.Join(Kinds(), ", "), core.ErrInvalidParameter)
}

// Spec is one erosion pass of a pipeline.
type Spec struct {
	Kind     Kind
	Particle ErosionConfig
	Cellular CellularConfig
	Thermal  ThermalConfig
}

func ParticlePass(cfg ErosionConfig) Spec { return Spec{Kind: KindParticle, Particle: cfg} }
func CellularPass(cfg CellularConfig) Spec { return Spec{Kind: KindCellular, Cellular: cfg} }
func ThermalPass(cfg ThermalConfig) Spec   { return Spec{Kind: KindThermal, Thermal: cfg} }

// Simulator builds the configured simulator. logger is used by models that
// report recoverable anomalies; nil means log.Default().
func (s Spec) Simulator(logger *log.Logger) (Simulator, error) {
	switch s.Kind {
	case KindParticle:
		return NewParticle(s.Particle), nil
	case KindCellular:
		return NewCellular(s.Cellular, logger), nil
	case KindThermal:
		return NewThermal(s.Thermal), nil
	}
	return nil, fmt.Errorf("erosion kind %d: %w", int(s.Kind), core.ErrInvalidParameter)
}

// Validate checks the settings of the selected model only.
func (s Spec) Validate() error {
	switch s.Kind {
	case KindParticle:
		return s.Particle.Validate()
	case KindCellular:
		return s.Cellular.Validate()
	case KindThermal:
		return s.Thermal.Validate()
	}
	return fmt.Errorf("erosion kind %d: %w", int(s.Kind), core.ErrInvalidParameter)
}
