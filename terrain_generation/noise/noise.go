// Package noise builds the initial height grid of a terrain from a seeded
// random stream. Three algorithms are available: gradient (Perlin) noise,
// diamond-square subdivision and Worley distance noise.
package noise

import (
	"fmt"
	"strings"

	"github.com/JackDobie/Procedural-Terrain/terrain_generation/core"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Generator produces a fresh height grid. All randomness comes from rng.
type Generator interface {
	Name() string
	Generate(rng *core.Rng, size int) (*core.HeightGrid, error)
}

type Kind int

const (
	KindGradient Kind = iota
	KindDiamondSquare
	KindWorley
)

var kindNames = map[string]Kind{
	"perlin":         KindGradient,
	"diamond-square": KindDiamondSquare,
	"worley":         KindWorley,
}

func (k Kind) String() string {
	for name, v := range kindNames {
		if v == k {
			return name
		}
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Kinds lists the accepted algorithm names in sorted order.
func Kinds() []string {
	names := maps.Keys(kindNames)
	slices.Sort(names)
	return names
}

// ParseKind resolves an algorithm name. Unknown names get a suggestion when
// one of the known names is close enough.
func ParseKind(name string) (Kind, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "gradient":
		return KindGradient, nil
	case "diamond", "diamondsquare", "diamond_square":
		return KindDiamondSquare, nil
	case "cellular-noise":
		return KindWorley, nil
	}
	if k, ok := kindNames[key]; ok {
		return k, nil
	}
	if s := core.Suggest(key, Kinds()); s != "" {
		return 0, fmt.Errorf("unknown noise algorithm %q (did you mean %q?): %w", name, s, core.ErrInvalidParameter)
	}
	return 0, fmt.Errorf("unknown noise algorithm %q, want one of %s: %w", name, strings.Join(Kinds(), ", "), core.ErrInvalidParameter)
}

// Spec selects one algorithm and carries the settings of all of them, so a
// configuration can switch algorithm without losing the others' values.
type Spec struct {
	Kind          Kind
	Gradient      GradientConfig
	DiamondSquare DiamondSquareConfig
	Worley        WorleyConfig
}

// DefaultSpec returns gradient noise with every algorithm at its defaults.
func DefaultSpec() Spec {
	return Spec{
		Kind:          KindGradient,
		Gradient:      DefaultGradientConfig(),
		DiamondSquare: DefaultDiamondSquareConfig(),
		Worley:        DefaultWorleyConfig(),
	}
}

// Generator returns the configured algorithm.
func (s Spec) Generator() (Generator, error) {
	switch s.Kind {
	case KindGradient:
		return NewGradient(s.Gradient), nil
	case KindDiamondSquare:
		return NewDiamondSquare(s.DiamondSquare), nil
	case KindWorley:
		return NewWorley(s.Worley), nil
	}
	return nil, fmt.Errorf("noise kind %d: %w", int(s.Kind), core.ErrInvalidParameter)
}
