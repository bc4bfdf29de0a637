package core

import "errors"

// Policy decides how a coordinate outside [0, size) is mapped back onto the grid.
type Policy int

const (
	Clamp      Policy = iota // duplicate the nearest edge cell
	Wrap                     // toroidal, opposite edges touch
	MirrorEdge               // reflect about the edge cell (-1 -> 1)
)

func (p Policy) String() string {
	switch p {
	case Clamp:
		return "clamp"
	case Wrap:
		return "wrap"
	case MirrorEdge:
		return "mirror"
	}
	return "unknown"
}

// ParsePolicy maps a policy name back to its value.
func ParsePolicy(name string) (Policy, bool) {
	switch name {
	case "clamp", "":
		return Clamp, true
	case "wrap":
		return Wrap, true
	case "mirror", "mirror-edge":
		return MirrorEdge, true
	}
	return Clamp, false
}

// Connectivity selects the neighbourhood used by Neighbors.
type Connectivity int

const (
	VonNeumann Connectivity = iota // 4 axis neighbours
	Moore                          // 8 neighbours including diagonals
)

var (
	vonNeumannOffsets = [][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}
	mooreOffsets      = [][2]int{
		{-1, -1}, {0, -1}, {1, -1},
		{-1, 0}, {1, 0},
		{-1, 1}, {0, 1}, {1, 1},
	}
)

// Offsets returns the relative (dx, dy) pairs of the neighbourhood.
func (c Connectivity) Offsets() [][2]int {
	if c == Moore {
		return mooreOffsets
	}
	return vonNeumannOffsets
}

// Neighbor is a resolved adjacent cell.
type Neighbor struct {
	X, Y   int
	Height float64
}

var (
	ErrOutOfRange       = errors.New("coordinates out of range")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrNonFinite        = errors.New("non-finite height")
)
