package core

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// HeightGrid is a square, row-major buffer of elevations.
// A grid of size 0 is the sentinel returned for invalid generation requests.
type HeightGrid struct {
	size  int
	cells []float64
}

// NewHeightGrid allocates a zero-filled size x size grid.
// Non-positive sizes return the empty sentinel.
func NewHeightGrid(size int) *HeightGrid {
	if size <= 0 {
		return &HeightGrid{}
	}
	return &HeightGrid{size: size, cells: make([]float64, size*size)}
}

// FromRows builds a grid from row-major data; every row must be len(rows) long.
func FromRows(rows [][]float64) (*HeightGrid, error) {
	g := NewHeightGrid(len(rows))
	for y, row := range rows {
		if len(row) != len(rows) {
			return nil, fmt.Errorf("row %d has %d values, want %d: %w", y, len(row), len(rows), ErrInvalidParameter)
		}
		for x, v := range row {
			if err := g.Set(x, y, v); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

func (g *HeightGrid) Size() int   { return g.size }
func (g *HeightGrid) Empty() bool { return g.size == 0 }

// Cells exposes the backing slice (index = y*size + x).
func (g *HeightGrid) Cells() []float64 { return g.cells }

// Index returns the linear slice index for (x, y).
func (g *HeightGrid) Index(x, y int) int { return y*g.size + x }

// InBounds reports whether (x, y) addresses a cell.
func (g *HeightGrid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.size && y < g.size
}

// Get returns the height at (x, y).
func (g *HeightGrid) Get(x, y int) (float64, error) {
	if !g.InBounds(x, y) {
		return 0, fmt.Errorf("get (%d, %d) on %dx%d grid: %w", x, y, g.size, g.size, ErrOutOfRange)
	}
	return g.cells[g.Index(x, y)], nil
}

// Set writes v at (x, y). Non-finite values are refused.
func (g *HeightGrid) Set(x, y int, v float64) error {
	if !g.InBounds(x, y) {
		return fmt.Errorf("set (%d, %d) on %dx%d grid: %w", x, y, g.size, g.size, ErrOutOfRange)
	}
	if !IsFinite(v) {
		return fmt.Errorf("set (%d, %d) = %v: %w", x, y, v, ErrNonFinite)
	}
	g.cells[g.Index(x, y)] = v
	return nil
}

// At, SetAt and AddAt skip bounds checks; callers keep indices in range.
func (g *HeightGrid) At(x, y int) float64       { return g.cells[y*g.size+x] }
func (g *HeightGrid) SetAt(x, y int, v float64) { g.cells[y*g.size+x] = v }
func (g *HeightGrid) AddAt(x, y int, v float64) { g.cells[y*g.size+x] += v }

// Resolve maps (x, y) onto the grid under the given policy.
// ok is false only for an empty grid.
func (g *HeightGrid) Resolve(x, y int, p Policy) (int, int, bool) {
	if g.size == 0 {
		return 0, 0, false
	}
	return resolveAxis(x, g.size, p), resolveAxis(y, g.size, p), true
}

func resolveAxis(v, n int, p Policy) int {
	if v >= 0 && v < n {
		return v
	}
	switch p {
	case Wrap:
		return (v%n + n) % n
	case MirrorEdge:
		if n == 1 {
			return 0
		}
		// reflect with period 2(n-1): -1 -> 1, n -> n-2
		period := 2 * (n - 1)
		v = (v%period + period) % period
		if v >= n {
			v = period - v
		}
		return v
	}
	if v < 0 {
		return 0
	}
	return n - 1
}

// Sample reads (x, y) after resolving it under p.
func (g *HeightGrid) Sample(x, y int, p Policy) float64 {
	rx, ry, ok := g.Resolve(x, y, p)
	if !ok {
		return 0
	}
	return g.At(rx, ry)
}

// Neighbors returns the adjacent cells of (x, y). Under Clamp an off-grid
// neighbour would only duplicate an edge cell, so it is left out; under every
// policy a neighbour that resolves onto (x, y) itself is dropped, and on tiny
// grids where two offsets resolve to the same cell it is listed once.
func (g *HeightGrid) Neighbors(x, y int, conn Connectivity, p Policy) []Neighbor {
	return g.AppendNeighbors(nil, x, y, conn, p)
}

// AppendNeighbors is Neighbors writing into dst, for allocation-free loops.
func (g *HeightGrid) AppendNeighbors(dst []Neighbor, x, y int, conn Connectivity, p Policy) []Neighbor {
	if !g.InBounds(x, y) {
		return dst
	}
	start := len(dst)
next:
	for _, off := range conn.Offsets() {
		if p == Clamp && !g.InBounds(x+off[0], y+off[1]) {
			continue
		}
		nx, ny, _ := g.Resolve(x+off[0], y+off[1], p)
		if nx == x && ny == y {
			continue
		}
		for _, n := range dst[start:] {
			if n.X == nx && n.Y == ny {
				continue next
			}
		}
		dst = append(dst, Neighbor{X: nx, Y: ny, Height: g.At(nx, ny)})
	}
	return dst
}

// Bilinear returns the interpolated height and gradient at a continuous
// position from the 4 surrounding cells. Positions are clamped into the grid.
func (g *HeightGrid) Bilinear(px, py float64) (float64, mgl64.Vec2) {
	if g.size == 0 {
		return 0, mgl64.Vec2{}
	}
	x0 := clampInt(int(math.Floor(px)), 0, g.size-1)
	y0 := clampInt(int(math.Floor(py)), 0, g.size-1)
	x1 := clampInt(x0+1, 0, g.size-1)
	y1 := clampInt(y0+1, 0, g.size-1)
	fx := clampFloat(px-float64(x0), 0, 1)
	fy := clampFloat(py-float64(y0), 0, 1)

	h00 := g.At(x0, y0)
	h10 := g.At(x1, y0)
	h01 := g.At(x0, y1)
	h11 := g.At(x1, y1)

	gradX := (h10-h00)*(1-fy) + (h11-h01)*fy
	gradY := (h01-h00)*(1-fx) + (h11-h10)*fx
	h := h00*(1-fx)*(1-fy) + h10*fx*(1-fy) + h01*(1-fx)*fy + h11*fx*fy

	return h, mgl64.Vec2{gradX, gradY}
}

// Clone returns a deep copy.
func (g *HeightGrid) Clone() *HeightGrid {
	c := &HeightGrid{size: g.size, cells: make([]float64, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}

// CopyFrom overwrites g with src; sizes must match.
func (g *HeightGrid) CopyFrom(src *HeightGrid) error {
	if src.size != g.size {
		return fmt.Errorf("copy %dx%d into %dx%d: %w", src.size, src.size, g.size, g.size, ErrInvalidParameter)
	}
	copy(g.cells, src.cells)
	return nil
}

// Equal reports bit-identical contents.
func (g *HeightGrid) Equal(o *HeightGrid) bool {
	if g.size != o.size {
		return false
	}
	for i, v := range g.cells {
		if math.Float64bits(v) != math.Float64bits(o.cells[i]) {
			return false
		}
	}
	return true
}

func (g *HeightGrid) Sum() float64 {
	total := 0.0
	for _, v := range g.cells {
		total += v
	}
	return total
}

// MinMax returns the extreme heights; both are 0 on an empty grid.
func (g *HeightGrid) MinMax() (float64, float64) {
	if len(g.cells) == 0 {
		return 0, 0
	}
	lo, hi := g.cells[0], g.cells[0]
	for _, v := range g.cells {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// Normalize rescales heights linearly into [lo, hi]. Flat grids are left alone.
func (g *HeightGrid) Normalize(lo, hi float64) {
	minH, maxH := g.MinMax()
	span := maxH - minH
	if span < 1e-12 {
		return
	}
	for i, v := range g.cells {
		g.cells[i] = lo + (v-minH)/span*(hi-lo)
	}
}

// Validate fails on the first NaN or Inf cell.
func (g *HeightGrid) Validate() error {
	for i, v := range g.cells {
		if !IsFinite(v) {
			return fmt.Errorf("cell (%d, %d) = %v: %w", i%g.size, i/g.size, v, ErrNonFinite)
		}
	}
	return nil
}

// Rows copies the grid out as row-major [y][x] slices.
func (g *HeightGrid) Rows() [][]float64 {
	rows := make([][]float64, g.size)
	for y := range rows {
		rows[y] = make([]float64, g.size)
		copy(rows[y], g.cells[y*g.size:(y+1)*g.size])
	}
	return rows
}

func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
