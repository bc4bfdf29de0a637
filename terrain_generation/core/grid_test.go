package core

import (
	"errors"
	"math"
	"testing"
)

func TestNewHeightGridSentinel(t *testing.T) {
	for _, size := range []int{0, -4} {
		g := NewHeightGrid(size)
		if !g.Empty() || g.Size() != 0 || len(g.Cells()) != 0 {
			t.Fatalf("NewHeightGrid(%d) should be the empty sentinel, got size %d", size, g.Size())
		}
	}
	g := NewHeightGrid(3)
	if g.Empty() || len(g.Cells()) != 9 {
		t.Fatalf("expected 9 cells, got %d", len(g.Cells()))
	}
	for _, v := range g.Cells() {
		if v != 0 {
			t.Fatalf("new grid should be zero-filled, found %v", v)
		}
	}
}

func TestGetSetBounds(t *testing.T) {
	g := NewHeightGrid(4)
	if err := g.Set(3, 2, 1.5); err != nil {
		t.Fatalf("Set in range: %v", err)
	}
	v, err := g.Get(3, 2)
	if err != nil || v != 1.5 {
		t.Fatalf("Get(3,2) = %v, %v; want 1.5", v, err)
	}

	cases := [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 4}, {10, 10}}
	for _, c := range cases {
		if _, err := g.Get(c[0], c[1]); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Get(%d,%d) err = %v, want ErrOutOfRange", c[0], c[1], err)
		}
		if err := g.Set(c[0], c[1], 1); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Set(%d,%d) err = %v, want ErrOutOfRange", c[0], c[1], err)
		}
	}

	if err := g.Set(0, 0, math.NaN()); !errors.Is(err, ErrNonFinite) {
		t.Errorf("Set NaN err = %v, want ErrNonFinite", err)
	}
	if err := g.Set(0, 0, math.Inf(1)); !errors.Is(err, ErrNonFinite) {
		t.Errorf("Set Inf err = %v, want ErrNonFinite", err)
	}
}

func TestResolvePolicies(t *testing.T) {
	g := NewHeightGrid(5)
	cases := []struct {
		policy Policy
		in     int
		want   int
	}{
		{Clamp, -1, 0},
		{Clamp, 5, 4},
		{Clamp, 7, 4},
		{Wrap, -1, 4},
		{Wrap, 5, 0},
		{Wrap, 12, 2},
		{MirrorEdge, -1, 1},
		{MirrorEdge, -2, 2},
		{MirrorEdge, 5, 3},
		{MirrorEdge, 6, 2},
		{MirrorEdge, 3, 3},
	}
	for _, c := range cases {
		x, y, ok := g.Resolve(c.in, 2, c.policy)
		if !ok || x != c.want || y != 2 {
			t.Errorf("Resolve(%d) under %s = (%d,%d,%v), want x=%d", c.in, c.policy, x, y, ok, c.want)
		}
	}
}

func TestNeighborsCounts(t *testing.T) {
	g := NewHeightGrid(4)
	for i := range g.Cells() {
		g.Cells()[i] = float64(i)
	}

	cases := []struct {
		name   string
		x, y   int
		conn   Connectivity
		policy Policy
		want   int
	}{
		{"interior 4", 1, 1, VonNeumann, Clamp, 4},
		{"interior 8", 1, 1, Moore, Clamp, 8},
		{"corner clamp 4", 0, 0, VonNeumann, Clamp, 2},
		{"corner clamp 8", 0, 0, Moore, Clamp, 3},
		{"corner wrap 4", 0, 0, VonNeumann, Wrap, 4},
		{"corner wrap 8", 0, 0, Moore, Wrap, 8},
		{"corner mirror 4", 0, 0, VonNeumann, MirrorEdge, 4},
		{"edge clamp 4", 3, 1, VonNeumann, Clamp, 3},
		{"outside", 9, 9, VonNeumann, Clamp, 0},
	}
	for _, c := range cases {
		got := g.Neighbors(c.x, c.y, c.conn, c.policy)
		if len(got) != c.want {
			t.Errorf("%s: got %d neighbours, want %d", c.name, len(got), c.want)
		}
		for _, n := range got {
			if n.Height != g.At(n.X, n.Y) {
				t.Errorf("%s: neighbour (%d,%d) height %v does not match grid", c.name, n.X, n.Y, n.Height)
			}
		}
	}

	wrapped := g.Neighbors(0, 0, VonNeumann, Wrap)
	foundOpposite := false
	for _, n := range wrapped {
		if n.X == 3 && n.Y == 0 {
			foundOpposite = true
		}
	}
	if !foundOpposite {
		t.Fatalf("wrap neighbours of (0,0) should include (3,0): %+v", wrapped)
	}
}

func TestNeighborsTinyGrids(t *testing.T) {
	cases := []struct {
		size   int
		conn   Connectivity
		policy Policy
		want   int
	}{
		{2, VonNeumann, Wrap, 2},
		{2, Moore, Wrap, 3},
		{2, VonNeumann, MirrorEdge, 2},
		{2, Moore, MirrorEdge, 3},
		{1, Moore, Wrap, 0},
		{1, Moore, MirrorEdge, 0},
	}
	for _, c := range cases {
		g := NewHeightGrid(c.size)
		got := g.Neighbors(0, 0, c.conn, c.policy)
		if len(got) != c.want {
			t.Errorf("size %d %v %v: got %+v, want %d neighbours", c.size, c.conn, c.policy, got, c.want)
		}
		seen := map[[2]int]bool{}
		for _, n := range got {
			if seen[[2]int{n.X, n.Y}] {
				t.Errorf("size %d %v %v: (%d,%d) listed twice", c.size, c.conn, c.policy, n.X, n.Y)
			}
			seen[[2]int{n.X, n.Y}] = true
		}
	}

	// only this call's neighbours are deduplicated, earlier entries stay
	g := NewHeightGrid(2)
	dst := g.Neighbors(1, 1, VonNeumann, Clamp)
	dst = g.AppendNeighbors(dst, 0, 0, VonNeumann, Clamp)
	if len(dst) != 4 {
		t.Fatalf("appended %d neighbours, want 4", len(dst))
	}
}

func TestBilinear(t *testing.T) {
	g := NewHeightGrid(2)
	g.SetAt(0, 0, 0)
	g.SetAt(1, 0, 1)
	g.SetAt(0, 1, 2)
	g.SetAt(1, 1, 3)

	h, grad := g.Bilinear(0.5, 0.5)
	if math.Abs(h-1.5) > 1e-12 {
		t.Fatalf("height at centre = %v, want 1.5", h)
	}
	if math.Abs(grad.X()-1) > 1e-12 || math.Abs(grad.Y()-2) > 1e-12 {
		t.Fatalf("gradient = %v, want (1, 2)", grad)
	}

	h, _ = g.Bilinear(0, 0)
	if h != 0 {
		t.Fatalf("height at corner = %v, want 0", h)
	}
}

func TestCloneEqualAndSum(t *testing.T) {
	g := NewHeightGrid(3)
	for i := range g.Cells() {
		g.Cells()[i] = float64(i) * 0.5
	}
	c := g.Clone()
	if !g.Equal(c) {
		t.Fatal("clone should be equal")
	}
	c.AddAt(1, 1, 1e-9)
	if g.Equal(c) {
		t.Fatal("modified clone should differ")
	}
	if got := g.Sum(); got != 18 {
		t.Fatalf("Sum = %v, want 18", got)
	}
	lo, hi := g.MinMax()
	if lo != 0 || hi != 4 {
		t.Fatalf("MinMax = %v, %v", lo, hi)
	}
	if err := g.CopyFrom(NewHeightGrid(2)); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("CopyFrom size mismatch err = %v", err)
	}
}

func TestValidateAndRows(t *testing.T) {
	g := NewHeightGrid(2)
	g.SetAt(1, 0, 7)
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	rows := g.Rows()
	if rows[0][1] != 7 || rows[1][0] != 0 {
		t.Fatalf("Rows not row-major: %v", rows)
	}
	g.SetAt(0, 1, math.Inf(-1))
	if err := g.Validate(); !errors.Is(err, ErrNonFinite) {
		t.Fatalf("Validate err = %v, want ErrNonFinite", err)
	}

	back, err := FromRows([][]float64{{1, 2}, {3, 4}})
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	if back.At(1, 0) != 2 || back.At(0, 1) != 3 {
		t.Fatalf("FromRows layout wrong: %v", back.Rows())
	}
	if _, err := FromRows([][]float64{{1}, {3, 4}}); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("ragged FromRows err = %v", err)
	}
}

func TestNormalize(t *testing.T) {
	g := NewHeightGrid(2)
	copy(g.Cells(), []float64{-2, 0, 2, 6})
	g.Normalize(0, 1)
	lo, hi := g.MinMax()
	if lo != 0 || hi != 1 {
		t.Fatalf("normalized range = [%v, %v]", lo, hi)
	}

	flat := NewHeightGrid(2)
	flat.Normalize(0, 1)
	if flat.Sum() != 0 {
		t.Fatal("flat grid should be untouched")
	}
}
