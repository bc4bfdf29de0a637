package noise

import (
	"math"

	"github.com/JackDobie/Procedural-Terrain/terrain_generation/core"
	"github.com/go-gl/mathgl/mgl64"
)

const blueNoiseTries = 30

// PoissonDisc scatters points in [0, size)² no closer than minDist to each
// other (Bridson's algorithm), stopping once limit points exist. limit <= 0
// means no limit. The result is empty for minDist <= 0 or size <= 0.
func PoissonDisc(rng *core.Rng, size int, minDist float64, limit int) []mgl64.Vec2 {
	if minDist <= 0 || size <= 0 {
		return nil
	}
	extent := float64(size)

	// background grid: r/sqrt(2) cells hold at most one point
	cellSize := minDist / math.Sqrt2
	gridW := int(math.Ceil(extent / cellSize))
	cells := make([]int, gridW*gridW)
	for i := range cells {
		cells[i] = -1
	}

	points := make([]mgl64.Vec2, 0, 64)
	active := make([]int, 0, 64)

	toCell := func(p mgl64.Vec2) (int, int) {
		gx := min(max(int(p.X()/cellSize), 0), gridW-1)
		gy := min(max(int(p.Y()/cellSize), 0), gridW-1)
		return gx, gy
	}

	fits := func(p mgl64.Vec2) bool {
		if p.X() < 0 || p.X() >= extent || p.Y() < 0 || p.Y() >= extent {
			return false
		}
		gx, gy := toCell(p)
		r2 := minDist * minDist
		for dy := -2; dy <= 2; dy++ {
			for dx := -2; dx <= 2; dx++ {
				nx, ny := gx+dx, gy+dy
				if nx < 0 || nx >= gridW || ny < 0 || ny >= gridW {
					continue
				}
				if idx := cells[ny*gridW+nx]; idx != -1 {
					d := points[idx].Sub(p)
					if d.Dot(d) < r2 {
						return false
					}
				}
			}
		}
		return true
	}

	insert := func(p mgl64.Vec2) {
		idx := len(points)
		points = append(points, p)
		active = append(active, idx)
		gx, gy := toCell(p)
		cells[gy*gridW+gx] = idx
	}

	insert(mgl64.Vec2{rng.Float64() * extent, rng.Float64() * extent})

	for len(active) > 0 && (limit <= 0 || len(points) < limit) {
		ai := rng.IntN(len(active))
		p := points[active[ai]]

		found := false
		for k := 0; k < blueNoiseTries; k++ {
			// candidate in the annulus [r, 2r) around p
			angle := rng.Float64() * 2 * math.Pi
			dist := minDist + rng.Float64()*minDist
			c := mgl64.Vec2{p.X() + dist*math.Cos(angle), p.Y() + dist*math.Sin(angle)}
			if fits(c) {
				insert(c)
				found = true
				break
			}
		}
		if !found {
			active[ai] = active[len(active)-1]
			active = active[:len(active)-1]
		}
	}
	return points
}
