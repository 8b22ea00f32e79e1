package srcmesh

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// CylindricalMesh bins points by (r, phi, z) around Origin. It only
// classifies: it does not describe cell geometry, so runs targeting it stop
// before the strength table is written.
type CylindricalMesh struct {
	id      int
	Origin  r3.Vec
	RGrid   []Real // ascending radial boundaries
	PhiBins int    // equal sectors over [0, 2π)
	ZGrid   []Real // ascending axial boundaries
}

func NewCylindricalMesh(id int, origin r3.Vec, rGrid []Real, phiBins int, zGrid []Real) (*CylindricalMesh, error) {
	if len(rGrid) < 2 || len(zGrid) < 2 {
		return nil, fmt.Errorf("mesh %d: r and z grids need at least two boundaries", id)
	}
	if !strictlyAscending(rGrid) || !strictlyAscending(zGrid) {
		return nil, fmt.Errorf("mesh %d: grid boundaries must be strictly ascending", id)
	}
	if rGrid[0] < 0 {
		return nil, fmt.Errorf("mesh %d: radial grid must start at r >= 0", id)
	}
	if phiBins < 1 {
		return nil, fmt.Errorf("mesh %d: phiBins must be >= 1, got %d", id, phiBins)
	}
	return &CylindricalMesh{id: id, Origin: origin, RGrid: rGrid, PhiBins: phiBins, ZGrid: zGrid}, nil
}

func (m *CylindricalMesh) ID() int      { return m.id }
func (m *CylindricalMesh) Kind() string { return "cylindrical" }

func (m *CylindricalMesh) BinCount() int {
	return (len(m.RGrid) - 1) * m.PhiBins * (len(m.ZGrid) - 1)
}

func (m *CylindricalMesh) Geometry() (Geometry, bool) { return nil, false }

func (m *CylindricalMesh) Classify(p r3.Vec) int {
	d := r3.Sub(p, m.Origin)
	ir := gridIndex(m.RGrid, math.Hypot(d.X, d.Y))
	iz := gridIndex(m.ZGrid, d.Z)
	if ir < 0 || iz < 0 {
		return Miss
	}
	phi := math.Atan2(d.Y, d.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	ip := int(phi / (2 * math.Pi) * Real(m.PhiBins))
	if ip >= m.PhiBins {
		ip = m.PhiBins - 1
	}
	return ir + (len(m.RGrid)-1)*(ip+m.PhiBins*iz)
}

// gridIndex returns i such that grid[i] <= v < grid[i+1], or -1.
func gridIndex(grid []Real, v Real) int {
	if v < grid[0] || v >= grid[len(grid)-1] || math.IsNaN(v) {
		return -1
	}
	return sort.Search(len(grid), func(i int) bool { return grid[i] > v }) - 1
}

func strictlyAscending(xs []Real) bool {
	for i := 1; i < len(xs); i++ {
		if !(xs[i] > xs[i-1]) {
			return false
		}
	}
	return true
}
