package srcmesh

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// RegularMesh is an axis-aligned Cartesian grid of Nx*Ny*Nz equal cells.
// Cells are numbered with X varying fastest: i + Nx*(j + Ny*k).
type RegularMesh struct {
	id         int
	Lower      r3.Vec
	Upper      r3.Vec
	Nx, Ny, Nz int

	// cached mapping
	width    r3.Vec // cell size along each axis
	invSpan  r3.Vec
	volume   Real
	strideZ  int
	binCount int
}

// NewRegularMesh precomputes bounds and strides. A zero dimension gives an
// empty mesh where every point is a miss.
func NewRegularMesh(id int, lower, upper r3.Vec, nx, ny, nz int) (*RegularMesh, error) {
	if nx < 0 || ny < 0 || nz < 0 {
		return nil, fmt.Errorf("mesh %d: dimensions must be >= 0, got (%d, %d, %d)", id, nx, ny, nz)
	}
	if upper.X <= lower.X || upper.Y <= lower.Y || upper.Z <= lower.Z {
		return nil, fmt.Errorf("mesh %d: upper %+v must exceed lower %+v on every axis", id, upper, lower)
	}
	span := r3.Sub(upper, lower)
	m := &RegularMesh{
		id:       id,
		Lower:    lower,
		Upper:    upper,
		Nx:       nx,
		Ny:       ny,
		Nz:       nz,
		invSpan:  r3.Vec{X: 1 / span.X, Y: 1 / span.Y, Z: 1 / span.Z},
		strideZ:  nx * ny,
		binCount: nx * ny * nz,
	}
	if m.binCount > 0 {
		m.width = r3.Vec{X: span.X / Real(nx), Y: span.Y / Real(ny), Z: span.Z / Real(nz)}
		m.volume = m.width.X * m.width.Y * m.width.Z
	}
	DebugLog("Created regular mesh %d lower=%+v upper=%+v dimension=(%d, %d, %d)", id, lower, upper, nx, ny, nz)
	return m, nil
}

func (m *RegularMesh) ID() int       { return m.id }
func (m *RegularMesh) Kind() string  { return "regular" }
func (m *RegularMesh) BinCount() int { return m.binCount }

func (m *RegularMesh) Geometry() (Geometry, bool) { return m, true }

// Classify maps a point to its cell. The upper faces are exclusive and NaN
// coordinates are misses.
func (m *RegularMesh) Classify(p r3.Vec) int {
	if m.binCount == 0 || math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsNaN(p.Z) {
		return Miss
	}
	if p.X < m.Lower.X || p.X >= m.Upper.X || p.Y < m.Lower.Y || p.Y >= m.Upper.Y || p.Z < m.Lower.Z || p.Z >= m.Upper.Z {
		return Miss
	}
	i := int((p.X - m.Lower.X) * m.invSpan.X * Real(m.Nx))
	j := int((p.Y - m.Lower.Y) * m.invSpan.Y * Real(m.Ny))
	k := int((p.Z - m.Lower.Z) * m.invSpan.Z * Real(m.Nz))
	// rounding just below an upper face
	if i == m.Nx {
		i = m.Nx - 1
	}
	if j == m.Ny {
		j = m.Ny - 1
	}
	if k == m.Nz {
		k = m.Nz - 1
	}
	return m.idx(i, j, k)
}

// CellSize returns the physical size of each cell along X,Y,Z.
func (m *RegularMesh) CellSize() r3.Vec {
	DebugLogOnce("Cell size: (%.5f, %.5f, %.5f)", m.width.X, m.width.Y, m.width.Z)
	return m.width
}

func (m *RegularMesh) Volume(int) float64 { return m.volume }

func (m *RegularMesh) Centroid(bin int) r3.Vec {
	i, j, k := m.ijk(bin)
	w := m.CellSize()
	return r3.Vec{
		X: m.Lower.X + (Real(i)+0.5)*w.X,
		Y: m.Lower.Y + (Real(j)+0.5)*w.Y,
		Z: m.Lower.Z + (Real(k)+0.5)*w.Z,
	}
}

// Flat bin index helper.
func (m *RegularMesh) idx(i, j, k int) int {
	return i + j*m.Nx + k*m.strideZ
}

func (m *RegularMesh) ijk(bin int) (i, j, k int) {
	k = bin / m.strideZ
	rem := bin % m.strideZ
	return rem % m.Nx, rem / m.Nx, k
}
