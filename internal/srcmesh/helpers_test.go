package srcmesh

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// lineMesh bins by floor(X) into n unit cells; X outside [0, n) misses.
type lineMesh struct {
	n        int
	vols     []float64 // per-cell volume, 1 when nil
	noGeom   bool
	badIndex bool
}

func (m *lineMesh) ID() int       { return 7 }
func (m *lineMesh) Kind() string  { return "line" }
func (m *lineMesh) BinCount() int { return m.n }

func (m *lineMesh) Classify(p r3.Vec) int {
	if p.X < 0 || p.X >= float64(m.n) {
		return Miss
	}
	if m.badIndex {
		return m.n + 3
	}
	return int(p.X)
}

func (m *lineMesh) Geometry() (Geometry, bool) {
	if m.noGeom {
		return nil, false
	}
	return m, true
}

func (m *lineMesh) Volume(i int) float64 {
	if m.vols == nil {
		return 1
	}
	return m.vols[i]
}

func (m *lineMesh) Centroid(i int) r3.Vec { return r3.Vec{X: float64(i) + 0.5} }

// lineSites returns n sites with X cycling through -1, 0, ..., cells so that
// every cycle holds one hit per cell and two misses.
func lineSites(n, cells int) []SourceSite {
	sites := make([]SourceSite, n)
	for i := range sites {
		sites[i].R = r3.Vec{X: float64(i%(cells+2)) - 1 + 0.25}
	}
	return sites
}

// histogramOf builds a frozen histogram directly from counts.
func histogramOf(counts []uint64, misses uint64) *Histogram {
	h := NewHistogram(len(counts))
	copy(h.counts, counts)
	h.misses = misses
	return h
}

func ptr[T any](v T) *T { return &v }
