package srcmesh

import "gonum.org/v1/gonum/spatial/r3"

// Mesh is the classification capability of a spatial mesh.
// Classify returns a cell index in [0, BinCount()) or Miss.
type Mesh interface {
	ID() int
	Kind() string
	BinCount() int
	Classify(p r3.Vec) int
	// Geometry reports whether the mesh can describe its cells. Only meshes
	// returning true can be written to the strength table.
	Geometry() (Geometry, bool)
}

// Geometry exposes per-cell volume and centroid.
type Geometry interface {
	Volume(i int) float64
	Centroid(i int) r3.Vec
}
