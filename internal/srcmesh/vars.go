package srcmesh

var (
	Debug = false // set to true for verbose debug output
	// Compile time checks for the shipped collaborators
	_ Mesh     = (*RegularMesh)(nil)
	_ Geometry = (*RegularMesh)(nil)
	_ Mesh     = (*CylindricalMesh)(nil)
	_ Source   = (*PointSource)(nil)
	_ Source   = (*BoxSource)(nil)
	_ Source   = (*SphereSource)(nil)
	_ Source   = (*GaussianSource)(nil)
)
