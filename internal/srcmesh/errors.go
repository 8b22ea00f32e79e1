package srcmesh

import "errors"

var (
	// ErrUsage is returned for command-line arguments; the tool takes none.
	ErrUsage = errors.New("this app doesn't support commandline arguments")
	// ErrInvalidConfig wraps any configuration value that fails validation.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrMeshNotFound means the configured mesh id has no matching mesh.
	ErrMeshNotFound = errors.New("mesh not found")
	// ErrNoSources means the source set is empty.
	ErrNoSources = errors.New("no external sources defined")
	// ErrUnsupportedMesh means the target mesh cannot report cell geometry.
	ErrUnsupportedMesh = errors.New("mesh does not expose cell geometry")
	// ErrInvalidBin means a classifier returned an index outside [0, bins) that is not Miss.
	ErrInvalidBin = errors.New("classifier returned an invalid bin index")
)
