package srcmesh

import "gonum.org/v1/gonum/spatial/r3"

// SourceSite is one sampled emission point. Only R is used by the tally;
// U (direction) and E (energy) are carried for completeness.
type SourceSite struct {
	R r3.Vec
	U r3.Vec
	E float64
}
