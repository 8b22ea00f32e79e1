package srcmesh

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Policy chooses the denominator of the relative strength.
type Policy int

const (
	// PolicyExcludeMisses divides by the sites that landed in some cell, so
	// relative strengths sum to 1 whenever anything was hit.
	PolicyExcludeMisses Policy = iota
	// PolicyTotalSamples divides by every site drawn, so relative strengths
	// sum to 1 - miss fraction.
	PolicyTotalSamples
)

func (p Policy) String() string {
	switch p {
	case PolicyExcludeMisses:
		return "exclude-misses"
	case PolicyTotalSamples:
		return "total"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exclude-misses", "exclude":
		return PolicyExcludeMisses, nil
	case "total", "total-samples":
		return PolicyTotalSamples, nil
	}
	return 0, fmt.Errorf("%w: unknown normalization %q", ErrInvalidConfig, s)
}

// CellResult is the normalized estimate for one mesh cell.
type CellResult struct {
	Index    int
	Centroid r3.Vec
	Volume   float64
	Relative float64 // fraction of counted sites in this cell
	Absolute float64 // Relative * total source strength
	Density  float64 // Absolute / Volume, 0 when the volume is unusable
	// ZeroVolume flags a cell whose volume is zero, negative or not finite.
	ZeroVolume bool
}

// Anomalies lists numeric problems found while normalizing.
type Anomalies struct {
	ZeroVolume []int
}

// Normalize converts the frozen histogram into per-cell strengths. The mesh
// must expose geometry. A zero denominator yields all-zero strengths.
func Normalize(h *Histogram, sampled uint64, totalStrength float64, mesh Mesh, policy Policy) ([]CellResult, Anomalies, error) {
	var anomalies Anomalies
	geom, ok := mesh.Geometry()
	if !ok || geom == nil {
		return nil, anomalies, fmt.Errorf("%w: mesh %d (%s)", ErrUnsupportedMesh, mesh.ID(), mesh.Kind())
	}
	if h.Bins() != mesh.BinCount() {
		return nil, anomalies, fmt.Errorf("%w: histogram has %d bins, mesh %d has %d", ErrInvalidConfig, h.Bins(), mesh.ID(), mesh.BinCount())
	}

	var denom uint64
	switch policy {
	case PolicyTotalSamples:
		denom = sampled
	default:
		if sampled > h.Misses() {
			denom = sampled - h.Misses()
		}
	}

	results := make([]CellResult, h.Bins())
	for i := range results {
		r := CellResult{
			Index:    i,
			Centroid: geom.Centroid(i),
			Volume:   geom.Volume(i),
		}
		if denom > 0 {
			r.Relative = float64(h.Count(i)) / float64(denom)
		}
		r.Absolute = r.Relative * totalStrength
		if r.Volume > 0 && isFinite(r.Volume) {
			r.Density = r.Absolute / r.Volume
		} else {
			r.ZeroVolume = true
			anomalies.ZeroVolume = append(anomalies.ZeroVolume, i)
		}
		results[i] = r
	}
	if len(anomalies.ZeroVolume) > 0 {
		Logf("mesh %d: %d cells have zero or invalid volume, density set to 0", mesh.ID(), len(anomalies.ZeroVolume))
	}
	return results, anomalies, nil
}
