package srcmesh

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// SourceSet is the read-only collection of external sources of a run.
// Sites are drawn from source i with probability Strength(i)/TotalStrength.
type SourceSet struct {
	sources   []Source
	strengths []float64
	cdf       []float64 // len(sources)+1, cdf[0] == 0
	total     float64
}

// NewSourceSet freezes the given sources. An empty set is an error.
func NewSourceSet(sources ...Source) (*SourceSet, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}
	strengths := make([]float64, len(sources))
	for i, src := range sources {
		strengths[i] = src.Strength()
		if strengths[i] < 0 || !isFinite(strengths[i]) {
			return nil, fmt.Errorf("%w: source %d has strength %.6g", ErrInvalidConfig, i, strengths[i])
		}
	}
	cdf := make([]float64, len(sources)+1)
	floats.CumSum(cdf[1:], strengths)
	set := &SourceSet{
		sources:   sources,
		strengths: strengths,
		cdf:       cdf,
		total:     floats.Sum(strengths),
	}
	DebugLog("Source set: %d sources, total strength %.6g", len(sources), set.total)
	return set, nil
}

// Len returns the number of sources.
func (ss *SourceSet) Len() int { return len(ss.sources) }

// TotalStrength returns the sum of the declared strengths of all sources.
func (ss *SourceSet) TotalStrength() float64 { return ss.total }

// Draw selects a source by strength and samples one site from it.
// When every strength is zero the source is picked uniformly.
func (ss *SourceSet) Draw(s *Stream) SourceSite {
	if len(ss.sources) == 1 {
		return ss.sources[0].Draw(s)
	}
	return ss.sources[ss.pick(s.Float64())].Draw(s)
}

// pick maps u in [0, 1) to a source index. Sources with zero strength are
// never picked unless all of them are zero.
func (ss *SourceSet) pick(u float64) int {
	n := len(ss.sources)
	scale := ss.cdf[n]
	if !(scale > 0) {
		i := int(u * float64(n))
		if i >= n {
			i = n - 1
		}
		return i
	}
	v := u * scale
	// first i with cdf[i+1] > v, so cdf[i] <= v < cdf[i+1]
	i := sort.Search(n, func(i int) bool { return ss.cdf[i+1] > v })
	if i >= n {
		i = n - 1
	}
	for i > 0 && ss.strengths[i] == 0 {
		i--
	}
	return i
}
