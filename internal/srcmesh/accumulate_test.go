package srcmesh

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allModes = []AccumulateMode{AccumulateAtomic, AccumulateSharded, AccumulatePartial}

func TestAccumulateConservesSites(t *testing.T) {
	t.Parallel()
	const cells, n = 5, 7001
	sites := lineSites(n, cells)
	mesh := &lineMesh{n: cells}

	// expected counts from a plain serial pass
	want := make([]uint64, cells)
	var wantMisses uint64
	for _, s := range sites {
		if idx := mesh.Classify(s.R); idx == Miss {
			wantMisses++
		} else {
			want[idx]++
		}
	}

	for _, mode := range allModes {
		for _, workers := range []int{1, 3, 8} {
			h := NewHistogram(cells)
			acc := NewAccumulator(mode, workers)
			require.NoError(t, acc.Accumulate(sites, mesh, h), "%s/%d", mode, workers)
			assert.Equal(t, want, h.Counts(), "%s/%d", mode, workers)
			assert.Equal(t, wantMisses, h.Misses(), "%s/%d", mode, workers)
			assert.Equal(t, uint64(n), h.Total(), "%s/%d", mode, workers)
		}
	}
}

func TestAccumulateAcrossCalls(t *testing.T) {
	t.Parallel()
	mesh := &lineMesh{n: 3}
	h := NewHistogram(3)
	acc := NewAccumulator(AccumulatePartial, 4)
	for i := 0; i < 3; i++ {
		require.NoError(t, acc.Accumulate(lineSites(50, 3), mesh, h))
	}
	assert.Equal(t, uint64(150), h.Total())
}

func TestAccumulateInvalidBin(t *testing.T) {
	t.Parallel()
	mesh := &lineMesh{n: 2, badIndex: true}
	for _, mode := range allModes {
		h := NewHistogram(2)
		err := NewAccumulator(mode, 2).Accumulate(lineSites(8, 2), mesh, h)
		require.Error(t, err, mode.String())
		assert.True(t, errors.Is(err, ErrInvalidBin), mode.String())
		// misses are still counted, invalid sites are not
		assert.Equal(t, uint64(4), h.Misses(), mode.String())
		assert.Zero(t, h.Hits(), mode.String())
	}
}

func TestParseAccumulateMode(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]AccumulateMode{
		"":        AccumulateAtomic,
		"atomic":  AccumulateAtomic,
		"Sharded": AccumulateSharded,
		"locks":   AccumulateSharded,
		"partial": AccumulatePartial,
		" merge ": AccumulatePartial,
	} {
		got, err := ParseAccumulateMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseAccumulateMode("bogus")
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	assert.Equal(t, "partial", AccumulatePartial.String())
}
