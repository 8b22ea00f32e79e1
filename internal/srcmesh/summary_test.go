package srcmesh

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeHitStats(t *testing.T) {
	t.Parallel()
	hs, err := ComputeHitStats([]uint64{2, 4, 4, 4, 5, 5, 7, 9})
	require.NoError(t, err)
	assert.Equal(t, 5.0, hs.Mean)
	assert.Equal(t, 2.0, hs.StdDev)
	assert.Equal(t, 2.0, hs.Min)
	assert.Equal(t, 9.0, hs.Max)
	assert.Equal(t, 4.5, hs.Median)

	_, err = ComputeHitStats(nil)
	assert.True(t, errors.Is(err, stats.ErrEmptyInput))
}

func TestWriteSummaryMissWarning(t *testing.T) {
	t.Parallel()
	s := &Summary{MeshID: 1, Bins: 4, TotalSites: 100, TotalStrength: 5, MappingTime: 1500 * time.Millisecond}

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, s))
	out := buf.String()
	assert.NotContains(t, out, "Warning")
	assert.Contains(t, out, "Mesh ID: 1\n")
	assert.Contains(t, out, "Mesh bins: 4\n")
	assert.Contains(t, out, "Total external source strength: 5\n")
	assert.Contains(t, out, "--------------\nTime Summary: \n--------------\n")
	assert.Contains(t, out, "Source mapping (100 sites): 1.5s\n")
	assert.Contains(t, out, "Normalization: exclude-misses\nAccumulation: atomic\n")

	s.Misses = 12
	s.ZeroVolume = 2
	buf.Reset()
	require.NoError(t, WriteSummary(&buf, s))
	assert.Contains(t, buf.String(), "Warning: 12 sampled sites were outside the mesh\n")
	assert.Contains(t, buf.String(), "Warning: 2 mesh cells have zero volume")
}

func TestWriteThreads(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	writeThreads(&buf, &Summary{Workers: 8})
	writeThreads(&buf, &Summary{Workers: 1})
	assert.Equal(t, "Number of threads used: 8\nThreading disabled, using a single worker\n", buf.String())
}

func TestSaveSummary(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "run.log")
	require.NoError(t, SaveSummary(path, &Summary{RunID: "abc", MeshID: 3}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Run ID: abc\nMesh ID: 3\n")
}
