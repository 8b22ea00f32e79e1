package srcmesh

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveRoundTrip(t *testing.T) {
	t.Parallel()
	archive, err := OpenArchive(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer archive.Close()

	s := &Summary{
		RunID: "run-1", MeshID: 1, MeshKind: "regular", Bins: 2, TotalSites: 100, Misses: 4,
		TotalStrength: 5, Workers: 2, Policy: PolicyTotalSamples, Accumulate: AccumulatePartial,
		MappingTime: 1500 * time.Millisecond, OutputTime: 250 * time.Millisecond,
	}
	want := sampleResults()
	require.NoError(t, archive.SaveRun(s, want))

	got, err := archive.LoadCells("run-1")
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("archived cells differ (-want +got):\n%s", diff)
	}

	misses, total, err := archive.RunMisses("run-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(4), misses)
	assert.Equal(t, uint64(100), total)

	run, err := archive.LoadRun("run-1")
	require.NoError(t, err)
	if diff := cmp.Diff(s, run); diff != "" {
		t.Fatalf("archived summary differs (-want +got):\n%s", diff)
	}

	// run ids are unique
	assert.Error(t, archive.SaveRun(s, want))

	got, err = archive.LoadCells("other")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestArchiveReopen(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "runs.db")
	a, err := OpenArchive(path)
	require.NoError(t, err)
	require.NoError(t, a.SaveRun(&Summary{RunID: "keep"}, sampleResults()))
	require.NoError(t, a.Close())

	b, err := OpenArchive(path)
	require.NoError(t, err)
	defer b.Close()
	cells, err := b.LoadCells("keep")
	require.NoError(t, err)
	assert.Len(t, cells, 2)
}
