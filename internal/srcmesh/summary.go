package srcmesh

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/montanaflynn/stats"
)

const rule = "--------------"

// HitStats describes the spread of per-cell hit counts.
type HitStats struct {
	Mean, StdDev, Min, Max, Median float64
}

// ComputeHitStats returns stats.ErrEmptyInput for a mesh without cells.
func ComputeHitStats(counts []uint64) (*HitStats, error) {
	data := stats.LoadRawData(counts)
	var (
		hs  HitStats
		err error
	)
	if hs.Mean, err = stats.Mean(data); err != nil {
		return nil, err
	}
	if hs.StdDev, err = stats.StandardDeviation(data); err != nil {
		return nil, err
	}
	if hs.Min, err = stats.Min(data); err != nil {
		return nil, err
	}
	if hs.Max, err = stats.Max(data); err != nil {
		return nil, err
	}
	if hs.Median, err = stats.Median(data); err != nil {
		return nil, err
	}
	return &hs, nil
}

// Summary is the human-readable run report, printed to the console while the
// run progresses and mirrored to the log file at the end.
type Summary struct {
	RunID         string
	Workers       int
	MeshID        int
	MeshKind      string
	Bins          int
	TotalSites    uint64
	Misses        uint64
	TotalStrength float64
	Policy        Policy
	Accumulate    AccumulateMode
	ZeroVolume    int
	Hits          *HitStats
	MappingTime   time.Duration
	OutputTime    time.Duration
}

func writeThreads(w io.Writer, s *Summary) {
	if s.Workers > 1 {
		fmt.Fprintf(w, "Number of threads used: %d\n", s.Workers)
		return
	}
	fmt.Fprintln(w, "Threading disabled, using a single worker")
}

func writeMeshInfo(w io.Writer, s *Summary) {
	fmt.Fprintf(w, "Mesh ID: %d\n", s.MeshID)
	fmt.Fprintf(w, "Mesh bins: %d\n", s.Bins)
}

func writeTallyInfo(w io.Writer, s *Summary) {
	if s.Misses > 0 {
		fmt.Fprintf(w, "Warning: %d sampled sites were outside the mesh\n", s.Misses)
	}
	fmt.Fprintf(w, "Total external source strength: %g\n", s.TotalStrength)
}

func writeNormalizationInfo(w io.Writer, s *Summary) {
	fmt.Fprintf(w, "Normalization: %s\n", s.Policy)
	fmt.Fprintf(w, "Accumulation: %s\n", s.Accumulate)
	if s.ZeroVolume > 0 {
		fmt.Fprintf(w, "Warning: %d mesh cells have zero volume, volumetric strength set to 0\n", s.ZeroVolume)
	}
	if s.Hits != nil {
		fmt.Fprintf(w, "Hits per bin: mean %.6g, std dev %.6g, min %.0f, median %.6g, max %.0f\n",
			s.Hits.Mean, s.Hits.StdDev, s.Hits.Min, s.Hits.Median, s.Hits.Max)
	}
}

func writeTimeSummary(w io.Writer, s *Summary) {
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Time Summary: ")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Source mapping (%d sites): %gs\n", s.TotalSites, s.MappingTime.Seconds())
	fmt.Fprintf(w, "File output: %g s\n", s.OutputTime.Seconds())
}

// WriteSummary writes the full run report.
func WriteSummary(w io.Writer, s *Summary) error {
	var buf bytes.Buffer
	if s.RunID != "" {
		fmt.Fprintf(&buf, "Run ID: %s\n", s.RunID)
	}
	writeMeshInfo(&buf, s)
	writeTallyInfo(&buf, s)
	writeNormalizationInfo(&buf, s)
	writeTimeSummary(&buf, s)
	_, err := w.Write(buf.Bytes())
	return err
}

// SaveSummary creates or truncates path and writes the run report into it.
func SaveSummary(path string, s *Summary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteSummary(f, s); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
