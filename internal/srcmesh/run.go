package srcmesh

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Report is everything a finished run produced.
type Report struct {
	Summary *Summary
	Results []CellResult
	Tally   Tally
}

// Run maps the configured sources onto the configured mesh. Console output
// goes to out; the strength table and the log are written to the paths in cfg.
// Mesh and source problems are reported before any sampling starts. A mesh
// without cell geometry is only rejected once sampling has finished, and in
// that case nothing is written.
func Run(cfg *Config, out io.Writer) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	mesh, err := cfg.BuildMesh()
	if err != nil {
		return nil, err
	}
	sources, err := cfg.BuildSources()
	if err != nil {
		return nil, err
	}
	policy, err := ParsePolicy(cfg.Normalization)
	if err != nil {
		return nil, err
	}
	mode, err := ParseAccumulateMode(cfg.Accumulate)
	if err != nil {
		return nil, err
	}
	workers := imax(cfg.Workers, 1)
	total := cfg.GetTotalSites()

	sum := &Summary{
		RunID:      uuid.NewString(),
		Workers:    workers,
		MeshID:     mesh.ID(),
		MeshKind:   mesh.Kind(),
		Bins:       mesh.BinCount(),
		TotalSites: total,
		Policy:     policy,
		Accumulate: mode,
	}
	writeThreads(out, sum)
	writeMeshInfo(out, sum)

	h := NewHistogram(mesh.BinCount())
	sched := &Scheduler{
		Sources:  sources,
		Mesh:     mesh,
		Streams:  NewStreamPool(workers),
		Total:    total,
		MaxBatch: cfg.MaxSitesPerBatch,
		Acc:      NewAccumulator(mode, workers),
		Progress: NewProgress(total, PrintProgress(out)),
	}

	fmt.Fprintln(out, "Sampling source sites and mapping to the mesh...")
	timer := NewTimer()
	timer.Start()
	tally, err := sched.Run(h)
	timer.Stop()
	if err != nil {
		return nil, err
	}
	sum.MappingTime = timer.Elapsed()
	timer.Reset()

	sum.Misses = h.Misses()
	sum.TotalStrength = sources.TotalStrength()
	writeTallyInfo(out, sum)

	results, anomalies, err := Normalize(h, tally.Sampled, sum.TotalStrength, mesh, policy)
	if err != nil {
		if errors.Is(err, ErrUnsupportedMesh) {
			fmt.Fprintf(out, "Mesh %d of kind %q cannot be reported on\n", mesh.ID(), mesh.Kind())
		}
		return nil, err
	}
	sum.ZeroVolume = len(anomalies.ZeroVolume)
	if hs, err := ComputeHitStats(h.Counts()); err == nil {
		sum.Hits = hs
	}
	writeNormalizationInfo(out, sum)

	fmt.Fprintln(out, "Writing output file...")
	timer.Start()
	if err := writeOutputs(cfg, sum, results); err != nil {
		return nil, err
	}
	timer.Stop()
	sum.OutputTime = timer.Elapsed()

	if cfg.ArchiveDB != "" {
		if err := archiveRun(cfg.ArchiveDB, sum, results); err != nil {
			return nil, err
		}
	}
	writeTimeSummary(out, sum)
	if err := SaveSummary(cfg.LogFile, sum); err != nil {
		return nil, fmt.Errorf("failed to write log %s: %w", cfg.LogFile, err)
	}
	return &Report{Summary: sum, Results: results, Tally: tally}, nil
}

func writeOutputs(cfg *Config, sum *Summary, results []CellResult) error {
	absolute := cfg.GetAbsolute()
	if err := SaveTable(cfg.OutputCSV, results, absolute); err != nil {
		return fmt.Errorf("failed to write table %s: %w", cfg.OutputCSV, err)
	}
	if cfg.XLSXOut != "" {
		if err := SaveXLSX(cfg.XLSXOut, results, absolute); err != nil {
			return fmt.Errorf("failed to write workbook %s: %w", cfg.XLSXOut, err)
		}
	}
	return nil
}

// archiveRun stores the finished run, timings included.
func archiveRun(path string, sum *Summary, results []CellResult) error {
	archive, err := OpenArchive(path)
	if err != nil {
		return fmt.Errorf("failed to open archive %s: %w", path, err)
	}
	if err := archive.SaveRun(sum, results); err != nil {
		_ = archive.Close()
		return err
	}
	if err := archive.Close(); err != nil {
		return fmt.Errorf("failed to close archive %s: %w", path, err)
	}
	Logf("archived run %s to %s", sum.RunID, path)
	return nil
}
