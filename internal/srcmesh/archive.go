package srcmesh

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
	_ "modernc.org/sqlite"
)

// schema.sql creates the runs and cells tables of the run archive.
//
//go:embed schema.sql
var schemaSQL string

// Archive keeps the summary and per-cell results of every run in SQLite so
// runs can be compared after their CSV files are overwritten.
type Archive struct {
	*sql.DB
}

func OpenArchive(path string) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize archive schema: %w", err)
	}
	DebugLog("Opened run archive %s", path)
	return &Archive{db}, nil
}

// SaveRun stores the summary and cell results in one transaction.
func (a *Archive) SaveRun(s *Summary, results []CellResult) error {
	tx, err := a.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`
		INSERT INTO runs (run_id, created_unix, mesh_id, mesh_kind, bins, total_sites, misses,
		                  total_strength, policy, accumulate, workers, mapping_seconds, output_seconds)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.RunID, time.Now().Unix(), s.MeshID, s.MeshKind, s.Bins, int64(s.TotalSites), int64(s.Misses),
		s.TotalStrength, s.Policy.String(), s.Accumulate.String(), s.Workers,
		s.MappingTime.Seconds(), s.OutputTime.Seconds())
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", s.RunID, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO cells (run_id, bin, cx, cy, cz, volume, rel, strength, density)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range results {
		if _, err := stmt.Exec(s.RunID, r.Index, r.Centroid.X, r.Centroid.Y, r.Centroid.Z,
			r.Volume, r.Relative, r.Absolute, r.Density); err != nil {
			return fmt.Errorf("failed to insert cell %d of run %s: %w", r.Index, s.RunID, err)
		}
	}
	return tx.Commit()
}

// LoadCells returns the archived cells of a run in ascending bin order.
func (a *Archive) LoadCells(runID string) ([]CellResult, error) {
	rows, err := a.Query(`
		SELECT bin, cx, cy, cz, volume, rel, strength, density
		FROM cells WHERE run_id = ? ORDER BY bin
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CellResult
	for rows.Next() {
		var (
			r CellResult
			c r3.Vec
		)
		if err := rows.Scan(&r.Index, &c.X, &c.Y, &c.Z, &r.Volume, &r.Relative, &r.Absolute, &r.Density); err != nil {
			return nil, err
		}
		r.Centroid = c
		r.ZeroVolume = !(r.Volume > 0) || !isFinite(r.Volume)
		out = append(out, r)
	}
	return out, rows.Err()
}

// RunMisses returns the archived miss count and total sites of a run.
func (a *Archive) RunMisses(runID string) (misses, total uint64, err error) {
	var m, t int64
	err = a.QueryRow(`SELECT misses, total_sites FROM runs WHERE run_id = ?`, runID).Scan(&m, &t)
	return uint64(m), uint64(t), err
}

// LoadRun returns the archived summary of a run. Hit statistics and
// zero-volume counts are not archived.
func (a *Archive) LoadRun(runID string) (*Summary, error) {
	var (
		s                  Summary
		total, misses      int64
		policy, accumulate string
		mapping, output    float64
		err                error
	)
	err = a.QueryRow(`
		SELECT mesh_id, mesh_kind, bins, total_sites, misses, total_strength,
		       policy, accumulate, workers, mapping_seconds, output_seconds
		FROM runs WHERE run_id = ?
	`, runID).Scan(&s.MeshID, &s.MeshKind, &s.Bins, &total, &misses, &s.TotalStrength,
		&policy, &accumulate, &s.Workers, &mapping, &output)
	if err != nil {
		return nil, err
	}
	s.RunID = runID
	s.TotalSites, s.Misses = uint64(total), uint64(misses)
	s.MappingTime = time.Duration(mapping * float64(time.Second))
	s.OutputTime = time.Duration(output * float64(time.Second))
	if s.Policy, err = ParsePolicy(policy); err != nil {
		return nil, err
	}
	if s.Accumulate, err = ParseAccumulateMode(accumulate); err != nil {
		return nil, err
	}
	return &s, nil
}
