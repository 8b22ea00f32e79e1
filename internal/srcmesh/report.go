package srcmesh

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Table headers. Downstream tools match these names exactly.
var (
	tableHeader         = []string{"bin", "cx", "cy", "cz", "volume", "rel. src"}
	tableHeaderAbsolute = []string{"strength", "vol. strength"}
)

const fieldSep = ", "

func formatReal(v Real) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// WriteTable writes the header and one row per cell in ascending index order.
// With absolute set, the strength and volumetric strength columns are added.
func WriteTable(w io.Writer, results []CellResult, absolute bool) error {
	bw := bufio.NewWriter(w)

	header := tableHeader
	if absolute {
		header = append(append([]string{}, tableHeader...), tableHeaderAbsolute...)
	}
	if _, err := bw.WriteString(strings.Join(header, fieldSep) + "\n"); err != nil {
		return err
	}

	fields := make([]string, 0, len(header))
	for _, r := range results {
		fields = append(fields[:0],
			strconv.Itoa(r.Index),
			formatReal(r.Centroid.X),
			formatReal(r.Centroid.Y),
			formatReal(r.Centroid.Z),
			formatReal(r.Volume),
			formatReal(r.Relative),
		)
		if absolute {
			fields = append(fields, formatReal(r.Absolute), formatReal(r.Density))
		}
		if _, err := bw.WriteString(strings.Join(fields, fieldSep) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// SaveTable creates or truncates path and writes the table into it.
func SaveTable(path string, results []CellResult, absolute bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteTable(f, results, absolute); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
