package srcmesh

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Sheet1"

// SaveXLSX mirrors the strength table into a single-sheet workbook with the
// same header names as the CSV table.
func SaveXLSX(path string, results []CellResult, absolute bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f := excelize.NewFile()
	defer f.Close()

	// Ensure Sheet1 exists and is active.
	if idx, err := f.GetSheetIndex(xlsxSheet); err != nil || idx == -1 {
		idx, err := f.NewSheet(xlsxSheet)
		if err != nil {
			return err
		}
		f.SetActiveSheet(idx)
	}

	header := tableHeader
	if absolute {
		header = append(append([]string{}, tableHeader...), tableHeaderAbsolute...)
	}
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(xlsxSheet, cell, h); err != nil {
			return err
		}
	}

	for r, res := range results {
		row := []interface{}{res.Index, res.Centroid.X, res.Centroid.Y, res.Centroid.Z, res.Volume, res.Relative}
		if absolute {
			row = append(row, res.Absolute, res.Density)
		}
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(xlsxSheet, cell, v); err != nil {
				return err
			}
		}
	}
	return f.SaveAs(path)
}
