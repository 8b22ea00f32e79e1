package srcmesh

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestSaveXLSX(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "cells.xlsx")
	require.NoError(t, SaveXLSX(path, sampleResults(), true))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(xlsxSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"bin", "cx", "cy", "cz", "volume", "rel. src", "strength", "vol. strength"}, rows[0])
	assert.Equal(t, "1", rows[2][0])
	assert.Equal(t, "0.75", rows[2][5])
}
