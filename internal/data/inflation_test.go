package data

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeInflationBook(t *testing.T, header string, cells []any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Bulan"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", header))
	for i, v := range cells {
		row := i + 2
		require.NoError(t, f.SetCellValue("Sheet1", "A"+strconv.Itoa(row), "2024-"+strconv.Itoa(i+1)))
		if v != nil {
			require.NoError(t, f.SetCellValue("Sheet1", "B"+strconv.Itoa(row), v))
		}
	}
	path := filepath.Join(t.TempDir(), "inflasi.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadInflationXLSX(t *testing.T) {
	path := writeInflationBook(t, DefaultInflationColumn, []any{2.5, nil, "3,1", 1.75})

	got, err := LoadInflationXLSX(path, "", "", true)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.025, 0.031, 0.0175}, got, 1e-12)

	raw, err := LoadInflationXLSX(path, "Sheet1", DefaultInflationColumn, false)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2.5, 3.1, 1.75}, raw, 1e-12)
}

func TestLoadInflationXLSX_MissingColumn(t *testing.T) {
	path := writeInflationBook(t, "Inflation", []any{2.5})
	_, err := LoadInflationXLSX(path, "", "", true)
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestLoadInflationXLSX_BadCell(t *testing.T) {
	path := writeInflationBook(t, DefaultInflationColumn, []any{2.5, "n/a"})
	_, err := LoadInflationXLSX(path, "", "", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
}

func TestLoadInflationXLSX_MissingFile(t *testing.T) {
	_, err := LoadInflationXLSX(filepath.Join(t.TempDir(), "none.xlsx"), "", "", true)
	assert.Error(t, err)
}

func TestInflationFile_Caches(t *testing.T) {
	path := writeInflationBook(t, DefaultInflationColumn, []any{2.0, 4.0})
	src := InflationFile{Path: path, Percent: true, Cache: NewSeriesCache(time.Hour)}

	got, err := src.Inflation(context.Background())
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.02, 0.04}, got, 1e-12)
	assert.Equal(t, 1, src.Cache.Len())

	require.NoError(t, os.Remove(path))
	again, err := src.Inflation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, got, again)
}
