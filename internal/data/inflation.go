package data

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// DefaultInflationColumn is the header of the monthly inflation column in the
// published BPS spreadsheets.
const DefaultInflationColumn = "Inflasi (%)"

var ErrColumnNotFound = errors.New("column not found")

// LoadInflationXLSX reads one column of a spreadsheet as a monthly inflation series.
// An empty sheet means the first sheet. Blank cells are skipped. With percent
// set, values are divided by 100.
func LoadInflationXLSX(path, sheet, column string, percent bool) ([]float64, error) {
	if column == "" {
		column = DefaultInflationColumn
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %q", sheet)
	}
	if len(rows) == 0 {
		return nil, errors.Wrapf(ErrColumnNotFound, "%q: sheet %q is empty", column, sheet)
	}

	idx := -1
	for i, h := range rows[0] {
		if strings.TrimSpace(h) == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, errors.Wrapf(ErrColumnNotFound, "%q in sheet %q", column, sheet)
	}

	out := make([]float64, 0, len(rows)-1)
	for n, row := range rows[1:] {
		if idx >= len(row) {
			continue
		}
		v, ok, err := parseCell(row[idx])
		if err != nil {
			return nil, errors.Wrapf(err, "sheet %q row %d", sheet, n+2)
		}
		if !ok {
			continue
		}
		if percent {
			v /= 100
		}
		out = append(out, v)
	}
	return out, nil
}

// parseCell parses a numeric cell. Blank cells report ok=false.
// Decimal commas and a trailing percent sign are accepted.
func parseCell(s string) (float64, bool, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, errors.Errorf("not a number: %q", s)
	}
	return v, true, nil
}

// InflationFile loads an inflation spreadsheet once per cache lifetime.
type InflationFile struct {
	Path    string
	Sheet   string
	Column  string
	Percent bool
	Cache   *SeriesCache
}

func (f InflationFile) Inflation(ctx context.Context) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := CacheKey("xlsx", f.Path, f.Sheet, f.Column, strconv.FormatBool(f.Percent))
	if cached, ok := f.Cache.Get(key); ok {
		return cached, nil
	}
	out, err := LoadInflationXLSX(f.Path, f.Sheet, f.Column, f.Percent)
	if err != nil {
		return nil, err
	}
	f.Cache.Set(key, out)
	return out, nil
}
