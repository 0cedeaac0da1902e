package data

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// LoadSeriesCSV reads a numeric series from a CSV file with a header row.
func LoadSeriesCSV(path, column string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSeriesCSV(f, column)
}

// ReadSeriesCSV reads the named column, or the last column when column is
// empty. Blank cells are skipped.
func ReadSeriesCSV(r io.Reader, column string) ([]float64, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read header")
	}
	idx := len(header) - 1
	if column != "" {
		idx = -1
		for i, h := range header {
			if strings.TrimSpace(h) == column {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, errors.Wrapf(ErrColumnNotFound, "%q", column)
		}
	}

	var out []float64
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		if idx >= len(record) {
			continue
		}
		v, ok, err := parseCell(record[idx])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		if ok {
			out = append(out, v)
		}
	}
	return out, nil
}

// CSVHistory serves a price history from a local CSV file in place of a
// quote provider. The symbol and range arguments are ignored.
type CSVHistory struct {
	Path   string
	Column string
}

func (h CSVHistory) MonthlyCloses(ctx context.Context, _, _, _ string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadSeriesCSV(h.Path, h.Column)
}
