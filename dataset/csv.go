package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/housevalue/pkg/errors"
)

// LoadCSV reads the table stored at path. See ReadCSV for the format.
func LoadCSV(path string, schema Schema) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	t, err := readCSV(f, filepath.Base(path), schema)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ReadCSV parses a comma-separated table whose header is a leading row-index
// column followed by every column of schema (in any order). Fields that are
// empty, "NA" or "NaN" load as NaN so that Quality can count them; any other
// non-numeric field is a DataFormatError.
func ReadCSV(r io.Reader, schema Schema) (*Table, error) {
	return readCSV(r, "", schema)
}

func readCSV(r io.Reader, source string, schema Schema) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewDataFormatError(source, 0, "", "input is empty")
	}
	if err != nil {
		return nil, errors.NewDataFormatError(source, 1, "", err.Error())
	}

	columns, err := parseHeader(header, source, schema)
	if err != nil {
		return nil, err
	}

	var (
		index []int
		rows  [][]float64
	)
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewDataFormatError(source, line, "", err.Error())
		}
		if len(rec) != len(header) {
			return nil, errors.NewDataFormatError(source, line, "",
				fmt.Sprintf("expected %d fields, got %d", len(header), len(rec)))
		}

		id, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			return nil, errors.NewDataFormatError(source, line, "index",
				fmt.Sprintf("cannot parse %q as a row id", rec[0]))
		}

		row := make([]float64, len(columns))
		for j, field := range rec[1:] {
			v, err := parseField(field)
			if err != nil {
				return nil, errors.NewDataFormatError(source, line, columns[j],
					fmt.Sprintf("cannot parse %q as a number", field))
			}
			row[j] = v
		}
		index = append(index, id)
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, errors.NewDataFormatError(source, 0, "", "no data rows")
	}

	t, err := NewTable(columns, schema.Target, index, rows)
	if err != nil {
		return nil, err
	}
	t.Source = source
	return t, nil
}

func parseHeader(header []string, source string, schema Schema) ([]string, error) {
	if len(header) != len(schema.Columns)+1 {
		return nil, errors.NewDataFormatError(source, 1, "",
			fmt.Sprintf("expected %d columns plus a leading row index, got %d fields",
				len(schema.Columns), len(header)))
	}
	if first := strings.TrimSpace(header[0]); schema.Has(first) {
		return nil, errors.NewDataFormatError(source, 1, first, "missing leading row-index column")
	}

	columns := make([]string, 0, len(schema.Columns))
	seen := make(map[string]bool, len(schema.Columns))
	for _, h := range header[1:] {
		name := strings.TrimSpace(h)
		switch {
		case !schema.Has(name):
			return nil, errors.NewDataFormatError(source, 1, name, "unexpected column")
		case seen[name]:
			return nil, errors.NewDataFormatError(source, 1, name, "duplicate column")
		}
		seen[name] = true
		columns = append(columns, name)
	}
	if !seen[schema.Target] {
		return nil, errors.NewDataFormatError(source, 1, schema.Target, "target column is missing")
	}
	return columns, nil
}

func parseField(field string) (float64, error) {
	s := strings.TrimSpace(field)
	switch strings.ToLower(s) {
	case "", "na", "nan":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}
