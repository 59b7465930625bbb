package dataset

import (
	"encoding/binary"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/housevalue/core/parallel"
	"github.com/YuminosukeSato/housevalue/pkg/errors"
)

// rowKeyThreshold is the row count above which duplicate keys are built in parallel.
const rowKeyThreshold = 1000

// Quality summarizes the two checks run before any fit.
type Quality struct {
	Rows           int `json:"rows"`
	Columns        int `json:"columns"`
	MissingCount   int `json:"missing"`
	DuplicateCount int `json:"duplicates"`
}

// Clean reports whether the table has no missing values and no duplicate rows.
func (q Quality) Clean() bool {
	return q.MissingCount == 0 && q.DuplicateCount == 0
}

// Quality counts NaN cells and rows that exactly repeat an earlier row. The
// row-index column does not take part in the comparison.
func (t *Table) Quality() Quality {
	r, c := t.data.Dims()
	q := Quality{Rows: r, Columns: c}

	keys := make([]string, r)
	parallel.ParallelizeWithThreshold(r, rowKeyThreshold, func(start, end int) {
		buf := make([]byte, 8*c)
		for i := start; i < end; i++ {
			keys[i] = rowKey(buf, t.data.RawRowView(i))
		}
	})

	seen := make(map[string]struct{}, r)
	for i := 0; i < r; i++ {
		for _, v := range t.data.RawRowView(i) {
			if math.IsNaN(v) {
				q.MissingCount++
			}
		}
		if _, dup := seen[keys[i]]; dup {
			q.DuplicateCount++
			continue
		}
		seen[keys[i]] = struct{}{}
	}
	return q
}

func rowKey(buf []byte, row []float64) string {
	for j, v := range row {
		binary.LittleEndian.PutUint64(buf[8*j:], math.Float64bits(v))
	}
	return string(buf[:8*len(row)])
}

// CheckQuality runs Quality on t. Dirty input is reported through
// errors.Warn; with strict set it is returned as a DataFormatError instead.
func CheckQuality(t *Table, strict bool) (Quality, error) {
	q := t.Quality()
	if q.Clean() {
		return q, nil
	}
	if strict {
		return q, errors.NewDataFormatError(t.Source, 0, "",
			errors.NewDataQualityWarning(t.Source, q.MissingCount, q.DuplicateCount).Error())
	}
	errors.Warn(errors.NewDataQualityWarning(t.Source, q.MissingCount, q.DuplicateCount))
	return q, nil
}

// Matrix exposes the table values read-only.
func (t *Table) Matrix() mat.Matrix {
	return t.data
}
