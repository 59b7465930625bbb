// Package dataset loads the housing table and answers the descriptive
// questions asked of it before any model is fit: shape, missing values,
// duplicates, summary statistics, quantiles and pairwise correlation.
package dataset

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/housevalue/pkg/errors"
)

// Table is an in-memory observation table. Rows keep the order of the input
// file; Index holds the leading row identifier of each row.
type Table struct {
	Source  string
	Index   []int
	Columns []string
	Target  string

	data *mat.Dense
}

// NewTable builds a table from row-major values. The caller keeps ownership
// of rows; the table copies them.
func NewTable(columns []string, target string, index []int, rows [][]float64) (*Table, error) {
	if len(rows) == 0 || len(columns) == 0 {
		return nil, errors.NewModelError("dataset.NewTable", "empty data", errors.ErrEmptyData)
	}
	if index != nil && len(index) != len(rows) {
		return nil, errors.NewDimensionError("dataset.NewTable", len(rows), len(index), 0)
	}
	if !contains(columns, target) {
		return nil, errors.NewDataFormatError("", 0, target, "target column is missing")
	}

	data := mat.NewDense(len(rows), len(columns), nil)
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, errors.NewDimensionError("dataset.NewTable", len(columns), len(row), 1)
		}
		data.SetRow(i, row)
	}
	if index == nil {
		index = make([]int, len(rows))
		for i := range index {
			index[i] = i
		}
	}

	return &Table{
		Index:   append([]int(nil), index...),
		Columns: append([]string(nil), columns...),
		Target:  target,
		data:    data,
	}, nil
}

// Dims returns the number of rows and columns.
func (t *Table) Dims() (int, int) {
	return t.data.Dims()
}

// Len returns the number of rows.
func (t *Table) Len() int {
	r, _ := t.data.Dims()
	return r
}

// ColumnIndex returns the position of name, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns a copy of the named column.
func (t *Table) Column(name string) ([]float64, error) {
	j := t.ColumnIndex(name)
	if j < 0 {
		return nil, errors.NewUnknownFieldError("Table.Column", name, t.Columns)
	}
	return mat.Col(nil, j, t.data), nil
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []float64 {
	return mat.Row(nil, i, t.data)
}

// TargetValues returns a copy of the target column.
func (t *Table) TargetValues() []float64 {
	y, _ := t.Column(t.Target)
	return y
}

// Features returns the feature matrix: every column except the target, in
// table order.
func (t *Table) Features() Frame {
	r, _ := t.data.Dims()
	names := make([]string, 0, len(t.Columns)-1)
	cols := make([]int, 0, len(t.Columns)-1)
	for j, c := range t.Columns {
		if c == t.Target {
			continue
		}
		names = append(names, c)
		cols = append(cols, j)
	}

	x := mat.NewDense(r, len(cols), nil)
	for i := 0; i < r; i++ {
		for k, j := range cols {
			x.Set(i, k, t.data.At(i, j))
		}
	}
	return Frame{Names: names, X: x}
}

// Frame is a named feature matrix. Column order is significant and must
// match between fit and predict.
type Frame struct {
	Names []string
	X     *mat.Dense
}

// NewFrame builds a frame from row-major values.
func NewFrame(names []string, rows [][]float64) (Frame, error) {
	if len(rows) == 0 {
		return Frame{}, errors.NewModelError("dataset.NewFrame", "empty data", errors.ErrEmptyData)
	}
	x := mat.NewDense(len(rows), len(names), nil)
	for i, row := range rows {
		if len(row) != len(names) {
			return Frame{}, errors.NewDimensionError("dataset.NewFrame", len(names), len(row), 1)
		}
		x.SetRow(i, row)
	}
	return Frame{Names: append([]string(nil), names...), X: x}, nil
}

// Dims returns the number of rows and columns, or zeros for an empty frame.
func (f Frame) Dims() (int, int) {
	if f.X == nil {
		return 0, 0
	}
	return f.X.Dims()
}

// Len returns the number of rows.
func (f Frame) Len() int {
	r, _ := f.Dims()
	return r
}

// Row returns a copy of row i.
func (f Frame) Row(i int) []float64 {
	return mat.Row(nil, i, f.X)
}

// Column returns a copy of the named column.
func (f Frame) Column(name string) ([]float64, error) {
	for j, n := range f.Names {
		if n == name {
			return mat.Col(nil, j, f.X), nil
		}
	}
	return nil, errors.NewUnknownFieldError("Frame.Column", name, f.Names)
}

// Take returns a new frame holding the given rows, in the given order.
func (f Frame) Take(rows []int) Frame {
	_, c := f.Dims()
	x := mat.NewDense(len(rows), c, nil)
	for i, src := range rows {
		x.SetRow(i, f.X.RawRowView(src))
	}
	return Frame{Names: append([]string(nil), f.Names...), X: x}
}

// Means returns the arithmetic mean of every column.
func (f Frame) Means() []float64 {
	_, c := f.Dims()
	means := make([]float64, c)
	for j := 0; j < c; j++ {
		means[j] = stat.Mean(mat.Col(nil, j, f.X), nil)
	}
	return means
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
