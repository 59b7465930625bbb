// Package valuation prices a single synthetic property with a fitted model.
//
// A Query starts as the column means of the training features and is then
// adjusted field by field. Every operation returns a new Query; none
// modifies its input.
package valuation

import (
	"sort"

	"github.com/YuminosukeSato/housevalue/dataset"
	"github.com/YuminosukeSato/housevalue/pkg/errors"
)

// Query is one feature row in fixed column order.
type Query struct {
	names  []string
	values []float64
}

// NewQuery builds a query from parallel name and value slices.
func NewQuery(names []string, values []float64) (Query, error) {
	if len(names) != len(values) {
		return Query{}, errors.NewDimensionError("valuation.NewQuery", len(names), len(values), 1)
	}
	return Query{
		names:  append([]string(nil), names...),
		values: append([]float64(nil), values...),
	}, nil
}

// BuildDefaultQuery sets every field to the mean of that column of train.
func BuildDefaultQuery(train dataset.Frame) Query {
	return Query{
		names:  append([]string(nil), train.Names...),
		values: train.Means(),
	}
}

// Names returns the field names in order.
func (q Query) Names() []string {
	return append([]string(nil), q.names...)
}

// Values returns the field values in order.
func (q Query) Values() []float64 {
	return append([]float64(nil), q.values...)
}

// Get returns the value of one field.
func (q Query) Get(name string) (float64, bool) {
	for i, n := range q.names {
		if n == name {
			return q.values[i], true
		}
	}
	return 0, false
}

// Frame returns the query as a one-row frame.
func (q Query) Frame() (dataset.Frame, error) {
	return dataset.NewFrame(q.names, [][]float64{q.values})
}

// ApplyOverrides returns a copy of q with the given fields replaced. Every
// key is checked before anything is copied, so an UnknownFieldError leaves
// no partial result.
func ApplyOverrides(q Query, overrides map[string]float64) (Query, error) {
	if err := checkKeys("ApplyOverrides", q.names, overrides); err != nil {
		return Query{}, err
	}

	out := Query{
		names:  append([]string(nil), q.names...),
		values: append([]float64(nil), q.values...),
	}
	for i, n := range out.names {
		if v, ok := overrides[n]; ok {
			out.values[i] = v
		}
	}
	return out, nil
}

// checkKeys reports the first unknown key in sorted order.
func checkKeys(op string, known []string, overrides map[string]float64) error {
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	set := make(map[string]struct{}, len(known))
	for _, n := range known {
		set[n] = struct{}{}
	}
	for _, k := range keys {
		if _, ok := set[k]; !ok {
			return errors.NewUnknownFieldError(op, k, append([]string(nil), known...))
		}
	}
	return nil
}
