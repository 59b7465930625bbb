package dataset

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/housevalue/pkg/errors"
)

// ColumnSummary holds the descriptive statistics of one column. NaN cells
// are excluded; Count is the number of non-missing values.
type ColumnSummary struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	Q25   float64 `json:"q25"`
	Q50   float64 `json:"q50"`
	Q75   float64 `json:"q75"`
	Max   float64 `json:"max"`
}

// Describe summarizes every column. Std is the sample standard deviation.
func (t *Table) Describe() []ColumnSummary {
	out := make([]ColumnSummary, 0, len(t.Columns))
	for j, name := range t.Columns {
		out = append(out, summarize(name, mat.Col(nil, j, t.data)))
	}
	return out
}

func summarize(name string, col []float64) ColumnSummary {
	x := sortedFinite(col)
	s := ColumnSummary{Name: name, Count: len(x)}
	if len(x) == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.Q25, s.Q50, s.Q75, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}
	s.Mean, s.Std = stat.MeanStdDev(x, nil)
	s.Min = floats.Min(x)
	s.Max = floats.Max(x)
	s.Q25 = QuantileSorted(0.25, x)
	s.Q50 = QuantileSorted(0.50, x)
	s.Q75 = QuantileSorted(0.75, x)
	return s
}

// Quantile returns the p-quantile of the named column. Missing values are
// ignored. See QuantileSorted for the interpolation rule.
func (t *Table) Quantile(name string, p float64) (float64, error) {
	if p < 0 || p > 1 || math.IsNaN(p) {
		return 0, errors.NewInvalidArgumentError("Table.Quantile", "p", p, "must be in [0, 1]")
	}
	col, err := t.Column(name)
	if err != nil {
		return 0, err
	}
	x := sortedFinite(col)
	if len(x) == 0 {
		return 0, errors.NewModelError("Table.Quantile", "empty data", errors.ErrEmptyData)
	}
	return QuantileSorted(p, x), nil
}

// QuantileSorted returns the p-quantile of the ascending sample x by linear
// interpolation between the order statistics at h = (n-1)p, so the median
// of an even sample is the mean of the two middle values.
func QuantileSorted(p float64, x []float64) float64 {
	n := len(x)
	if n == 0 {
		return math.NaN()
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return x[n-1]
	}
	return x[lo] + (h-float64(lo))*(x[lo+1]-x[lo])
}

// ValueCount is one distinct value of a column and how often it occurs.
type ValueCount struct {
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// ValueCounts tallies the distinct values of a column, most frequent first.
// Ties are ordered by value.
func (t *Table) ValueCounts(name string) ([]ValueCount, error) {
	col, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	counts := make(map[float64]int)
	for _, v := range col {
		if !math.IsNaN(v) {
			counts[v]++
		}
	}
	out := make([]ValueCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, ValueCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out, nil
}

// Correlation returns the Pearson correlation matrix of all columns, in
// table order.
func (t *Table) Correlation() *mat.SymDense {
	var c mat.SymDense
	stat.CorrelationMatrix(&c, t.data, nil)
	return &c
}

func sortedFinite(col []float64) []float64 {
	x := make([]float64, 0, len(col))
	for _, v := range col {
		if !math.IsNaN(v) {
			x = append(x, v)
		}
	}
	sort.Float64s(x)
	return x
}
