// Package modelselection partitions observations into training and test
// sets. A partition is a pure function of (n, testFraction, seed) and is
// meant to be built once and applied to every target series that shares
// the same rows.
package modelselection

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/YuminosukeSato/housevalue/dataset"
	"github.com/YuminosukeSato/housevalue/pkg/errors"
)

// Partition holds the row positions of the training and test sets. The two
// slices are disjoint and together cover 0..n-1.
type Partition struct {
	Train []int `json:"train"`
	Test  []int `json:"test"`
}

// Split is a partition applied to a feature frame and one target series.
type Split struct {
	Partition Partition

	TrainX dataset.Frame
	TestX  dataset.Frame
	TrainY []float64
	TestY  []float64
}

// NewPartition shuffles 0..n-1 with a PCG source seeded by seed and takes
// the first ceil(n*testFraction) positions as the test set. Both sides are
// returned in ascending order.
func NewPartition(n int, testFraction float64, seed uint64) (Partition, error) {
	if n < 2 {
		return Partition{}, errors.NewInvalidArgumentError("NewPartition", "n", n, "need at least 2 rows")
	}
	if !(testFraction > 0 && testFraction < 1) {
		return Partition{}, errors.NewInvalidArgumentError("NewPartition", "test_fraction", testFraction, "must be in (0, 1)")
	}

	nTest := int(math.Ceil(float64(n) * testFraction))
	if nTest >= n {
		return Partition{}, errors.NewInvalidArgumentError("NewPartition", "test_fraction", testFraction,
			"training set would be empty")
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	r := rand.New(rand.NewPCG(seed, seed))
	r.Shuffle(n, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	test := append([]int(nil), indices[:nTest]...)
	train := append([]int(nil), indices[nTest:]...)
	sort.Ints(test)
	sort.Ints(train)
	return Partition{Train: train, Test: test}, nil
}

// Len returns the number of rows the partition covers.
func (p Partition) Len() int {
	return len(p.Train) + len(p.Test)
}

// Apply selects the partition's rows from features and target. The same
// partition applied to two target series of one table yields identical
// feature frames.
func (p Partition) Apply(features dataset.Frame, target []float64) (Split, error) {
	n := features.Len()
	if len(target) != n {
		return Split{}, errors.NewDimensionError("Partition.Apply", n, len(target), 0)
	}
	if p.Len() != n {
		return Split{}, errors.NewInvalidArgumentError("Partition.Apply", "rows", n,
			"partition was built for a different number of rows")
	}

	return Split{
		Partition: p,
		TrainX:    features.Take(p.Train),
		TestX:     features.Take(p.Test),
		TrainY:    take(target, p.Train),
		TestY:     take(target, p.Test),
	}, nil
}

// TrainTestSplit partitions the rows of t and splits its features and the
// named target column.
func TrainTestSplit(t *dataset.Table, target string, testFraction float64, seed uint64) (Split, error) {
	if target != t.Target {
		return Split{}, errors.NewUnknownFieldError("TrainTestSplit", target, []string{t.Target})
	}
	p, err := NewPartition(t.Len(), testFraction, seed)
	if err != nil {
		return Split{}, err
	}
	return p.Apply(t.Features(), t.TargetValues())
}

func take(values []float64, rows []int) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = values[r]
	}
	return out
}
