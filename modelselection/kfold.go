package modelselection

import (
	"context"
	"math/rand/v2"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/housevalue/core/model"
	"github.com/YuminosukeSato/housevalue/dataset"
	"github.com/YuminosukeSato/housevalue/pkg/errors"
)

// KFold splits rows into NSplits folds; each fold serves once as the test
// set. With Shuffle set the rows are permuted by a PCG source seeded with
// Seed before folding.
type KFold struct {
	NSplits int
	Shuffle bool
	Seed    uint64
}

// NewKFold creates a k-fold splitter. nSplits below 2 falls back to 5.
func NewKFold(nSplits int, shuffle bool, seed uint64) *KFold {
	if nSplits < 2 {
		nSplits = 5
	}
	return &KFold{NSplits: nSplits, Shuffle: shuffle, Seed: seed}
}

// Split returns one Partition per fold. The first n%NSplits folds hold one
// extra test row.
func (kf *KFold) Split(n int) ([]Partition, error) {
	if n < kf.NSplits {
		return nil, errors.NewInvalidArgumentError("KFold.Split", "n", n, "fewer rows than folds")
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	if kf.Shuffle {
		r := rand.New(rand.NewPCG(kf.Seed, kf.Seed))
		r.Shuffle(n, func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	folds := make([]Partition, kf.NSplits)
	foldSize, remainder := n/kf.NSplits, n%kf.NSplits
	start := 0
	for i := range folds {
		size := foldSize
		if i < remainder {
			size++
		}
		test := append([]int(nil), indices[start:start+size]...)
		train := make([]int, 0, n-size)
		train = append(train, indices[:start]...)
		train = append(train, indices[start+size:]...)
		sort.Ints(test)
		sort.Ints(train)
		folds[i] = Partition{Train: train, Test: test}
		start += size
	}
	return folds, nil
}

// FitFunc fits a fresh model on one training fold.
type FitFunc func(X dataset.Frame, y []float64) (model.Regressor, error)

// CVResult stores per-fold R² scores.
type CVResult struct {
	TrainScores []float64 `json:"train_scores"`
	TestScores  []float64 `json:"test_scores"`
}

// MeanScore returns the mean test score.
func (cv *CVResult) MeanScore() float64 {
	if len(cv.TestScores) == 0 {
		return 0
	}
	return stat.Mean(cv.TestScores, nil)
}

// StdScore returns the sample standard deviation of the test scores.
func (cv *CVResult) StdScore() float64 {
	if len(cv.TestScores) <= 1 {
		return 0
	}
	return stat.StdDev(cv.TestScores, nil)
}

// CrossValidate fits one model per fold concurrently and scores it on both
// sides of the fold. Scores keep fold order.
func CrossValidate(ctx context.Context, features dataset.Frame, target []float64, folds []Partition, fit FitFunc) (*CVResult, error) {
	result := &CVResult{
		TrainScores: make([]float64, len(folds)),
		TestScores:  make([]float64, len(folds)),
	}

	g, ctx := errgroup.WithContext(ctx)
	for i, fold := range folds {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			split, err := fold.Apply(features, target)
			if err != nil {
				return err
			}
			m, err := fit(split.TrainX, split.TrainY)
			if err != nil {
				return errors.Wrapf(err, "fold %d", i)
			}
			if result.TrainScores[i], err = m.Score(split.TrainX, split.TrainY); err != nil {
				return errors.Wrapf(err, "fold %d", i)
			}
			if result.TestScores[i], err = m.Score(split.TestX, split.TestY); err != nil {
				return errors.Wrapf(err, "fold %d", i)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
