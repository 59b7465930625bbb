// Package linear は切片付き最小二乗法による線形回帰を提供します。
//
// Fit は学習ごとに新しい不変の Model を返すため、同じ分割に対して
// 異なるスケールの目的変数で学習した二つのモデルが状態を共有することはありません。
package linear

import (
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/housevalue/core/parallel"
	"github.com/YuminosukeSato/housevalue/dataset"
	"github.com/YuminosukeSato/housevalue/pkg/errors"
	"github.com/YuminosukeSato/housevalue/pkg/log"
)

// defaultParallelThreshold は計画行列の構築を並列化する行数の閾値
const defaultParallelThreshold = 1000

// rankTolerance は R の対角成分を 0 とみなす相対閾値
const rankTolerance = 1e-10

// LinearRegression は線形回帰の学習器
type LinearRegression struct {
	scale             Scale
	logger            log.Logger
	parallelThreshold int
}

// NewLinearRegression は新しい線形回帰の学習器を作成する
func NewLinearRegression(opts ...Option) *LinearRegression {
	lr := &LinearRegression{
		scale:             ScaleRaw,
		logger:            log.GetLogger(),
		parallelThreshold: defaultParallelThreshold,
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// Fit は X と y から係数と切片を推定し、新しい Model を返す。
// 計画行列 [1 | X] の QR 分解による最小二乗解を使用する。
// 計画行列のランクが不足している場合は ErrSingularMatrix を包んだ ModelError を返す。
func (lr *LinearRegression) Fit(X dataset.Frame, y []float64) (*Model, error) {
	const op = "LinearRegression.Fit"
	start := time.Now()

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if len(y) != r {
		return nil, errors.NewDimensionError(op, r, len(y), 0)
	}
	if len(X.Names) != c {
		return nil, errors.NewDimensionError(op, c, len(X.Names), 1)
	}
	if err := errors.CheckNumericalStability(op, y); err != nil {
		return nil, err
	}
	for i := 0; i < r; i++ {
		if err := errors.CheckNumericalStability(op, X.X.RawRowView(i)); err != nil {
			return nil, err
		}
	}
	// 行数が未知数の数より少ない場合は解が一意に定まらない
	if r < c+1 {
		return nil, errors.NewModelError(op, "fewer rows than coefficients", errors.ErrSingularMatrix)
	}

	lr.logger.Debug("fitting linear model",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, r,
		log.FeaturesKey, c,
		log.TargetScaleKey, string(lr.scale),
	)

	// 切片項のために X に 1 の列を追加
	design := mat.NewDense(r, c+1, nil)
	parallel.ParallelizeWithThreshold(r, lr.parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			row := design.RawRowView(i)
			row[0] = 1.0
			copy(row[1:], X.X.RawRowView(i))
		}
	})

	var qr mat.QR
	qr.Factorize(design)
	if !fullRank(&qr, c+1) {
		return nil, errors.NewModelError(op, "rank-deficient design matrix", errors.ErrSingularMatrix)
	}

	var w mat.Dense
	if err := qr.SolveTo(&w, false, mat.NewDense(r, 1, y)); err != nil {
		return nil, errors.NewModelError(op, err.Error(), errors.ErrSingularMatrix)
	}

	coef := make([]float64, c)
	for j := range coef {
		coef[j] = w.At(j+1, 0)
	}
	intercept := w.At(0, 0)
	if err := errors.CheckNumericalStability(op, append([]float64{intercept}, coef...)); err != nil {
		return nil, err
	}

	m := &Model{
		featureNames: append([]string(nil), X.Names...),
		coefficients: coef,
		intercept:    intercept,
		scale:        lr.scale,
		nSamples:     r,
	}

	lr.logger.Info("model fitted",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, r,
		log.FeaturesKey, c,
		log.TargetScaleKey, string(lr.scale),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return m, nil
}

// fullRank は R の対角成分が相対許容誤差より大きいかを調べる。
// ピボットなしの QR では、先行する列の線形結合になっている列の対角成分がほぼ 0 になる。
func fullRank(qr *mat.QR, cols int) bool {
	var rm mat.Dense
	qr.RTo(&rm)

	maxDiag := 0.0
	for j := 0; j < cols; j++ {
		maxDiag = math.Max(maxDiag, math.Abs(rm.At(j, j)))
	}
	if maxDiag == 0 {
		return false
	}
	tol := maxDiag * rankTolerance
	for j := 0; j < cols; j++ {
		if math.Abs(rm.At(j, j)) <= tol {
			return false
		}
	}
	return true
}
