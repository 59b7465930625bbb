// Package metrics は回帰モデルの評価指標と残差の要約統計を提供します。
package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/housevalue/pkg/errors"
)

func checkPair(op string, yTrue, yPred []float64) error {
	if len(yTrue) == 0 {
		return errors.NewValueErrorWithCause(op, "empty vector", errors.ErrEmptyData)
	}
	if len(yPred) != len(yTrue) {
		return errors.NewDimensionError(op, len(yTrue), len(yPred), 0)
	}
	return nil
}

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred []float64) (float64, error) {
	if err := checkPair("MSE", yTrue, yPred); err != nil {
		return 0, err
	}

	// MSE = (1/n) * Σ(yTrue - yPred)²
	var sum float64
	for i := range yTrue {
		diff := yTrue[i] - yPred[i]
		sum += diff * diff
	}
	return sum / float64(len(yTrue)), nil
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred []float64) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred []float64) (float64, error) {
	if err := checkPair("MAE", yTrue, yPred); err != nil {
		return 0, err
	}

	// MAE = (1/n) * Σ|yTrue - yPred|
	var sum float64
	for i := range yTrue {
		sum += math.Abs(yTrue[i] - yPred[i])
	}
	return sum / float64(len(yTrue)), nil
}

// R2Score は決定係数 R² = 1 - SS_res/SS_tot を計算する。
// yTrue の分散が 0 の場合は ErrZeroVariance を包んだ ValueError を返す。
// 悪いモデルでは負の値になり得る。
func R2Score(yTrue, yPred []float64) (float64, error) {
	if err := checkPair("R2Score", yTrue, yPred); err != nil {
		return 0, err
	}

	yMean := stat.Mean(yTrue, nil)

	// 全変動（TSS）と残差変動（RSS）を計算
	var tss, rss float64
	for i, v := range yTrue {
		tss += (v - yMean) * (v - yMean)
		rss += (v - yPred[i]) * (v - yPred[i])
	}

	if tss == 0 {
		return 0, errors.NewValueErrorWithCause("R2Score", "total sum of squares is zero", errors.ErrZeroVariance)
	}
	return 1 - rss/tss, nil
}
