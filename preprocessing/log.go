// Package preprocessing は目的変数のスケール変換を提供します。
package preprocessing

import (
	"math"

	"github.com/YuminosukeSato/housevalue/pkg/errors"
)

// ToLogScale は各要素の自然対数を返す。
// 0 以下の値または NaN を含む場合は、最初に見つかった位置を示す DomainError を返す。
//
// 使用例:
//
//	logPrice, err := preprocessing.ToLogScale(price)
func ToLogScale(y []float64) ([]float64, error) {
	out := make([]float64, len(y))
	for i, v := range y {
		if !(v > 0) {
			return nil, errors.NewDomainError("ToLogScale", i, v, "log requires a positive value")
		}
		out[i] = math.Log(v)
	}
	return out, nil
}

// FromLogScale は ToLogScale の逆変換 exp を各要素に適用する
func FromLogScale(y []float64) []float64 {
	out := make([]float64, len(y))
	for i, v := range y {
		out[i] = math.Exp(v)
	}
	return out
}

// FromLogScaleValue は単一の値に exp を適用する
func FromLogScaleValue(v float64) float64 {
	return math.Exp(v)
}

// LogTransformer は目的変数を対数スケールとの間で変換する
type LogTransformer struct{}

// Transform は ToLogScale を呼び出す
func (LogTransformer) Transform(y []float64) ([]float64, error) {
	return ToLogScale(y)
}

// InverseTransform は FromLogScale を呼び出す
func (LogTransformer) InverseTransform(y []float64) []float64 {
	return FromLogScale(y)
}
