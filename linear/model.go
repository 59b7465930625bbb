package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/housevalue/dataset"
	"github.com/YuminosukeSato/housevalue/metrics"
	"github.com/YuminosukeSato/housevalue/pkg/errors"
)

// Model は学習済みの線形回帰モデル。Fit だけが作成し、作成後は変更されない。
// すべてのアクセサはコピーを返す。
type Model struct {
	featureNames []string
	coefficients []float64
	intercept    float64
	scale        Scale
	nSamples     int
}

// CoefficientRow is one line of the coefficient table.
type CoefficientRow struct {
	Feature     string  `json:"feature"`
	Coefficient float64 `json:"coefficient"`
}

// FeatureNames は学習時の特徴量名を順序どおりに返す
func (m *Model) FeatureNames() []string {
	return append([]string(nil), m.featureNames...)
}

// Coefficients は学習された係数を特徴量の順序で返す
func (m *Model) Coefficients() []float64 {
	return append([]float64(nil), m.coefficients...)
}

// Intercept は学習された切片を返す
func (m *Model) Intercept() float64 {
	return m.intercept
}

// TargetScale は学習に使った目的変数のスケールを返す
func (m *Model) TargetScale() Scale {
	return m.scale
}

// NSamples は学習に使った行数を返す
func (m *Model) NSamples() int {
	return m.nSamples
}

// Coefficient は指定した特徴量の係数を返す
func (m *Model) Coefficient(name string) (float64, error) {
	for j, n := range m.featureNames {
		if n == name {
			return m.coefficients[j], nil
		}
	}
	return 0, errors.NewUnknownFieldError("Model.Coefficient", name, m.FeatureNames())
}

// Table は係数表を特徴量の順序で返す
func (m *Model) Table() []CoefficientRow {
	rows := make([]CoefficientRow, len(m.featureNames))
	for j, n := range m.featureNames {
		rows[j] = CoefficientRow{Feature: n, Coefficient: m.coefficients[j]}
	}
	return rows
}

// Predict は各行について intercept + Σ coef[j]·x[j] を計算する。
// X の列名と列順は学習時と一致していなければならない。
func (m *Model) Predict(X dataset.Frame) ([]float64, error) {
	const op = "Model.Predict"
	if err := m.checkFeatures(op, X.Names); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	if r == 0 {
		return nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if c != len(m.featureNames) {
		return nil, errors.NewDimensionError(op, len(m.featureNames), c, 1)
	}

	var out mat.VecDense
	out.MulVec(X.X, mat.NewVecDense(c, m.Coefficients()))

	pred := make([]float64, r)
	for i := range pred {
		pred[i] = out.AtVec(i) + m.intercept
	}
	return pred, nil
}

// PredictRow は一件分の特徴量から予測値を返す
func (m *Model) PredictRow(names []string, values []float64) (float64, error) {
	if len(names) != len(values) {
		return 0, errors.NewDimensionError("Model.PredictRow", len(names), len(values), 1)
	}
	frame, err := dataset.NewFrame(names, [][]float64{values})
	if err != nil {
		return 0, err
	}
	pred, err := m.Predict(frame)
	if err != nil {
		return 0, err
	}
	return pred[0], nil
}

// Score はモデルの決定係数（R²）を計算する
func (m *Model) Score(X dataset.Frame, y []float64) (float64, error) {
	yPred, err := m.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(y, yPred)
}

func (m *Model) checkFeatures(op string, got []string) error {
	if len(got) != len(m.featureNames) {
		return errors.NewShapeMismatchError(op, m.FeatureNames(), append([]string(nil), got...), -1)
	}
	for j, name := range m.featureNames {
		if got[j] != name {
			return errors.NewShapeMismatchError(op, m.FeatureNames(), append([]string(nil), got...), j)
		}
	}
	return nil
}
