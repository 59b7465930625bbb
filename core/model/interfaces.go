// Package model holds the interfaces shared between the fitter, the
// evaluator and the estimator.
package model

import (
	"github.com/YuminosukeSato/housevalue/dataset"
)

// Predictor は学習済みの特徴量スキーマに対して予測を行うモデルのインターフェース
type Predictor interface {
	// FeatureNames returns the training-time column names in order.
	FeatureNames() []string

	// Predict returns one estimate per row of X. X must carry the same
	// column names in the same order as FeatureNames.
	Predict(X dataset.Frame) ([]float64, error)
}

// Scorer is the interface for models that can compute a score.
type Scorer interface {
	// Score returns the coefficient of determination R^2 of the prediction.
	Score(X dataset.Frame, y []float64) (float64, error)
}

// Regressor combines Predictor and Scorer.
type Regressor interface {
	Predictor
	Scorer
}

// TargetTransformer maps a target series to another scale and back.
type TargetTransformer interface {
	Transform(y []float64) ([]float64, error)
	InverseTransform(y []float64) []float64
}
