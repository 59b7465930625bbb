package metrics

import (
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/housevalue/core/model"
	"github.com/YuminosukeSato/housevalue/dataset"
	"github.com/YuminosukeSato/housevalue/pkg/errors"
)

// Residuals returns yTrue[i] - yPred[i].
func Residuals(yTrue, yPred []float64) ([]float64, error) {
	if err := checkPair("Residuals", yTrue, yPred); err != nil {
		return nil, err
	}
	out := make([]float64, len(yTrue))
	for i := range yTrue {
		out[i] = yTrue[i] - yPred[i]
	}
	return out, nil
}

// ModelR2 scores p on X against y.
func ModelR2(p model.Predictor, X dataset.Frame, y []float64) (float64, error) {
	yPred, err := p.Predict(X)
	if err != nil {
		return 0, err
	}
	return R2Score(y, yPred)
}

// ModelResiduals predicts X with p and returns y minus the predictions.
func ModelResiduals(p model.Predictor, X dataset.Frame, y []float64) ([]float64, error) {
	yPred, err := p.Predict(X)
	if err != nil {
		return nil, err
	}
	return Residuals(y, yPred)
}

// Summary describes the distribution of a residual series.
type Summary struct {
	N        int     `json:"n"`
	Mean     float64 `json:"mean"`
	Std      float64 `json:"std"`
	Skewness float64 `json:"skewness"`
}

// Summarize computes the mean, the sample standard deviation and the
// skewness of values. Skewness is the adjusted Fisher-Pearson coefficient
// G1 = sqrt(n(n-1))/(n-2) · m3/m2^1.5, which is what stat.Skew returns.
// At least three values with non-zero spread are required.
func Summarize(values []float64) (Summary, error) {
	if len(values) < 3 {
		return Summary{}, errors.NewValueErrorWithCause("Summarize", "need at least 3 values", errors.ErrEmptyData)
	}
	if err := errors.CheckNumericalStability("Summarize", values); err != nil {
		return Summary{}, err
	}

	mean, std := stat.MeanStdDev(values, nil)
	if std == 0 {
		return Summary{}, errors.NewValueErrorWithCause("Summarize", "values have no spread", errors.ErrZeroVariance)
	}
	return Summary{
		N:        len(values),
		Mean:     mean,
		Std:      std,
		Skewness: stat.Skew(values, nil),
	}, nil
}
