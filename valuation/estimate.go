package valuation

import (
	"github.com/YuminosukeSato/housevalue/core/model"
	"github.com/YuminosukeSato/housevalue/pkg/errors"
	"github.com/YuminosukeSato/housevalue/preprocessing"
)

// PriceScale converts PRICE units (thousands of dollars) to dollars.
const PriceScale = 1000.0

// Estimate runs q through p and returns a price in dollars. With logScale
// set the prediction is exponentiated first. Both paths are multiplied by
// PriceScale.
func Estimate(p model.Predictor, q Query, logScale bool) (float64, error) {
	return EstimateScaled(p, q, logScale, PriceScale)
}

// EstimateScaled is Estimate with an explicit price unit.
func EstimateScaled(p model.Predictor, q Query, logScale bool, scale float64) (float64, error) {
	frame, err := q.Frame()
	if err != nil {
		return 0, err
	}
	pred, err := p.Predict(frame)
	if err != nil {
		return 0, err
	}

	v := pred[0]
	if logScale {
		v = preprocessing.FromLogScaleValue(v)
	}
	if err := errors.CheckScalar("valuation.Estimate", v); err != nil {
		return 0, err
	}
	return v * scale, nil
}

// EstimateWithOverrides validates overrides against the model's feature
// names, applies them to base and estimates the result.
func EstimateWithOverrides(p model.Predictor, base Query, overrides map[string]float64, logScale bool) (float64, error) {
	return EstimateWithOverridesScaled(p, base, overrides, logScale, PriceScale)
}

// EstimateWithOverridesScaled is EstimateWithOverrides with an explicit
// price unit.
func EstimateWithOverridesScaled(p model.Predictor, base Query, overrides map[string]float64, logScale bool, scale float64) (float64, error) {
	if err := checkKeys("EstimateWithOverrides", p.FeatureNames(), overrides); err != nil {
		return 0, err
	}
	q, err := ApplyOverrides(base, overrides)
	if err != nil {
		return 0, err
	}
	return EstimateScaled(p, q, logScale, scale)
}
