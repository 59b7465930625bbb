// Package pipeline runs the full walkthrough: load, check, describe, split,
// fit on raw and log PRICE, evaluate, and price the average and a custom
// property.
package pipeline

import (
	"github.com/YuminosukeSato/housevalue/dataset"
	"github.com/YuminosukeSato/housevalue/pkg/errors"
	"github.com/YuminosukeSato/housevalue/valuation"
)

// Config holds the parameters of one run.
type Config struct {
	DataPath     string
	Target       string
	TestFraction float64
	Seed         uint64
	PriceScale   float64
	Strict       bool
	CVFolds      int
	ChartsDir    string
	Property     valuation.PropertySpec
	// Overrides are raw feature values applied on top of Property.
	Overrides map[string]float64
}

// DefaultConfig returns the 80/20 split with seed 10 and the riverside
// property.
func DefaultConfig() Config {
	return Config{
		Target:       dataset.PRICE,
		TestFraction: 0.2,
		Seed:         10,
		PriceScale:   valuation.PriceScale,
		CVFolds:      5,
		Property:     valuation.DefaultPropertySpec(),
	}
}

// Validate checks the parameters that do not depend on the data.
func (c Config) Validate() error {
	if c.Target == "" {
		return errors.NewInvalidArgumentError("pipeline.Config", "target", c.Target, "must not be empty")
	}
	if !(c.TestFraction > 0 && c.TestFraction < 1) {
		return errors.NewInvalidArgumentError("pipeline.Config", "test_fraction", c.TestFraction, "must be in (0, 1)")
	}
	if !(c.PriceScale > 0) {
		return errors.NewInvalidArgumentError("pipeline.Config", "price_scale", c.PriceScale, "must be positive")
	}
	if c.CVFolds == 1 || c.CVFolds < 0 {
		return errors.NewInvalidArgumentError("pipeline.Config", "cv_folds", c.CVFolds, "must be 0 or at least 2")
	}
	return nil
}
