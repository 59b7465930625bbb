package linear

import (
	"github.com/YuminosukeSato/housevalue/pkg/log"
)

// Scale names the scale a target series lives on.
type Scale string

const (
	// ScaleRaw is PRICE in thousands of dollars.
	ScaleRaw Scale = "raw"
	// ScaleLog is the natural log of PRICE.
	ScaleLog Scale = "log"
)

// Option is a function that configures LinearRegression
type Option func(*LinearRegression)

// WithTargetScale records the scale of the target the model is fit on.
func WithTargetScale(s Scale) Option {
	return func(lr *LinearRegression) {
		lr.scale = s
	}
}

// WithLogger sets the logger used for fit diagnostics.
func WithLogger(l log.Logger) Option {
	return func(lr *LinearRegression) {
		if l != nil {
			lr.logger = l
		}
	}
}

// WithParallelThreshold sets the row count above which the design matrix is
// built concurrently.
func WithParallelThreshold(rows int) Option {
	return func(lr *LinearRegression) {
		lr.parallelThreshold = rows
	}
}
