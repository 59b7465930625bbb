package pipeline

import (
	"github.com/YuminosukeSato/housevalue/dataset"
	"github.com/YuminosukeSato/housevalue/linear"
	"github.com/YuminosukeSato/housevalue/metrics"
	"github.com/YuminosukeSato/housevalue/modelselection"
)

// Report is the outcome of one run.
type Report struct {
	Source            string                  `json:"source"`
	Quality           dataset.Quality         `json:"quality"`
	Summary           []dataset.ColumnSummary `json:"summary"`
	RiverCounts       []dataset.ValueCount    `json:"river_counts"`
	PriceSkew         float64                 `json:"price_skew"`
	LogPriceSkew      float64                 `json:"log_price_skew"`
	PriceCorrelations []FeatureCorrelation    `json:"price_correlations"`
	Split             SplitSummary            `json:"split"`
	Raw               ModelReport             `json:"raw"`
	Log               ModelReport             `json:"log"`
	CrossValidation   *CVSummary              `json:"cross_validation,omitempty"`
	RoomPremium       float64                 `json:"room_premium"`
	Estimates         Estimates               `json:"estimates"`
	Charts            []string                `json:"charts,omitempty"`
}

// FeatureCorrelation is the Pearson correlation of one feature with the
// target.
type FeatureCorrelation struct {
	Feature     string  `json:"feature"`
	Correlation float64 `json:"correlation"`
}

// SplitSummary records how the rows were partitioned.
type SplitSummary struct {
	Train        int     `json:"train"`
	Test         int     `json:"test"`
	TestFraction float64 `json:"test_fraction"`
	Seed         uint64  `json:"seed"`
}

// ModelReport describes one fitted model. TestMAE is in PRICE units for
// both scales.
type ModelReport struct {
	Name         string                  `json:"name"`
	Scale        linear.Scale            `json:"scale"`
	Intercept    float64                 `json:"intercept"`
	Coefficients []linear.CoefficientRow `json:"coefficients"`
	TrainR2      float64                 `json:"train_r2"`
	TestR2       float64                 `json:"test_r2"`
	TrainRMSE    float64                 `json:"train_rmse"`
	TestMAE      float64                 `json:"test_mae"`
	NSamples     int                     `json:"n_samples"`
	Residuals    metrics.Summary         `json:"residuals"`
}

// CVSummary is k-fold cross-validation of the log model on the training
// rows.
type CVSummary struct {
	Folds  int                      `json:"folds"`
	Mean   float64                  `json:"mean"`
	Std    float64                  `json:"std"`
	Result *modelselection.CVResult `json:"result"`
}

// Estimates are dollar prices for the average and the custom property.
type Estimates struct {
	AverageLogPrediction float64            `json:"average_log_prediction"`
	Average              float64            `json:"average"`
	AverageRaw           float64            `json:"average_raw"`
	CustomLogPrediction  float64            `json:"custom_log_prediction"`
	Custom               float64            `json:"custom"`
	CustomRaw            float64            `json:"custom_raw"`
	Overrides            map[string]float64 `json:"overrides"`
}
