// Standard attribute keys for the valuation walkthrough. The keys follow a
// hierarchical naming convention (e.g. "model.name", "data.samples") so
// that the JSON log lines of one run can be filtered by stage and by
// target scale.

package log

// Model and operation context.
const (
	// ModelNameKey identifies the fitted model, e.g. "raw_price" or "log_price".
	ModelNameKey = "model.name"

	// OperationKey is the step being performed: "load", "split", "fit", "score", "estimate".
	OperationKey = "ml.operation"

	// ComponentKey is the package emitting the record.
	ComponentKey = "ml.component"

	// PhaseKey tells training records apart from held-out evaluation.
	PhaseKey = "ml.phase"

	// TargetScaleKey is "raw" or "log".
	TargetScaleKey = "model.target_scale"
)

// Data shape.
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"
	SourceKey   = "data.source"

	// MissingKey and DuplicatesKey carry the data quality counts.
	MissingKey    = "data.missing"
	DuplicatesKey = "data.duplicates"
)

// Metrics.
const (
	DurationMsKey = "perf.duration_ms"

	// R2ScoreKey records R², range (-inf, 1].
	R2ScoreKey = "metrics.r2_score"
	// MAEKey is the mean absolute error in PRICE units.
	MAEKey = "metrics.mae"

	ResidualMeanKey = "metrics.residual_mean"
	ResidualSkewKey = "metrics.residual_skew"

	// EstimateKey is a dollar-scale price estimate.
	EstimateKey = "estimate.dollars"
)

// Configuration.
const (
	RandomSeedKey   = "config.random_seed"
	TestFractionKey = "config.test_fraction"
)

// Standard attribute values.
const (
	OperationLoad     = "load"
	OperationSplit    = "split"
	OperationFit      = "fit"
	OperationPredict  = "predict"
	OperationScore    = "score"
	OperationEstimate = "estimate"
	OperationPlot     = "plot"

	PhaseTraining = "training"
	PhaseTesting  = "testing"
)
