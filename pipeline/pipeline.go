package pipeline

import (
	"context"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/housevalue/core/model"
	"github.com/YuminosukeSato/housevalue/dataset"
	"github.com/YuminosukeSato/housevalue/linear"
	"github.com/YuminosukeSato/housevalue/metrics"
	"github.com/YuminosukeSato/housevalue/modelselection"
	"github.com/YuminosukeSato/housevalue/pkg/errors"
	"github.com/YuminosukeSato/housevalue/pkg/log"
	"github.com/YuminosukeSato/housevalue/preprocessing"
	"github.com/YuminosukeSato/housevalue/valuation"
)

// Run loads cfg.DataPath with the Boston schema and analyzes it.
func Run(ctx context.Context, cfg Config, logger log.Logger) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.GetLogger()
	}

	start := time.Now()
	schema := dataset.BostonSchema()
	schema.Target = cfg.Target
	table, err := dataset.LoadCSV(cfg.DataPath, schema)
	if err != nil {
		return nil, err
	}
	logger.Info("data loaded",
		log.OperationKey, log.OperationLoad,
		log.SourceKey, table.Source,
		log.SamplesKey, table.Len(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return Analyze(ctx, table, cfg, logger)
}

// Explore runs only the exploratory stage on t: quality, description,
// correlations and target skew. The model fields of the result stay empty.
func Explore(t *dataset.Table, cfg Config, logger log.Logger) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.GetLogger()
	}
	return explore(t, cfg, logger.With(log.ComponentKey, "pipeline"))
}

// Analyze runs every stage after loading on t.
func Analyze(ctx context.Context, t *dataset.Table, cfg Config, logger log.Logger) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.GetLogger()
	}
	logger = logger.With(log.ComponentKey, "pipeline")

	// 1. quality and description
	r, err := explore(t, cfg, logger)
	if err != nil {
		return nil, err
	}
	price := t.TargetValues()
	var toLog model.TargetTransformer = preprocessing.LogTransformer{}
	logPrice, err := toLog.Transform(price)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 2. one partition for both target scales
	partition, err := modelselection.NewPartition(t.Len(), cfg.TestFraction, cfg.Seed)
	if err != nil {
		return nil, err
	}
	features := t.Features()
	rawSplit, err := partition.Apply(features, price)
	if err != nil {
		return nil, err
	}
	logSplit, err := partition.Apply(features, logPrice)
	if err != nil {
		return nil, err
	}
	r.Split = SplitSummary{
		Train:        len(partition.Train),
		Test:         len(partition.Test),
		TestFraction: cfg.TestFraction,
		Seed:         cfg.Seed,
	}
	logger.Info("rows partitioned",
		log.OperationKey, log.OperationSplit,
		log.RandomSeedKey, cfg.Seed,
		log.TestFractionKey, cfg.TestFraction,
		log.SamplesKey, t.Len(),
	)

	// 3. the two fits share nothing but read-only inputs
	var rawModel, logModel *linear.Model
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rawModel, r.Raw, err = fitBranch(gctx, "raw_price", linear.ScaleRaw, nil, rawSplit, rawSplit.TestY, logger)
		return err
	})
	g.Go(func() error {
		var err error
		logModel, r.Log, err = fitBranch(gctx, "log_price", linear.ScaleLog, toLog, logSplit, rawSplit.TestY, logger)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rm, err := rawModel.Coefficient(dataset.RM)
	if err != nil {
		return nil, err
	}
	r.RoomPremium = rm * cfg.PriceScale

	if cfg.CVFolds > 0 {
		cv, err := crossValidate(ctx, logSplit, cfg, logger)
		if err != nil {
			return nil, err
		}
		r.CrossValidation = cv
	}

	// 4. valuation
	if r.Estimates, err = estimate(t, logSplit.TrainX, rawModel, logModel, cfg); err != nil {
		return nil, err
	}
	logger.Info("property valued",
		log.OperationKey, log.OperationEstimate,
		log.EstimateKey, r.Estimates.Custom,
	)

	// 5. charts
	if cfg.ChartsDir != "" {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		paths, err := renderCharts(t, rawModel, logModel, rawSplit, logSplit, cfg.ChartsDir)
		if err != nil {
			return nil, err
		}
		r.Charts = paths
		logger.Info("charts written", log.OperationKey, log.OperationPlot, "charts.count", len(paths))
	}

	return r, nil
}

// fitBranch fits one target scale. inverse maps predictions back to
// prices so TestMAE is comparable across branches; nil means the branch
// already predicts prices.
func fitBranch(ctx context.Context, name string, scale linear.Scale, inverse model.TargetTransformer, split modelselection.Split, testPrice []float64, logger log.Logger) (*linear.Model, ModelReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, ModelReport{}, err
	}
	branchLogger := logger.With(log.ModelNameKey, name, log.TargetScaleKey, string(scale))

	m, err := linear.NewLinearRegression(
		linear.WithTargetScale(scale),
		linear.WithLogger(branchLogger),
	).Fit(split.TrainX, split.TrainY)
	if err != nil {
		return nil, ModelReport{}, errors.Wrapf(err, "fit %s", name)
	}

	trainR2, err := metrics.ModelR2(m, split.TrainX, split.TrainY)
	if err != nil {
		return nil, ModelReport{}, err
	}
	testR2, err := metrics.ModelR2(m, split.TestX, split.TestY)
	if err != nil {
		return nil, ModelReport{}, err
	}
	residuals, err := metrics.ModelResiduals(m, split.TrainX, split.TrainY)
	if err != nil {
		return nil, ModelReport{}, err
	}
	// residuals are the errors against a zero prediction
	rmse, err := metrics.RMSE(residuals, make([]float64, len(residuals)))
	if err != nil {
		return nil, ModelReport{}, err
	}

	testPred, err := m.Predict(split.TestX)
	if err != nil {
		return nil, ModelReport{}, err
	}
	if inverse != nil {
		testPred = inverse.InverseTransform(testPred)
	}
	mae, err := metrics.MAE(testPrice, testPred)
	if err != nil {
		return nil, ModelReport{}, err
	}
	summary, err := metrics.Summarize(residuals)
	if err != nil {
		return nil, ModelReport{}, err
	}

	branchLogger.Info("model scored",
		log.OperationKey, log.OperationScore,
		log.PhaseKey, log.PhaseTraining,
		log.R2ScoreKey, trainR2,
		log.ResidualMeanKey, summary.Mean,
		log.ResidualSkewKey, summary.Skewness,
	)
	branchLogger.Info("model scored",
		log.OperationKey, log.OperationScore,
		log.PhaseKey, log.PhaseTesting,
		log.R2ScoreKey, testR2,
		log.MAEKey, mae,
	)

	return m, ModelReport{
		Name:         name,
		Scale:        scale,
		Intercept:    m.Intercept(),
		Coefficients: m.Table(),
		TrainR2:      trainR2,
		TestR2:       testR2,
		TrainRMSE:    rmse,
		TestMAE:      mae,
		NSamples:     m.NSamples(),
		Residuals:    summary,
	}, nil
}

func crossValidate(ctx context.Context, split modelselection.Split, cfg Config, logger log.Logger) (*CVSummary, error) {
	folds, err := modelselection.NewKFold(cfg.CVFolds, true, cfg.Seed).Split(split.TrainX.Len())
	if err != nil {
		return nil, err
	}
	fit := func(X dataset.Frame, y []float64) (model.Regressor, error) {
		m, err := linear.NewLinearRegression(
			linear.WithTargetScale(linear.ScaleLog),
			linear.WithLogger(log.Nop()),
		).Fit(X, y)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	result, err := modelselection.CrossValidate(ctx, split.TrainX, split.TrainY, folds, fit)
	if err != nil {
		return nil, err
	}
	logger.Info("cross-validated",
		log.OperationKey, log.OperationScore,
		log.ModelNameKey, "log_price",
		log.R2ScoreKey, result.MeanScore(),
		"cv.folds", cfg.CVFolds,
	)
	return &CVSummary{
		Folds:  cfg.CVFolds,
		Mean:   result.MeanScore(),
		Std:    result.StdScore(),
		Result: result,
	}, nil
}

func estimate(t *dataset.Table, train dataset.Frame, rawModel, logModel *linear.Model, cfg Config) (Estimates, error) {
	base := valuation.BuildDefaultQuery(train)
	overrides, err := cfg.Property.Overrides(t)
	if err != nil {
		return Estimates{}, err
	}
	for name, v := range cfg.Overrides {
		overrides[name] = v
	}
	custom, err := valuation.ApplyOverrides(base, overrides)
	if err != nil {
		return Estimates{}, err
	}

	var e Estimates
	e.Overrides = overrides
	if e.AverageLogPrediction, err = logModel.PredictRow(base.Names(), base.Values()); err != nil {
		return Estimates{}, err
	}
	if e.CustomLogPrediction, err = logModel.PredictRow(custom.Names(), custom.Values()); err != nil {
		return Estimates{}, err
	}
	if e.Average, err = valuation.EstimateScaled(logModel, base, true, cfg.PriceScale); err != nil {
		return Estimates{}, err
	}
	if e.AverageRaw, err = valuation.EstimateScaled(rawModel, base, false, cfg.PriceScale); err != nil {
		return Estimates{}, err
	}
	if e.Custom, err = valuation.EstimateScaled(logModel, custom, true, cfg.PriceScale); err != nil {
		return Estimates{}, err
	}
	if e.CustomRaw, err = valuation.EstimateScaled(rawModel, custom, false, cfg.PriceScale); err != nil {
		return Estimates{}, err
	}
	return e, nil
}

func explore(t *dataset.Table, cfg Config, logger log.Logger) (*Report, error) {
	r := &Report{Source: t.Source}

	q, err := dataset.CheckQuality(t, cfg.Strict)
	if err != nil {
		return nil, err
	}
	r.Quality = q
	if !q.Clean() {
		logger.Warn("input has missing values or duplicate rows",
			log.MissingKey, q.MissingCount,
			log.DuplicatesKey, q.DuplicateCount,
		)
	}
	r.Summary = t.Describe()
	if r.RiverCounts, err = t.ValueCounts(dataset.CHAS); err != nil {
		return nil, err
	}
	r.PriceCorrelations = priceCorrelations(t)

	// missing cells are reported by the quality check, not here
	price := finite(t.TargetValues())
	logPrice, err := preprocessing.ToLogScale(price)
	if err != nil {
		return nil, err
	}
	if r.PriceSkew, err = skew(price); err != nil {
		return nil, err
	}
	if r.LogPriceSkew, err = skew(logPrice); err != nil {
		return nil, err
	}
	return r, nil
}

// priceCorrelations orders features by the strength of their correlation
// with the target, strongest first. Each pair uses the rows where both
// values are present; a feature with no spread on those rows is left out.
func priceCorrelations(t *dataset.Table) []FeatureCorrelation {
	target := t.TargetValues()
	out := make([]FeatureCorrelation, 0, len(t.Columns)-1)
	for _, name := range t.Columns {
		if name == t.Target {
			continue
		}
		col, err := t.Column(name)
		if err != nil {
			continue
		}
		x := make([]float64, 0, len(col))
		y := make([]float64, 0, len(col))
		for i, v := range col {
			if math.IsNaN(v) || math.IsNaN(target[i]) {
				continue
			}
			x = append(x, v)
			y = append(y, target[i])
		}
		if len(x) < 2 {
			continue
		}
		c := stat.Correlation(x, y, nil)
		if math.IsNaN(c) || math.IsInf(c, 0) {
			continue
		}
		out = append(out, FeatureCorrelation{Feature: name, Correlation: c})
	}
	sort.SliceStable(out, func(a, b int) bool {
		return math.Abs(out[a].Correlation) > math.Abs(out[b].Correlation)
	})
	return out
}

func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

func skew(values []float64) (float64, error) {
	s, err := metrics.Summarize(values)
	if err != nil {
		return 0, err
	}
	return s.Skewness, nil
}
