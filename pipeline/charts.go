package pipeline

import (
	"github.com/YuminosukeSato/housevalue/dataset"
	"github.com/YuminosukeSato/housevalue/linear"
	"github.com/YuminosukeSato/housevalue/metrics"
	"github.com/YuminosukeSato/housevalue/modelselection"
	"github.com/YuminosukeSato/housevalue/plotting"
)

// jointPairs are the feature pairs drawn as joint scatter plots.
var jointPairs = [][2]string{
	{dataset.DIS, dataset.NOX},
	{dataset.INDUS, dataset.NOX},
	{dataset.LSTAT, dataset.RM},
	{dataset.LSTAT, dataset.PRICE},
	{dataset.RM, dataset.PRICE},
}

func renderCharts(t *dataset.Table, rawModel, logModel *linear.Model, rawSplit, logSplit modelselection.Split, dir string) ([]string, error) {
	var charts []plotting.Chart
	add := func(c plotting.Chart, err error) error {
		if err != nil {
			return err
		}
		charts = append(charts, c)
		return nil
	}

	for _, h := range []struct {
		column, title, label string
		bins                 int
	}{
		{dataset.PRICE, "1970s Home Values in Boston", "PRICE in $1000s", 50},
		{dataset.RM, "Distribution of Rooms in Boston", "Average number of rooms", 25},
		{dataset.RAD, "Access to Highways", "Accessibility to radial highways", 24},
	} {
		col, err := t.Column(h.column)
		if err != nil {
			return nil, err
		}
		if err := add(plotting.Histogram("hist_"+h.column, col, h.bins, h.title, h.label)); err != nil {
			return nil, err
		}
	}

	counts, err := t.ValueCounts(dataset.CHAS)
	if err != nil {
		return nil, err
	}
	labels := make([]string, len(counts))
	values := make([]float64, len(counts))
	for i, vc := range counts {
		labels[i] = "No"
		if vc.Value == 1 {
			labels[i] = "Yes"
		}
		values[i] = float64(vc.Count)
	}
	if err := add(plotting.CategoryBar("chas", labels, values, "Next to Charles River?", "Property located next to the river")); err != nil {
		return nil, err
	}

	for _, pair := range jointPairs {
		x, err := t.Column(pair[0])
		if err != nil {
			return nil, err
		}
		y, err := t.Column(pair[1])
		if err != nil {
			return nil, err
		}
		if err := add(plotting.JointScatter("joint_"+pair[0]+"_"+pair[1], x, y, pair[0], pair[1])); err != nil {
			return nil, err
		}
	}

	if err := add(plotting.CorrelationHeatmap("correlation", t.Columns, t.Correlation())); err != nil {
		return nil, err
	}

	logY := logSplit.TrainY
	if err := add(plotting.Histogram("hist_log_price", logY, 50, "Log Prices", "log PRICE")); err != nil {
		return nil, err
	}

	for _, branch := range []struct {
		name  string
		model *linear.Model
		split modelselection.Split
	}{
		{"raw", rawModel, rawSplit},
		{"log", logModel, logSplit},
	} {
		pred, err := branch.model.Predict(branch.split.TrainX)
		if err != nil {
			return nil, err
		}
		res, err := metrics.Residuals(branch.split.TrainY, pred)
		if err != nil {
			return nil, err
		}
		if err := add(plotting.ActualVsPredicted("actual_vs_predicted_"+branch.name, branch.split.TrainY, pred,
			"Actual vs Predicted ("+branch.name+" prices)")); err != nil {
			return nil, err
		}
		if err := add(plotting.ResidualsVsPredicted("residuals_vs_predicted_"+branch.name, pred, res,
			"Residuals vs Predicted ("+branch.name+" prices)")); err != nil {
			return nil, err
		}
		if err := add(plotting.Histogram("hist_residuals_"+branch.name, res, 50,
			"Residual distribution ("+branch.name+" prices)", "residual")); err != nil {
			return nil, err
		}
	}

	return plotting.SaveAll(dir, charts)
}
