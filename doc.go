// Package housevalue analyzes the Boston housing table and prices
// properties with ordinary least squares on log PRICE.
//
// The work is split into small packages that a run wires together:
//
//   - dataset: CSV loading, quality checks, descriptive statistics
//   - modelselection: seeded train/test partition and k-fold cross-validation
//   - linear: least-squares fit with intercept and an immutable Model
//   - preprocessing: the log transform of the target and its inverse
//   - metrics: R², RMSE, residual summaries
//   - valuation: average-property queries, overrides and dollar estimates
//   - plotting: gonum/plot charts of the exploration and the fits
//   - pipeline: the full walkthrough as one Run call
//   - report: text, Markdown and JSON rendering of a run
//
// # Quick Start
//
//	cfg := pipeline.DefaultConfig()
//	cfg.DataPath = "boston.csv"
//	r, err := pipeline.Run(context.Background(), cfg, log.GetLogger())
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("custom property: $%.0f\n", r.Estimates.Custom)
//
// The same run is available from the command line:
//
//	housevalue run boston.csv --charts charts/
//	housevalue estimate boston.csv --set RM=6 --set CHAS=0
//
// # Error Handling
//
// Every failure is returned as an error value from pkg/errors with a stack
// trace attached; nothing in a run panics on bad input. Data quality
// findings that do not stop a run are reported through errors.Warn.
package housevalue
