// Package report renders a pipeline.Report for people (tables) or for
// other programs (JSON).
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/YuminosukeSato/housevalue/pipeline"
	"github.com/YuminosukeSato/housevalue/pkg/errors"
)

// Output formats accepted by Render.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// Formats lists the accepted output formats.
func Formats() []string {
	return []string{FormatText, FormatMarkdown, FormatJSON}
}

// Render writes r to w in the given format.
func Render(w io.Writer, r *pipeline.Report, format string) error {
	switch format {
	case FormatJSON:
		return JSON(w, r)
	case FormatMarkdown, "md":
		return Markdown(w, r)
	case FormatText, "":
		return Text(w, r)
	default:
		return errors.NewInvalidArgumentError("report.Render", "format", format,
			"must be one of "+strings.Join(Formats(), ", "))
	}
}

// Estimate writes only the price estimates of r.
func Estimate(w io.Writer, r *pipeline.Report, format string) error {
	if r == nil {
		return errors.NewValueError("report.Estimate", "nil report")
	}
	var out string
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r.Estimates)
	case FormatMarkdown, "md":
		out = estimateTable(r).draw(true)
	case FormatText, "":
		out = estimateTable(r).draw(false)
	default:
		return errors.NewInvalidArgumentError("report.Estimate", "format", format,
			"must be one of "+strings.Join(Formats(), ", "))
	}
	_, err := fmt.Fprintln(w, out)
	return err
}

// JSON writes r as indented JSON.
func JSON(w io.Writer, r *pipeline.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// Text writes r as box-drawn tables.
func Text(w io.Writer, r *pipeline.Report) error {
	return render(w, r, false)
}

// Markdown writes r as Markdown tables.
func Markdown(w io.Writer, r *pipeline.Report) error {
	return render(w, r, true)
}

func render(w io.Writer, r *pipeline.Report, markdown bool) error {
	if r == nil {
		return errors.NewValueError("report.render", "nil report")
	}
	for _, s := range sections(r) {
		if _, err := fmt.Fprintln(w, s.draw(markdown)); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

func sections(r *pipeline.Report) []section {
	out := []section{
		dataTable(r),
		describeTable(r),
		riverTable(r),
		correlationTable(r),
	}
	if r.Raw.Name == "" {
		return out
	}
	out = append(out, coefficientTable(r), fitTable(r))
	if r.CrossValidation != nil {
		out = append(out, cvTable(r.CrossValidation))
	}
	out = append(out, estimateTable(r))
	if len(r.Charts) > 0 {
		out = append(out, chartTable(r.Charts))
	}
	return out
}

// section is one titled table of a report. The title is written above the
// table so that it never wraps to the table width.
type section struct {
	table.Writer
	title string
}

func newTable(title string, header table.Row) section {
	t := table.NewWriter()
	if header != nil {
		t.AppendHeader(header)
	}
	return section{Writer: t, title: title}
}

// draw renders s as box-drawn text or as Markdown. Header and footer keep
// their case.
func (s section) draw(markdown bool) string {
	if markdown {
		s.Style().Format.Header = text.FormatDefault
		s.Style().Format.Footer = text.FormatDefault
		return "### " + s.title + "\n\n" + s.RenderMarkdown()
	}
	s.SetStyle(table.StyleLight)
	s.Style().Format.Header = text.FormatDefault
	s.Style().Format.Footer = text.FormatDefault
	return s.title + "\n" + s.Render()
}

func dataTable(r *pipeline.Report) section {
	t := newTable("Data", nil)
	source := r.Source
	if source == "" {
		source = "(stream)"
	}
	t.AppendRows([]table.Row{
		{"source", source},
		{"rows", r.Quality.Rows},
		{"columns", r.Quality.Columns},
		{"missing values", r.Quality.MissingCount},
		{"duplicate rows", r.Quality.DuplicateCount},
		{"PRICE skew", num(r.PriceSkew)},
		{"log PRICE skew", num(r.LogPriceSkew)},
	})
	return t
}

func describeTable(r *pipeline.Report) section {
	t := newTable("Summary statistics", table.Row{"column", "count", "mean", "std", "min", "25%", "50%", "75%", "max"})
	for _, s := range r.Summary {
		t.AppendRow(table.Row{s.Name, s.Count, num(s.Mean), num(s.Std), num(s.Min), num(s.Q25), num(s.Q50), num(s.Q75), num(s.Max)})
	}
	return t
}

func riverTable(r *pipeline.Report) section {
	t := newTable("Next to Charles River (CHAS)", table.Row{"value", "count"})
	for _, vc := range r.RiverCounts {
		label := "No"
		if vc.Value == 1 {
			label = "Yes"
		}
		t.AppendRow(table.Row{label, vc.Count})
	}
	return t
}

func correlationTable(r *pipeline.Report) section {
	t := newTable("Correlation with PRICE", table.Row{"feature", "correlation"})
	for _, fc := range r.PriceCorrelations {
		t.AppendRow(table.Row{fc.Feature, num(fc.Correlation)})
	}
	return t
}

func coefficientTable(r *pipeline.Report) section {
	t := newTable("Coefficients", table.Row{"feature", r.Raw.Name, r.Log.Name})
	t.AppendRow(table.Row{"intercept", num(r.Raw.Intercept), num(r.Log.Intercept)})
	logCoef := make(map[string]float64, len(r.Log.Coefficients))
	for _, c := range r.Log.Coefficients {
		logCoef[c.Feature] = c.Coefficient
	}
	for _, c := range r.Raw.Coefficients {
		t.AppendRow(table.Row{c.Feature, num(c.Coefficient), num(logCoef[c.Feature])})
	}
	t.AppendFooter(table.Row{"RM premium", fmt.Sprintf("$%.2f per room", r.RoomPremium), ""})
	return t
}

func fitTable(r *pipeline.Report) section {
	title := fmt.Sprintf("Fit (%d train / %d test, seed %d)", r.Split.Train, r.Split.Test, r.Split.Seed)
	t := newTable(title, table.Row{"model", "train R²", "test R²", "train RMSE", "test MAE (PRICE)", "residual mean", "residual skew"})
	for _, m := range []pipeline.ModelReport{r.Raw, r.Log} {
		t.AppendRow(table.Row{m.Name, num(m.TrainR2), num(m.TestR2), num(m.TrainRMSE), num(m.TestMAE), num(m.Residuals.Mean), num(m.Residuals.Skewness)})
	}
	return t
}

func cvTable(cv *pipeline.CVSummary) section {
	t := newTable(fmt.Sprintf("%d-fold cross-validation (log_price)", cv.Folds), table.Row{"fold", "train R²", "test R²"})
	for i := range cv.Result.TestScores {
		t.AppendRow(table.Row{i + 1, num(cv.Result.TrainScores[i]), num(cv.Result.TestScores[i])})
	}
	t.AppendFooter(table.Row{"mean ± std", "", fmt.Sprintf("%.4f ± %.4f", cv.Mean, cv.Std)})
	return t
}

func estimateTable(r *pipeline.Report) section {
	e := r.Estimates
	t := newTable("Estimates", table.Row{"property", "log prediction", "log model", "raw model"})
	t.AppendRow(table.Row{"average", num(e.AverageLogPrediction), dollars(e.Average), dollars(e.AverageRaw)})
	t.AppendRow(table.Row{"custom", num(e.CustomLogPrediction), dollars(e.Custom), dollars(e.CustomRaw)})
	return t
}

func chartTable(paths []string) section {
	t := newTable("Charts", nil)
	for _, p := range paths {
		t.AppendRow(table.Row{p})
	}
	return t
}

func num(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

func dollars(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
