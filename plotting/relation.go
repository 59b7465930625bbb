package plotting

import (
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/YuminosukeSato/housevalue/pkg/errors"
)

func points(op string, x, y []float64) (plotter.XYs, error) {
	if len(x) != len(y) {
		return nil, errors.NewDimensionError(op, len(x), len(y), 0)
	}
	if len(x) == 0 {
		return nil, errors.NewValueErrorWithCause(op, "no points", errors.ErrEmptyData)
	}
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X, pts[i].Y = x[i], y[i]
	}
	return pts, nil
}

func scatter(pts plotter.XYs) (*plotter.Scatter, error) {
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, errors.Wrap(err, "scatter")
	}
	s.GlyphStyle.Color = scatterColor
	s.GlyphStyle.Radius = vg.Points(2)
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	return s, nil
}

// JointScatter draws y against x with the least-squares line through them.
// The title carries the Pearson correlation.
func JointScatter(name string, x, y []float64, xLabel, yLabel string) (Chart, error) {
	pts, err := points("plotting.JointScatter", x, y)
	if err != nil {
		return Chart{}, err
	}
	c := newChart(name, "", xLabel, yLabel)
	c.Plot.Title.Text = xLabel + " vs " + yLabel + " (corr " + strconv.FormatFloat(stat.Correlation(x, y, nil), 'f', 2, 64) + ")"

	s, err := scatter(pts)
	if err != nil {
		return Chart{}, err
	}
	c.Plot.Add(s)

	alpha, beta := stat.LinearRegression(x, y, nil, false)
	lo, hi := floats.Min(x), floats.Max(x)
	fit, err := plotter.NewLine(plotter.XYs{{X: lo, Y: alpha + beta*lo}, {X: hi, Y: alpha + beta*hi}})
	if err != nil {
		return Chart{}, errors.Wrap(err, "fit line")
	}
	fit.Color = lineColor
	fit.Width = vg.Points(1.5)
	c.Plot.Add(fit)
	return c, nil
}

// ActualVsPredicted draws actual against predicted values with the identity
// line for reference.
func ActualVsPredicted(name string, actual, predicted []float64, title string) (Chart, error) {
	pts, err := points("plotting.ActualVsPredicted", actual, predicted)
	if err != nil {
		return Chart{}, err
	}
	c := newChart(name, title, "actual", "predicted")

	s, err := scatter(pts)
	if err != nil {
		return Chart{}, err
	}
	c.Plot.Add(s)

	lo := min(floats.Min(actual), floats.Min(predicted))
	hi := max(floats.Max(actual), floats.Max(predicted))
	ref, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return Chart{}, errors.Wrap(err, "identity line")
	}
	ref.Color = referenceGray
	ref.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	c.Plot.Add(ref)
	return c, nil
}

// ResidualsVsPredicted draws residuals against predicted values with a zero
// reference line.
func ResidualsVsPredicted(name string, predicted, residuals []float64, title string) (Chart, error) {
	pts, err := points("plotting.ResidualsVsPredicted", predicted, residuals)
	if err != nil {
		return Chart{}, err
	}
	c := newChart(name, title, "predicted", "residual")

	s, err := scatter(pts)
	if err != nil {
		return Chart{}, err
	}
	c.Plot.Add(s)

	zero, err := plotter.NewLine(plotter.XYs{{X: floats.Min(predicted), Y: 0}, {X: floats.Max(predicted), Y: 0}})
	if err != nil {
		return Chart{}, errors.Wrap(err, "zero line")
	}
	zero.Color = referenceGray
	zero.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	c.Plot.Add(zero)
	return c, nil
}

// corrGrid adapts a correlation matrix to plotter.GridXYZ. Row 0 is drawn
// at the top.
type corrGrid struct {
	m *mat.SymDense
}

func (g corrGrid) Dims() (c, r int) {
	n := g.m.SymmetricDim()
	return n, n
}

func (g corrGrid) Z(c, r int) float64 {
	return g.m.At(g.m.SymmetricDim()-1-r, c)
}

func (g corrGrid) X(c int) float64 { return float64(c) }
func (g corrGrid) Y(r int) float64 { return float64(r) }

// CorrelationHeatmap draws corr on a diverging blue-red scale fixed to
// [-1, 1].
func CorrelationHeatmap(name string, names []string, corr *mat.SymDense) (Chart, error) {
	n := corr.SymmetricDim()
	if len(names) != n {
		return Chart{}, errors.NewDimensionError("plotting.CorrelationHeatmap", n, len(names), 1)
	}
	c := newChart(name, "Correlation", "", "")
	c.Width, c.Height = 8*vg.Inch, 7*vg.Inch

	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)
	hm := plotter.NewHeatMap(corrGrid{m: corr}, cm.Palette(255))
	hm.Min, hm.Max = -1, 1
	c.Plot.Add(hm)

	reversed := make([]string, n)
	for i, s := range names {
		reversed[n-1-i] = s
	}
	c.Plot.NominalX(names...)
	c.Plot.NominalY(reversed...)
	return c, nil
}
