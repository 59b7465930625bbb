package plotting

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/housevalue/dataset"
	"github.com/YuminosukeSato/housevalue/pkg/errors"
)

// kdePoints is the number of points on the density curve.
const kdePoints = 200

// Histogram draws a density-normalized histogram of values with a Gaussian
// kernel density estimate on top.
func Histogram(name string, values []float64, bins int, title, xLabel string) (Chart, error) {
	if len(values) < 2 {
		return Chart{}, errors.NewValueErrorWithCause("plotting.Histogram", "need at least 2 values", errors.ErrEmptyData)
	}
	c := newChart(name, title, xLabel, "density")

	h, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return Chart{}, errors.Wrap(err, "histogram")
	}
	h.Normalize(1)
	h.FillColor = barColor
	h.LineStyle.Width = vg.Points(0.5)
	c.Plot.Add(h)

	kde, err := plotter.NewLine(KDE(values, kdePoints))
	if err != nil {
		return Chart{}, errors.Wrap(err, "kde line")
	}
	kde.Color = lineColor
	kde.Width = vg.Points(1.5)
	c.Plot.Add(kde)
	c.Plot.Legend.Add("KDE", kde)
	c.Plot.Legend.Top = true

	return c, nil
}

// KDE evaluates a Gaussian kernel density estimate of values at n evenly
// spaced points spanning three bandwidths beyond the data range. The
// bandwidth follows Silverman's rule of thumb.
func KDE(values []float64, n int) plotter.XYs {
	bw := SilvermanBandwidth(values)
	lo := floats.Min(values) - 3*bw
	hi := floats.Max(values) + 3*bw

	xs := make([]float64, n)
	floats.Span(xs, lo, hi)

	norm := 1 / (float64(len(values)) * bw * math.Sqrt(2*math.Pi))
	pts := make(plotter.XYs, n)
	for i, x := range xs {
		var sum float64
		for _, v := range values {
			u := (x - v) / bw
			sum += math.Exp(-0.5 * u * u)
		}
		pts[i].X = x
		pts[i].Y = sum * norm
	}
	return pts
}

// SilvermanBandwidth returns 0.9·min(σ, IQR/1.34)·n^(-1/5). A degenerate
// sample falls back to a bandwidth of 1.
func SilvermanBandwidth(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	sd := stat.StdDev(sorted, nil)
	iqr := dataset.QuantileSorted(0.75, sorted) - dataset.QuantileSorted(0.25, sorted)

	spread := sd
	if iqr > 0 {
		spread = math.Min(sd, iqr/1.34)
	}
	if !(spread > 0) {
		return 1
	}
	return 0.9 * spread * math.Pow(float64(len(values)), -0.2)
}

// CategoryBar draws one bar per label.
func CategoryBar(name string, labels []string, counts []float64, title, xLabel string) (Chart, error) {
	if len(labels) != len(counts) {
		return Chart{}, errors.NewDimensionError("plotting.CategoryBar", len(labels), len(counts), 0)
	}
	c := newChart(name, title, xLabel, "count")

	bars, err := plotter.NewBarChart(plotter.Values(counts), vg.Points(40))
	if err != nil {
		return Chart{}, errors.Wrap(err, "bar chart")
	}
	bars.Color = barColor
	c.Plot.Add(bars)
	c.Plot.NominalX(labels...)
	return c, nil
}
