// Package plotting renders the exploratory and diagnostic charts of a run
// with gonum/plot. Charts never feed back into any numeric result.
package plotting

import (
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/housevalue/pkg/errors"
)

// Default chart size.
const (
	DefaultWidth  = 6 * vg.Inch
	DefaultHeight = 4 * vg.Inch
)

var (
	barColor      = color.RGBA{R: 0x21, G: 0x96, B: 0xf3, A: 0xff}
	lineColor     = color.RGBA{R: 0xe5, G: 0x39, B: 0x35, A: 0xff}
	scatterColor  = color.RGBA{R: 0x3f, G: 0x51, B: 0xb5, A: 0x99}
	referenceGray = color.RGBA{R: 0x75, G: 0x75, B: 0x75, A: 0xff}
)

// Chart is a named plot ready to be written to disk. Name is used as the
// file stem.
type Chart struct {
	Name   string
	Plot   *plot.Plot
	Width  vg.Length
	Height vg.Length
}

func newChart(name, title, xLabel, yLabel string) Chart {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	return Chart{Name: name, Plot: p, Width: DefaultWidth, Height: DefaultHeight}
}

// Save writes the chart to path. The format follows the file extension.
func (c Chart) Save(path string) error {
	return errors.SafeExecute("plotting.Save", func() error {
		if err := c.Plot.Save(c.Width, c.Height, path); err != nil {
			return errors.Wrapf(err, "save chart %s", c.Name)
		}
		return nil
	})
}

// SaveAll writes every chart as <dir>/<name>.png, creating dir if needed,
// and returns the written paths in chart order.
func SaveAll(dir string, charts []Chart) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create %s", dir)
	}
	paths := make([]string, 0, len(charts))
	for _, c := range charts {
		path := filepath.Join(dir, c.Name+".png")
		if err := c.Save(path); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
