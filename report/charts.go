package report

import (
	"image/color"
	"io"
	"math"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/housepriceai/linear"
	"github.com/YuminosukeSato/housepriceai/pkg/errors"
)

const (
	chartWidth  = 8 * vg.Inch
	chartHeight = 6 * vg.Inch
)

var (
	barColor     = color.RGBA{R: 37, G: 99, B: 235, A: 255}
	pointColor   = color.RGBA{R: 20, G: 80, B: 200, A: 220}
	idealColor   = color.RGBA{R: 200, G: 30, B: 30, A: 180}
)

// ImportanceChart writes a horizontal bar chart of coefficients as PNG.
// The first item is drawn at the top.
func ImportanceChart(w io.Writer, items []linear.FeatureImportance) error {
	if len(items) == 0 {
		return errors.NewValueError("report.ImportanceChart", "no features to plot")
	}

	// NominalY places index 0 at the bottom, so reverse.
	n := len(items)
	values := make(plotter.Values, n)
	names := make([]string, n)
	for i, it := range items {
		values[n-1-i] = it.Importance
		names[n-1-i] = it.Name
	}

	p := plot.New()
	p.Title.Text = "Feature importance (coefficients)"
	p.X.Label.Text = "coefficient"

	bars, err := plotter.NewBarChart(values, vg.Points(14))
	if err != nil {
		return errors.Wrap(err, "failed to build bar chart")
	}
	bars.Horizontal = true
	bars.Color = barColor
	bars.LineStyle.Width = 0
	p.Add(bars, plotter.NewGrid())
	p.NominalY(names...)

	return writePNG(p, w)
}

// ScatterChart writes actual-vs-predicted points as PNG, with the y = x line
// marking perfect predictions.
func ScatterChart(w io.Writer, points []linear.Point) error {
	if len(points) == 0 {
		return errors.NewValueError("report.ScatterChart", "no points to plot")
	}

	xys := make(plotter.XYs, len(points))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, pt := range points {
		xys[i] = plotter.XY{X: pt.Actual, Y: pt.Predicted}
		lo = math.Min(lo, math.Min(pt.Actual, pt.Predicted))
		hi = math.Max(hi, math.Max(pt.Actual, pt.Predicted))
	}

	p := plot.New()
	p.Title.Text = "Actual vs predicted"
	p.X.Label.Text = "actual"
	p.Y.Label.Text = "predicted"

	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return errors.Wrap(err, "failed to build scatter")
	}
	sc.GlyphStyle.Color = pointColor
	sc.GlyphStyle.Radius = vg.Points(2.8)

	ideal, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return errors.Wrap(err, "failed to build reference line")
	}
	ideal.Color = idealColor
	ideal.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}

	p.Add(plotter.NewGrid(), sc, ideal)
	p.Legend.Add("rows", sc)
	p.Legend.Add("perfect prediction", ideal)

	return writePNG(p, w)
}

// SaveFile creates filename and writes a chart into it with render.
func SaveFile(filename string, render func(io.Writer) error) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", filename)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "failed to close %s", filename)
		}
	}()
	return render(f)
}

func writePNG(p *plot.Plot, w io.Writer) error {
	wt, err := p.WriterTo(chartWidth, chartHeight, "png")
	if err != nil {
		return errors.Wrap(err, "failed to render chart")
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.Wrap(err, "failed to write chart")
	}
	return nil
}
