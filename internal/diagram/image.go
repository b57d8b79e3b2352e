package diagram

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/globalcheck"
	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/units"
)

// ErrNoData is returned when the result has nothing to chart
var ErrNoData = errors.New("nothing to chart")

var (
	barColors = []color.Color{
		color.RGBA{R: 100, G: 149, B: 237, A: 255},
		color.RGBA{R: 255, G: 165, B: 0, A: 255},
		color.RGBA{R: 60, G: 179, B: 113, A: 255},
	}
	limitColor = color.RGBA{R: 255, G: 0, B: 0, A: 255}
)

// LoadChart builds a bar chart of the DL/LL/SDL shares of the total vertical load
func LoadChart(r *globalcheck.Result) (*plot.Plot, error) {
	shares := LoadShares(r)
	if shares == nil {
		return nil, fmt.Errorf("vertical load chart: %w", ErrNoData)
	}

	p := plot.New()
	p.Title.Text = "Vertical Loads Distribution"
	p.Y.Label.Text = "Share of total vertical load (%)"
	p.Y.Min = 0
	p.Y.Max = 100

	names := make([]string, len(shares))
	w := vg.Points(40)
	for i, s := range shares {
		names[i] = fmt.Sprintf("%s %.1f%%", s.Name, s.Percent)

		// One bar per series so each load type gets its own colour
		values := make(plotter.Values, len(shares))
		values[i] = s.Percent
		bar, err := plotter.NewBarChart(values, w)
		if err != nil {
			return nil, err
		}
		bar.Color = barColors[i%len(barColors)]
		bar.LineStyle.Width = vg.Length(0)
		p.Add(bar)

		// Typical range band limits
		for _, y := range []float64{s.Range.Min, s.Range.Max} {
			line, err := plotter.NewLine(plotter.XYs{{X: float64(i) - 0.3, Y: y}, {X: float64(i) + 0.3, Y: y}})
			if err != nil {
				return nil, err
			}
			line.LineStyle.Color = limitColor
			line.LineStyle.Dashes = []vg.Length{vg.Points(3), vg.Points(2)}
			p.Add(line)
		}
	}
	p.NominalX(names...)

	return p, nil
}

// PeriodChart plots T_approx and T_max against height with the model period
// marked at the building height.
func PeriodChart(r *globalcheck.Result) (*plot.Plot, error) {
	h := r.Inputs.Height
	if h <= 0 || r.TMax == nil {
		return nil, fmt.Errorf("period chart: %w", ErrNoData)
	}
	c := r.Criteria

	p := plot.New()
	p.Title.Text = "Fundamental Period Check"
	p.X.Label.Text = fmt.Sprintf("Height (%s)", r.Label(units.Length))
	p.Y.Label.Text = "Period (s)"
	p.X.Min = 0
	p.Y.Min = 0

	hMax := 2 * h
	const samples = 50
	approx := make(plotter.XYs, samples)
	upper := make(plotter.XYs, samples)
	for i := range approx {
		hi := hMax * float64(i) / float64(samples-1)
		x := r.Display(units.Length, hi)
		approx[i] = plotter.XY{X: x, Y: c.ApproximatePeriod(hi)}
		upper[i] = plotter.XY{X: x, Y: c.MaxPeriod(hi)}
	}

	approxLine, err := plotter.NewLine(approx)
	if err != nil {
		return nil, err
	}
	approxLine.LineStyle.Width = vg.Points(1.5)
	approxLine.LineStyle.Color = color.RGBA{R: 0, G: 100, B: 0, A: 255}
	p.Add(approxLine)
	p.Legend.Add("T_approx = Ct·h^x", approxLine)

	upperLine, err := plotter.NewLine(upper)
	if err != nil {
		return nil, err
	}
	upperLine.LineStyle.Width = vg.Points(1.5)
	upperLine.LineStyle.Color = limitColor
	upperLine.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	p.Add(upperLine)
	p.Legend.Add(fmt.Sprintf("T_max = %.2f·T_approx", c.Cu), upperLine)

	model, err := plotter.NewScatter(plotter.XYs{{X: r.Display(units.Length, h), Y: r.Inputs.PeriodModel}})
	if err != nil {
		return nil, err
	}
	model.GlyphStyle.Color = color.RGBA{R: 0, G: 0, B: 139, A: 255}
	model.GlyphStyle.Radius = vg.Points(5)
	model.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(model)
	p.Legend.Add(fmt.Sprintf("T_model = %.3f s", r.Inputs.PeriodModel), model)
	p.Legend.Top = true
	p.Legend.Left = true

	return p, nil
}

// ExportLoadChart saves the vertical load chart; the format follows the extension
func ExportLoadChart(r *globalcheck.Result, filename string) error {
	p, err := LoadChart(r)
	if err != nil {
		return err
	}
	return save(p, 6*vg.Inch, 5*vg.Inch, filename)
}

// ExportPeriodChart saves the period chart; the format follows the extension
func ExportPeriodChart(r *globalcheck.Result, filename string) error {
	p, err := PeriodChart(r)
	if err != nil {
		return err
	}
	return save(p, 8*vg.Inch, 6*vg.Inch, filename)
}

// WriteLoadChart renders the vertical load chart to w in format (png, svg or pdf)
func WriteLoadChart(w io.Writer, r *globalcheck.Result, format string) error {
	p, err := LoadChart(r)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(6*vg.Inch, 5*vg.Inch, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

func save(p *plot.Plot, width, height vg.Length, filename string) error {
	// Create directory if needed
	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".svg", ".pdf":
		return p.Save(width, height, filename)
	default:
		return p.Save(width, height, filename+".png")
	}
}
