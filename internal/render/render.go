// Package render draws the sales figure: a line chart of sales over time,
// average sales per category, the sales distribution and quantity against
// sales, tiled in a 2x2 grid.
package render

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/aclements/go-moremath/stats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"saleseda/internal/analysis"
	"saleseda/internal/dataset"
)

type Options struct {
	Bins       int
	Width      vg.Length
	Height     vg.Length
	DateFormat string
}

func DefaultOptions() Options {
	return Options{
		Bins:       5,
		Width:      15 * vg.Inch,
		Height:     12 * vg.Inch,
		DateFormat: "2006-01-02",
	}
}

// Figure is the 2x2 grid of charts, row-major.
type Figure struct {
	Plots  [][]*plot.Plot
	Width  vg.Length
	Height vg.Length
}

var (
	lineColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	barColor  = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	histColor = color.RGBA{R: 100, G: 149, B: 237, A: 160}
	kdeColor  = color.RGBA{R: 0, G: 0, B: 139, A: 255}
)

// Build creates the four charts. Sales are plotted in the order given;
// an empty input produces blank charts.
func Build(sales []dataset.Sale, agg []analysis.CategoryMean, opts Options) (*Figure, error) {
	if opts.Bins <= 0 {
		opts.Bins = DefaultOptions().Bins
	}
	if opts.DateFormat == "" {
		opts.DateFormat = DefaultOptions().DateFormat
	}

	trend, err := salesTrend(sales, opts.DateFormat)
	if err != nil {
		return nil, fmt.Errorf("line chart: %w", err)
	}
	bars, err := categoryBars(agg)
	if err != nil {
		return nil, fmt.Errorf("bar chart: %w", err)
	}
	hist, err := salesHistogram(sales, opts.Bins)
	if err != nil {
		return nil, fmt.Errorf("histogram: %w", err)
	}
	scatter, err := quantityScatter(sales, agg)
	if err != nil {
		return nil, fmt.Errorf("scatter plot: %w", err)
	}

	return &Figure{
		Plots: [][]*plot.Plot{
			{trend, bars},
			{hist, scatter},
		},
		Width:  opts.Width,
		Height: opts.Height,
	}, nil
}

func newPlot(title, x, y string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = x
	p.Y.Label.Text = y
	p.Add(plotter.NewGrid())
	return p
}

func blank(p *plot.Plot) {
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
}

func salesTrend(sales []dataset.Sale, dateFormat string) (*plot.Plot, error) {
	p := newPlot("Daily Sales Trend Over Time", "Date", "Sales")
	p.X.Tick.Marker = plot.TimeTicks{Format: dateFormat}
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	if len(sales) == 0 {
		blank(p)
		return p, nil
	}

	points := make(plotter.XYs, len(sales))
	for i, s := range sales {
		points[i].X = float64(s.Date.Unix())
		points[i].Y = s.Sales
	}

	line, markers, err := plotter.NewLinePoints(points)
	if err != nil {
		return nil, err
	}
	line.Color = lineColor
	line.Width = vg.Points(1.5)
	markers.GlyphStyle.Color = lineColor
	markers.GlyphStyle.Shape = draw.CircleGlyph{}
	markers.GlyphStyle.Radius = vg.Points(3)

	p.Add(line, markers)
	return p, nil
}

func categoryBars(agg []analysis.CategoryMean) (*plot.Plot, error) {
	p := newPlot("Average Sales per Product Category", "Product Category", "Average Sales")

	if len(agg) == 0 {
		blank(p)
		return p, nil
	}

	values := make(plotter.Values, len(agg))
	labels := make([]string, len(agg))
	for i, cm := range agg {
		values[i] = cm.MeanSales
		labels[i] = cm.Category
	}

	bars, err := plotter.NewBarChart(values, vg.Points(40))
	if err != nil {
		return nil, err
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)

	p.Add(bars)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Y.Min = 0
	return p, nil
}

func salesHistogram(sales []dataset.Sale, bins int) (*plot.Plot, error) {
	p := newPlot("Distribution of Sales", "Sales", "Frequency")

	if len(sales) == 0 {
		blank(p)
		return p, nil
	}

	values := make(plotter.Values, len(sales))
	for i, s := range sales {
		values[i] = s.Sales
	}

	hist, err := plotter.NewHist(values, bins)
	if err != nil {
		return nil, err
	}
	hist.FillColor = histColor
	hist.LineStyle.Color = color.White
	p.Add(hist)
	p.Y.Min = 0

	if density := densityCurve(values, hist); density != nil {
		p.Add(density)
	}
	return p, nil
}

// densityCurve returns a kernel density estimate of values scaled to
// histogram counts, or nil when the sample has no spread to smooth.
func densityCurve(values plotter.Values, hist *plotter.Histogram) *plotter.Function {
	sample := analysis.SalesSample(values)
	lo, hi := sample.Bounds()
	if len(values) < 2 || lo == hi || len(hist.Bins) == 0 {
		return nil
	}

	kde := &stats.KDE{Sample: *sample}
	scale := float64(len(values)) * hist.Width

	f := plotter.NewFunction(func(x float64) float64 {
		return kde.PDF(x) * scale
	})
	f.XMin = hist.Bins[0].Min
	f.XMax = hist.Bins[len(hist.Bins)-1].Max
	f.Samples = 200
	f.Color = kdeColor
	f.Width = vg.Points(2)
	return f
}

func quantityScatter(sales []dataset.Sale, agg []analysis.CategoryMean) (*plot.Plot, error) {
	p := newPlot("Relationship between Quantity and Sales", "Quantity Sold", "Sales")
	p.Legend.Top = true

	if len(sales) == 0 {
		blank(p)
		return p, nil
	}

	byCategory := make(map[string]plotter.XYs)
	for _, s := range sales {
		byCategory[s.Category] = append(byCategory[s.Category], plotter.XY{X: float64(s.Quantity), Y: s.Sales})
	}

	for i, cm := range agg {
		points, ok := byCategory[cm.Category]
		if !ok {
			continue
		}
		scatter, err := plotter.NewScatter(points)
		if err != nil {
			return nil, err
		}
		scatter.GlyphStyle.Color = plotutil.Color(i)
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		scatter.GlyphStyle.Radius = vg.Points(5)

		p.Add(scatter)
		p.Legend.Add(cm.Category, scatter)
	}
	return p, nil
}

// WriteTo draws the grid onto a canvas of the given format (png, jpg, jpeg,
// tif, tiff, svg, pdf or eps) and writes it to w.
func (f *Figure) WriteTo(w io.Writer, format string) (int64, error) {
	c, err := draw.NewFormattedCanvas(f.Width, f.Height, format)
	if err != nil {
		return 0, err
	}

	tiles := draw.Tiles{
		Rows:      2,
		Cols:      2,
		PadX:      vg.Millimeter * 6,
		PadY:      vg.Millimeter * 6,
		PadTop:    vg.Millimeter * 4,
		PadBottom: vg.Millimeter * 4,
		PadLeft:   vg.Millimeter * 4,
		PadRight:  vg.Millimeter * 4,
	}

	canvases := plot.Align(f.Plots, tiles, draw.New(c))
	for j := range f.Plots {
		for i, p := range f.Plots[j] {
			if p != nil {
				p.Draw(canvases[j][i])
			}
		}
	}

	return c.WriteTo(w)
}

// Save writes the figure to path, choosing the format from its extension.
func Save(f *Figure, path string) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format == "" {
		return fmt.Errorf("output %s has no extension to pick an image format from", path)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating figure file: %w", err)
	}

	if _, err := f.WriteTo(file, format); err != nil {
		file.Close()
		os.Remove(path)
		return fmt.Errorf("error writing figure: %w", err)
	}
	return file.Close()
}

// Render builds the figure and saves it to path.
func Render(sales []dataset.Sale, agg []analysis.CategoryMean, opts Options, path string) error {
	fig, err := Build(sales, agg, opts)
	if err != nil {
		return err
	}
	return Save(fig, path)
}
