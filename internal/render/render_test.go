package render

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"saleseda/internal/analysis"
	"saleseda/internal/clean"
	"saleseda/internal/dataset"
)

func sampleInputs(t *testing.T) ([]dataset.Sale, []analysis.CategoryMean) {
	t.Helper()
	table, err := dataset.Sample()
	require.NoError(t, err)
	_, sales, err := clean.Clean(table)
	require.NoError(t, err)
	return sales, analysis.AverageSalesByCategory(sales)
}

func smallOptions() Options {
	opts := DefaultOptions()
	opts.Width = 6 * vg.Inch
	opts.Height = 5 * vg.Inch
	return opts
}

func TestBuild_Sample(t *testing.T) {
	sales, agg := sampleInputs(t)

	fig, err := Build(sales, agg, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, fig.Plots, 2)
	require.Len(t, fig.Plots[0], 2)
	require.Len(t, fig.Plots[1], 2)

	assert.Equal(t, "Daily Sales Trend Over Time", fig.Plots[0][0].Title.Text)
	assert.Equal(t, "Average Sales per Product Category", fig.Plots[0][1].Title.Text)
	assert.Equal(t, "Distribution of Sales", fig.Plots[1][0].Title.Text)
	assert.Equal(t, "Relationship between Quantity and Sales", fig.Plots[1][1].Title.Text)
	assert.Equal(t, 15*vg.Inch, fig.Width)
	assert.Equal(t, 12*vg.Inch, fig.Height)
}

func TestSave_Formats(t *testing.T) {
	sales, agg := sampleInputs(t)
	fig, err := Build(sales, agg, smallOptions())
	require.NoError(t, err)

	for _, name := range []string{"figure.png", "figure.svg", "figure.pdf", "figure.jpg"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, Save(fig, path))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Greater(t, info.Size(), int64(0))
		})
	}
}

func TestWriteTo_PNGSignature(t *testing.T) {
	sales, agg := sampleInputs(t)
	fig, err := Build(sales, agg, smallOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := fig.WriteTo(&buf, "png")
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestRender_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.png")
	require.NoError(t, Render(nil, nil, smallOptions(), path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRender_SingleRowAndUnsorted(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2023, 1, d, 0, 0, 0, 0, time.UTC) }

	single := []dataset.Sale{{Date: day(1), Category: "A", Region: "North", Sales: 100, Quantity: 1}}
	require.NoError(t, Render(single, analysis.AverageSalesByCategory(single), smallOptions(), filepath.Join(t.TempDir(), "one.png")))

	unsorted := []dataset.Sale{
		{Date: day(3), Category: "B", Sales: 300, Quantity: 3},
		{Date: day(1), Category: "A", Sales: 100, Quantity: 1},
		{Date: day(2), Category: "B", Sales: 200, Quantity: 2},
	}
	fig, err := Build(unsorted, analysis.AverageSalesByCategory(unsorted), smallOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = fig.WriteTo(&buf, "png")
	require.NoError(t, err)
}

func TestSave_BadExtension(t *testing.T) {
	sales, agg := sampleInputs(t)
	fig, err := Build(sales, agg, smallOptions())
	require.NoError(t, err)

	dir := t.TempDir()
	assert.Error(t, Save(fig, filepath.Join(dir, "figure")))
	assert.Error(t, Save(fig, filepath.Join(dir, "figure.bmp")))
	_, statErr := os.Stat(filepath.Join(dir, "figure.bmp"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDensityCurve(t *testing.T) {
	values := plotter.Values{450, 600, 750, 550, 1200, 2500}
	hist, err := plotter.NewHist(values, 5)
	require.NoError(t, err)

	f := densityCurve(values, hist)
	require.NotNil(t, f)
	assert.Equal(t, hist.Bins[0].Min, f.XMin)
	assert.Greater(t, f.F(600), 0.0)

	flat := plotter.Values{5, 5, 5}
	flatHist := &plotter.Histogram{Bins: []plotter.HistogramBin{{Min: 4.5, Max: 5.5, Weight: 3}}, Width: 1}
	assert.Nil(t, densityCurve(flat, flatHist))
}
