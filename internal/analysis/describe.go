// Package analysis computes the descriptive statistics and per-category
// aggregates shown for a cleaned sales table.
package analysis

import (
	"math"

	"github.com/aclements/go-moremath/stats"

	"saleseda/internal/dataset"
)

// Summary holds the descriptive statistics of one numeric column.
// Statistics of an empty column are NaN; StdDev is NaN below two values.
type Summary struct {
	Column string
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// Describe summarizes the Sales and Quantity columns.
func Describe(sales []dataset.Sale) []Summary {
	amounts := make([]float64, len(sales))
	quantities := make([]float64, len(sales))
	for i, s := range sales {
		amounts[i] = s.Sales
		quantities[i] = float64(s.Quantity)
	}

	return []Summary{
		summarize(dataset.ColSales.String(), amounts),
		summarize(dataset.ColQuantity.String(), quantities),
	}
}

func summarize(column string, xs []float64) Summary {
	sum := Summary{Column: column, Count: len(xs)}
	nan := math.NaN()
	if len(xs) == 0 {
		sum.Mean, sum.StdDev, sum.Min, sum.Q1, sum.Median, sum.Q3, sum.Max = nan, nan, nan, nan, nan, nan, nan
		return sum
	}

	sample := SalesSample(xs)
	sum.Mean = sample.Mean()
	sum.StdDev = nan
	if len(xs) > 1 {
		sum.StdDev = sample.StdDev()
	}
	sum.Min, sum.Max = sample.Bounds()
	sum.Q1 = quantile(sample.Xs, 0.25)
	sum.Median = quantile(sample.Xs, 0.5)
	sum.Q3 = quantile(sample.Xs, 0.75)
	return sum
}

// quantile interpolates linearly between the closest ranks of sorted
// (Hyndman-Fan type 7), the definition spreadsheet and dataframe tools print.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	h := float64(len(sorted)-1) * q
	lo := int(math.Floor(h))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	if lo < 0 {
		return sorted[0]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// SalesSample returns a sorted sample over a copy of xs.
func SalesSample(xs []float64) *stats.Sample {
	cp := make([]float64, len(xs))
	copy(cp, xs)
	sample := &stats.Sample{Xs: cp}
	return sample.Sort()
}
