package analysis

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"saleseda/internal/dataset"
)

// CategoryMean is the average sales of one product category.
type CategoryMean struct {
	Category  string
	Count     int
	Total     decimal.Decimal
	MeanSales float64
}

// AverageSalesByCategory groups sales by category and averages their Sales.
// Categories are ordered by label so repeated runs print and plot the same
// sequence. An empty input yields an empty aggregate.
func AverageSalesByCategory(sales []dataset.Sale) []CategoryMean {
	index := make(map[string]int)
	var groups []CategoryMean

	for _, s := range sales {
		i, ok := index[s.Category]
		if !ok {
			i = len(groups)
			index[s.Category] = i
			groups = append(groups, CategoryMean{Category: s.Category, Total: decimal.Zero})
		}
		groups[i].Count++
		groups[i].Total = groups[i].Total.Add(decimal.NewFromFloat(s.Sales))
	}

	for i := range groups {
		mean := groups[i].Total.Div(decimal.NewFromInt(int64(groups[i].Count)))
		groups[i].MeanSales = mean.InexactFloat64()
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Category < groups[j].Category
	})

	return groups
}

// TopCategory returns the category with the highest mean sales. Ties go to
// the label that sorts first.
func TopCategory(agg []CategoryMean) (CategoryMean, bool) {
	if len(agg) == 0 {
		return CategoryMean{}, false
	}
	best := agg[0]
	for _, cm := range agg[1:] {
		if cm.MeanSales > best.MeanSales || (cm.MeanSales == best.MeanSales && cm.Category < best.Category) {
			best = cm
		}
	}
	return best, true
}

// Insight is the one-line takeaway printed after the aggregate.
func Insight(agg []CategoryMean) string {
	top, ok := TopCategory(agg)
	if !ok {
		return "No sales remain after cleaning, so no category stands out."
	}
	return fmt.Sprintf("The '%s' category has the highest average sales, suggesting it's the most profitable product line.", top.Category)
}
