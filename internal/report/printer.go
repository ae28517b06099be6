// Package report prints the run diagnostics: dataset shape and structure,
// descriptive statistics, the per-category averages and the insight line.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"saleseda/internal/analysis"
	"saleseda/internal/dataset"
)

// Printer writes the report to w. In plain mode all color and styling is
// disabled and messages carry no prefixes.
type Printer struct {
	w     io.Writer
	plain bool
}

var (
	highlight = color.New(color.FgGreen, color.Bold).SprintFunc()

	// terminal detection result of fatih/color at startup
	detectedNoColor = color.NoColor
)

// NewPrinter returns a Printer writing to w. Styling is process-wide in
// pterm and fatih/color, so the most recently created Printer sets it for
// all of them.
func NewPrinter(w io.Writer, plain bool) *Printer {
	if plain {
		pterm.DisableStyling()
		color.NoColor = true
	} else {
		pterm.EnableStyling()
		color.NoColor = detectedNoColor
	}
	return &Printer{w: w, plain: plain}
}

func (p *Printer) println(a ...interface{}) {
	fmt.Fprintln(p.w, a...)
}

func (p *Printer) table(data pterm.TableData) {
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		p.println(err)
		return
	}
	p.println(out)
}

// Section prints a banner that separates the stages of the report.
func (p *Printer) Section(title string) {
	if p.plain {
		rule := strings.Repeat("=", 50)
		p.println()
		p.println(rule)
		p.println(title)
		p.println(rule)
		return
	}
	p.println()
	p.println(pterm.DefaultHeader.WithFullWidth().Sprint(title))
}

func (p *Printer) Success(msg string) {
	if p.plain {
		p.println(msg)
		return
	}
	fmt.Fprint(p.w, pterm.Success.Sprintln(msg))
}

// Failure prints a fatal condition for the operator.
func (p *Printer) Failure(msg string) {
	if p.plain {
		p.println(msg)
		return
	}
	fmt.Fprint(p.w, pterm.Error.Sprintln(msg))
}

// Loaded confirms the load and shows the leading rows and structure.
func (p *Printer) Loaded(t dataset.Table) {
	rows, cols := t.Shape()
	p.Success("Dataset loaded successfully.")
	p.println(fmt.Sprintf("Shape: %d rows x %d columns", rows, cols))

	p.println()
	p.println("First 5 rows of the dataset:")
	p.Head(t.Head(5))

	p.println()
	p.println("Dataset info:")
	p.Info(t.Info())
}

// Cleaned reports how many rows the cleaning stage dropped.
func (p *Printer) Cleaned(before, after dataset.Table) {
	dropped := before.Len() - after.Len()
	p.println()
	if dropped == 0 {
		p.println("Dataset after cleaning (no rows dropped):")
	} else {
		p.println(fmt.Sprintf("Dataset after cleaning (%d rows dropped):", dropped))
	}
	p.Info(after.Info())
}

func (p *Printer) Head(records []dataset.Record) {
	data := pterm.TableData{append([]string{""}, dataset.SalesSchema.Names()...)}
	for i, rec := range records {
		data = append(data, []string{
			strconv.Itoa(i),
			cell(rec, dataset.ColDate, rec.Date),
			cell(rec, dataset.ColCategory, rec.Category),
			cell(rec, dataset.ColRegion, rec.Region),
			cell(rec, dataset.ColSales, strconv.FormatFloat(rec.Sales, 'f', -1, 64)),
			cell(rec, dataset.ColQuantity, strconv.FormatInt(rec.Quantity, 10)),
		})
	}
	p.table(data)
}

func cell(rec dataset.Record, c dataset.Column, value string) string {
	if rec.Missing.Has(c) {
		return "NaN"
	}
	return value
}

func (p *Printer) Info(info dataset.Info) {
	p.println(fmt.Sprintf("%d entries, %d columns", info.Rows, len(info.Columns)))
	data := pterm.TableData{{"#", "Column", "Non-Null Count", "Missing", "Dtype"}}
	for i, c := range info.Columns {
		data = append(data, []string{
			strconv.Itoa(i),
			c.Name,
			fmt.Sprintf("%d non-null", c.NonNull),
			strconv.Itoa(c.Missing),
			c.DType,
		})
	}
	p.table(data)
}

// Statistics prints one column per summarized field, one row per statistic.
func (p *Printer) Statistics(summaries []analysis.Summary) {
	p.println()
	p.println("Descriptive statistics of the numerical columns:")

	header := []string{""}
	for _, s := range summaries {
		header = append(header, s.Column)
	}
	data := pterm.TableData{header}

	rows := []struct {
		label string
		value func(analysis.Summary) string
	}{
		{"count", func(s analysis.Summary) string { return strconv.Itoa(s.Count) }},
		{"mean", func(s analysis.Summary) string { return number(s.Mean) }},
		{"std", func(s analysis.Summary) string { return number(s.StdDev) }},
		{"min", func(s analysis.Summary) string { return number(s.Min) }},
		{"25%", func(s analysis.Summary) string { return number(s.Q1) }},
		{"50%", func(s analysis.Summary) string { return number(s.Median) }},
		{"75%", func(s analysis.Summary) string { return number(s.Q3) }},
		{"max", func(s analysis.Summary) string { return number(s.Max) }},
	}
	for _, r := range rows {
		line := []string{r.label}
		for _, s := range summaries {
			line = append(line, r.value(s))
		}
		data = append(data, line)
	}
	p.table(data)
}

func number(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func (p *Printer) Aggregate(agg []analysis.CategoryMean) {
	p.println()
	p.println("Average Sales per Product Category:")
	if len(agg) == 0 {
		p.println("(no categories)")
		return
	}

	data := pterm.TableData{{"", "Product Category", "Sales"}}
	for i, cm := range agg {
		data = append(data, []string{strconv.Itoa(i), cm.Category, number(cm.MeanSales)})
	}
	p.table(data)
}

func (p *Printer) Insight(text string) {
	p.println()
	if p.plain {
		p.println("Insight: " + text)
		return
	}
	p.println(highlight("Insight:") + " " + text)
}

func (p *Printer) FigureSaved(path string) {
	p.Success("Figure written to " + path)
}
