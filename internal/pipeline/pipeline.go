// Package pipeline runs the analysis end to end: load, clean, analyze and
// render. It stops at the first failing stage.
package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"

	"saleseda/internal/analysis"
	"saleseda/internal/clean"
	"saleseda/internal/config"
	"saleseda/internal/dataset"
	"saleseda/internal/logging"
	"saleseda/internal/render"
	"saleseda/internal/report"
)

// Result holds what each stage produced.
type Result struct {
	RunID      string
	Loaded     dataset.Table
	Cleaned    dataset.Table
	Sales      []dataset.Sale
	Summaries  []analysis.Summary
	Averages   []analysis.CategoryMean
	Insight    string
	FigurePath string
}

type Pipeline struct {
	cfg     *config.Config
	printer *report.Printer
	logger  *zap.Logger
}

func New(cfg *config.Config, printer *report.Printer, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		printer: printer,
		logger:  logging.OrNop(logger),
	}
}

// Run executes every stage in order. On failure the returned Result holds
// the output of the stages that completed.
func (p *Pipeline) Run() (*Result, error) {
	res := &Result{RunID: uuid.NewString()}
	logger := p.logger.With(zap.String("run_id", res.RunID))
	started := time.Now()

	logger.Info("loading dataset", zap.String("source", p.source()))
	table, err := p.load()
	if err != nil {
		logger.Error("load failed", zap.Error(err))
		return res, err
	}
	res.Loaded = table
	logger.Debug("dataset loaded", zap.Int("rows", table.Len()))
	p.printer.Loaded(table)

	complete, sales, err := clean.Clean(table, p.cfg.Input.DateLayouts...)
	res.Cleaned = complete
	if err != nil {
		logger.Error("cleaning failed", zap.Error(err))
		return res, err
	}
	res.Sales = sales
	logger.Info("dataset cleaned",
		zap.Int("rows", len(sales)),
		zap.Int("dropped", table.Len()-complete.Len()),
	)
	p.printer.Cleaned(table, complete)

	p.printer.Section("Basic Data Analysis")
	res.Summaries = analysis.Describe(sales)
	p.printer.Statistics(res.Summaries)
	res.Averages = analysis.AverageSalesByCategory(sales)
	p.printer.Aggregate(res.Averages)
	res.Insight = analysis.Insight(res.Averages)
	p.printer.Insight(res.Insight)
	logger.Debug("analysis complete", zap.Int("categories", len(res.Averages)))

	p.printer.Section("Data Visualization")
	opts := render.Options{
		Bins:       p.cfg.Figure.Bins,
		Width:      vg.Length(p.cfg.Figure.Width) * vg.Inch,
		Height:     vg.Length(p.cfg.Figure.Height) * vg.Inch,
		DateFormat: clean.DefaultDateLayout,
	}
	if err := render.Render(sales, res.Averages, opts, p.cfg.Figure.Output); err != nil {
		logger.Error("rendering failed", zap.Error(err))
		return res, err
	}
	res.FigurePath = p.cfg.Figure.Output
	p.printer.FigureSaved(res.FigurePath)

	logger.Info("run complete",
		zap.String("figure", res.FigurePath),
		zap.Duration("elapsed", time.Since(started)),
	)
	return res, nil
}

func (p *Pipeline) source() string {
	if p.cfg.Input.Sample {
		return "bundled sample"
	}
	return p.cfg.Input.Path
}

func (p *Pipeline) load() (dataset.Table, error) {
	in := p.cfg.Input
	if in.Sample {
		return dataset.Sample()
	}

	switch strings.ToLower(filepath.Ext(in.Path)) {
	case ".xlsx", ".xlsm":
		return dataset.LoadXLSX(in.Path, in.Sheet)
	}
	if in.Sheet != "" {
		return dataset.Table{}, fmt.Errorf("sheet %q given for %s, which is not a workbook", in.Sheet, in.Path)
	}
	return dataset.Load(in.Path)
}
