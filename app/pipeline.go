package app

import (
	"fmt"
	"io"

	"signrank/adapters/excel"
	"signrank/adapters/plot"
	"signrank/adapters/report"
	"signrank/adapters/stats/signrank"
	"signrank/domain/stats"
	"signrank/internal"
	"signrank/internal/config"
	"signrank/internal/errors"
	"signrank/ports"
)

// Pipeline is a service wired from configuration together with the request
// it should run
type Pipeline struct {
	Service *WilcoxonService
	Request RunRequest
	reader  *excel.DataReader
}

// Close releases the workbook
func (p *Pipeline) Close() error {
	return p.reader.Close()
}

// BuildCriticalTable returns the table decisions are made against
func BuildCriticalTable(cfg config.AnalysisConfig) (*stats.CriticalTable, error) {
	tails, err := stats.ParseTails(cfg.Tails)
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if tails != stats.TwoTailed {
		return nil, errors.ConfigInvalid(fmt.Sprintf("analysis runs are two-tailed, got tails=%d", tails))
	}

	switch cfg.CriticalSource {
	case config.CriticalPublished:
		return stats.PublishedCriticalTable(), nil
	case config.CriticalLegacy:
		return stats.LegacyCriticalTable(), nil
	case config.CriticalExact:
		table, err := signrank.NewExactCriticalTable(cfg.Alpha, tails, cfg.TableMinN, cfg.TableMaxN)
		if err != nil {
			return nil, errors.Wrap(err, "failed to build exact critical table")
		}
		return table, nil
	default:
		return nil, errors.ConfigInvalid("unknown critical value source: " + cfg.CriticalSource)
	}
}

// NewPipeline wires the reader, engine, writers and optional chart renderer
// described by cfg. Console output goes to out unless cfg.Output.Quiet is set.
func NewPipeline(cfg *config.Config, out io.Writer, logger *internal.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}

	table, err := BuildCriticalTable(cfg.Analysis)
	if err != nil {
		return nil, err
	}

	reader := excel.NewDataReader(excel.ExcelConfig{
		FilePath:   cfg.Input.File,
		PreColumn:  cfg.Input.PreColumn,
		PostColumn: cfg.Input.PostColumn,
	}, logger)

	var writers []ports.ResultWriter
	if !cfg.Output.Quiet && out != nil {
		writers = append(writers, report.NewConsoleWriter(out))
	}
	writers = append(writers, excel.NewResultWriter(cfg.Output.Results, logger))
	if cfg.Output.Markdown != "" {
		writers = append(writers, report.NewMarkdownWriter(cfg.Output.Markdown, logger))
	}

	var charts ports.ChartRenderer
	if cfg.Output.Charts {
		sheets := make([]string, len(cfg.Samples))
		for i, s := range cfg.Samples {
			sheets[i] = s.Sheet
		}
		if err := plot.CheckFileNames(sheets); err != nil {
			return nil, err
		}
		svg := plot.DefaultSVGConfig()
		svg.Dir = cfg.Output.ChartDir
		charts = plot.NewDistributionRenderer(svg, logger)
	}

	req := RunRequest{Input: cfg.Input.File, Samples: make([]SampleRef, len(cfg.Samples))}
	for i, s := range cfg.Samples {
		req.Samples[i] = SampleRef{Sheet: s.Sheet, Group: s.Group}
	}

	return &Pipeline{
		Service: NewWilcoxonService(reader, signrank.NewEngine(table), writers, charts, logger),
		Request: req,
		reader:  reader,
	}, nil
}
