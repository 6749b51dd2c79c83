package app

import (
	"context"
	"fmt"
	"time"

	"signrank/adapters/stats/signrank"
	"signrank/domain/core"
	"signrank/domain/stats"
	"signrank/internal"
	"signrank/internal/errors"
	"signrank/ports"
)

// SampleRef names a sheet to analyse and the group it is reported under
type SampleRef struct {
	Sheet string
	Group string
}

// RunRequest defines the inputs of one analysis run
type RunRequest struct {
	Input   string // path of the workbook, used for the report header and fingerprint
	Samples []SampleRef
}

// WilcoxonService runs the signed-rank test over every configured sheet and
// hands the report to its writers
type WilcoxonService struct {
	source  ports.SampleSource
	engine  *signrank.Engine
	writers []ports.ResultWriter
	charts  ports.ChartRenderer
	logger  *internal.Logger
}

// NewWilcoxonService creates the pipeline service. charts may be nil.
func NewWilcoxonService(source ports.SampleSource, engine *signrank.Engine, writers []ports.ResultWriter, charts ports.ChartRenderer, logger *internal.Logger) *WilcoxonService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &WilcoxonService{
		source:  source,
		engine:  engine,
		writers: writers,
		charts:  charts,
		logger:  logger,
	}
}

// Analyze tests a single in-memory sample
func (s *WilcoxonService) Analyze(sample stats.Sample) stats.TestResult {
	return s.engine.Test(sample)
}

// Run analyses the samples in order, then renders charts and runs every
// writer. A sheet that fails to load or analyse becomes a failed row and the
// run continues. The returned report is non-nil whenever any sheet was
// processed, even alongside an error.
func (s *WilcoxonService) Run(ctx context.Context, req RunRequest) (*stats.Report, error) {
	if len(req.Samples) == 0 {
		return nil, errors.InvalidInput("no samples to analyse")
	}

	startTime := time.Now()
	table := s.engine.Table()
	report := &stats.Report{
		RunID:          core.NewRunID(),
		Input:          req.Input,
		Alpha:          table.Alpha,
		Tails:          table.Tails,
		CriticalSource: table.Name,
		GeneratedAt:    startTime.UTC(),
		Results:        make([]stats.TestResult, 0, len(req.Samples)),
	}

	if req.Input != "" {
		if hash, err := core.HashFile(req.Input); err != nil {
			s.logger.Warn("[WilcoxonService] could not fingerprint %s: %v", req.Input, err)
		} else {
			report.InputHash = hash
		}
	}

	s.logger.Info("[WilcoxonService] run %s: %d samples from %s", report.RunID, len(req.Samples), req.Input)

	for _, ref := range req.Samples {
		if err := ctx.Err(); err != nil {
			return report, errors.Wrap(err, "run cancelled")
		}
		result := s.analyzeSheet(ctx, ref)
		s.logResult(result)
		report.Results = append(report.Results, result)
	}

	s.renderCharts(ctx, report)

	if err := s.write(ctx, report); err != nil {
		return report, err
	}

	s.logger.Info("[WilcoxonService] run %s finished in %dms", report.RunID, time.Since(startTime).Milliseconds())
	return report, nil
}

// analyzeSheet loads and tests one sheet, converting load errors and panics
// into a failed row.
func (s *WilcoxonService) analyzeSheet(ctx context.Context, ref SampleRef) (result stats.TestResult) {
	defer func() {
		if r := recover(); r != nil {
			result = failedResult(ref, fmt.Errorf("panic during analysis: %v", r))
		}
	}()

	sample, err := s.source.LoadSample(ctx, ref.Sheet, ref.Group)
	if err != nil {
		return failedResult(ref, err)
	}
	return s.Analyze(sample)
}

func failedResult(ref SampleRef, err error) stats.TestResult {
	group := ref.Group
	if group == "" {
		group = ref.Sheet
	}
	return stats.TestResult{
		Sheet:    ref.Sheet,
		Group:    group,
		Decision: stats.DecisionFailed,
		Verdict:  stats.DecisionFailed.Verdict(),
		Err:      err.Error(),
	}
}

func (s *WilcoxonService) logResult(res stats.TestResult) {
	switch {
	case res.Decision == stats.DecisionFailed:
		s.logger.Error("[WilcoxonService] %s (%s): %s", res.Group, res.Sheet, res.Err)
	case res.Computed():
		s.logger.Info("[WilcoxonService] %s: n=%d W=%g p=%.4f -> %s",
			res.Group, res.Statistic.N, res.Statistic.W, res.Statistic.PValue, res.Decision)
	default:
		s.logger.Warn("[WilcoxonService] %s: %s", res.Group, res.Verdict)
	}
}

// renderCharts draws a chart for every computed result, one at a time.
// Failures are logged.
func (s *WilcoxonService) renderCharts(ctx context.Context, report *stats.Report) {
	if s.charts == nil {
		return
	}

	for _, res := range report.Results {
		if !res.Computed() {
			continue
		}
		if err := ctx.Err(); err != nil {
			s.logger.Warn("[WilcoxonService] chart rendering stopped: %v", err)
			return
		}
		path, err := s.charts.Render(ctx, res)
		if err != nil {
			s.logger.Warn("[WilcoxonService] chart for %s failed: %v", res.Sheet, err)
			continue
		}
		s.logger.Debug("[WilcoxonService] chart for %s written to %s", res.Sheet, path)
	}
}

// write runs every writer and returns the first failure
func (s *WilcoxonService) write(ctx context.Context, report *stats.Report) error {
	var firstErr error
	for _, w := range s.writers {
		if err := w.Write(ctx, report); err != nil {
			s.logger.Error("[WilcoxonService] writer %s failed: %v", w.Name(), err)
			if firstErr == nil {
				firstErr = errors.Wrapf(err, "writer %s failed", w.Name())
			}
		}
	}
	return firstErr
}
