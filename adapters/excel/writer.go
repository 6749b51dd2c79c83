package excel

import (
	"context"
	"fmt"
	"time"

	"signrank/domain/stats"
	"signrank/internal"
	"signrank/internal/errors"

	"github.com/xuri/excelize/v2"
)

const (
	ResultsSheet = "Results"
	RunSheet     = "Run"
	notAvailable = "N/A"
)

// ResultHeaders are the column titles of the Results sheet
var ResultHeaders = []string{
	"Group", "Sheet", "Total rows", "Valid pairs", "Dropped (missing)", "Dropped (ties)",
	"Mean pretest", "Mean posttest", "Median difference",
	"W+", "W-", "W", "Method", "Tied ranks", "p-value", "Effect size",
	"Critical value", "Upper critical", "Verdict", "Error",
}

// ResultWriter persists a report as a results workbook
type ResultWriter struct {
	path   string
	logger *internal.Logger
}

// NewResultWriter creates a writer targeting path
func NewResultWriter(path string, logger *internal.Logger) *ResultWriter {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ResultWriter{path: path, logger: logger}
}

// Name identifies the writer in logs
func (w *ResultWriter) Name() string {
	return "xlsx:" + w.path
}

// Write saves the Results and Run sheets
func (w *ResultWriter) Write(ctx context.Context, report *stats.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ResultsSheet); err != nil {
		return errors.Wrap(err, "failed to create results sheet")
	}
	if err := writeResults(f, report.Results); err != nil {
		return errors.Wrap(err, "failed to write results sheet")
	}

	if _, err := f.NewSheet(RunSheet); err != nil {
		return errors.Wrap(err, "failed to create run sheet")
	}
	if err := writeRunMetadata(f, report); err != nil {
		return errors.Wrap(err, "failed to write run sheet")
	}

	if err := f.SaveAs(w.path); err != nil {
		return errors.IOError(w.path, err)
	}
	w.logger.Info("[ResultWriter] wrote %d results to %s", len(report.Results), w.path)
	return nil
}

func writeResults(f *excelize.File, results []stats.TestResult) error {
	header := make([]interface{}, len(ResultHeaders))
	for i, h := range ResultHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(ResultsSheet, "A1", &header); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(ResultHeaders), 1)
	if err := f.SetCellStyle(ResultsSheet, "A1", lastHeader, bold); err != nil {
		return err
	}

	for i, res := range results {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := resultRow(res)
		if err := f.SetSheetRow(ResultsSheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// resultRow lays out a result in ResultHeaders order. Values that were not
// computed are written as N/A.
func resultRow(res stats.TestResult) []interface{} {
	row := []interface{}{
		res.Group, res.Sheet, res.TotalRows, res.ValidPairs, res.DroppedMissing, res.DroppedZero,
	}

	if sum := res.Summary; sum != nil {
		row = append(row, sum.MeanPre, sum.MeanPost, sum.MedianDifference)
	} else {
		row = append(row, notAvailable, notAvailable, notAvailable)
	}

	if st := res.Statistic; st != nil {
		row = append(row, st.WPlus, st.WMinus, st.W, string(st.Method), yesNo(st.HasTies), st.PValue, st.EffectSize)
	} else {
		row = append(row, notAvailable, notAvailable, notAvailable, notAvailable, notAvailable, notAvailable, notAvailable)
	}

	if res.HasCritical {
		row = append(row, res.Region.Lower, res.Region.Upper)
	} else {
		row = append(row, notAvailable, notAvailable)
	}

	return append(row, res.Verdict, res.Err)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func writeRunMetadata(f *excelize.File, report *stats.Report) error {
	rows := [][]interface{}{
		{"Run ID", report.RunID.String()},
		{"Input", report.Input},
		{"Input SHA-256", report.InputHash.String()},
		{"Alpha", report.Alpha},
		{"Tails", int(report.Tails)},
		{"Critical values", report.CriticalSource},
		{"Generated at", report.GeneratedAt.UTC().Format(time.RFC3339)},
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(RunSheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
