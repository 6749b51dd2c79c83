package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"signrank/domain/core"
	"signrank/domain/stats"
	"signrank/internal"

	"github.com/xuri/excelize/v2"
)

// DataReader loads paired scores from an .xlsx workbook (named sheets) or a
// single-sample CSV file. The workbook is opened once and reused for every
// sheet until Close.
type DataReader struct {
	config   ExcelConfig
	fileType string // "xlsx" or "csv"
	logger   *internal.Logger
	file     *excelize.File
}

// NewDataReader creates a reader for config.FilePath
func NewDataReader(config ExcelConfig, logger *internal.Logger) *DataReader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(config.FilePath)) == ".csv" {
		fileType = "csv"
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DataReader{config: config, fileType: fileType, logger: logger}
}

// LoadSample reads one sheet into a Sample. For CSV input the sheet name is
// only used as the sample identifier.
func (r *DataReader) LoadSample(ctx context.Context, sheet, group string) (stats.Sample, error) {
	if err := ctx.Err(); err != nil {
		return stats.Sample{}, err
	}

	data, err := r.ReadSheet(sheet)
	if err != nil {
		return stats.Sample{}, err
	}

	preCol, ok := data.column(r.config.PreColumn)
	if !ok {
		return stats.Sample{}, core.NewColumnNotFoundError(sheet, r.config.PreColumn)
	}
	postCol, ok := data.column(r.config.PostColumn)
	if !ok {
		return stats.Sample{}, core.NewColumnNotFoundError(sheet, r.config.PostColumn)
	}

	sample := stats.Sample{Sheet: sheet, Group: group, Pairs: make([]stats.Pair, 0, len(data.Rows))}
	unparsable := 0
	for _, row := range data.Rows {
		pre, preOK := parseScore(row[preCol])
		post, postOK := parseScore(row[postCol])
		if !preOK || !postOK {
			unparsable++
		}
		sample.Pairs = append(sample.Pairs, stats.Pair{Pre: pre, Post: post})
	}

	if unparsable > 0 {
		r.logger.Warn("[DataReader] %s: %d rows with non-numeric scores treated as missing", sheet, unparsable)
	}
	r.logger.Debug("[DataReader] %s: loaded %d pairs (group %q)", sheet, len(sample.Pairs), group)
	return sample, nil
}

// ReadSheet reads the raw rows of a sheet
func (r *DataReader) ReadSheet(sheet string) (*ExcelData, error) {
	if _, err := os.Stat(r.config.FilePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.config.FilePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	case "xlsx":
		return r.readExcelSheet(sheet)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

// SheetNames lists the workbook's sheets; CSV input has none.
func (r *DataReader) SheetNames() ([]string, error) {
	if r.fileType == "csv" {
		return nil, nil
	}
	f, err := r.open()
	if err != nil {
		return nil, err
	}
	return f.GetSheetList(), nil
}

// Close releases the workbook handle
func (r *DataReader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

func (r *DataReader) open() (*excelize.File, error) {
	if r.file != nil {
		return r.file, nil
	}
	startTime := time.Now()
	f, err := excelize.OpenFile(r.config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	r.logger.Debug("[DataReader] Excel file opened in %.2fms", float64(time.Since(startTime).Nanoseconds())/1e6)
	r.file = f
	return f, nil
}

func (r *DataReader) readExcelSheet(sheet string) (*ExcelData, error) {
	f, err := r.open()
	if err != nil {
		return nil, err
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		return nil, core.NewSheetNotFoundError(sheet)
	}

	readStart := time.Now()
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	r.logger.Debug("[DataReader] %s read in %.2fms (%d rows)", sheet, float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	if len(rows) < 1 {
		return nil, fmt.Errorf("sheet %s has no header row", sheet)
	}

	data := r.processRows(rows)
	data.Sheet = sheet
	return data, nil
}

func (r *DataReader) readCSVData() (*ExcelData, error) {
	file, err := os.Open(r.config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("CSV file has no header row")
	}

	return r.processRows(rows), nil
}

// processRows converts raw string rows into ExcelData format
func (r *DataReader) processRows(rows [][]string) *ExcelData {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := make([]RawRowData, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		rowData := make(RawRowData, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	return &ExcelData{Headers: headers, Rows: dataRows}
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// parseScore parses a cell as a number. Empty or non-numeric cells are NaN;
// ok is false only for non-empty cells that failed to parse. With a '.'
// present commas are thousands separators; otherwise a single comma is the
// decimal separator.
func parseScore(cell string) (float64, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return math.NaN(), true
	}
	if strings.Contains(cell, ".") {
		cell = strings.ReplaceAll(cell, ",", "")
	} else if strings.Count(cell, ",") == 1 {
		cell = strings.Replace(cell, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return math.NaN(), false
	}
	return v, true
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
