package excel

// RawRowData represents a row of raw sheet data as header -> cell text
type RawRowData map[string]string

// ExcelData represents one sheet
type ExcelData struct {
	Sheet   string       // Sheet name, empty for CSV input
	Headers []string     // Column headers
	Rows    []RawRowData // Data rows
}

// column resolves name to the matching header, ignoring case and surrounding space.
func (d *ExcelData) column(name string) (string, bool) {
	for _, h := range d.Headers {
		if equalFold(h, name) {
			return h, true
		}
	}
	return "", false
}
