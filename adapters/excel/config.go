package excel

// ExcelConfig holds configuration for the spreadsheet data source
type ExcelConfig struct {
	FilePath   string `json:"file_path" yaml:"file_path"`
	PreColumn  string `json:"pre_column" yaml:"pre_column"`
	PostColumn string `json:"post_column" yaml:"post_column"`
}

// DefaultExcelConfig returns the column headers used by the reading-level workbooks
func DefaultExcelConfig() ExcelConfig {
	return ExcelConfig{
		PreColumn:  "Puntaje_Pretest",
		PostColumn: "Puntaje_Postest",
	}
}
