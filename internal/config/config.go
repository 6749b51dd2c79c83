package config

import (
	"fmt"
	"os"
	"strings"

	"signrank/internal/errors"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable the config reads
const EnvPrefix = "SIGNRANK_"

// Critical value sources
const (
	CriticalExact     = "exact"
	CriticalPublished = "published"
	CriticalLegacy    = "legacy"
)

// maxExactN bounds the exact null distribution
const maxExactN = 50

// Config represents the complete application configuration
type Config struct {
	Input    InputConfig    `yaml:"input" envPrefix:"INPUT_"`
	Samples  SampleList     `yaml:"samples"`
	Output   OutputConfig   `yaml:"output" envPrefix:"OUTPUT_"`
	Analysis AnalysisConfig `yaml:"analysis" envPrefix:"ANALYSIS_"`

	// SamplesEnv carries SIGNRANK_SAMPLES and replaces Samples when set
	SamplesEnv string `yaml:"-" env:"SAMPLES"`
}

// InputConfig locates the workbook and its score columns
type InputConfig struct {
	File       string `yaml:"file" env:"FILE"`
	PreColumn  string `yaml:"pre_column" env:"PRE_COLUMN"`
	PostColumn string `yaml:"post_column" env:"POST_COLUMN"`
}

// SampleSpec names a sheet and the group label reported for it
type SampleSpec struct {
	Sheet string `yaml:"sheet"`
	Group string `yaml:"group"`
}

// SampleList is the ordered list of sheets to analyse. As text it is written
// SHEET=Group;SHEET=Group.
type SampleList []SampleSpec

// UnmarshalText parses the SHEET=Group;SHEET=Group form
func (l *SampleList) UnmarshalText(text []byte) error {
	var specs SampleList
	for _, item := range strings.Split(string(text), ";") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		sheet, group, _ := strings.Cut(item, "=")
		specs = append(specs, SampleSpec{Sheet: strings.TrimSpace(sheet), Group: strings.TrimSpace(group)})
	}
	*l = specs
	return nil
}

// OutputConfig holds report destinations
type OutputConfig struct {
	Results  string `yaml:"results" env:"RESULTS"`
	Markdown string `yaml:"markdown" env:"MARKDOWN"`
	Charts   bool   `yaml:"charts" env:"CHARTS"`
	ChartDir string `yaml:"chart_dir" env:"CHART_DIR"`
	Quiet    bool   `yaml:"quiet" env:"QUIET"`
}

// AnalysisConfig holds the decision settings
type AnalysisConfig struct {
	Alpha          float64 `yaml:"alpha" env:"ALPHA"`
	Tails          int     `yaml:"tails" env:"TAILS"`
	CriticalSource string  `yaml:"critical_source" env:"CRITICAL_SOURCE"`
	TableMinN      int     `yaml:"table_min_n" env:"TABLE_MIN_N"`
	TableMaxN      int     `yaml:"table_max_n" env:"TABLE_MAX_N"`
}

// Default returns the configuration of the reading-level study
func Default() *Config {
	return &Config{
		Input: InputConfig{
			File:       "MuestrasAplicandoFiltrado.xlsx",
			PreColumn:  "Puntaje_Pretest",
			PostColumn: "Puntaje_Postest",
		},
		Samples: SampleList{
			{Sheet: "WILCOXON-C2-NLB", Group: "Low"},
			{Sheet: "WILCOXON-C2-NLM", Group: "Medium"},
			{Sheet: "WILCOXON-C2-NLA", Group: "High"},
		},
		Output: OutputConfig{
			Results:  "Reporte_Wilcoxon_Resultados.xlsx",
			ChartDir: "charts",
		},
		Analysis: AnalysisConfig{
			Alpha:          0.05,
			Tails:          2,
			CriticalSource: CriticalExact,
			TableMinN:      5,
			TableMaxN:      30,
		},
	}
}

// Load layers an optional YAML file and SIGNRANK_* environment variables over
// the defaults, then validates the result.
func Load(path string) (*Config, error) {
	config := Default()

	if path != "" {
		if err := loadFile(path, config); err != nil {
			return nil, errors.Wrap(err, "failed to load configuration file")
		}
	}

	if err := env.ParseWithOptions(config, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "failed to parse environment")
	}
	if config.SamplesEnv != "" {
		if err := config.Samples.UnmarshalText([]byte(config.SamplesEnv)); err != nil {
			return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "invalid "+EnvPrefix+"SAMPLES")
		}
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.IOError(path, err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return errors.ConfigInvalid(fmt.Sprintf("invalid YAML in %s: %v", path, err))
	}
	return nil
}

// Validate checks required fields and value ranges
func (c *Config) Validate() error {
	if c.Input.File == "" {
		return errors.ConfigInvalid("input file is required")
	}
	if c.Input.PreColumn == "" || c.Input.PostColumn == "" {
		return errors.ConfigInvalid("pretest and posttest column names are required")
	}
	if len(c.Samples) == 0 {
		return errors.ConfigInvalid("at least one sample sheet is required")
	}
	seen := make(map[string]bool, len(c.Samples))
	for i, s := range c.Samples {
		if s.Sheet == "" {
			return errors.ConfigInvalid(fmt.Sprintf("sample %d has no sheet name", i+1))
		}
		if seen[s.Sheet] {
			return errors.ConfigInvalid(fmt.Sprintf("sheet %q listed twice", s.Sheet))
		}
		seen[s.Sheet] = true
	}
	if c.Output.Results == "" {
		return errors.ConfigInvalid("results output path is required")
	}
	if c.Output.Charts && c.Output.ChartDir == "" {
		return errors.ConfigInvalid("chart directory is required when charts are enabled")
	}
	return c.Analysis.validate()
}

func (a AnalysisConfig) validate() error {
	if a.Alpha <= 0 || a.Alpha >= 1 {
		return errors.ConfigInvalid(fmt.Sprintf("alpha must be in (0, 1), got %g", a.Alpha))
	}
	// W = min(W+, W-) carries no direction, so the run is two-tailed only.
	// One-tailed values are printed by the critical command.
	if a.Tails != 2 {
		return errors.ConfigInvalid(fmt.Sprintf("analysis runs are two-tailed, got tails=%d", a.Tails))
	}

	switch a.CriticalSource {
	case CriticalExact:
		if a.TableMinN < 1 || a.TableMaxN < a.TableMinN || a.TableMaxN > maxExactN {
			return errors.ConfigInvalid(fmt.Sprintf("invalid critical table range [%d, %d]", a.TableMinN, a.TableMaxN))
		}
	case CriticalPublished, CriticalLegacy:
		// the literature tables only exist at alpha 0.05
		if a.Alpha != 0.05 {
			return errors.ConfigInvalid(fmt.Sprintf("the %s critical table is fixed at alpha 0.05", a.CriticalSource))
		}
	default:
		return errors.ConfigInvalid(fmt.Sprintf("critical source must be %q, %q or %q, got %q",
			CriticalExact, CriticalPublished, CriticalLegacy, a.CriticalSource))
	}
	return nil
}
