package config

import (
	"os"
	"path/filepath"
	"testing"

	"signrank/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "signrank.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "MuestrasAplicandoFiltrado.xlsx", cfg.Input.File)
	assert.Equal(t, "Puntaje_Pretest", cfg.Input.PreColumn)
	assert.Equal(t, "Puntaje_Postest", cfg.Input.PostColumn)
	assert.Equal(t, "Reporte_Wilcoxon_Resultados.xlsx", cfg.Output.Results)
	require.Len(t, cfg.Samples, 3)
	assert.Equal(t, SampleSpec{Sheet: "WILCOXON-C2-NLB", Group: "Low"}, cfg.Samples[0])
	assert.Equal(t, SampleSpec{Sheet: "WILCOXON-C2-NLA", Group: "High"}, cfg.Samples[2])
	assert.Equal(t, 0.05, cfg.Analysis.Alpha)
	assert.Equal(t, 2, cfg.Analysis.Tails)
	assert.Equal(t, CriticalExact, cfg.Analysis.CriticalSource)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeYAML(t, `
input:
  file: otro.xlsx
samples:
  - sheet: HOJA-1
    group: Uno
output:
  results: out.xlsx
  charts: true
analysis:
  critical_source: legacy
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "otro.xlsx", cfg.Input.File)
	assert.Equal(t, "Puntaje_Pretest", cfg.Input.PreColumn, "unset keys keep their defaults")
	assert.Equal(t, SampleList{{Sheet: "HOJA-1", Group: "Uno"}}, cfg.Samples)
	assert.Equal(t, "out.xlsx", cfg.Output.Results)
	assert.True(t, cfg.Output.Charts)
	assert.Equal(t, "charts", cfg.Output.ChartDir)
	assert.Equal(t, CriticalLegacy, cfg.Analysis.CriticalSource)
}

func TestLoad_EnvironmentWins(t *testing.T) {
	path := writeYAML(t, "analysis:\n  alpha: 0.1\n")
	t.Setenv("SIGNRANK_ANALYSIS_ALPHA", "0.01")
	t.Setenv("SIGNRANK_INPUT_FILE", "env.xlsx")
	t.Setenv("SIGNRANK_SAMPLES", "A=Alpha; B=Beta")
	t.Setenv("SIGNRANK_OUTPUT_QUIET", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.01, cfg.Analysis.Alpha)
	assert.Equal(t, "env.xlsx", cfg.Input.File)
	assert.Equal(t, SampleList{{Sheet: "A", Group: "Alpha"}, {Sheet: "B", Group: "Beta"}}, cfg.Samples)
	assert.True(t, cfg.Output.Quiet)
}

func TestLoad_RejectsOneTailedRunFromEnvironment(t *testing.T) {
	t.Setenv("SIGNRANK_ANALYSIS_TAILS", "1")

	_, err := Load("")
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
	assert.Contains(t, err.Error(), "two-tailed")
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeIOError, errors.GetCode(err))

	_, err = Load(writeYAML(t, "input: [unclosed"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))

	_, err = Load(writeYAML(t, "analysis:\n  alpha: 1.5\n"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
	assert.Contains(t, err.Error(), "alpha")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"no input", func(c *Config) { c.Input.File = "" }, "input file"},
		{"no columns", func(c *Config) { c.Input.PostColumn = "" }, "column"},
		{"no samples", func(c *Config) { c.Samples = nil }, "at least one sample"},
		{"blank sheet", func(c *Config) { c.Samples = SampleList{{Group: "Low"}} }, "no sheet name"},
		{"duplicate sheet", func(c *Config) { c.Samples = append(c.Samples, c.Samples[0]) }, "listed twice"},
		{"no results path", func(c *Config) { c.Output.Results = "" }, "results output"},
		{"charts without dir", func(c *Config) { c.Output.Charts = true; c.Output.ChartDir = "" }, "chart directory"},
		{"three tails", func(c *Config) { c.Analysis.Tails = 3 }, "tails"},
		{"one tail", func(c *Config) { c.Analysis.Tails = 1 }, "two-tailed"},
		{"zero alpha", func(c *Config) { c.Analysis.Alpha = 0 }, "alpha"},
		{"bad table range", func(c *Config) { c.Analysis.TableMinN = 10; c.Analysis.TableMaxN = 5 }, "range"},
		{"table beyond exact range", func(c *Config) { c.Analysis.TableMaxN = 51 }, "range"},
		{"unknown source", func(c *Config) { c.Analysis.CriticalSource = "tabla" }, "critical source"},
		{"published at other alpha", func(c *Config) {
			c.Analysis.CriticalSource = CriticalPublished
			c.Analysis.Alpha = 0.01
		}, "published"},
		{"legacy at other alpha", func(c *Config) {
			c.Analysis.CriticalSource = CriticalLegacy
			c.Analysis.Alpha = 0.1
		}, "legacy"},
		{"published default", func(c *Config) { c.Analysis.CriticalSource = CriticalPublished }, ""},
		{"legacy default", func(c *Config) { c.Analysis.CriticalSource = CriticalLegacy }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSampleList_UnmarshalText(t *testing.T) {
	var l SampleList
	require.NoError(t, l.UnmarshalText([]byte("NLB=Low;;NLA")))
	assert.Equal(t, SampleList{{Sheet: "NLB", Group: "Low"}, {Sheet: "NLA"}}, l)
}
