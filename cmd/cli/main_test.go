package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCriticalCmd_TwoTailed(t *testing.T) {
	out, err := execute(t, "critical", "--min", "5", "--max", "10")
	require.NoError(t, err)

	assert.Contains(t, out, "Critical values, alpha=0.05, 2-tailed")
	assert.Contains(t, out, "PUBLISHED")
	assert.Regexp(t, regexp.MustCompile(`\|\s*10\s*\|\s*8\s*\|`), out)
	assert.Regexp(t, regexp.MustCompile(`\|\s*5\s*\|\s*-\s*\|\s*-\s*\|\s*15\s*\|`), out)
}

func TestCriticalCmd_OneTailed(t *testing.T) {
	out, err := execute(t, "critical", "--tails", "1", "--min", "5", "--max", "5")
	require.NoError(t, err)

	assert.Contains(t, out, "1-tailed")
	assert.NotContains(t, out, "PUBLISHED")
	assert.Regexp(t, regexp.MustCompile(`\|\s*5\s*\|\s*0\s*\|`), out)
}

func TestCriticalCmd_BadTails(t *testing.T) {
	_, err := execute(t, "critical", "--tails", "3")
	assert.Error(t, err)
}

func TestDistributionCmd_Table(t *testing.T) {
	out, err := execute(t, "distribution", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "P(T >= W)")
	assert.Regexp(t, regexp.MustCompile(`\|\s*3\s*\|\s*2\s*\|\s*0\.25\s*\|\s*0\.625\s*\|\s*0\.625\s*\|`), out)
	assert.Regexp(t, regexp.MustCompile(`\|\s*6\s*\|\s*1\s*\|\s*0\.125\s*\|\s*1\s*\|\s*0\.125\s*\|`), out)
}

func TestDistributionCmd_SVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dist10.svg")
	out, err := execute(t, "distribution", "10", "--svg", path, "--tails", "1")
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "<svg"))
}

func TestDistributionCmd_Errors(t *testing.T) {
	_, err := execute(t, "distribution", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "integer")

	_, err = execute(t, "distribution", "51")
	assert.Error(t, err)

	_, err = execute(t, "distribution")
	assert.Error(t, err)
}

func TestRunCmd_HasNoTailsFlag(t *testing.T) {
	_, err := execute(t, "run", "--tails", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown flag")
}
