package signrank

import (
	"fmt"

	"signrank/domain/core"
	"signrank/domain/stats"
)

// Engine turns a raw sample into a TestResult. It performs no I/O.
type Engine struct {
	table    *stats.CriticalTable
	minPairs int
}

// NewEngine creates an engine deciding against table, which must be two-tailed.
func NewEngine(table *stats.CriticalTable) *Engine {
	return &Engine{table: table, minPairs: stats.MinPairs}
}

// Name returns the test name
func (e *Engine) Name() string {
	return "wilcoxon_signed_rank"
}

// Table returns the critical-value table decisions are made against.
func (e *Engine) Table() *stats.CriticalTable {
	return e.table
}

// Test filters the sample, computes the statistic and decides.
func (e *Engine) Test(sample stats.Sample) stats.TestResult {
	set := FilterPairs(sample)
	result := stats.TestResult{
		Sheet:          sample.Sheet,
		Group:          sample.Label(),
		TotalRows:      set.Total,
		ValidPairs:     set.N(),
		DroppedMissing: set.DroppedMissing,
		DroppedZero:    set.DroppedZero,
		Summary:        Summarize(sample),
	}

	if e.table.Tails != stats.TwoTailed {
		return failed(result, fmt.Errorf("%s table is %d-tailed; the signed-rank run is two-tailed", e.table.Name, e.table.Tails))
	}

	st, err := ComputeStatistic(set)
	if core.IsInsufficientData(err) {
		result.Decision = stats.DecisionInsufficient
		result.Verdict = fmt.Sprintf("insufficient sample: %d valid pairs, need at least %d", set.N(), e.minPairs)
		return result
	}
	if err != nil {
		return failed(result, err)
	}
	result.Statistic = &st

	c, err := e.table.Critical(st.N)
	result.Critical, result.HasCritical = c, err == nil
	if err != nil {
		result.Decision = stats.DecisionNoCriticalValue
		result.Verdict = err.Error()
		return result
	}

	result.Region = stats.RejectionRegion(st.N, c)
	result.Decision = stats.Decide(st.W, st.N, c, true)
	result.Verdict = result.Decision.Verdict()
	return result
}

func failed(result stats.TestResult, err error) stats.TestResult {
	result.Decision = stats.DecisionFailed
	result.Verdict = stats.DecisionFailed.Verdict()
	result.Err = err.Error()
	return result
}
