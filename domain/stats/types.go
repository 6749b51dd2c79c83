package stats

import (
	"math"
	"time"

	"signrank/domain/core"
)

// MinPairs is the smallest filtered sample the signed-rank test is run on.
const MinPairs = 5

// Pair is one row of a sample. A missing score is NaN.
type Pair struct {
	Pre  float64 `json:"pre"`
	Post float64 `json:"post"`
}

// Missing reports whether either score is absent or not a finite number.
func (p Pair) Missing() bool {
	return !finite(p.Pre) || !finite(p.Post)
}

// Difference returns post - pre.
func (p Pair) Difference() float64 {
	return p.Post - p.Pre
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Sample is a named group of paired pretest/posttest scores, in sheet order.
type Sample struct {
	Sheet string `json:"sheet"`
	Group string `json:"group"`
	Pairs []Pair `json:"pairs"`
}

// Label returns the group label, falling back to the sheet name.
func (s Sample) Label() string {
	if s.Group != "" {
		return s.Group
	}
	return s.Sheet
}

// PairSet is a sample after dropping missing rows and zero differences.
// INVARIANTS:
// - every entry of Differences is finite and non-zero
// - Total == len(Differences) + DroppedMissing + DroppedZero
type PairSet struct {
	Differences    []float64 `json:"differences"`
	Total          int       `json:"total"`
	DroppedMissing int       `json:"dropped_missing"`
	DroppedZero    int       `json:"dropped_zero"`
}

// N is the number of usable pairs.
func (ps PairSet) N() int {
	return len(ps.Differences)
}

// Sufficient reports whether the set has at least min usable pairs.
func (ps PairSet) Sufficient(min int) bool {
	return ps.N() >= min
}

// Method names how a p-value was obtained.
type Method string

const (
	MethodExact  Method = "exact"
	MethodNormal Method = "normal"
)

// Statistic is the outcome of the signed-rank computation.
// INVARIANTS:
// - 0 <= W <= MaxRankSum(N), W == min(WPlus, WMinus)
// - WPlus + WMinus == MaxRankSum(N)
// - 0 <= PValue <= 1
type Statistic struct {
	N          int     `json:"n"`
	WPlus      float64 `json:"w_plus"`
	WMinus     float64 `json:"w_minus"`
	W          float64 `json:"w"`
	Z          float64 `json:"z"` // normal approximation score, also reported for exact p-values
	PValue     float64 `json:"p_value"`
	Method     Method  `json:"method"`
	HasTies    bool    `json:"has_ties"`
	EffectSize float64 `json:"effect_size"` // matched-pairs rank-biserial correlation
}

// MaxRankSum is n(n+1)/2, the largest achievable rank sum.
func MaxRankSum(n int) int {
	if n <= 0 {
		return 0
	}
	return n * (n + 1) / 2
}

// Summary holds descriptive statistics of the usable pairs.
type Summary struct {
	MeanPre          float64 `json:"mean_pre"`
	MeanPost         float64 `json:"mean_post"`
	MedianDifference float64 `json:"median_difference"`
}

// TestResult is the per-sample outcome of a run. It is built once and never mutated.
type TestResult struct {
	Sheet          string     `json:"sheet"`
	Group          string     `json:"group"`
	TotalRows      int        `json:"total_rows"`
	ValidPairs     int        `json:"valid_pairs"`
	DroppedMissing int        `json:"dropped_missing"`
	DroppedZero    int        `json:"dropped_zero"`
	Statistic      *Statistic `json:"statistic,omitempty"`
	Summary        *Summary   `json:"summary,omitempty"`
	Critical       int        `json:"critical"`
	HasCritical    bool       `json:"has_critical"`
	Region         Region     `json:"region"`
	Decision       Decision   `json:"decision"`
	Verdict        string     `json:"verdict"`
	Err            string     `json:"error,omitempty"`
}

// Computed reports whether numeric results are present.
func (r TestResult) Computed() bool {
	return r.Statistic != nil
}

// Report collects the results of one run in output order.
type Report struct {
	RunID          core.RunID   `json:"run_id"`
	Input          string       `json:"input"`
	InputHash      core.Hash    `json:"input_hash,omitempty"`
	Alpha          float64      `json:"alpha"`
	Tails          Tails        `json:"tails"`
	CriticalSource string       `json:"critical_source"`
	GeneratedAt    time.Time    `json:"generated_at"`
	Results        []TestResult `json:"results"`
}

// Counts tallies results by decision.
func (r *Report) Counts() map[Decision]int {
	counts := make(map[Decision]int)
	for _, res := range r.Results {
		counts[res.Decision]++
	}
	return counts
}
