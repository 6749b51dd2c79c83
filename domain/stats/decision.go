package stats

import "fmt"

// Decision is the verdict class of a sample.
type Decision string

const (
	DecisionReject          Decision = "reject"
	DecisionFailToReject    Decision = "fail_to_reject"
	DecisionNoCriticalValue Decision = "no_critical_value"
	DecisionInsufficient    Decision = "insufficient"
	DecisionFailed          Decision = "failed"
)

// Verdict returns the report text for a decision.
func (d Decision) Verdict() string {
	switch d {
	case DecisionReject:
		return "reject H0: significant difference between pretest and posttest"
	case DecisionFailToReject:
		return "fail to reject H0: no significant difference between pretest and posttest"
	case DecisionNoCriticalValue:
		return "no critical value available for this sample size"
	case DecisionInsufficient:
		return fmt.Sprintf("insufficient sample: fewer than %d valid pairs", MinPairs)
	case DecisionFailed:
		return "analysis failed"
	default:
		return string(d)
	}
}

// Region is the two-sided rejection region: W <= Lower or W >= Upper.
type Region struct {
	Lower int `json:"lower"`
	Upper int `json:"upper"`
}

// RejectionRegion builds the region for critical value c at sample size n.
func RejectionRegion(n, c int) Region {
	return Region{Lower: c, Upper: MaxRankSum(n) - c}
}

// Contains reports whether w falls in the rejection region.
func (r Region) Contains(w float64) bool {
	return w <= float64(r.Lower) || w >= float64(r.Upper)
}

func (r Region) String() string {
	return fmt.Sprintf("W <= %d or W >= %d", r.Lower, r.Upper)
}

// Decide compares w against the rejection region for n. ok is false when no
// critical value exists for n; the result is then DecisionNoCriticalValue
// rather than an extrapolated verdict.
func Decide(w float64, n int, critical int, ok bool) Decision {
	if n < MinPairs {
		return DecisionInsufficient
	}
	if !ok {
		return DecisionNoCriticalValue
	}
	if RejectionRegion(n, critical).Contains(w) {
		return DecisionReject
	}
	return DecisionFailToReject
}
