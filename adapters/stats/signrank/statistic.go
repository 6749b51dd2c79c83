package signrank

import (
	"math"
	"sort"

	"signrank/domain/core"
	"signrank/domain/stats"

	"gonum.org/v1/gonum/stat/distuv"
)

// ComputeStatistic runs the two-sided signed-rank test on a filtered pair set.
//
// W is the smaller of the positive and negative rank sums. The p-value is
// exact when there are no tied magnitudes and n <= MaxExactN; otherwise it
// comes from the normal approximation with tie-corrected variance and no
// continuity correction.
func ComputeStatistic(set stats.PairSet) (stats.Statistic, error) {
	n := set.N()
	if n < stats.MinPairs {
		return stats.Statistic{}, core.NewInsufficientDataError(n, stats.MinPairs)
	}

	ranks, tieTerm := rankMagnitudes(set.Differences)

	var wPlus, wMinus float64
	for i, d := range set.Differences {
		if d > 0 {
			wPlus += ranks[i]
		} else {
			wMinus += ranks[i]
		}
	}
	w := math.Min(wPlus, wMinus)
	maxSum := float64(stats.MaxRankSum(n))

	st := stats.Statistic{
		N:          n,
		WPlus:      wPlus,
		WMinus:     wMinus,
		W:          w,
		Z:          normalScore(w, n, tieTerm),
		HasTies:    tieTerm > 0,
		EffectSize: (wPlus - wMinus) / maxSum,
	}

	if !st.HasTies && n <= MaxExactN {
		dist, err := NewDistribution(n)
		if err != nil {
			return stats.Statistic{}, err
		}
		st.PValue = math.Min(1, 2*dist.CDF(w))
		st.Method = stats.MethodExact
		return st, nil
	}

	st.PValue = math.Min(1, 2*distuv.UnitNormal.CDF(-math.Abs(st.Z)))
	st.Method = stats.MethodNormal
	return st, nil
}

// rankMagnitudes ranks |d| ascending, giving tied magnitudes their average
// rank. It also returns sum(t^3 - t) over tie groups of size t.
func rankMagnitudes(diffs []float64) ([]float64, float64) {
	n := len(diffs)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return math.Abs(diffs[order[a]]) < math.Abs(diffs[order[b]])
	})

	ranks := make([]float64, n)
	tieTerm := 0.0
	for start := 0; start < n; {
		end := start
		for end+1 < n && math.Abs(diffs[order[end+1]]) == math.Abs(diffs[order[start]]) {
			end++
		}
		// positions start..end hold ranks start+1..end+1
		avg := float64(start+end)/2 + 1
		for k := start; k <= end; k++ {
			ranks[order[k]] = avg
		}
		if t := float64(end - start + 1); t > 1 {
			tieTerm += t*t*t - t
		}
		start = end + 1
	}
	return ranks, tieTerm
}

func normalScore(w float64, n int, tieTerm float64) float64 {
	nf := float64(n)
	mean := nf * (nf + 1) / 4
	variance := nf*(nf+1)*(2*nf+1)/24 - tieTerm/48
	if variance <= 0 {
		return 0
	}
	return (w - mean) / math.Sqrt(variance)
}
