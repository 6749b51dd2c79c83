package signrank

import (
	"fmt"
	"math"

	"signrank/domain/core"
	"signrank/domain/stats"
)

// MaxExactN bounds exact enumeration. Counts stay below 2^53 up to here, so
// float64 weights are exact.
const MaxExactN = 50

// Distribution is the null distribution of the signed-rank sum for n pairs:
// each rank 1..n lands in the positive group with probability 1/2.
type Distribution struct {
	n      int
	counts []float64
	total  float64
}

// NewDistribution enumerates the distribution with a count table. Starting
// from {0: 1}, every rank i turns each total T into T and T+i, both carrying
// T's weight. Weights are divided by 2^n on access.
func NewDistribution(n int) (*Distribution, error) {
	if n < 0 || n > MaxExactN {
		return nil, fmt.Errorf("%w: n=%d (supported 0..%d)", core.ErrDistributionRange, n, MaxExactN)
	}

	counts := []float64{1}
	for i := 1; i <= n; i++ {
		next := make([]float64, len(counts)+i)
		for total, weight := range counts {
			if weight == 0 {
				continue
			}
			next[total] += weight
			next[total+i] += weight
		}
		counts = next
	}

	return &Distribution{n: n, counts: counts, total: math.Ldexp(1, n)}, nil
}

// N returns the number of ranks.
func (d *Distribution) N() int { return d.n }

// MaxSum returns n(n+1)/2.
func (d *Distribution) MaxSum() int { return len(d.counts) - 1 }

// Mean returns n(n+1)/4, the centre of symmetry.
func (d *Distribution) Mean() float64 { return float64(d.MaxSum()) / 2 }

// Count returns the number of sign assignments whose positive rank sum is w.
func (d *Distribution) Count(w int) float64 {
	if w < 0 || w > d.MaxSum() {
		return 0
	}
	return d.counts[w]
}

// PMF returns P(T = w).
func (d *Distribution) PMF(w int) float64 {
	return d.Count(w) / d.total
}

// CDF returns P(T <= w).
func (d *Distribution) CDF(w float64) float64 {
	if w < 0 {
		return 0
	}
	upper := int(math.Floor(w))
	if upper >= d.MaxSum() {
		return 1
	}
	return d.cumulative(upper) / d.total
}

// SF returns P(T >= w).
func (d *Distribution) SF(w float64) float64 {
	lower := int(math.Ceil(w))
	if lower <= 0 {
		return 1
	}
	if lower > d.MaxSum() {
		return 0
	}
	// symmetry: P(T >= w) == P(T <= max - w)
	return d.cumulative(d.MaxSum()-lower) / d.total
}

func (d *Distribution) cumulative(upper int) float64 {
	sum := 0.0
	for w := 0; w <= upper; w++ {
		sum += d.counts[w]
	}
	return sum
}

// Probabilities returns P(T = w) for w = 0..MaxSum.
func (d *Distribution) Probabilities() []float64 {
	probs := make([]float64, len(d.counts))
	for w, c := range d.counts {
		probs[w] = c / d.total
	}
	return probs
}

// CriticalValue returns the largest c with tails * P(T <= c) <= alpha. ok is
// false when even c = 0 is not significant.
func (d *Distribution) CriticalValue(alpha float64, tails stats.Tails) (int, bool) {
	limit := alpha * d.total
	cum := 0.0
	critical, ok := 0, false
	for w := 0; w <= d.MaxSum()/2; w++ {
		cum += d.counts[w]
		if float64(tails)*cum > limit {
			break
		}
		critical, ok = w, true
	}
	return critical, ok
}

// NewExactCriticalTable derives critical values for n in [minN, maxN] from
// the exact distribution. Sizes with no significant rank sum get no entry.
func NewExactCriticalTable(alpha float64, tails stats.Tails, minN, maxN int) (*stats.CriticalTable, error) {
	if alpha <= 0 || alpha >= 1 {
		return nil, core.ErrInvalidAlpha
	}
	if minN < 1 || maxN < minN {
		return nil, fmt.Errorf("invalid sample size range [%d, %d]", minN, maxN)
	}
	if maxN > MaxExactN {
		return nil, fmt.Errorf("%w: n=%d (supported 0..%d)", core.ErrDistributionRange, maxN, MaxExactN)
	}

	values := make(map[int]int, maxN-minN+1)
	for n := minN; n <= maxN; n++ {
		dist, err := NewDistribution(n)
		if err != nil {
			return nil, err
		}
		if c, ok := dist.CriticalValue(alpha, tails); ok {
			values[n] = c
		}
	}
	return stats.NewCriticalTable("exact", alpha, tails, values), nil
}
