package signrank

import (
	"math"
	"math/rand"
	"testing"

	"signrank/domain/core"
	"signrank/domain/stats"
)

func pairSet(pre, post []float64) stats.PairSet {
	sample := stats.Sample{Sheet: "test"}
	for i := range pre {
		sample.Pairs = append(sample.Pairs, stats.Pair{Pre: pre[i], Post: post[i]})
	}
	return FilterPairs(sample)
}

func TestComputeStatistic_KnownValues(t *testing.T) {
	tests := []struct {
		name      string
		pre, post []float64
		n         int
		wPlus, w  float64
		p         float64
		method    stats.Method
	}{
		{
			name:   "all positive, no ties",
			pre:    []float64{1, 2, 3, 4, 5, 6, 7, 8},
			post:   []float64{2, 4, 6, 8, 10, 12, 14, 16},
			n:      8,
			wPlus:  36,
			w:      0,
			p:      0.0078125,
			method: stats.MethodExact,
		},
		{
			name:   "alternating signs",
			pre:    []float64{5, 6, 7, 8, 9, 10},
			post:   []float64{6, 4, 10, 4, 14, 4},
			n:      6,
			wPlus:  9,
			w:      9,
			p:      0.84375,
			method: stats.MethodExact,
		},
		{
			name:   "tied magnitudes use normal approximation",
			pre:    []float64{10, 12, 9, 14, 11, 13, 8, 15},
			post:   []float64{14, 15, 13, 18, 12, 17, 11, 19},
			n:      8,
			wPlus:  36,
			w:      0,
			p:      0.009653874815692728,
			method: stats.MethodNormal,
		},
		{
			name:   "ties and a zero difference",
			pre:    []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			post:   []float64{2, 4, 1, 8, 9, 3, 10, 12, 9, 20},
			n:      9,
			wPlus:  38,
			w:      7,
			p:      0.06488884618515069,
			method: stats.MethodNormal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := ComputeStatistic(pairSet(tt.pre, tt.post))
			if err != nil {
				t.Fatalf("ComputeStatistic failed: %v", err)
			}
			if st.N != tt.n {
				t.Errorf("n = %d, want %d", st.N, tt.n)
			}
			if st.WPlus != tt.wPlus || st.W != tt.w {
				t.Errorf("W+ = %v, W = %v, want %v, %v", st.WPlus, st.W, tt.wPlus, tt.w)
			}
			if st.WPlus+st.WMinus != float64(stats.MaxRankSum(st.N)) {
				t.Errorf("W+ + W- = %v, want %d", st.WPlus+st.WMinus, stats.MaxRankSum(st.N))
			}
			if st.Method != tt.method {
				t.Errorf("method = %s, want %s", st.Method, tt.method)
			}
			if math.Abs(st.PValue-tt.p) > 1e-9 {
				t.Errorf("p = %v, want %v", st.PValue, tt.p)
			}
		})
	}
}

func TestComputeStatistic_Insufficient(t *testing.T) {
	_, err := ComputeStatistic(pairSet([]float64{1, 2, 3, 4}, []float64{2, 3, 4, 5}))
	if !core.IsInsufficientData(err) {
		t.Errorf("expected insufficient data error, got %v", err)
	}
}

func TestComputeStatistic_Bounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		n := 5 + rng.Intn(60)
		pre := make([]float64, n)
		post := make([]float64, n)
		for i := range pre {
			pre[i] = float64(rng.Intn(20))
			post[i] = pre[i] + float64(rng.Intn(11)-4)
		}

		set := pairSet(pre, post)
		if set.N() < stats.MinPairs {
			continue
		}
		st, err := ComputeStatistic(set)
		if err != nil {
			t.Fatalf("trial %d: %v", trial, err)
		}
		if st.W < 0 || st.W > float64(stats.MaxRankSum(st.N)) {
			t.Errorf("trial %d: W=%v outside [0, %d]", trial, st.W, stats.MaxRankSum(st.N))
		}
		if st.PValue < 0 || st.PValue > 1 {
			t.Errorf("trial %d: p=%v outside [0, 1]", trial, st.PValue)
		}
		if st.EffectSize < -1 || st.EffectSize > 1 {
			t.Errorf("trial %d: effect size %v outside [-1, 1]", trial, st.EffectSize)
		}
	}
}

func TestComputeStatistic_Deterministic(t *testing.T) {
	pre := []float64{3, 8, 2, 9, 4, 7, 1}
	post := []float64{5, 6, 9, 12, 4.5, 11, 3}

	a, err := ComputeStatistic(pairSet(pre, post))
	if err != nil {
		t.Fatal(err)
	}
	b, _ := ComputeStatistic(pairSet(pre, post))
	if a != b {
		t.Errorf("same input produced %+v and %+v", a, b)
	}
}

func TestZeroDifferenceRowDoesNotChangeStatistic(t *testing.T) {
	pre := []float64{1, 2, 3, 4, 5, 6}
	post := []float64{3, 1, 7, 9, 4, 12}

	base := pairSet(pre, post)
	withTie := pairSet(append([]float64{5}, pre...), append([]float64{5}, post...))

	if withTie.N() != base.N() || withTie.DroppedZero != base.DroppedZero+1 {
		t.Fatalf("tie row should only bump DroppedZero: base %+v, with tie %+v", base, withTie)
	}

	a, err := ComputeStatistic(base)
	if err != nil {
		t.Fatal(err)
	}
	b, err := ComputeStatistic(withTie)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("statistic changed after adding a tie row: %+v vs %+v", a, b)
	}
}

func TestRankMagnitudes(t *testing.T) {
	ranks, tieTerm := rankMagnitudes([]float64{-2, 1, 2, 4, -2})
	want := []float64{3, 1, 3, 5, 3}
	for i := range want {
		if ranks[i] != want[i] {
			t.Errorf("rank[%d] = %v, want %v", i, ranks[i], want[i])
		}
	}
	if tieTerm != 24 {
		t.Errorf("tie term = %v, want 24", tieTerm)
	}
}
