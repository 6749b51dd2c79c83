package signrank

import "signrank/domain/stats"

// FilterPairs drops rows missing either score and rows whose difference is
// exactly zero. The remaining post - pre differences keep sheet order.
func FilterPairs(sample stats.Sample) stats.PairSet {
	set := stats.PairSet{
		Differences: make([]float64, 0, len(sample.Pairs)),
		Total:       len(sample.Pairs),
	}
	for _, p := range sample.Pairs {
		if p.Missing() {
			set.DroppedMissing++
			continue
		}
		d := p.Difference()
		if d == 0 {
			set.DroppedZero++
			continue
		}
		set.Differences = append(set.Differences, d)
	}
	return set
}
