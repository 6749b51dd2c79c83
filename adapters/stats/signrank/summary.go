package signrank

import (
	"signrank/domain/stats"

	descriptive "github.com/montanaflynn/stats"
)

// Summarize computes means and the median difference over rows with both
// scores present. Zero differences are kept here; they only matter to the test.
func Summarize(sample stats.Sample) *stats.Summary {
	pre := make([]float64, 0, len(sample.Pairs))
	post := make([]float64, 0, len(sample.Pairs))
	diffs := make([]float64, 0, len(sample.Pairs))
	for _, p := range sample.Pairs {
		if p.Missing() {
			continue
		}
		pre = append(pre, p.Pre)
		post = append(post, p.Post)
		diffs = append(diffs, p.Difference())
	}
	if len(pre) == 0 {
		return nil
	}

	meanPre, err := descriptive.Mean(pre)
	if err != nil {
		return nil
	}
	meanPost, err := descriptive.Mean(post)
	if err != nil {
		return nil
	}
	median, err := descriptive.Median(diffs)
	if err != nil {
		return nil
	}

	return &stats.Summary{
		MeanPre:          meanPre,
		MeanPost:         meanPost,
		MedianDifference: median,
	}
}
