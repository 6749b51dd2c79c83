package report

import (
	"strconv"
	"strings"

	"signrank/domain/stats"
)

// Headers are the columns of the printed summary table
var Headers = []string{
	"Group", "Sheet", "Total rows", "Valid pairs", "Mean pretest", "Mean posttest", "Median difference",
	"W", "p-value", "Effect size", "Critical", "Verdict",
}

const notAvailable = "N/A"

// Row formats one result in Headers order
func Row(res stats.TestResult) []string {
	meanPre, meanPost, median := notAvailable, notAvailable, notAvailable
	if sum := res.Summary; sum != nil {
		meanPre = formatFloat(sum.MeanPre, 2)
		meanPost = formatFloat(sum.MeanPost, 2)
		median = formatFloat(sum.MedianDifference, 2)
	}

	w, p, effect, critical := notAvailable, notAvailable, notAvailable, notAvailable
	if st := res.Statistic; st != nil {
		w = formatFloat(st.W, 1)
		p = formatFloat(st.PValue, 4)
		effect = formatFloat(st.EffectSize, 3)
	}
	if res.HasCritical {
		critical = strconv.Itoa(res.Region.Lower) + " / " + strconv.Itoa(res.Region.Upper)
	}

	verdict := res.Verdict
	if res.Err != "" {
		verdict += ": " + res.Err
	}

	return []string{
		res.Group,
		res.Sheet,
		strconv.Itoa(res.TotalRows),
		strconv.Itoa(res.ValidPairs),
		meanPre,
		meanPost,
		median,
		w,
		p,
		effect,
		critical,
		verdict,
	}
}

// formatFloat trims trailing zeros so W=36 prints as 36 and W=7.5 as 7.5.
func formatFloat(v float64, decimals int) string {
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	return s
}
