package plot

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"

	"signrank/adapters/stats/signrank"
	"signrank/domain/stats"
	"signrank/internal"
	"signrank/internal/errors"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// SVGConfig controls the null distribution chart
type SVGConfig struct {
	Dir           string
	Width         int // minimum width; grows with the number of bars
	Height        int
	BarWidth      int
	BarSpacing    int
	MaxLabels     int
	AcceptColor   string
	RejectColor   string
	ObservedColor string
}

// DefaultSVGConfig returns the chart defaults
func DefaultSVGConfig() SVGConfig {
	return SVGConfig{
		Dir:           "charts",
		Width:         900,
		Height:        480,
		BarWidth:      6,
		BarSpacing:    2,
		MaxLabels:     16,
		AcceptColor:   "9e9e9e",
		RejectColor:   "d62728",
		ObservedColor: "1f77b4",
	}
}

// DistributionRenderer draws the exact null distribution of a sample with
// its rejection region shaded and the observed statistic highlighted.
type DistributionRenderer struct {
	config SVGConfig
	logger *internal.Logger
}

// NewDistributionRenderer creates a renderer writing into config.Dir
func NewDistributionRenderer(config SVGConfig, logger *internal.Logger) *DistributionRenderer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DistributionRenderer{config: config, logger: logger}
}

// chartInput is everything a chart needs; results and bare distributions both reduce to it.
type chartInput struct {
	dist     *signrank.Distribution
	region   *stats.Region
	observed *float64
	title    string
	lines    []string
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileName returns the chart file name for a sheet
func FileName(sheet string) string {
	return "distribution_" + unsafeFileChars.ReplaceAllString(sheet, "_") + ".svg"
}

// CheckFileNames fails when two sheets would write the same chart file.
func CheckFileNames(sheets []string) error {
	owner := make(map[string]string, len(sheets))
	for _, sheet := range sheets {
		name := FileName(sheet)
		if prev, ok := owner[name]; ok {
			return errors.ConfigInvalid(fmt.Sprintf("sheets %q and %q would both be charted as %s", prev, sheet, name))
		}
		owner[name] = sheet
	}
	return nil
}

// Render writes <dir>/distribution_<sheet>.svg for a computed result
func (r *DistributionRenderer) Render(ctx context.Context, result stats.TestResult) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !result.Computed() {
		return "", errors.InvalidInput(fmt.Sprintf("no statistic to plot for %s", result.Sheet))
	}

	dist, err := signrank.NewDistribution(result.Statistic.N)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(r.config.Dir, 0o755); err != nil {
		return "", errors.IOError(r.config.Dir, err)
	}
	path := filepath.Join(r.config.Dir, FileName(result.Sheet))
	f, err := os.Create(path)
	if err != nil {
		return "", errors.IOError(path, err)
	}
	defer f.Close()

	if err := r.draw(f, resultChart(dist, result)); err != nil {
		return "", errors.Wrapf(err, "failed to render chart for %s", result.Sheet)
	}
	r.logger.Debug("[DistributionRenderer] wrote %s", path)
	return path, nil
}

// DrawDistribution writes the distribution for n with the region implied by
// alpha and tails. A one-tailed region covers the lower tail only.
func (r *DistributionRenderer) DrawDistribution(w io.Writer, dist *signrank.Distribution, alpha float64, tails stats.Tails) error {
	in := chartInput{
		dist:  dist,
		title: fmt.Sprintf("Null distribution of W, n=%d", dist.N()),
		lines: []string{fmt.Sprintf("alpha=%.3g, %d-tailed, mean %g", alpha, tails, dist.Mean())},
	}
	if c, ok := dist.CriticalValue(alpha, tails); ok {
		region := stats.RejectionRegion(dist.N(), c)
		label := region.String()
		if tails == stats.OneTailed {
			region = stats.Region{Lower: c, Upper: dist.MaxSum() + 1}
			label = fmt.Sprintf("W <= %d", c)
		}
		in.region = &region
		in.lines = append(in.lines, "rejection region: "+label)
	} else {
		in.lines = append(in.lines, "no critical value at this alpha")
	}
	return r.draw(w, in)
}

func resultChart(dist *signrank.Distribution, result stats.TestResult) chartInput {
	st := result.Statistic
	w := st.W
	in := chartInput{
		dist:     dist,
		observed: &w,
		title:    fmt.Sprintf("%s (%s): null distribution of W, n=%d", result.Group, result.Sheet, st.N),
		lines: []string{
			fmt.Sprintf("W=%g  W+=%g  W-=%g", st.W, st.WPlus, st.WMinus),
			fmt.Sprintf("p=%.4f (%s)", st.PValue, st.Method),
		},
	}
	if result.HasCritical {
		region := result.Region
		in.region = &region
		in.lines = append(in.lines, fmt.Sprintf("critical value %d: %s", result.Critical, region.String()))
	} else {
		in.lines = append(in.lines, "no critical value available")
	}
	in.lines = append(in.lines, "H0: no pretest/posttest difference", result.Verdict)
	return in
}

func (r *DistributionRenderer) draw(w io.Writer, in chartInput) error {
	probs := in.dist.Probabilities()
	maxProb := 0.0
	for _, p := range probs {
		maxProb = math.Max(maxProb, p)
	}

	labelEvery := 1
	if r.config.MaxLabels > 0 && len(probs) > r.config.MaxLabels {
		labelEvery = int(math.Ceil(float64(len(probs)) / float64(r.config.MaxLabels)))
	}

	observed := -1
	if in.observed != nil {
		observed = int(math.Round(*in.observed))
	}

	bars := make([]chart.Value, len(probs))
	for total, p := range probs {
		label := ""
		if total%labelEvery == 0 {
			label = fmt.Sprintf("%d", total)
		}
		bars[total] = chart.Value{
			Value: p,
			Label: label,
			Style: chart.Style{
				FillColor:   r.barColor(total, in.region, observed),
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 0.5,
			},
		}
	}

	width := 80 + len(bars)*(r.config.BarWidth+r.config.BarSpacing)
	if width < r.config.Width {
		width = r.config.Width
	}

	graph := chart.BarChart{
		Title:      in.title,
		Width:      width,
		Height:     r.config.Height,
		BarWidth:   r.config.BarWidth,
		BarSpacing: r.config.BarSpacing,
		Background: chart.Style{Padding: chart.Box{Top: 60, Left: 10, Right: 10, Bottom: 10}},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxProb * 1.15},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.3f", f)
				}
				return ""
			},
		},
		Bars:     bars,
		Elements: []chart.Renderable{annotation(in.lines)},
	}
	return graph.Render(chart.SVG, w)
}

func (r *DistributionRenderer) barColor(total int, region *stats.Region, observed int) drawing.Color {
	switch {
	case total == observed:
		return drawing.ColorFromHex(r.config.ObservedColor)
	case region != nil && region.Contains(float64(total)):
		return drawing.ColorFromHex(r.config.RejectColor)
	default:
		return drawing.ColorFromHex(r.config.AcceptColor)
	}
}

// annotation writes the decision text in the top-left of the canvas.
func annotation(lines []string) chart.Renderable {
	return func(r chart.Renderer, canvas chart.Box, defaults chart.Style) {
		style := chart.Style{FontSize: 9, FontColor: drawing.ColorBlack}.InheritFrom(defaults)
		style.WriteTextOptionsToRenderer(r)
		for i, line := range lines {
			r.Text(line, canvas.Left+8, canvas.Top+14+i*13)
		}
	}
}
