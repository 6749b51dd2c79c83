package ports

import (
	"context"

	"signrank/domain/stats"
)

// SampleSource loads the paired scores of one named sheet
type SampleSource interface {
	LoadSample(ctx context.Context, sheet, group string) (stats.Sample, error)
}

// ResultWriter persists or prints a finished report
type ResultWriter interface {
	Name() string
	Write(ctx context.Context, report *stats.Report) error
}

// ChartRenderer draws a result against its exact null distribution.
// It returns the path written.
type ChartRenderer interface {
	Render(ctx context.Context, result stats.TestResult) (string, error)
}
