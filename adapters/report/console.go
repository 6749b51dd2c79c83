package report

import (
	"context"
	"fmt"
	"io"
	"sort"

	"signrank/domain/stats"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// ConsoleWriter prints a report as a table
type ConsoleWriter struct {
	out io.Writer
}

// NewConsoleWriter creates a writer printing to out
func NewConsoleWriter(out io.Writer) *ConsoleWriter {
	return &ConsoleWriter{out: out}
}

// Name identifies the writer in logs
func (w *ConsoleWriter) Name() string {
	return "console"
}

// Write prints the heading, the results table and a decision tally
func (w *ConsoleWriter) Write(ctx context.Context, report *stats.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	heading := color.New(color.FgYellow, color.Bold)
	heading.Fprintf(w.out, "\nWilcoxon signed-rank test (alpha=%.3g, %d-tailed, %s critical values)\n",
		report.Alpha, report.Tails, report.CriticalSource)
	fmt.Fprintf(w.out, "Input: %s\n", report.Input)

	table := tablewriter.NewWriter(w.out)
	table.SetHeader(Headers)
	table.SetAutoWrapText(false)
	for _, res := range report.Results {
		table.Append(Row(res))
	}
	table.Render()

	counts := report.Counts()
	decisions := make([]string, 0, len(counts))
	for d := range counts {
		decisions = append(decisions, string(d))
	}
	sort.Strings(decisions)
	for _, d := range decisions {
		fmt.Fprintf(w.out, "  %s: %d\n", d, counts[stats.Decision(d)])
	}
	return nil
}
