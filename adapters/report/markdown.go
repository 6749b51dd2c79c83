package report

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"signrank/domain/stats"
	"signrank/internal"
	"signrank/internal/errors"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// MarkdownWriter writes the report as <path> (markdown) and the same path
// with an .html extension.
type MarkdownWriter struct {
	path   string
	logger *internal.Logger
}

// NewMarkdownWriter creates a writer targeting path
func NewMarkdownWriter(path string, logger *internal.Logger) *MarkdownWriter {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &MarkdownWriter{path: path, logger: logger}
}

// Name identifies the writer in logs
func (w *MarkdownWriter) Name() string {
	return "markdown:" + w.path
}

// HTMLPath returns where the rendered page is written
func (w *MarkdownWriter) HTMLPath() string {
	return strings.TrimSuffix(w.path, filepath.Ext(w.path)) + ".html"
}

// Write renders both files
func (w *MarkdownWriter) Write(ctx context.Context, report *stats.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	md := Markdown(report)
	if err := os.WriteFile(w.path, md, 0o644); err != nil {
		return errors.IOError(w.path, err)
	}

	page := ToHTML(md, "Wilcoxon signed-rank results")
	if err := os.WriteFile(w.HTMLPath(), page, 0o644); err != nil {
		return errors.IOError(w.HTMLPath(), err)
	}
	w.logger.Info("[MarkdownWriter] wrote %s and %s", w.path, w.HTMLPath())
	return nil
}

// Markdown renders the report as a markdown document
func Markdown(report *stats.Report) []byte {
	var b bytes.Buffer

	b.WriteString("# Wilcoxon signed-rank results\n\n")
	fmt.Fprintf(&b, "- Run: `%s`\n", report.RunID)
	fmt.Fprintf(&b, "- Input: `%s`\n", report.Input)
	if !report.InputHash.IsEmpty() {
		fmt.Fprintf(&b, "- Input SHA-256: `%s`\n", report.InputHash.Short())
	}
	fmt.Fprintf(&b, "- Alpha: %.3g (%d-tailed), %s critical values\n", report.Alpha, report.Tails, report.CriticalSource)
	fmt.Fprintf(&b, "- Generated: %s\n\n", report.GeneratedAt.UTC().Format(time.RFC3339))

	b.WriteString("| " + strings.Join(Headers, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(Headers)) + "\n")
	for _, res := range report.Results {
		cells := Row(res)
		for i, c := range cells {
			cells[i] = strings.ReplaceAll(c, "|", `\|`)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	b.WriteString("\nH0: no difference between pretest and posttest scores. ")
	b.WriteString("H0 is rejected when W falls at or beyond the critical value in either tail.\n")
	return b.Bytes()
}

// ToHTML renders markdown into a complete HTML page
func ToHTML(md []byte, title string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: title,
	})
	return markdown.ToHTML(md, p, renderer)
}
