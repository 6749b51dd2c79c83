package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"signrank/adapters/plot"
	"signrank/adapters/stats/signrank"
	"signrank/app"
	"signrank/domain/stats"
	"signrank/internal"
	"signrank/internal/config"
	"signrank/internal/errors"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if errors.IsAppError(err) {
			fmt.Fprintf(os.Stderr, "error [%s]: %v\n", errors.GetCode(err), err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "signrank",
		Short:         "Wilcoxon signed-rank tests over pretest/posttest workbooks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newCriticalCmd(),
		newDistributionCmd(),
	)
	return rootCmd
}

func newRunCmd() *cobra.Command {
	var (
		configPath string
		input      string
		output     string
		markdown   string
		charts     bool
		chartDir   string
		critical   string
		alpha      float64
		quiet      bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Test every configured sheet and write the results workbook",
		Long: `Run the signed-rank test on each configured sheet, print the results table
and write the results workbook.

Example: signrank run --input muestras.xlsx --markdown reporte.md --charts`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("input") {
				cfg.Input.File = input
			}
			if flags.Changed("output") {
				cfg.Output.Results = output
			}
			if flags.Changed("markdown") {
				cfg.Output.Markdown = markdown
			}
			if flags.Changed("charts") {
				cfg.Output.Charts = charts
			}
			if flags.Changed("chart-dir") {
				cfg.Output.ChartDir = chartDir
			}
			if flags.Changed("critical") {
				cfg.Analysis.CriticalSource = critical
			}
			if flags.Changed("alpha") {
				cfg.Analysis.Alpha = alpha
			}
			if flags.Changed("quiet") {
				cfg.Output.Quiet = quiet
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			return runPipeline(cmd.Context(), cfg, internal.NewDefaultLogger())
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "YAML configuration file")
	cmd.Flags().StringVar(&input, "input", "", "Input workbook (.xlsx) or CSV file")
	cmd.Flags().StringVar(&output, "output", "", "Results workbook path")
	cmd.Flags().StringVar(&markdown, "markdown", "", "Also write a Markdown report (and its HTML rendering)")
	cmd.Flags().BoolVar(&charts, "charts", false, "Render the null distribution of each sample as SVG")
	cmd.Flags().StringVar(&chartDir, "chart-dir", "", "Directory for SVG charts")
	cmd.Flags().StringVar(&critical, "critical", "", "Critical values: exact, published or legacy")
	cmd.Flags().Float64Var(&alpha, "alpha", 0.05, "Significance level")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Do not print the results table")

	return cmd
}

func runPipeline(ctx context.Context, cfg *config.Config, logger *internal.Logger) error {
	defer logger.Sync()

	pipeline, err := app.NewPipeline(cfg, os.Stdout, logger)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	if _, err := pipeline.Service.Run(ctx, pipeline.Request); err != nil {
		return errors.Wrap(err, "analysis run failed")
	}
	return nil
}

func newCriticalCmd() *cobra.Command {
	var (
		alpha float64
		tails int
		minN  int
		maxN  int
	)

	cmd := &cobra.Command{
		Use:   "critical",
		Short: "Print critical values derived from the exact null distribution",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := stats.ParseTails(tails)
			if err != nil {
				return err
			}
			table, err := signrank.NewExactCriticalTable(alpha, t, minN, maxN)
			if err != nil {
				return err
			}

			published := stats.PublishedCriticalTable()
			comparable := alpha == published.Alpha && t == published.Tails

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Critical values, alpha=%g, %d-tailed\n", alpha, t)

			headers := []string{"n", "critical", "attained alpha", "W max"}
			if comparable {
				headers = append(headers, "published")
			}
			w := tablewriter.NewWriter(out)
			w.SetHeader(headers)

			for n := minN; n <= maxN; n++ {
				row := []string{strconv.Itoa(n), "-", "-", strconv.Itoa(stats.MaxRankSum(n))}
				if c, ok := table.Lookup(n); ok {
					dist, err := signrank.NewDistribution(n)
					if err != nil {
						return err
					}
					row[1] = strconv.Itoa(c)
					row[2] = strconv.FormatFloat(float64(t)*dist.CDF(float64(c)), 'f', 4, 64)
				}
				if comparable {
					if c, ok := published.Lookup(n); ok {
						row = append(row, strconv.Itoa(c))
					} else {
						row = append(row, "-")
					}
				}
				w.Append(row)
			}
			w.Render()
			return nil
		},
	}

	cmd.Flags().Float64Var(&alpha, "alpha", 0.05, "Significance level")
	cmd.Flags().IntVar(&tails, "tails", 2, "1 or 2 tailed test")
	cmd.Flags().IntVar(&minN, "min", 5, "Smallest sample size")
	cmd.Flags().IntVar(&maxN, "max", 30, "Largest sample size")

	return cmd
}

func newDistributionCmd() *cobra.Command {
	var (
		svgPath string
		alpha   float64
		tails   int
	)

	cmd := &cobra.Command{
		Use:   "distribution <n>",
		Short: "Print the exact null distribution of the signed-rank statistic",
		Long: `Print P(T = w), P(T <= w) and P(T >= w) for every rank sum w at sample size n.

Example: signrank distribution 10 --svg dist10.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.InvalidInput(fmt.Sprintf("sample size must be an integer, got %q", args[0]))
			}
			dist, err := signrank.NewDistribution(n)
			if err != nil {
				return err
			}

			if svgPath != "" {
				t, err := stats.ParseTails(tails)
				if err != nil {
					return err
				}
				return writeDistributionSVG(svgPath, dist, alpha, t)
			}

			w := tablewriter.NewWriter(cmd.OutOrStdout())
			w.SetHeader([]string{"w", "count", "P(T = w)", "P(T <= w)", "P(T >= w)"})
			for sum := 0; sum <= dist.MaxSum(); sum++ {
				w.Append([]string{
					strconv.Itoa(sum),
					strconv.FormatFloat(dist.Count(sum), 'f', 0, 64),
					strconv.FormatFloat(dist.PMF(sum), 'g', 6, 64),
					strconv.FormatFloat(dist.CDF(float64(sum)), 'g', 6, 64),
					strconv.FormatFloat(dist.SF(float64(sum)), 'g', 6, 64),
				})
			}
			w.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&svgPath, "svg", "", "Write an SVG chart instead of the table")
	cmd.Flags().Float64Var(&alpha, "alpha", 0.05, "Significance level used to shade the chart")
	cmd.Flags().IntVar(&tails, "tails", 2, "1 or 2 tailed shading")

	return cmd
}

func writeDistributionSVG(path string, dist *signrank.Distribution, alpha float64, tails stats.Tails) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.IOError(path, err)
	}
	defer f.Close()

	renderer := plot.NewDistributionRenderer(plot.DefaultSVGConfig(), internal.NewDefaultLogger())
	if err := renderer.DrawDistribution(f, dist, alpha, tails); err != nil {
		return err
	}
	return f.Close()
}
