package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/RishiKendai/codeplag/internal/elements"
	"github.com/RishiKendai/codeplag/internal/normalize"
	"github.com/RishiKendai/codeplag/internal/plagiarism"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
)

func compareCmd() *cli.Command {
	return &cli.Command{
		Name:      "compare",
		Aliases:   []string{"cmp"},
		Usage:     "Compare every pair of the given Java files",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "algorithm",
				Aliases: []string{"a"},
				Value:   "fingerprint",
				Usage:   "Comparison algorithm: fingerprint, sequence, tiling",
				EnvVars: []string{"DEFAULT_ALGORITHM"},
			},
			featuresFlag(),
			&cli.StringFlag{
				Name:    "threshold",
				Aliases: []string{"t"},
				Usage:   "Retain method pairs scoring above this (0-1 or percent); empty retains all",
				EnvVars: []string{"METHOD_THRESHOLD"},
			},
			&cli.BoolFlag{
				Name:    "prefilter",
				Usage:   "Skip file pairs that share no fingerprint",
				EnvVars: []string{"PREFILTER_CANDIDATES"},
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Comparison workers (0 uses one per CPU)",
				EnvVars: []string{"WORKER_COUNT"},
			},
			&cli.BoolFlag{
				Name:    "report",
				Aliases: []string{"r"},
				Usage:   "Print the method pair report of every file pair",
			},
		},
		Action: runCompare,
	}
}

func runCompare(c *cli.Context) error {
	alg, err := plagiarism.NewAlgorithm(c.String("algorithm"))
	if err != nil {
		return usageError(err)
	}
	features, err := parseFeatures(c)
	if err != nil {
		return err
	}
	threshold, err := plagiarism.ParseThreshold(c.String("threshold"))
	if err != nil {
		return usageError(err)
	}
	paths, err := requireFiles(c, 2)
	if err != nil {
		return err
	}

	out := c.App.Writer
	ctx := c.Context

	sources, readErrs := normalize.ReadSources(paths)
	for _, err := range readErrs {
		color.New(color.FgYellow).Fprintf(out, "Skipped: %v\n", err)
	}
	var files []*elements.JavaFile
	for i, o := range normalize.New(features, nil).NormalizeAll(ctx, sources) {
		if o.Err != nil {
			color.New(color.FgYellow).Fprintf(out, "Skipped %s: %v\n", sources[i].Path, o.Err)
			continue
		}
		files = append(files, o.File)
	}
	if len(files) < 2 {
		color.New(color.FgYellow).Fprintln(out, "Fewer than two readable files, nothing to compare")
		return nil
	}

	pool := plagiarism.NewWorkerPool(ctx, c.Int("workers"))
	defer pool.Close()

	result, err := plagiarism.RunBatch(ctx, pool, files, plagiarism.BatchOptions{
		Algorithm: alg,
		Threshold: threshold,
		Prefilter: c.Bool("prefilter"),
	})
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	color.New(color.FgCyan).Fprintf(out, "%s comparison of %d files, method threshold %s\n",
		alg.Name(), len(files), threshold)
	writePairTable(out, result.Comparisons)
	if result.Skipped > 0 {
		fmt.Fprintf(out, "%d pairs skipped by the prefilter\n", result.Skipped)
	}

	if c.Bool("report") {
		for _, cmp := range result.Comparisons {
			fmt.Fprintf(out, "\n%s\n%s", cmp.Name(), cmp.Report())
		}
	}

	fmt.Fprintln(out)
	writeSubmissionTable(out, plagiarism.Summarize(result.Comparisons))
	return nil
}

func writePairTable(w io.Writer, comparisons []*plagiarism.FileComparison) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"File A", "File B", "Score", "Risk", "Methods"})
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT,
	})
	for _, cmp := range comparisons {
		table.Append([]string{
			cmp.A.Path,
			cmp.B.Path,
			fmt.Sprintf("%d%%", cmp.Percent()),
			colorRisk(plagiarism.GetRiskLevel(cmp.Score)),
			fmt.Sprintf("%d/%d", len(cmp.Methods), cmp.Examined),
		})
	}
	table.Render()
}

func writeSubmissionTable(w io.Writer, summaries []plagiarism.SubmissionSummary) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"File", "Suspicion", "Risk", "Peers"})
	table.SetAutoWrapText(false)
	for _, s := range summaries {
		table.Append([]string{
			s.File,
			fmt.Sprintf("%.2f", s.Score),
			colorRisk(s.Risk),
			strings.Join(s.Peers, ", "),
		})
	}
	table.Render()
}

func colorRisk(risk plagiarism.Risk) string {
	switch risk {
	case plagiarism.RiskNearCopy, plagiarism.RiskHighlySuspicious:
		return color.RedString(string(risk))
	case plagiarism.RiskSuspicious:
		return color.YellowString(string(risk))
	default:
		return color.GreenString(string(risk))
	}
}
