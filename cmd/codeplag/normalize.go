package main

import (
	"errors"
	"fmt"

	"github.com/RishiKendai/codeplag/internal/normalize"
	"github.com/RishiKendai/codeplag/internal/parser"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

func normalizeCmd() *cli.Command {
	return &cli.Command{
		Name:      "normalize",
		Aliases:   []string{"norm"},
		Usage:     "Write a normalized copy of each Java file",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			featuresFlag(),
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Value:   "normalized",
				Usage:   "Directory for the normalized copies",
				EnvVars: []string{"NORMALIZED_OUTPUT_DIR"},
			},
			&cli.BoolFlag{
				Name:  "check-syntax",
				Usage: "Report syntax errors found by the tree-sitter Java grammar",
			},
		},
		Action: runNormalize,
	}
}

func runNormalize(c *cli.Context) error {
	features, err := parseFeatures(c)
	if err != nil {
		return err
	}
	paths, err := requireFiles(c, 1)
	if err != nil {
		return err
	}

	out := c.App.Writer
	ctx := c.Context

	sink, err := normalize.NewDirSink(c.String("out"))
	if err != nil {
		return err
	}

	sources, readErrs := normalize.ReadSources(paths)
	for _, err := range readErrs {
		color.New(color.FgYellow).Fprintf(out, "Skipped: %v\n", err)
	}

	if c.Bool("check-syntax") {
		checker := parser.NewSyntaxChecker()
		defer checker.Close()
		for _, src := range sources {
			diags, err := checker.Check(ctx, src.Path, []byte(src.Content))
			if err != nil {
				return err
			}
			for _, d := range diags {
				color.New(color.FgYellow).Fprintf(out, "%v\n", d)
			}
		}
	}

	failed := 0
	for i, o := range normalize.New(features, sink).NormalizeAll(ctx, sources) {
		if o.Err != nil {
			failed++
			color.New(color.FgRed).Fprintf(out, "Failed %s: %v\n", sources[i].Path, o.Err)
			continue
		}
		fmt.Fprintf(out, "%s -> %s\n", sources[i].Path, sink.PathFor(sources[i].Path))
		if o.Issues != nil {
			var nerr *normalize.NormalizationError
			for _, issue := range unwrapAll(o.Issues) {
				if errors.As(issue, &nerr) {
					color.New(color.FgYellow).Fprintf(out, "  skipped element %d (%s): %v\n", nerr.ElementID, nerr.Feature, nerr.Err)
				}
			}
		}
	}
	if failed+len(readErrs) > 0 {
		return fmt.Errorf("%d of %d files were not normalized", failed+len(readErrs), len(paths))
	}
	return nil
}

func unwrapAll(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
