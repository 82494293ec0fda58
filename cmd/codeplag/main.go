package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/RishiKendai/codeplag/internal/configs/env"
	"github.com/RishiKendai/codeplag/internal/logger"
	"github.com/RishiKendai/codeplag/internal/normalize"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	_ = env.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout).RunContext(ctx, os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:    "codeplag",
		Usage:   "Detect plagiarism between Java source files",
		Version: version,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level: trace, debug, info, warn, error",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.Init(c.String("log-level"), "console")
			return nil
		},
		Commands: []*cli.Command{
			compareCmd(),
			normalizeCmd(),
		},
	}
}

func featuresFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:    "features",
		Aliases: []string{"F"},
		Value:   cli.NewStringSlice("all"),
		Usage:   "Normalization features to apply, in order",
		EnvVars: []string{"DEFAULT_FEATURES"},
	}
}

func parseFeatures(c *cli.Context) ([]normalize.Feature, error) {
	features, err := normalize.ParseFeatures(c.StringSlice("features"))
	if err != nil {
		return nil, usageError(err)
	}
	return features, nil
}

func usageError(err error) error {
	return fmt.Errorf("invalid settings: %w", err)
}

func requireFiles(c *cli.Context, n int) ([]string, error) {
	if c.Args().Len() < n {
		return nil, fmt.Errorf("%s needs at least %d Java files", c.Command.Name, n)
	}
	return c.Args().Slice(), nil
}
