package main

import (
	"fmt"
	"log/slog"
	"os"

	"colorvision/detect"
	"colorvision/lookup"
	"colorvision/palette"
	"colorvision/parallel"

	"github.com/alecthomas/kong"
)

type CLI struct {
	LogLevel string `help:"Log level" enum:"debug,info,warn,error" default:"info"`
	Workers  int    `help:"Number of workers, 0 for one per CPU" default:"0"`
	Pal      string `name:"palette" help:"Palette name (css, basic) or palette file (.yaml, .yml, or RIFF .pal)" default:"css"`
	Metric   string `help:"Colour distance used to pick the nearest palette entry" enum:"rgb,oklab" default:"rgb"`

	Detect  detect.CLICmd     `cmd:"" help:"Detect and name the colour at the centre of NV21 frames or images"`
	Name    lookup.NameCmd    `cmd:"" help:"Name a colour"`
	Palette lookup.PaletteCmd `cmd:"" help:"List or export the loaded palette"`
}

func (c *CLI) AfterApply() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("colorvision"),
		kong.Description("Names the colour seen in camera frames."),
		kong.UsageOnError(),
	)

	metric, err := palette.ParseMetric(cli.Metric)
	kctx.FatalIfErrorf(err)

	resolver := palette.NewResolver(palette.WithMetric(metric))
	if err := resolver.Init(palette.Named(cli.Pal)); err != nil {
		slog.Error("could not load palette", "palette", cli.Pal, "error", err)
		os.Exit(1)
	}

	pool := parallel.Start(cli.Workers)
	defer pool.Wait(true)

	slog.Debug("running", "command", kctx.Command(), "workers", pool.Workers)
	if err := kctx.Run(pool, resolver); err != nil {
		slog.Error("command failed", "command", kctx.Command(), "error", err)
		os.Exit(1)
	}
}
