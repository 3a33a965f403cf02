// Package cli wires the urlvisits pipeline into an urfave/cli/v2
// application with three subcommands: parse, heatmap, and watch. Grounded
// on cli/cli.go's shared-flag-variable style and config-vs-flags mode
// split, trimmed to this pipeline's much smaller flag surface.
package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	urfavecli "github.com/urfave/cli/v2"

	"github.com/stitcherio/urlvisits/catalog"
	"github.com/stitcherio/urlvisits/config"
	"github.com/stitcherio/urlvisits/emitter"
	"github.com/stitcherio/urlvisits/tui"
	"github.com/stitcherio/urlvisits/visitparse"
)

var (
	catalogFlag = &urfavecli.StringFlag{
		Name:     "catalog",
		Usage:    "Path to a known-paths file (one URI per line), or host:port to receive one over lumberjack",
		Required: true,
	}
	configFlag = &urfavecli.StringFlag{
		Name:  "config",
		Usage: "Path to a TOML configuration file layered under environment variables",
	}
	lumberFlag = &urfavecli.BoolFlag{
		Name:  "catalog-lumberjack",
		Usage: "Treat --catalog as a host:port to receive path entries over lumberjack instead of a file",
	}
)

// App returns the configured command-line application.
func App() *urfavecli.App {
	return &urfavecli.App{
		Name:  "urlvisits",
		Usage: "Aggregate per-path, per-day visit counts from a URL visit log",
		Commands: []*urfavecli.Command{
			{
				Name:      "parse",
				Usage:     "Parse a visit log and write the aggregated JSON",
				ArgsUsage: "<input> <output>",
				Flags:     []urfavecli.Flag{catalogFlag, configFlag, lumberFlag},
				Action:    runParse,
			},
			{
				Name:      "heatmap",
				Usage:     "Parse a visit log and render a path x day heatmap",
				ArgsUsage: "<input> <output.html>",
				Flags:     []urfavecli.Flag{catalogFlag, configFlag, lumberFlag},
				Action:    runHeatmap,
			},
			{
				Name:      "watch",
				Usage:     "Parse a visit log and browse the result in a terminal UI",
				ArgsUsage: "<input>",
				Flags:     []urfavecli.Flag{catalogFlag, configFlag, lumberFlag},
				Action:    runWatch,
			},
		},
	}
}

func loadCatalog(c *urfavecli.Context) (*catalog.Catalog, error) {
	path := c.String("catalog")
	if c.Bool("catalog-lumberjack") {
		return catalog.LoadFromLumberjack(path, 5*time.Second)
	}
	return catalog.LoadFromFile(path)
}

func loadOptions(c *urfavecli.Context) (config.Options, error) {
	opts, err := config.Load(c.String("config"))
	if err != nil {
		return opts, fmt.Errorf("loading config: %w", err)
	}
	return opts, nil
}

func runParse(c *urfavecli.Context) error {
	if c.Args().Len() < 2 {
		return fmt.Errorf("parse requires <input> and <output> arguments")
	}
	input, output := c.Args().Get(0), c.Args().Get(1)

	cat, err := loadCatalog(c)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	opts, err := loadOptions(c)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := visitparse.Parse(input, output, cat, opts); err != nil {
		if isOutputUnavailable(err) {
			fmt.Fprintf(os.Stderr, "urlvisits: output unavailable: %v\n", err)
			return nil
		}
		return err
	}
	elapsed := time.Since(start)
	fmt.Fprintf(os.Stderr, "parsed in %s\n", elapsed)
	return nil
}

func runHeatmap(c *urfavecli.Context) error {
	if c.Args().Len() < 2 {
		return fmt.Errorf("heatmap requires <input> and <output.html> arguments")
	}
	input, output := c.Args().Get(0), c.Args().Get(1)

	cat, err := loadCatalog(c)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	opts, err := loadOptions(c)
	if err != nil {
		return err
	}

	agg, err := visitparse.Aggregate(input, cat, opts)
	if err != nil {
		return fmt.Errorf("parsing: %w", err)
	}
	if err := emitter.PlotHeatmap(agg, cat, output); err != nil {
		return fmt.Errorf("rendering heatmap: %w", err)
	}
	fmt.Fprintf(os.Stderr, "heatmap saved to %s\n", output)
	return nil
}

func runWatch(c *urfavecli.Context) error {
	if c.Args().Len() < 1 {
		return fmt.Errorf("watch requires an <input> argument")
	}
	input := c.Args().Get(0)

	cat, err := loadCatalog(c)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	opts, err := loadOptions(c)
	if err != nil {
		return err
	}

	return tui.Run(input, cat, opts)
}

func isOutputUnavailable(err error) bool {
	return err != nil && strings.Contains(err.Error(), "output unavailable")
}
