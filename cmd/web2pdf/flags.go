package main

import (
	"fmt"

	flag "github.com/spf13/pflag"
)

// marginSentinel detects whether a per-side margin flag was explicitly set.
// Since 0 is a valid margin, we use a negative sentinel; margins themselves
// must be non-negative.
const marginSentinel = -1.0

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size         string
	landscape    bool
	margin       float64
	marginTop    float64
	marginLeft   float64
	marginBottom float64
	marginRight  float64
}

// renderFlags holds load and export behavior flags.
type renderFlags struct {
	timeout      string
	strategy     string
	signal       string
	baseRoot     string
	noBackground bool
	scale        float64
}

// cliFlags holds all flags for the render command.
type cliFlags struct {
	common     commonFlags
	output     string
	workers    int
	page       pageFlags
	render     renderFlags
	dumpConfig bool
	version    bool
}

// parseFlags parses command-line flags and returns them alongside the
// positional source arguments.
func parseFlags(args []string) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("web2pdf", flag.ContinueOnError)
	f := &cliFlags{}

	fs.StringVarP(&f.common.config, "config", "c", "", "config name or path (YAML)")
	fs.BoolVarP(&f.common.quiet, "quiet", "q", false, "suppress progress output")
	fs.BoolVarP(&f.common.verbose, "verbose", "v", false, "verbose output")

	fs.StringVarP(&f.output, "output", "o", "", "output file (single source) or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel renders (0 = auto)")

	fs.StringVar(&f.page.size, "size", "", "paper size: letter, legal, tabloid, a3, a4, a5")
	fs.BoolVar(&f.page.landscape, "landscape", false, "landscape orientation")
	fs.Float64Var(&f.page.margin, "margin", marginSentinel, "uniform margin in points")
	fs.Float64Var(&f.page.marginTop, "margin-top", marginSentinel, "top margin in points")
	fs.Float64Var(&f.page.marginLeft, "margin-left", marginSentinel, "left margin in points")
	fs.Float64Var(&f.page.marginBottom, "margin-bottom", marginSentinel, "bottom margin in points")
	fs.Float64Var(&f.page.marginRight, "margin-right", marginSentinel, "right margin in points")

	fs.StringVarP(&f.render.timeout, "timeout", "t", "", "per-render timeout (Go duration)")
	fs.StringVar(&f.render.strategy, "strategy", "", "load detection: polling or signal")
	fs.StringVar(&f.render.signal, "ready-signal", "", "binding name for the signal strategy")
	fs.StringVar(&f.render.baseRoot, "base-root", "", "base access root for local-file sources")
	fs.BoolVar(&f.render.noBackground, "no-background", false, "skip background graphics")
	fs.Float64Var(&f.render.scale, "scale", 0, "print scale factor (0 = default)")

	fs.BoolVar(&f.dumpConfig, "dump-config", false, "print the effective config as YAML and exit")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: web2pdf [flags] <url-or-file> [more sources...]\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args[1:]); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
