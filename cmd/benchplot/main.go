// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Benchplot draws charts from a directory of JSON benchmark results.
//
// Usage:
//
//	benchplot [flags] root
//
// Root is read the same way benchtab reads it (see -layout and
// -union). The -kind flag selects the chart:
//
//	curves   latency as a function of access range, one line per
//	         (alloc_on_node, run_on_node, madvise_huge_pages), one
//	         chart per id
//	heatmap  latency at the largest access range by run node and
//	         allocation node, one chart per id
//	points   column -y as a function of column -x, one line per id,
//	         in a single chart
//	scatter  column -y against column -x on logarithmic axes with
//	         cache capacity markers, one chart per id
//
// Charts are written to the -o directory as <id>-<kind>.<format>, or
// <kind>.<format> for points. Benchplot prints the name of each file
// it writes.
//
// Latency values are multiplied by -scale, which defaults to 1e9
// (seconds to nanoseconds) for curves and heatmap and to 1 for the
// other kinds.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/memprefetch/benchtab"
	"github.com/memprefetch/benchtab/benchjson"
	"github.com/memprefetch/benchtab/chart"
	"gonum.org/v1/plot/vg"
)

func usage(w io.Writer, flags *flag.FlagSet) func() {
	return func() {
		fmt.Fprintf(w, "usage: benchplot [flags] root\n")
		fmt.Fprintf(w, "flags:\n")
		flags.PrintDefaults()
	}
}

func main() {
	log.SetPrefix("benchplot: ")
	log.SetFlags(0)
	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

func run(w, wErr io.Writer, args []string) error {
	flags := flag.NewFlagSet("benchplot", flag.ContinueOnError)
	flags.SetOutput(wErr)
	flags.Usage = usage(wErr, flags)
	var (
		flagLayout   = flags.String("layout", "flat", "directory `layout` of root: flat or hier")
		flagUnion    = flags.Bool("union", false, "allow records to add keys")
		flagKind     = flags.String("kind", "curves", "chart `kind`: curves, heatmap, points, or scatter")
		flagX        = flags.String("x", "", "x `column` for points and scatter (default config.batch_size or config.access_range)")
		flagY        = flags.String("y", "", "y `column` (default runtime for points, latency_single otherwise)")
		flagScale    = flags.Float64("scale", 0, "multiply y values by `factor` (default 1e9 for curves and heatmap, else 1)")
		flagAllPages = flags.Bool("allpages", false, "heatmap: use rows without madvise huge pages too")
		flagClamp    = flags.Float64("clamp", 0, "raise y values below `min` to min")
		flagOut      = flags.String("o", ".", "write charts to `dir`")
		flagFormat   = flags.String("format", "png", "image `format`: png, svg, or pdf")
		flagV        = flags.Bool("v", false, "log each file as it is read")
	)
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return flag.ErrHelp
	}
	layout, err := benchjson.ParseLayout(*flagLayout)
	if err != nil {
		return err
	}
	switch *flagFormat {
	case "png", "svg", "pdf":
	default:
		return fmt.Errorf("unknown format %q", *flagFormat)
	}
	sel := chart.Selection{
		Kind:     *flagKind,
		X:        *flagX,
		Y:        *flagY,
		Scale:    *flagScale,
		AllPages: *flagAllPages,
		Clamp:    *flagClamp,
	}

	root := flags.Arg(0)
	opts := benchtab.Options{Layout: layout, Union: *flagUnion}
	if *flagV {
		opts.Logf = log.New(wErr, "benchplot: ", 0).Printf
	}
	tab, err := benchtab.LoadDir(root, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", root, err)
	}

	plots, err := chart.Build(tab, sel)
	if err != nil {
		return err
	}
	for _, np := range plots {
		path := filepath.Join(*flagOut, np.Name+"."+*flagFormat)
		if err := chart.Save(np.Plot, path, 8*vg.Inch, 5*vg.Inch); err != nil {
			return err
		}
		fmt.Fprintln(w, path)
	}
	return nil
}
