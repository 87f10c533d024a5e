// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chart renders the views computed by package analysis with
// gonum.org/v1/plot.
package chart

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/memprefetch/benchtab/analysis"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Options sets the labels and axis scales of a plot.
type Options struct {
	Title          string
	XLabel, YLabel string

	// LogX and LogY select logarithmic axes. Points that cannot
	// be placed on a logarithmic axis are dropped.
	LogX, LogY bool
}

func (o Options) apply(p *plot.Plot) {
	p.Title.Text = o.Title
	p.X.Label.Text = o.XLabel
	p.Y.Label.Text = o.YLabel
	if o.LogX {
		p.X.Scale = plot.LogScale{}
		p.X.Tick.Marker = plot.LogTicks{}
	}
	if o.LogY {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{}
	}
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
}

// xys pairs xs and ys, dropping points that opts cannot draw.
func (o Options) xys(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, 0, len(xs))
	for i := range xs {
		x, y := xs[i], ys[i]
		if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
			continue
		}
		if o.LogX && x <= 0 || o.LogY && y <= 0 {
			continue
		}
		pts = append(pts, plotter.XY{X: x, Y: y})
	}
	return pts
}

// Curves plots each latency curve of set as a line with points on a
// logarithmic access range axis. If opts.Title is empty, it is the id.
func Curves(set analysis.CurveSet, opts Options) (*plot.Plot, error) {
	if opts.Title == "" {
		opts.Title = set.ID
	}
	if opts.XLabel == "" {
		opts.XLabel = "access range (bytes)"
	}
	if opts.YLabel == "" {
		opts.YLabel = "latency"
	}
	opts.LogX = true

	p := plot.New()
	opts.apply(p)
	for i, c := range set.Curves {
		xs := make([]float64, len(c.AccessRange))
		for j, ar := range c.AccessRange {
			xs[j] = float64(ar)
		}
		pts := opts.xys(xs, c.Latency)
		if len(pts) == 0 {
			continue
		}
		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", set.ID, err)
		}
		line.Color = plotutil.Color(i)
		points.Color = plotutil.Color(i)
		points.Shape = plotutil.Shape(i)
		p.Add(line, points)
		p.Legend.Add(CurveLabel(c), line, points)
	}
	return p, nil
}

// CurveLabel is the legend entry for c.
func CurveLabel(c analysis.Curve) string {
	return fmt.Sprintf("alloc_on_node=%d, run_on_node=%d, madvise_huge_pages=%t", c.AllocOnNode, c.RunOnNode, c.HugePages)
}

// PointPlot plots each point set as a line through its points, one
// color per id.
func PointPlot(sets []analysis.PointSet, opts Options) (*plot.Plot, error) {
	p := plot.New()
	opts.apply(p)
	for i, s := range sets {
		pts := opts.xys(s.X, s.Y)
		if len(pts) == 0 {
			continue
		}
		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.ID, err)
		}
		line.Color = plotutil.Color(i)
		points.Color = plotutil.Color(i)
		points.Shape = plotutil.Shape(i)
		p.Add(line, points)
		p.Legend.Add(s.ID, line, points)
	}
	return p, nil
}

// A Marker is a labeled vertical line.
type Marker struct {
	X     float64
	Label string
}

// CacheLevels marks typical cache capacities in bytes.
var CacheLevels = []Marker{
	{32000, "L1d"},
	{512000, "L2"},
	{16000000, "L3"},
}

// Scatter plots s on logarithmic axes with a dashed vertical line
// for each marker. If opts.Title is empty, it is the id.
func Scatter(s analysis.PointSet, markers []Marker, opts Options) (*plot.Plot, error) {
	if opts.Title == "" {
		opts.Title = s.ID
	}
	opts.LogX, opts.LogY = true, true

	p := plot.New()
	opts.apply(p)
	pts := opts.xys(s.X, s.Y)
	if len(pts) == 0 {
		return p, nil
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.ID, err)
	}
	sc.Shape = plotutil.Shape(4)
	sc.Color = plotutil.Color(1)
	p.Add(sc)

	ymin, ymax := math.Inf(1), math.Inf(-1)
	for _, pt := range pts {
		ymin = math.Min(ymin, pt.Y)
		ymax = math.Max(ymax, pt.Y)
	}
	red := color.RGBA{R: 0xff, A: 0xff}
	for _, m := range markers {
		if m.X <= 0 {
			continue
		}
		line, err := plotter.NewLine(plotter.XYs{{X: m.X, Y: ymin}, {X: m.X, Y: ymax}})
		if err != nil {
			return nil, err
		}
		line.Color = red
		line.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		labels, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    plotter.XYs{{X: m.X * 1.2, Y: ymin}},
			Labels: []string{m.Label},
		})
		if err != nil {
			return nil, err
		}
		for i := range labels.TextStyle {
			labels.TextStyle[i].Color = red
		}
		p.Add(line, labels)
	}
	return p, nil
}

// Save writes p to path in the format named by its extension (png,
// svg, pdf, and others supported by plot.Plot.Save), creating parent
// directories as needed.
func Save(p *plot.Plot, path string, w, h vg.Length) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0777); err != nil {
			return err
		}
	}
	return p.Save(w, h, path)
}
