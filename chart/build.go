// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"fmt"

	"github.com/memprefetch/benchtab"
	"github.com/memprefetch/benchtab/analysis"
	"gonum.org/v1/plot"
)

// Kinds lists the chart kinds Build accepts.
var Kinds = []string{"curves", "heatmap", "points", "scatter"}

// A Selection selects the charts Build draws.
type Selection struct {
	// Kind is one of Kinds:
	//
	//	curves   latency by access range, one chart per id
	//	heatmap  latency by run and allocation node, one chart per id
	//	points   Y as a function of X, one line per id in one chart
	//	scatter  Y against X with cache level markers, one chart per id
	Kind string

	// X and Y name the columns of points and scatter charts. Y
	// is also the latency column of curves and heatmap charts.
	// Empty values select defaults that depend on Kind.
	X, Y string

	// Scale multiplies every Y value. Zero means 1e9 for curves
	// and heatmap and 1 otherwise.
	Scale float64

	// AllPages is LatencyOptions.AllPages for heatmap charts.
	AllPages bool

	// Clamp, if non-zero, raises Y values below it to Clamp.
	Clamp float64
}

// A Named is a chart and the base name of the file it belongs in:
// "<id>-<kind>", or "points" for a points chart.
type Named struct {
	Name string
	Plot *plot.Plot
}

// Build draws the charts s selects from tab.
func Build(tab *benchtab.Table, s Selection) ([]Named, error) {
	lopts := analysis.LatencyOptions{Column: s.Y, Scale: s.Scale, AllPages: s.AllPages}
	var out []Named
	switch s.Kind {
	case "curves":
		sets, err := analysis.LatencyCurves(tab, lopts)
		if err != nil {
			return nil, err
		}
		for _, set := range sets {
			if s.Clamp != 0 {
				for i := range set.Curves {
					set.Curves[i].Latency = clamp(set.Curves[i].Latency, s.Clamp)
				}
			}
			p, err := Curves(set, Options{YLabel: latencyLabel(lopts)})
			if err != nil {
				return nil, err
			}
			out = append(out, Named{set.ID + "-curves", p})
		}

	case "heatmap":
		ms, err := analysis.LatencyMatrix(tab, lopts)
		if err != nil {
			return nil, err
		}
		for _, m := range ms {
			p, err := HeatMap(m, Options{})
			if err != nil {
				return nil, err
			}
			out = append(out, Named{m.ID + "-heatmap", p})
		}

	case "points":
		x, y := orDefault(s.X, analysis.ColBatchSize), orDefault(s.Y, analysis.ColRuntime)
		sets, err := s.points(tab, x, y)
		if err != nil {
			return nil, err
		}
		p, err := PointPlot(sets, Options{Title: y, XLabel: x, YLabel: y})
		if err != nil {
			return nil, err
		}
		out = append(out, Named{"points", p})

	case "scatter":
		x, y := orDefault(s.X, analysis.ColAccessRange), orDefault(s.Y, analysis.ColLatencySingle)
		sets, err := s.points(tab, x, y)
		if err != nil {
			return nil, err
		}
		for _, set := range sets {
			p, err := Scatter(set, CacheLevels, Options{XLabel: x, YLabel: y})
			if err != nil {
				return nil, err
			}
			out = append(out, Named{set.ID + "-scatter", p})
		}

	default:
		return nil, fmt.Errorf("unknown chart kind %q", s.Kind)
	}
	return out, nil
}

// points returns the point sets of y against x, scaled and clamped.
func (s Selection) points(tab *benchtab.Table, x, y string) ([]analysis.PointSet, error) {
	sets, err := analysis.Points(tab, x, y)
	if err != nil {
		return nil, err
	}
	for i, set := range sets {
		if s.Scale != 0 {
			ys := make([]float64, len(set.Y))
			for j, v := range set.Y {
				ys[j] = v * s.Scale
			}
			set.Y = ys
		}
		if s.Clamp != 0 {
			set = set.Clamp(s.Clamp)
		}
		sets[i] = set
	}
	return sets, nil
}

func clamp(xs []float64, min float64) []float64 {
	return analysis.PointSet{Y: xs}.Clamp(min).Y
}

func latencyLabel(o analysis.LatencyOptions) string {
	col := orDefault(o.Column, analysis.ColLatencySingle)
	if o.Scale == 0 || o.Scale == 1e9 {
		return col + " (ns)"
	}
	return col
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
