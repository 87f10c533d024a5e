// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"github.com/memprefetch/benchtab/analysis"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
)

// HeatPalette is the brewer palette used by HeatMap.
const HeatPalette = "YlGnBu"

// matrixGrid adapts an analysis.Matrix to plotter.GridXYZ. Columns
// are allocation nodes and rows are run nodes, both at unit spacing.
type matrixGrid struct {
	m analysis.Matrix
}

func (g matrixGrid) Dims() (c, r int)   { return len(g.m.AllocOnNode), len(g.m.RunOnNode) }
func (g matrixGrid) Z(c, r int) float64 { return g.m.Latency[r][c] }
func (g matrixGrid) X(c int) float64    { return float64(c) }
func (g matrixGrid) Y(r int) float64    { return float64(r) }

// HeatMap plots m as a grid of run node (Y) by allocation node (X)
// with each cell annotated with its latency. Missing cells are left
// blank.
func HeatMap(m analysis.Matrix, opts Options) (*plot.Plot, error) {
	if opts.Title == "" {
		opts.Title = m.ID
	}
	if opts.XLabel == "" {
		opts.XLabel = "alloc_on_node"
	}
	if opts.YLabel == "" {
		opts.YLabel = "run_on_node"
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel
	if len(m.AllocOnNode) == 0 || len(m.RunOnNode) == 0 {
		return p, nil
	}

	pal, err := brewer.GetPalette(brewer.TypeSequential, HeatPalette, 9)
	if err != nil {
		return nil, err
	}
	min, max, ok := bounds(m.Latency)
	if !ok {
		return p, nil
	}
	hm := plotter.NewHeatMap(matrixGrid{m}, pal)
	hm.Min, hm.Max = min, max
	if min == max {
		hm.Max = min + 1
	}
	hm.NaN = color.Transparent
	p.Add(hm)

	var labels plotter.XYLabels
	for r := range m.RunOnNode {
		for c := range m.AllocOnNode {
			v := m.Latency[r][c]
			if math.IsNaN(v) {
				continue
			}
			labels.XYs = append(labels.XYs, plotter.XY{X: float64(c), Y: float64(r)})
			labels.Labels = append(labels.Labels, fmt.Sprintf("%.1f", v))
		}
	}
	l, err := plotter.NewLabels(labels)
	if err != nil {
		return nil, err
	}
	p.Add(l)

	p.X.Tick.Marker = nodeTicks(m.AllocOnNode)
	p.Y.Tick.Marker = nodeTicks(m.RunOnNode)
	return p, nil
}

// nodeTicks labels unit-spaced positions with node numbers.
func nodeTicks(nodes []int64) plot.ConstantTicks {
	ticks := make(plot.ConstantTicks, len(nodes))
	for i, n := range nodes {
		ticks[i] = plot.Tick{Value: float64(i), Label: strconv.FormatInt(n, 10)}
	}
	return ticks
}

func bounds(rows [][]float64) (min, max float64, ok bool) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, row := range rows {
		for _, v := range row {
			if math.IsNaN(v) {
				continue
			}
			min = math.Min(min, v)
			max = math.Max(max, v)
			ok = true
		}
	}
	return min, max, ok
}
