// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/memprefetch/benchtab/analysis"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

func save(t *testing.T, p *plot.Plot, name string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out", name)
	if err := Save(p, path, 6*vg.Inch, 4*vg.Inch); err != nil {
		t.Fatal(err)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Size() == 0 {
		t.Errorf("%s is empty", name)
	}
}

func TestCurves(t *testing.T) {
	set := analysis.CurveSet{ID: "amd", Curves: []analysis.Curve{
		{AllocOnNode: 0, RunOnNode: 0, HugePages: true, AccessRange: []int64{1024, 2048, 4096}, Latency: []float64{1, 1.5, 4}},
		{AllocOnNode: 1, RunOnNode: 0, HugePages: true, AccessRange: []int64{1024, 4096}, Latency: []float64{2, 9}},
	}}
	p, err := Curves(set, Options{YLabel: "latency (ns)"})
	if err != nil {
		t.Fatal(err)
	}
	if p.Title.Text != "amd" {
		t.Errorf("title = %q, want amd", p.Title.Text)
	}
	save(t, p, "amd.png")
}

func TestCurveLabel(t *testing.T) {
	got := CurveLabel(analysis.Curve{AllocOnNode: 1, RunOnNode: 0, HugePages: true})
	want := "alloc_on_node=1, run_on_node=0, madvise_huge_pages=true"
	if got != want {
		t.Errorf("CurveLabel = %q, want %q", got, want)
	}
}

func TestHeatMap(t *testing.T) {
	m := analysis.Matrix{
		ID:          "intel",
		RunOnNode:   []int64{0, 1},
		AllocOnNode: []int64{0, 1},
		Latency:     [][]float64{{80, 130}, {135, math.NaN()}},
	}
	p, err := HeatMap(m, Options{})
	if err != nil {
		t.Fatal(err)
	}
	save(t, p, "intel.svg")

	// A single cell has no range of values.
	m = analysis.Matrix{ID: "one", RunOnNode: []int64{0}, AllocOnNode: []int64{0}, Latency: [][]float64{{5}}}
	p, err = HeatMap(m, Options{})
	if err != nil {
		t.Fatal(err)
	}
	save(t, p, "one.png")
}

func TestPointPlot(t *testing.T) {
	sets := []analysis.PointSet{
		{ID: "amd", X: []float64{1, 2, 4}, Y: []float64{0.4, 0.25, 0.2}},
		{ID: "intel", X: []float64{1, 2}, Y: []float64{0.5, 0.3}},
	}
	p, err := PointPlot(sets, Options{Title: "LFB size benchmark (batched)", XLabel: "batch size", YLabel: "runtime (s)"})
	if err != nil {
		t.Fatal(err)
	}
	save(t, p, "batched.png")
}

func TestScatter(t *testing.T) {
	s := analysis.PointSet{
		ID: "pc",
		X:  []float64{0, 1024, 65536, 1 << 20, 1 << 26},
		Y:  []float64{1, 1.2, 4, 12, 90},
	}.Clamp(0.1)
	p, err := Scatter(s, CacheLevels, Options{XLabel: "size", YLabel: "single latency"})
	if err != nil {
		t.Fatal(err)
	}
	save(t, p, "pc.svg")
}

func TestOptionsXYs(t *testing.T) {
	o := Options{LogX: true}
	pts := o.xys([]float64{0, 1, math.NaN(), 4}, []float64{1, -1, 2, 3})
	if len(pts) != 2 || pts[0].X != 1 || pts[1].X != 4 {
		t.Errorf("xys = %v, want points at x=1 and x=4", pts)
	}
}
