// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"math"
	"sort"

	"github.com/aclements/go-gg/table"
	"github.com/memprefetch/benchtab"
)

// Column names produced by the memory latency and line fill buffer
// benchmarks.
const (
	ColID                = benchtab.IDKey
	ColRuntime           = "runtime"
	ColLatencySingle     = "latency_single"
	ColBatchSize         = "config.batch_size"
	ColPrefetchDistance  = "config.prefetch_distance"
	ColNumParallelPC     = "config.num_parallel_pc"
	ColAccessedLines     = "config.accessed_cache_lines"
	ColAccessRange       = "config.access_range"
	ColAllocOnNode       = "config.alloc_on_node"
	ColRunOnNode         = "config.run_on_node"
	ColMadviseHugePages  = "config.madvise_huge_pages"
	defaultLatencyScale  = 1e9
	defaultLatencyColumn = ColLatencySingle
)

// LatencyOptions configures LatencyCurves and LatencyMatrix.
type LatencyOptions struct {
	// Column is the latency column. If empty, it is
	// "latency_single".
	Column string

	// Scale multiplies every latency value. If zero, it is 1e9,
	// converting seconds to nanoseconds.
	Scale float64

	// AllPages makes LatencyMatrix use every row. By default it
	// uses only rows with madvise huge pages enabled.
	AllPages bool
}

func (o LatencyOptions) column() string {
	if o.Column == "" {
		return defaultLatencyColumn
	}
	return o.Column
}

func (o LatencyOptions) scale() float64 {
	if o.Scale == 0 {
		return defaultLatencyScale
	}
	return o.Scale
}

// latencyTable converts the columns used by the latency views.
func latencyTable(t *benchtab.Table, opts LatencyOptions) (*table.Table, error) {
	lat := opts.column()
	g, err := Typed(t, map[string]Kind{
		ColID:               String,
		ColAccessRange:      Int,
		ColAllocOnNode:      Int,
		ColRunOnNode:        Int,
		ColMadviseHugePages: Bool,
		lat:                 Float,
	})
	if err != nil {
		return nil, err
	}
	scale := opts.scale()
	scaled := make([]float64, g.Len())
	for i, x := range g.MustColumn(lat).([]float64) {
		scaled[i] = x * scale
	}
	return table.NewBuilder(g).Add(lat, scaled).Done(), nil
}

// A Curve is the latency of one NUMA placement as a function of the
// access range, sorted by access range.
type Curve struct {
	AllocOnNode int64
	RunOnNode   int64
	HugePages   bool
	AccessRange []int64
	Latency     []float64
}

// A CurveSet is every Curve measured on one machine.
type CurveSet struct {
	ID     string
	Curves []Curve
}

// LatencyCurves groups latency measurements by id and then by
// (alloc_on_node, run_on_node, madvise_huge_pages). Curve sets appear
// in the order their id first appears in t; curves within a set are
// ordered by allocation node, run node, then huge pages.
func LatencyCurves(t *benchtab.Table, opts LatencyOptions) ([]CurveSet, error) {
	g, err := latencyTable(t, opts)
	if err != nil {
		return nil, err
	}
	lat := opts.column()

	var sets []CurveSet
	byID := table.GroupBy(g, ColID)
	for _, gid := range byID.Tables() {
		set := CurveSet{ID: gid.Label().(string)}
		groups := table.GroupBy(byID.Table(gid), ColAllocOnNode, ColRunOnNode, ColMadviseHugePages)
		groups = table.SortBy(groups, ColAccessRange)
		for _, sub := range groups.Tables() {
			st := groups.Table(sub)
			set.Curves = append(set.Curves, Curve{
				AllocOnNode: st.MustColumn(ColAllocOnNode).([]int64)[0],
				RunOnNode:   st.MustColumn(ColRunOnNode).([]int64)[0],
				HugePages:   st.MustColumn(ColMadviseHugePages).([]bool)[0],
				AccessRange: st.MustColumn(ColAccessRange).([]int64),
				Latency:     st.MustColumn(lat).([]float64),
			})
		}
		sort.SliceStable(set.Curves, func(i, j int) bool {
			a, b := set.Curves[i], set.Curves[j]
			if a.AllocOnNode != b.AllocOnNode {
				return a.AllocOnNode < b.AllocOnNode
			}
			if a.RunOnNode != b.RunOnNode {
				return a.RunOnNode < b.RunOnNode
			}
			return !a.HugePages && b.HugePages
		})
		sets = append(sets, set)
	}
	return sets, nil
}

// A Matrix is the latency at the largest access range for every pair
// of run node (rows) and allocation node (columns) on one machine.
// Cells with no measurement are NaN.
type Matrix struct {
	ID          string
	RunOnNode   []int64
	AllocOnNode []int64
	Latency     [][]float64
}

// LatencyMatrix builds one Matrix per id. For each (id, alloc_on_node,
// run_on_node) group it takes the row with the largest access range;
// on ties the row read last wins.
func LatencyMatrix(t *benchtab.Table, opts LatencyOptions) ([]Matrix, error) {
	g0, err := latencyTable(t, opts)
	if err != nil {
		return nil, err
	}
	lat := opts.column()

	var g table.Grouping = g0
	if !opts.AllPages {
		g = table.FilterEq(g, ColMadviseHugePages, true)
	}
	g = table.SortBy(g, ColAccessRange)
	g = table.GroupBy(g, ColID, ColAllocOnNode, ColRunOnNode)
	g = table.Tail(g, 1)

	type cell struct {
		alloc, run int64
		latency    float64
	}
	var ids []string
	cells := make(map[string][]cell)
	for _, gid := range g.Tables() {
		st := g.Table(gid)
		id := st.MustColumn(ColID).([]string)[0]
		if _, ok := cells[id]; !ok {
			ids = append(ids, id)
		}
		cells[id] = append(cells[id], cell{
			alloc:   st.MustColumn(ColAllocOnNode).([]int64)[0],
			run:     st.MustColumn(ColRunOnNode).([]int64)[0],
			latency: st.MustColumn(lat).([]float64)[0],
		})
	}

	var out []Matrix
	for _, id := range ids {
		m := Matrix{ID: id}
		var allocs, runs []int64
		for _, c := range cells[id] {
			allocs = append(allocs, c.alloc)
			runs = append(runs, c.run)
		}
		m.AllocOnNode = uniqueSorted(allocs)
		m.RunOnNode = uniqueSorted(runs)
		m.Latency = make([][]float64, len(m.RunOnNode))
		for i := range m.Latency {
			m.Latency[i] = make([]float64, len(m.AllocOnNode))
			for j := range m.Latency[i] {
				m.Latency[i][j] = math.NaN()
			}
		}
		for _, c := range cells[id] {
			m.Latency[indexOf(m.RunOnNode, c.run)][indexOf(m.AllocOnNode, c.alloc)] = c.latency
		}
		out = append(out, m)
	}
	return out, nil
}

func uniqueSorted(xs []int64) []int64 {
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	out := xs[:0]
	for i, x := range xs {
		if i == 0 || x != xs[i-1] {
			out = append(out, x)
		}
	}
	return out
}

func indexOf(xs []int64, x int64) int {
	return sort.Search(len(xs), func(i int) bool { return xs[i] >= x })
}
