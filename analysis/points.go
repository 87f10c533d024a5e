// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"github.com/aclements/go-gg/table"
	"github.com/memprefetch/benchtab"
)

// A PointSet is the (X, Y) pairs measured on one machine, sorted by X.
type PointSet struct {
	ID   string
	X, Y []float64
}

// Points returns column y as a function of column x for each id, in
// the order ids first appear in t. Rows with equal x keep their table
// order.
func Points(t *benchtab.Table, x, y string) ([]PointSet, error) {
	casts := map[string]Kind{ColID: String, x: Float}
	if y != x {
		casts[y] = Float
	}
	g0, err := Typed(t, casts)
	if err != nil {
		return nil, err
	}

	g := table.GroupBy(g0, ColID)
	g = table.SortBy(g, x)
	var out []PointSet
	for _, gid := range g.Tables() {
		st := g.Table(gid)
		out = append(out, PointSet{
			ID: gid.Label().(string),
			X:  st.MustColumn(x).([]float64),
			Y:  st.MustColumn(y).([]float64),
		})
	}
	return out, nil
}

// Clamp raises every Y value below min to min. The comparison view
// uses it to keep sub-resolution latencies visible on a log axis.
func (s PointSet) Clamp(min float64) PointSet {
	ys := make([]float64, len(s.Y))
	for i, y := range s.Y {
		if y < min {
			y = min
		}
		ys[i] = y
	}
	s.Y = ys
	return s
}
