// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"
	"github.com/memprefetch/benchtab"
)

// A Summary describes a sample of measurements.
type Summary struct {
	// Group holds the values of the grouping columns, in the order
	// they were requested.
	Group []string

	N                int
	Min, Median, Max float64
	Mean, StdDev     float64
}

// Summarize computes summary statistics of values. If values is
// empty, every statistic is NaN.
func Summarize(values []float64) Summary {
	s := Summary{N: len(values)}
	if len(values) == 0 {
		nan := math.NaN()
		s.Min, s.Median, s.Max, s.Mean, s.StdDev = nan, nan, nan, nan, nan
		return s
	}
	xs := append([]float64(nil), values...)
	sort.Float64s(xs)
	sample := stats.Sample{Xs: xs, Sorted: true}
	s.Min, s.Max = sample.Bounds()
	s.Median = sample.Quantile(0.5)
	s.Mean = sample.Mean()
	if len(xs) > 1 {
		s.StdDev = sample.StdDev()
	}
	return s
}

// SummarizeColumn summarizes column col of t for each distinct
// combination of the by columns, in the order combinations first
// appear. A scalar value is one sample; an array value contributes
// each of its elements; null contributes nothing. Combinations with
// no samples are omitted. col may not also be a by column.
func SummarizeColumn(t *benchtab.Table, col string, by ...string) ([]Summary, error) {
	for _, name := range by {
		if name == col {
			return nil, fmt.Errorf("cannot group column %s by itself", col)
		}
	}
	g0, err := samples(t, col, by)
	if err != nil {
		return nil, err
	}
	if g0.Len() == 0 {
		return nil, nil
	}
	g := table.GroupBy(g0, by...)
	var out []Summary
	for _, gid := range g.Tables() {
		st := g.Table(gid)
		s := Summarize(st.MustColumn(col).([]float64))
		for _, name := range by {
			s.Group = append(s.Group, st.MustColumn(name).([]string)[0])
		}
		out = append(out, s)
	}
	return out, nil
}

// samples returns a table with one row per sample of col, labeled
// with the string form of each by column.
func samples(t *benchtab.Table, col string, by []string) (*table.Table, error) {
	values := t.Column(col)
	if values == nil {
		return nil, &MissingColumnError{col}
	}
	labels := make([][]interface{}, len(by))
	for i, name := range by {
		if labels[i] = t.Column(name); labels[i] == nil {
			return nil, &MissingColumnError{name}
		}
	}

	var xs []float64
	keys := make([][]string, len(by))
	add := func(row int, v interface{}) error {
		x, err := AsFloat(v)
		if err != nil {
			return &CastError{col, row, v, Float}
		}
		xs = append(xs, x)
		for i := range by {
			keys[i] = append(keys[i], AsString(labels[i][row]))
		}
		return nil
	}
	for row, v := range values {
		switch v := v.(type) {
		case nil:
		case []interface{}:
			for _, elem := range v {
				if elem == nil {
					continue
				}
				if err := add(row, elem); err != nil {
					return nil, err
				}
			}
		default:
			if err := add(row, v); err != nil {
				return nil, err
			}
		}
	}

	var b table.Builder
	for i, name := range by {
		b.Add(name, keys[i])
	}
	// Builder.Add needs non-nil slices.
	if xs == nil {
		xs = []float64{}
	}
	b.Add(col, xs)
	return b.Done(), nil
}
