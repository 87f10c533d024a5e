// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/memprefetch/benchtab"
	"github.com/memprefetch/benchtab/analysis"
	"github.com/memprefetch/benchtab/internal/texttab"
)

// formatText writes tab as an aligned text table. Columns sharing a
// first key component ("config" in "config.batch_size") are grouped
// under a spanning heading.
func formatText(w io.Writer, tab *benchtab.Table) error {
	var t texttab.Table
	cols := tab.Columns()

	grouped := false
	for _, col := range cols {
		if strings.Contains(col, ".") {
			grouped = true
			break
		}
	}
	if grouped {
		t.Row()
		for i := 0; i < len(cols); {
			group, _, ok := strings.Cut(cols[i], ".")
			if !ok {
				t.Cell("", texttab.Left)
				i++
				continue
			}
			n := 1
			for i+n < len(cols) && strings.HasPrefix(cols[i+n], group+".") {
				n++
			}
			t.Span(n, group, texttab.Center)
			i += n
		}
	}
	t.Row()
	for _, col := range cols {
		if grouped {
			_, rest, ok := strings.Cut(col, ".")
			if ok {
				col = rest
			}
		}
		t.Cell(col, texttab.Left)
	}
	t.Rule()

	for row := 0; row < tab.Len(); row++ {
		t.Row()
		for i := range cols {
			v := tab.ColumnAt(i)[row]
			align := texttab.Left
			if isNumber(v) {
				align = texttab.Right
			}
			t.Cell(benchtab.FormatValue(v), align)
		}
	}
	return t.Format(w)
}

// formatSummary writes summary statistics of col grouped by the by
// columns.
func formatSummary(w io.Writer, tab *benchtab.Table, col string, by []string) error {
	sums, err := analysis.SummarizeColumn(tab, col, by...)
	if err != nil {
		return err
	}
	var t texttab.Table
	t.Row()
	for _, name := range by {
		t.Cell(name, texttab.Left)
	}
	for _, name := range []string{"n", "min", "median", "mean", "max", "stddev"} {
		t.Cell(name, texttab.Right)
	}
	t.Rule()
	for _, s := range sums {
		t.Row()
		for _, g := range s.Group {
			t.Cell(g, texttab.Left)
		}
		t.Cell(strconv.Itoa(s.N), texttab.Right)
		for _, x := range []float64{s.Min, s.Median, s.Mean, s.Max, s.StdDev} {
			t.Cell(formatFloat(x), texttab.Right)
		}
	}
	if _, err := fmt.Fprintf(w, "%s\n", col); err != nil {
		return err
	}
	return t.Format(w)
}

func isNumber(v interface{}) bool {
	_, ok := v.(json.Number)
	return ok
}

func formatFloat(x float64) string {
	if math.IsNaN(x) {
		return "-"
	}
	return strconv.FormatFloat(x, 'g', 4, 64)
}
