// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package texttab lays out text tables with aligned columns and
// cells that span several columns.
package texttab

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"
)

// Gap separates adjacent columns.
const Gap = "  "

// Align is the horizontal alignment of a cell within its width.
type Align int

const (
	Left Align = iota
	Right
	Center
)

func (a Align) pad(s string, w int) string {
	n := w - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	switch a {
	case Right:
		return strings.Repeat(" ", n) + s
	case Center:
		l := n / 2
		return strings.Repeat(" ", l) + s + strings.Repeat(" ", n-l)
	}
	return s + strings.Repeat(" ", n)
}

type cell struct {
	col, span int
	text      string
	align     Align
}

type row struct {
	cells []cell
	rule  bool
}

// Table accumulates rows of cells. Methods that add to the table
// return it so calls can be chained.
type Table struct {
	rows []row
	cols int
}

// Row starts a new row.
func (t *Table) Row() *Table {
	t.rows = append(t.rows, row{})
	return t
}

// Rule adds a row of dashes as wide as each column.
func (t *Table) Rule() *Table {
	t.rows = append(t.rows, row{rule: true})
	return t
}

// Cell adds a one-column cell after the last cell of the current row.
func (t *Table) Cell(text string, a Align) *Table {
	return t.Span(1, text, a)
}

// Span adds a cell covering n columns after the last cell of the
// current row.
func (t *Table) Span(n int, text string, a Align) *Table {
	if n < 1 {
		panic(fmt.Sprintf("texttab: span of %d columns", n))
	}
	if len(t.rows) == 0 || t.rows[len(t.rows)-1].rule {
		t.Row()
	}
	r := &t.rows[len(t.rows)-1]
	col := 0
	if k := len(r.cells); k > 0 {
		col = r.cells[k-1].col + r.cells[k-1].span
	}
	r.cells = append(r.cells, cell{col, n, text, a})
	if col+n > t.cols {
		t.cols = col + n
	}
	return t
}

// widths computes the width of each column. Single-column cells are
// measured first. A spanning cell wider than the columns it covers
// widens them evenly, extra space going to the rightmost columns.
func (t *Table) widths() []int {
	ws := make([]int, t.cols)
	var spans []cell
	for _, r := range t.rows {
		for _, c := range r.cells {
			if c.span > 1 {
				spans = append(spans, c)
				continue
			}
			if n := utf8.RuneCountInString(c.text); n > ws[c.col] {
				ws[c.col] = n
			}
		}
	}
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].span < spans[j].span })
	for _, c := range spans {
		have := len(Gap) * (c.span - 1)
		for _, w := range ws[c.col : c.col+c.span] {
			have += w
		}
		need := utf8.RuneCountInString(c.text) - have
		for i := c.col + c.span - 1; need > 0; i-- {
			if i < c.col {
				i = c.col + c.span - 1
			}
			ws[i]++
			need--
		}
	}
	return ws
}

// Format writes the table to w. Trailing spaces are trimmed from
// every line.
func (t *Table) Format(w io.Writer) error {
	ws := t.widths()
	bw := bufio.NewWriter(w)
	var line strings.Builder
	for _, r := range t.rows {
		line.Reset()
		if r.rule {
			for i, w := range ws {
				if i > 0 {
					line.WriteString(Gap)
				}
				line.WriteString(strings.Repeat("-", w))
			}
		}
		next := 0
		for _, c := range r.cells {
			for ; next < c.col; next++ {
				if next > 0 {
					line.WriteString(Gap)
				}
				line.WriteString(strings.Repeat(" ", ws[next]))
			}
			if c.col > 0 {
				line.WriteString(Gap)
			}
			width := len(Gap) * (c.span - 1)
			for _, w := range ws[c.col : c.col+c.span] {
				width += w
			}
			line.WriteString(c.align.pad(c.text, width))
			next = c.col + c.span
		}
		bw.WriteString(strings.TrimRight(line.String(), " "))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
