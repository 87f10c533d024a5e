// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchtab

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/aclements/go-gg/table"
)

// A Table is a column-oriented table of flattened benchmark records.
//
// Every column has Len entries, and entry i of every column comes from
// the same record. Values are the raw leaf values of the records: see
// benchjson.Tree for the possible types.
type Table struct {
	schema *Schema
	cols   [][]interface{}
	n      int
}

// NewTable returns a table with the named columns. The names must be
// distinct, one of them must be IDKey, and every column must have the
// same length. NewTable does not copy cols.
func NewTable(names []string, cols [][]interface{}) (*Table, error) {
	if len(names) != len(cols) {
		return nil, fmt.Errorf("%d column names for %d columns", len(names), len(cols))
	}
	s := &Schema{index: make(map[string]int)}
	for i, name := range names {
		if s.add(name) != i {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
	}
	if _, ok := s.Index(IDKey); !ok {
		return nil, fmt.Errorf("no %q column", IDKey)
	}
	n := len(cols[0])
	for i, col := range cols {
		if len(col) != n {
			return nil, fmt.Errorf("column %q has %d rows, want %d", names[i], len(col), n)
		}
	}
	if n == 0 {
		return nil, ErrEmpty
	}
	return &Table{schema: s, cols: cols, n: n}, nil
}

// Columns returns the column names of t in schema order. The caller
// must not modify the returned slice.
func (t *Table) Columns() []string {
	return t.schema.keys
}

// Len returns the number of rows in t.
func (t *Table) Len() int {
	return t.n
}

// Index returns the position of column name, or -1 if t has no such
// column.
func (t *Table) Index(name string) int {
	if i, ok := t.schema.Index(name); ok {
		return i
	}
	return -1
}

// Column returns the values of column name, or nil if t has no such
// column. The caller must not modify the returned slice.
func (t *Table) Column(name string) []interface{} {
	i := t.Index(name)
	if i < 0 {
		return nil
	}
	return t.cols[i]
}

// ColumnAt returns the values of the i'th column.
func (t *Table) ColumnAt(i int) []interface{} {
	return t.cols[i]
}

// Value returns the value in row of column name.
func (t *Table) Value(row int, name string) (interface{}, bool) {
	i := t.Index(name)
	if i < 0 || row < 0 || row >= t.n {
		return nil, false
	}
	return t.cols[i][row], true
}

// Row returns the values of row i keyed by column name.
func (t *Table) Row(i int) map[string]interface{} {
	m := make(map[string]interface{}, len(t.cols))
	for c, key := range t.schema.keys {
		m[key] = t.cols[c][i]
	}
	return m
}

// Grouping returns t as a go-gg table for further processing. Every
// column has type []interface{}; consumers convert the columns they
// need to concrete types.
func (t *Table) Grouping() *table.Table {
	var b table.Builder
	for i, key := range t.schema.keys {
		b.Add(key, t.cols[i])
	}
	return b.Done()
}

// WriteCSV writes t to w in CSV form: a header row of column names
// followed by one row per record. Values are formatted by FormatValue.
func (t *Table) WriteCSV(w io.Writer) error {
	csvw := csv.NewWriter(w)
	if err := csvw.Write(t.schema.keys); err != nil {
		return err
	}
	rec := make([]string, len(t.cols))
	for r := 0; r < t.n; r++ {
		for c := range t.cols {
			rec[c] = FormatValue(t.cols[c][r])
		}
		if err := csvw.Write(rec); err != nil {
			return err
		}
	}
	csvw.Flush()
	return csvw.Error()
}

// FormatValue formats a raw table value as text. Numbers are printed
// exactly as they appeared in the source, nil is the empty string, and
// array values are printed as JSON.
func FormatValue(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case []interface{}, map[string]interface{}:
		js, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(js)
	}
	return fmt.Sprint(v)
}
