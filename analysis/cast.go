// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package analysis prepares benchtab tables for charting.
//
// A benchtab.Table holds raw JSON values. This package converts the
// columns a chart needs to concrete Go types and then reshapes them
// with the go-gg table operations: filtering, sorting, grouping and
// pivoting. The functions here reproduce the views used for the
// memory latency and line fill buffer experiments.
package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aclements/go-gg/table"
	"github.com/memprefetch/benchtab"
)

// Kind is the Go type a column is converted to.
type Kind int

const (
	Raw    Kind = iota // []interface{}, unconverted
	Int                // []int64
	Float              // []float64
	Bool               // []bool
	String             // []string
)

func (k Kind) String() string {
	switch k {
	case Raw:
		return "raw"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case String:
		return "string"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// A CastError reports a table value that cannot be converted.
type CastError struct {
	Column string
	Row    int
	Value  interface{}
	Kind   Kind
}

func (e *CastError) Error() string {
	return fmt.Sprintf("column %s row %d: cannot convert %#v to %s", e.Column, e.Row, e.Value, e.Kind)
}

// A MissingColumnError reports a column that a view needs but the
// table lacks.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("table has no column %q", e.Column)
}

var errCast = fmt.Errorf("bad value")

// AsInt converts a raw value to an integer. Numbers with a fractional
// part are truncated toward zero. Booleans are 0 or 1.
func AsInt(v interface{}) (int64, error) {
	switch v := v.(type) {
	case json.Number:
		return parseInt(string(v))
	case string:
		return parseInt(strings.TrimSpace(v))
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, errCast
		}
		return int64(v), nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	}
	return 0, errCast
}

func parseInt(s string) (int64, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errCast
	}
	return int64(f), nil
}

// AsFloat converts a raw value to a float64. Booleans are 0 or 1.
func AsFloat(v interface{}) (float64, error) {
	switch v := v.(type) {
	case json.Number:
		return v.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	}
	return 0, errCast
}

// AsBool converts a raw value to a bool. Numbers are true if non-zero.
// Strings are parsed with strconv.ParseBool, so "1", "t", and "true"
// are true and "0", "f", and "false" are false.
func AsBool(v interface{}) (bool, error) {
	switch v := v.(type) {
	case bool:
		return v, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(v))
	case json.Number, float64, int, int64:
		f, err := AsFloat(v)
		return f != 0, err
	}
	return false, errCast
}

// AsString converts a raw value to its text form.
func AsString(v interface{}) string {
	return benchtab.FormatValue(v)
}

// CastColumn converts column name of t to kind and returns the typed
// slice: []int64, []float64, []bool, []string, or, for Raw, the
// column itself.
func CastColumn(t *benchtab.Table, name string, kind Kind) (interface{}, error) {
	col := t.Column(name)
	if col == nil {
		return nil, &MissingColumnError{name}
	}
	fail := func(row int) error {
		return &CastError{name, row, col[row], kind}
	}
	switch kind {
	case Raw:
		return col, nil
	case Int:
		out := make([]int64, len(col))
		for i, v := range col {
			x, err := AsInt(v)
			if err != nil {
				return nil, fail(i)
			}
			out[i] = x
		}
		return out, nil
	case Float:
		out := make([]float64, len(col))
		for i, v := range col {
			x, err := AsFloat(v)
			if err != nil {
				return nil, fail(i)
			}
			out[i] = x
		}
		return out, nil
	case Bool:
		out := make([]bool, len(col))
		for i, v := range col {
			x, err := AsBool(v)
			if err != nil {
				return nil, fail(i)
			}
			out[i] = x
		}
		return out, nil
	case String:
		out := make([]string, len(col))
		for i, v := range col {
			out[i] = AsString(v)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown kind %v", kind)
}

// Typed returns t as a go-gg table in which each column named in
// casts has been converted to the given kind. Other columns stay
// []interface{}.
func Typed(t *benchtab.Table, casts map[string]Kind) (*table.Table, error) {
	for name := range casts {
		if t.Index(name) < 0 {
			return nil, &MissingColumnError{name}
		}
	}
	var b table.Builder
	for i, name := range t.Columns() {
		kind, ok := casts[name]
		if !ok {
			b.Add(name, t.ColumnAt(i))
			continue
		}
		col, err := CastColumn(t, name, kind)
		if err != nil {
			return nil, err
		}
		b.Add(name, col)
	}
	return b.Done(), nil
}
