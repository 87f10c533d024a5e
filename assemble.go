// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchtab

import (
	"errors"
	"fmt"

	"github.com/memprefetch/benchtab/benchjson"
)

// ErrEmpty is returned when a table is requested but no records were
// added, so there is no record to derive a schema from.
var ErrEmpty = errors.New("no benchmark records")

// DriftKind classifies a *DriftError.
type DriftKind int

const (
	// ExtraKey means a record has a flat key that is not in the
	// schema.
	ExtraKey DriftKind = iota
	// MissingKey means a record lacks a flat key that is in the
	// schema.
	MissingKey
	// DuplicateKey means two leaves of one record have the same
	// flat key, as in {"a.b": 1, "a": {"b": 2}}.
	DuplicateKey
)

func (k DriftKind) String() string {
	switch k {
	case ExtraKey:
		return "not in schema"
	case MissingKey:
		return "missing"
	case DuplicateKey:
		return "duplicated"
	}
	return fmt.Sprintf("DriftKind(%d)", int(k))
}

// A DriftError reports a record whose flat keys differ from the
// table's schema.
type DriftError struct {
	Path  string // file the record was read from
	Index int    // index of the record in its file
	Tag   string
	Row   int // row the record would have had in the table
	Key   string
	Kind  DriftKind
}

func (e *DriftError) Error() string {
	return fmt.Sprintf("%s: result %d (id %s): key %q %s", e.Path, e.Index, e.Tag, e.Key, e.Kind)
}

// An Assembler builds a Table from a sequence of records.
//
// The zero value is ready to use and derives the schema from the
// first record added. Once Add returns an error, the Assembler is
// unusable and every later call returns the same error.
type Assembler struct {
	// Union makes the schema the union of the flat keys of all
	// records, in the order they are first seen, instead of the
	// keys of the first record. Cells with no value are nil.
	Union bool

	schema *Schema
	idCol  int
	cols   [][]interface{}
	n      int
	err    error

	// row and filled are scratch space for the record being added.
	row    []interface{}
	filled []bool
}

// Add appends rec to the table as a new row.
//
// The tag of rec is stored in the id column. A leaf of rec whose flat
// key is "id" is ignored in favor of the tag.
func (a *Assembler) Add(rec benchjson.Record) error {
	if a.err != nil {
		return a.err
	}
	if a.schema == nil {
		a.schema = NewSchema(rec.Tree)
		a.idCol, _ = a.schema.Index(IDKey)
		a.cols = make([][]interface{}, a.schema.Len())
	}

	a.row = a.row[:0]
	a.filled = a.filled[:0]
	for range a.schema.keys {
		a.row = append(a.row, nil)
		a.filled = append(a.filled, false)
	}

	drift := func(key string, kind DriftKind) error {
		return &DriftError{rec.Path, rec.Index, rec.Tag, a.n, key, kind}
	}
	err := rec.Tree.Walk(func(path []string, leaf *benchjson.Tree) error {
		key := benchjson.JoinPath(path)
		if key == IDKey {
			return nil
		}
		i, ok := a.schema.Index(key)
		if !ok {
			if !a.Union {
				return drift(key, ExtraKey)
			}
			i = a.schema.add(key)
			a.cols = append(a.cols, make([]interface{}, a.n, a.n+1))
			a.row = append(a.row, nil)
			a.filled = append(a.filled, false)
		}
		if a.filled[i] {
			return drift(key, DuplicateKey)
		}
		a.row[i], a.filled[i] = leaf.Value(), true
		return nil
	})
	if err != nil {
		a.err = err
		return err
	}
	a.row[a.idCol], a.filled[a.idCol] = rec.Tag, true

	if !a.Union {
		for i, ok := range a.filled {
			if !ok {
				a.err = drift(a.schema.keys[i], MissingKey)
				return a.err
			}
		}
	}

	for i, v := range a.row {
		a.cols[i] = append(a.cols[i], v)
	}
	a.n++
	return nil
}

// Len returns the number of records added so far.
func (a *Assembler) Len() int {
	return a.n
}

// Table returns the assembled table. It returns ErrEmpty if no
// records were added, or the error that stopped Add.
//
// The Assembler must not be used after calling Table.
func (a *Assembler) Table() (*Table, error) {
	if a.err != nil {
		return nil, a.err
	}
	if a.n == 0 {
		return nil, ErrEmpty
	}
	t := &Table{schema: a.schema, cols: a.cols, n: a.n}
	a.schema, a.cols, a.n = nil, nil, 0
	return t, nil
}
