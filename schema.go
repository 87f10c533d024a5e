// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchtab flattens JSON benchmark records into a
// column-oriented table.
//
// Each leaf of a record is identified by its flat key, the dot-joined
// path of keys from the record's root to the leaf (for example,
// "config.batch_size"). The table has one column per flat key plus a
// reserved "id" column holding each record's provenance tag, and one
// row per record.
//
// By default the set of columns is derived from the first record
// alone, and every later record must have exactly the same flat keys;
// any difference fails the load with a *DriftError. Assembler.Union
// (or Options.Union) instead takes the union of keys across all
// records and fills absent cells with nil.
//
// The table holds the raw leaf values read by package benchjson.
// Converting them to numbers or booleans is left to consumers.
package benchtab

import "github.com/memprefetch/benchtab/benchjson"

// IDKey is the reserved column holding each record's tag.
const IDKey = "id"

// A Schema is the ordered set of flat keys that make up a table's
// columns.
type Schema struct {
	keys  []string
	index map[string]int
}

// NewSchema returns the schema of seed: the flat key of every leaf of
// seed in depth-first order, followed by IDKey. If seed itself has a
// leaf at "id", that column is the id column and keeps its position.
func NewSchema(seed *benchjson.Tree) *Schema {
	s := &Schema{index: make(map[string]int)}
	seed.Walk(func(path []string, _ *benchjson.Tree) error {
		s.add(benchjson.JoinPath(path))
		return nil
	})
	s.add(IDKey)
	return s
}

// FlatKeys returns the flat key of every leaf of t in depth-first
// order.
func FlatKeys(t *benchjson.Tree) []string {
	var keys []string
	t.Walk(func(path []string, _ *benchjson.Tree) error {
		keys = append(keys, benchjson.JoinPath(path))
		return nil
	})
	return keys
}

// add registers key if it is not already present and returns its
// column index.
func (s *Schema) add(key string) int {
	if i, ok := s.index[key]; ok {
		return i
	}
	s.index[key] = len(s.keys)
	s.keys = append(s.keys, key)
	return len(s.keys) - 1
}

// Keys returns the flat keys of s in column order. The caller must not
// modify the returned slice.
func (s *Schema) Keys() []string {
	return s.keys
}

// Len returns the number of columns in s.
func (s *Schema) Len() int {
	return len(s.keys)
}

// Index returns the column index of key.
func (s *Schema) Index(key string) (int, bool) {
	i, ok := s.index[key]
	return i, ok
}
