// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchjson reads JSON benchmark result files.
//
// A benchmark result file is a JSON document of the form
//
//	{"results": [ <record>, ... ]}
//
// where each record is an object whose leaves are scalars, possibly
// grouped into nested objects such as "config". Records are read into
// Trees, which preserve the key order of the source document.
//
// Files enumerates benchmark files under a root directory and yields
// every record of every file, tagged with its provenance. It supports
// two layouts: a flat directory of *.json files, where each record is
// tagged with its file name, and a directory of subdirectories, where
// each record is tagged with its subdirectory name.
package benchjson

import (
	"fmt"
	"strings"
)

// Kind distinguishes leaves from interior nodes of a Tree.
type Kind uint8

const (
	// LeafKind is a scalar value.
	LeafKind Kind = iota
	// NodeKind is an ordered mapping from keys to child Trees.
	NodeKind
)

func (k Kind) String() string {
	switch k {
	case LeafKind:
		return "leaf"
	case NodeKind:
		return "node"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// A Tree is one JSON value of a benchmark record: either a leaf
// holding a raw scalar, or a node holding an ordered set of keyed
// children.
//
// Leaf values are exactly what the source document said. Numbers are
// json.Number, so their original text is preserved; strings are
// string; booleans are bool; null is nil. Arrays are not traversed and
// are stored as a single leaf holding a []interface{} of raw values.
type Tree struct {
	kind  Kind
	value interface{}

	// keys is the insertion order of children.
	keys     []string
	children map[string]*Tree
}

// Leaf returns a leaf Tree holding v.
func Leaf(v interface{}) *Tree {
	return &Tree{kind: LeafKind, value: v}
}

// NewNode returns an empty node Tree.
func NewNode() *Tree {
	return &Tree{kind: NodeKind, children: make(map[string]*Tree)}
}

// Kind returns whether t is a leaf or a node.
func (t *Tree) Kind() Kind {
	return t.kind
}

// Value returns the scalar value of a leaf. It returns nil for nodes.
func (t *Tree) Value() interface{} {
	if t.kind != LeafKind {
		return nil
	}
	return t.value
}

// Set sets the child of node t at key to child. If key already exists,
// its child is replaced and keeps its original position. Set panics if
// t is a leaf.
func (t *Tree) Set(key string, child *Tree) {
	if t.kind != NodeKind {
		panic("benchjson: Set on leaf Tree")
	}
	if _, ok := t.children[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.children[key] = child
}

// Get returns the child of t at key, or nil if there is no such child
// or t is a leaf.
func (t *Tree) Get(key string) *Tree {
	if t.kind != NodeKind {
		return nil
	}
	return t.children[key]
}

// Keys returns the keys of node t in insertion order. The caller must
// not modify the returned slice.
func (t *Tree) Keys() []string {
	return t.keys
}

// Len returns the number of children of node t.
func (t *Tree) Len() int {
	return len(t.keys)
}

// Walk calls fn for every leaf of t in depth-first order, visiting the
// children of each node in insertion order. path is the sequence of
// keys from t to the leaf; it is reused between calls, so fn must copy
// it if it needs to retain it. If fn returns an error, Walk stops and
// returns that error.
//
// A node with no children contributes no leaves. If t itself is a
// leaf, fn is called once with an empty path.
func (t *Tree) Walk(fn func(path []string, leaf *Tree) error) error {
	return t.walk(make([]string, 0, 8), fn)
}

func (t *Tree) walk(path []string, fn func(path []string, leaf *Tree) error) error {
	if t.kind == LeafKind {
		return fn(path, t)
	}
	for _, k := range t.keys {
		if err := t.children[k].walk(append(path, k), fn); err != nil {
			return err
		}
	}
	return nil
}

// JoinPath joins a path of keys into a flat key.
func JoinPath(path []string) string {
	return strings.Join(path, ".")
}

// String returns a compact, JSON-like rendering of t for diagnostics.
func (t *Tree) String() string {
	var b strings.Builder
	t.format(&b)
	return b.String()
}

func (t *Tree) format(b *strings.Builder) {
	if t.kind == LeafKind {
		switch v := t.value.(type) {
		case string:
			fmt.Fprintf(b, "%q", v)
		case nil:
			b.WriteString("null")
		default:
			fmt.Fprint(b, v)
		}
		return
	}
	b.WriteByte('{')
	for i, k := range t.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(b, "%q:", k)
		t.children[k].format(b)
	}
	b.WriteByte('}')
}
