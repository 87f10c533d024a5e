// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchjson

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

// A File is one parsed benchmark result file.
type File struct {
	// Path is the file name the results were read from. It is
	// purely diagnostic.
	Path string

	// Results is the sequence of records in the file's "results"
	// array, in document order. Every element is a node.
	Results []*Tree
}

// A SyntaxError reports a benchmark file that is not valid JSON or
// does not have the shape {"results": [ {...}, ... ]}.
type SyntaxError struct {
	Path string
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

// Parse parses the contents of a benchmark result file. path is used
// in error messages.
func Parse(path string, data []byte) (*File, error) {
	if !utf8.Valid(data) {
		return nil, &SyntaxError{path, "invalid UTF-8"}
	}
	if !gjson.ValidBytes(data) {
		return nil, &SyntaxError{path, "invalid JSON"}
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, &SyntaxError{path, "top-level value is not an object"}
	}
	// The last of duplicate "results" members wins, as in Tree.Set.
	var results gjson.Result
	doc.ForEach(func(key, val gjson.Result) bool {
		if key.Str == "results" {
			results = val
		}
		return true
	})
	if !results.Exists() {
		return nil, &SyntaxError{path, `missing "results" key`}
	}
	if !results.IsArray() {
		return nil, &SyntaxError{path, `"results" is not an array`}
	}

	f := &File{Path: path}
	var err error
	results.ForEach(func(_, rec gjson.Result) bool {
		if !rec.IsObject() {
			err = &SyntaxError{path, fmt.Sprintf("result %d is not an object", len(f.Results))}
			return false
		}
		f.Results = append(f.Results, toTree(rec))
		return true
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// ReadFile reads and parses the benchmark result file at path in fsys.
func ReadFile(fsys fs.FS, path string) (*File, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}
	return Parse(path, data)
}

// toTree converts a validated gjson value into a Tree. Object members
// are visited in document order.
func toTree(v gjson.Result) *Tree {
	if !v.IsObject() {
		return Leaf(scalar(v))
	}
	node := NewNode()
	v.ForEach(func(key, val gjson.Result) bool {
		node.Set(key.Str, toTree(val))
		return true
	})
	return node
}

// scalar returns the raw Go value of a non-object JSON value.
func scalar(v gjson.Result) interface{} {
	switch v.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return json.Number(v.Raw)
	case gjson.String:
		return v.Str
	}
	if v.IsArray() {
		elems := []interface{}{}
		v.ForEach(func(_, e gjson.Result) bool {
			if e.IsObject() {
				// Objects inside arrays are kept as
				// opaque nested maps of raw values.
				elems = append(elems, objectValue(e))
			} else {
				elems = append(elems, scalar(e))
			}
			return true
		})
		return elems
	}
	return v.Raw
}

func objectValue(v gjson.Result) map[string]interface{} {
	m := make(map[string]interface{})
	v.ForEach(func(key, val gjson.Result) bool {
		if val.IsObject() {
			m[key.Str] = objectValue(val)
		} else {
			m[key.Str] = scalar(val)
		}
		return true
	})
	return m
}
