// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchjson

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// Layout selects how Files locates benchmark files under its root.
type Layout int

const (
	// Flat reads every *.json file directly under the root. Each
	// record is tagged with its file name without the ".json"
	// suffix.
	Flat Layout = iota

	// Hierarchical reads every *.json file in every directory
	// directly under the root. Each record is tagged with the name
	// of its directory. Non-directory entries of the root are
	// skipped.
	Hierarchical
)

func (l Layout) String() string {
	switch l {
	case Flat:
		return "flat"
	case Hierarchical:
		return "hier"
	}
	return fmt.Sprintf("Layout(%d)", int(l))
}

// ParseLayout parses a layout name as accepted on command lines:
// "flat", "hier", or "hierarchical".
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(s) {
	case "flat":
		return Flat, nil
	case "hier", "hierarchical":
		return Hierarchical, nil
	}
	return 0, fmt.Errorf("unknown layout %q (want flat or hier)", s)
}

// A Record is a single benchmark record and its provenance.
type Record struct {
	// Tree is the record's value. It is always a node.
	Tree *Tree

	// Tag identifies where the record came from: the file name
	// without extension in Flat layout, or the directory name in
	// Hierarchical layout.
	Tag string

	// Path is the path within the file system of the file the
	// record was read from.
	Path string

	// Index is the record's position in its file's results array.
	Index int
}

// Files reads benchmark records from all of the benchmark files under
// a root directory.
//
// Its API is modeled on bufio.Scanner. Files are visited in the order
// returned by fs.ReadDir, which is sorted by name; within a file,
// records are returned in the order of its results array. Each file is
// read completely and closed before the next is opened.
type Files struct {
	// FS is the file system to read from.
	FS fs.FS

	// Root is the directory within FS to read. If empty, it is ".".
	Root string

	// Layout selects the directory layout of Root.
	Layout Layout

	// inputs is the sequence of remaining files, or nil if Files
	// has not started yet. Note that this distinguishes nil from
	// length 0.
	inputs []input

	file   *File
	tag    string
	pos    int
	nFiles int
	rec    Record
	err    error
}

type input struct {
	path string
	tag  string
}

// init enumerates the files to read.
func (f *Files) init() error {
	f.inputs = []input{}
	root := f.Root
	if root == "" {
		root = "."
	}
	entries, err := fs.ReadDir(f.FS, root)
	if err != nil {
		return err
	}
	switch f.Layout {
	case Flat:
		for _, ent := range entries {
			if isJSON(ent) {
				tag := strings.TrimSuffix(ent.Name(), ".json")
				f.inputs = append(f.inputs, input{path.Join(root, ent.Name()), tag})
			}
		}
	case Hierarchical:
		for _, dir := range entries {
			if !dir.IsDir() {
				continue
			}
			dirPath := path.Join(root, dir.Name())
			sub, err := fs.ReadDir(f.FS, dirPath)
			if err != nil {
				return err
			}
			for _, ent := range sub {
				if isJSON(ent) {
					f.inputs = append(f.inputs, input{path.Join(dirPath, ent.Name()), dir.Name()})
				}
			}
		}
	default:
		return fmt.Errorf("unknown layout %v", f.Layout)
	}
	return nil
}

func isJSON(ent fs.DirEntry) bool {
	return !ent.IsDir() && strings.HasSuffix(ent.Name(), ".json")
}

// Scan advances to the next record and reports whether a record was
// read. The caller should use the Record method to get the record. If
// Scan runs out of files, or if an error occurs, it returns false. In
// this case, the caller should use the Err method to check for errors.
func (f *Files) Scan() bool {
	if f.err != nil {
		return false
	}
	if f.inputs == nil {
		if err := f.init(); err != nil {
			f.err = err
			return false
		}
	}

	for {
		if f.file != nil && f.pos < len(f.file.Results) {
			f.rec = Record{
				Tree:  f.file.Results[f.pos],
				Tag:   f.tag,
				Path:  f.file.Path,
				Index: f.pos,
			}
			f.pos++
			return true
		}

		// Move on to the next file.
		if len(f.inputs) == 0 {
			f.file = nil
			return false
		}
		inp := f.inputs[0]
		f.inputs = f.inputs[1:]
		file, err := ReadFile(f.FS, inp.path)
		if err != nil {
			f.err = err
			f.file = nil
			return false
		}
		f.file, f.tag, f.pos = file, inp.tag, 0
		f.nFiles++
	}
}

// Record returns the record that was just read by Scan.
func (f *Files) Record() Record {
	return f.rec
}

// Err returns the error that stopped Scan, if any. If Scan stopped
// because it read every file to completion, or if Scan has not yet
// returned false, Err returns nil.
func (f *Files) Err() error {
	return f.err
}

// NumFiles returns the number of files opened so far.
func (f *Files) NumFiles() int {
	return f.nFiles
}
