// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchtab

import (
	"io/fs"
	"os"

	"github.com/memprefetch/benchtab/benchjson"
)

// Options configures Load.
type Options struct {
	// Layout is the directory layout of the root.
	Layout benchjson.Layout

	// Union selects the union schema. See Assembler.Union.
	Union bool

	// Logf, if non-nil, is called with progress messages. It has
	// the signature of log.Printf.
	Logf func(format string, args ...interface{})
}

// Load reads every benchmark record under root in fsys and returns
// them as a Table.
//
// Load either returns a complete table or fails: a file that cannot be
// read or parsed, a root with no records (ErrEmpty), or, unless
// opts.Union is set, a record whose flat keys differ from the first
// record's (*DriftError) all abort the load.
func Load(fsys fs.FS, root string, opts Options) (*Table, error) {
	files := benchjson.Files{FS: fsys, Root: root, Layout: opts.Layout}
	asm := Assembler{Union: opts.Union}
	lastPath := ""
	for files.Scan() {
		rec := files.Record()
		if opts.Logf != nil && rec.Path != lastPath {
			opts.Logf("reading %s (id %s)", rec.Path, rec.Tag)
			lastPath = rec.Path
		}
		if err := asm.Add(rec); err != nil {
			return nil, err
		}
	}
	if err := files.Err(); err != nil {
		return nil, err
	}
	n := asm.Len()
	t, err := asm.Table()
	if err != nil {
		return nil, err
	}
	if opts.Logf != nil {
		opts.Logf("loaded %d records with %d columns from %d files", n, len(t.Columns()), files.NumFiles())
	}
	return t, nil
}

// LoadDir is like Load, but reads the local directory dir.
func LoadDir(dir string, opts Options) (*Table, error) {
	return Load(os.DirFS(dir), ".", opts)
}
