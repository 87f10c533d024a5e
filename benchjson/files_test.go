// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchjson

import (
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"
)

func file(data string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(data)}
}

var testFS = fstest.MapFS{
	"lfb_batched/b.json":     file(`{"results":[{"config":{"batch_size":2},"runtime":1.0}]}`),
	"lfb_batched/a.json":     file(`{"results":[{"config":{"batch_size":1},"runtime":0.5},{"config":{"batch_size":3},"runtime":0.7}]}`),
	"lfb_batched/notes.txt":  file(`not a benchmark`),
	"lfb_batched/sub/c.json": file(`{"results":[{"runtime":9}]}`),

	"latency/node2/y.json":   file(`{"results":[{"config":{"access_range":100},"latency_single":0.002}]}`),
	"latency/node1/x.json":   file(`{"results":[{"config":{"access_range":100},"latency_single":0.002}]}`),
	"latency/node1/w.json":   file(`{"results":[{"config":{"access_range":200},"latency_single":0.003}]}`),
	"latency/node1/skip.txt": file(``),
	"latency/README.json":    file(`{"results":[{"ignored":true}]}`),

	"broken/a.json": file(`{"results":[{"runtime":1}]}`),
	"broken/b.json": file(`{"results":`),
}

func TestFiles(t *testing.T) {
	check := func(f *Files, want ...string) {
		t.Helper()
		for f.Scan() {
			rec := f.Record()
			if len(want) == 0 {
				t.Errorf("got record %s, want end of stream", rec.Tree)
				return
			}
			got := rec.Tag + " " + rec.Path + " " + rec.Tree.String()
			if got != want[0] {
				t.Errorf("got %q, want %q", got, want[0])
			}
			want = want[1:]
		}

		err := f.Err()
		wantErr := ""
		if len(want) == 1 && len(want[0]) > 4 && want[0][:4] == "err " {
			wantErr = want[0][len("err "):]
			want = want[1:]
		}
		if err == nil && wantErr != "" {
			t.Errorf("got success, want error %s", wantErr)
		} else if err != nil && wantErr == "" {
			t.Errorf("got error %s", err)
		} else if err != nil && err.Error() != wantErr {
			t.Errorf("got error %s, want error %s", err, wantErr)
		}

		if len(want) != 0 {
			t.Errorf("got end of stream, want %v", want)
		}
	}

	// Flat layout: files in name order, subdirectories and
	// non-JSON files skipped, tag is the file name.
	check(
		&Files{FS: testFS, Root: "lfb_batched", Layout: Flat},
		`a lfb_batched/a.json {"config":{"batch_size":1},"runtime":0.5}`,
		`a lfb_batched/a.json {"config":{"batch_size":3},"runtime":0.7}`,
		`b lfb_batched/b.json {"config":{"batch_size":2},"runtime":1.0}`,
	)

	// Hierarchical layout: tag is the directory name, top-level
	// files skipped.
	check(
		&Files{FS: testFS, Root: "latency", Layout: Hierarchical},
		`node1 latency/node1/w.json {"config":{"access_range":200},"latency_single":0.003}`,
		`node1 latency/node1/x.json {"config":{"access_range":100},"latency_single":0.002}`,
		`node2 latency/node2/y.json {"config":{"access_range":100},"latency_single":0.002}`,
	)

	// Records from earlier files are returned before the error.
	check(
		&Files{FS: testFS, Root: "broken", Layout: Flat},
		`a broken/a.json {"runtime":1}`,
		"err broken/b.json: invalid JSON",
	)

	// Empty directory.
	check(&Files{FS: fstest.MapFS{"empty/.keep": file("")}, Root: "empty", Layout: Flat})
}

func TestFilesMissingRoot(t *testing.T) {
	f := &Files{FS: testFS, Root: "nope", Layout: Flat}
	if f.Scan() {
		t.Fatal("Scan succeeded on missing root")
	}
	if !errors.Is(f.Err(), fs.ErrNotExist) {
		t.Errorf("got error %v, want fs.ErrNotExist", f.Err())
	}
	// Scan keeps failing.
	if f.Scan() {
		t.Error("Scan succeeded after error")
	}
}

func TestFilesCount(t *testing.T) {
	f := &Files{FS: testFS, Root: "latency", Layout: Hierarchical}
	n := 0
	for f.Scan() {
		if got := f.Record().Index; got != 0 {
			t.Errorf("record %d has index %d, want 0", n, got)
		}
		n++
	}
	if err := f.Err(); err != nil {
		t.Fatal(err)
	}
	if n != 3 || f.NumFiles() != 3 {
		t.Errorf("got %d records from %d files, want 3 from 3", n, f.NumFiles())
	}
}

func TestParseLayout(t *testing.T) {
	for _, test := range []struct {
		in   string
		want Layout
	}{
		{"flat", Flat},
		{"hier", Hierarchical},
		{"Hierarchical", Hierarchical},
	} {
		got, err := ParseLayout(test.in)
		if err != nil || got != test.want {
			t.Errorf("ParseLayout(%q) = %v, %v, want %v", test.in, got, err, test.want)
		}
	}
	if _, err := ParseLayout("tree"); err == nil {
		t.Error("ParseLayout(tree) succeeded, want error")
	}
}
