// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestKinds(t *testing.T) {
	check := func(files []string, args ...string) {
		t.Helper()
		dir := t.TempDir()
		var out, errOut bytes.Buffer
		if err := run(&out, &errOut, append([]string{"-o", dir}, args...)); err != nil {
			t.Fatalf("%v: %v\n%s", args, err, errOut.String())
		}
		var want []string
		for _, f := range files {
			want = append(want, filepath.Join(dir, f))
		}
		got := strings.Fields(out.String())
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%v: files (-want +got):\n%s", args, diff)
		}
		for _, path := range got {
			fi, err := os.Stat(path)
			if err != nil {
				t.Error(err)
			} else if fi.Size() == 0 {
				t.Errorf("%s is empty", path)
			}
		}
	}

	check([]string{"amd-curves.png", "intel-curves.png"}, "-layout", "hier", "testdata/latency")
	check([]string{"amd-heatmap.svg", "intel-heatmap.svg"}, "-layout", "hier", "-kind", "heatmap", "-format", "svg", "testdata/latency")
	check([]string{"amd-heatmap.png", "intel-heatmap.png"}, "-layout", "hier", "-kind", "heatmap", "-allpages", "testdata/latency")
	check([]string{"amd-scatter.pdf", "intel-scatter.pdf"}, "-layout", "hier", "-kind", "scatter", "-scale", "1e9", "-clamp", "1", "-format", "pdf", "testdata/latency")
	check([]string{"points.png"}, "-kind", "points", "testdata/lfb_batched")
}

func TestErrors(t *testing.T) {
	var out, errOut bytes.Buffer
	if err := run(&out, &errOut, nil); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("no arguments: got %v, want flag.ErrHelp", err)
	}
	for _, args := range [][]string{
		{"-kind", "pie", "testdata/lfb_batched"},
		{"-format", "gif", "testdata/lfb_batched"},
		{"-layout", "tree", "testdata/lfb_batched"},
		{"-kind", "points", "-x", "config.nope", "testdata/lfb_batched"},
		{"-kind", "curves", "testdata/lfb_batched"},
	} {
		args = append([]string{"-o", t.TempDir()}, args...)
		if err := run(&out, &errOut, args); err == nil {
			t.Errorf("%v: succeeded, want error", args)
		}
	}
}
