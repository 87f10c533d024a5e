// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcsfs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"testing"

	"cloud.google.com/go/storage"
	"github.com/google/go-cmp/cmp"
	"github.com/memprefetch/benchtab"
	"github.com/memprefetch/benchtab/benchjson"
)

func TestParseURL(t *testing.T) {
	for _, test := range []struct {
		in             string
		bucket, prefix string
		ok             bool
	}{
		{"gs://results/lfb_batched", "results", "lfb_batched", true},
		{"gs://results/a/b/", "results", "a/b", true},
		{"gs://results", "results", "", true},
		{"gs://", "", "", false},
		{"results/lfb_batched", "", "", false},
		{"/tmp/results", "", "", false},
	} {
		bucket, prefix, ok := ParseURL(test.in)
		if bucket != test.bucket || prefix != test.prefix || ok != test.ok {
			t.Errorf("ParseURL(%q) = %q, %q, %v, want %q, %q, %v", test.in, bucket, prefix, ok, test.bucket, test.prefix, test.ok)
		}
	}
}

func TestObject(t *testing.T) {
	f := &FS{prefix: "runs/2024"}
	if got := f.object("."); got != "runs/2024" {
		t.Errorf("object(.) = %q", got)
	}
	if got := f.object("amd/x.json"); got != "runs/2024/amd/x.json" {
		t.Errorf("object(amd/x.json) = %q", got)
	}
	f.prefix = ""
	if got := f.object("x.json"); got != "x.json" {
		t.Errorf("object(x.json) with empty prefix = %q", got)
	}
}

func TestDirFile(t *testing.T) {
	d := &dirFile{entries: []fs.DirEntry{&info{name: "a"}, &info{name: "b", dir: true}, &info{name: "c"}}}
	got, err := d.ReadDir(2)
	if err != nil || len(got) != 2 || got[1].Name() != "b" || !got[1].IsDir() {
		t.Fatalf("ReadDir(2) = %v, %v", got, err)
	}
	got, err = d.ReadDir(-1)
	if err != nil || len(got) != 1 {
		t.Fatalf("ReadDir(-1) = %v, %v", got, err)
	}
	if _, err := d.ReadDir(1); err == nil {
		t.Errorf("ReadDir(1) at end succeeded")
	}
}

func TestAuthOptions(t *testing.T) {
	t.Setenv("STORAGE_EMULATOR_HOST", "localhost:9023")
	if opts := authOptions(context.Background()); len(opts) != 1 {
		t.Errorf("authOptions with emulator = %v, want one option", opts)
	}
}

// TestEmulator runs against a storage emulator named by
// STORAGE_EMULATOR_HOST.
func TestEmulator(t *testing.T) {
	if os.Getenv("STORAGE_EMULATOR_HOST") == "" {
		t.Skip("STORAGE_EMULATOR_HOST not set")
	}
	ctx := context.Background()
	client, err := NewClient(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	const bucket = "benchtab-test"
	if err := client.Bucket(bucket).Create(ctx, "test", nil); err != nil {
		t.Logf("create bucket: %v", err)
	}
	put := func(name, data string) {
		t.Helper()
		w := client.Bucket(bucket).Object(name).NewWriter(ctx)
		if _, err := w.Write([]byte(data)); err != nil {
			t.Fatal(err)
		}
		if err := w.Close(); err != nil {
			t.Fatal(err)
		}
	}
	put("lat/node1/x.json", `{"results":[{"latency_single":1e-9}]}`)
	put("lat/node0/x.json", `{"results":[{"latency_single":2e-9}]}`)
	put("lat/README", `notes`)

	fsys := New(ctx, client, bucket, "lat")
	entries, err := fsys.ReadDir(".")
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if diff := cmp.Diff([]string{"README", "node0", "node1"}, names); diff != "" {
		t.Errorf("entries (-want +got):\n%s", diff)
	}

	if _, err := fsys.ReadFile("missing.json"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadFile(missing.json) = %v, want fs.ErrNotExist", err)
	}
	if !errors.Is(mapErr(storage.ErrObjectNotExist), fs.ErrNotExist) {
		t.Errorf("mapErr does not map ErrObjectNotExist")
	}

	tab, err := benchtab.Load(fsys, ".", benchtab.Options{Layout: benchjson.Hierarchical})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]interface{}{"node0", "node1"}, tab.Column("id")); diff != "" {
		t.Errorf("id (-want +got):\n%s", diff)
	}
}
