// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build cgo
// +build cgo

package main

import (
	"path/filepath"
	"testing"
)

func TestStore(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "benchtab.db")
	_, stderr, err := runArgs(t, "-db", "sqlite3", "-dsn", dsn, "-format", "csv", "testdata/lfb_batched")
	if err != nil {
		t.Fatal(err)
	}
	if want := "stored 3 rows as load 1\n"; stderr != want {
		t.Errorf("stderr = %q, want %q", stderr, want)
	}
}
