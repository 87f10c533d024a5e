// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build cgo
// +build cgo

package main

import _ "github.com/memprefetch/benchtab/storage/db/sqlite3"
