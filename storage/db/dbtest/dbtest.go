// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build cgo
// +build cgo

// Package dbtest opens empty table databases for tests.
//
// Tests use a private in-memory SQLite database unless the -cloud flag
// is given, in which case each test gets its own scratch database on
// the MySQL instance named by -instance.
package dbtest

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"flag"
	"fmt"
	"testing"

	_ "github.com/GoogleCloudPlatform/cloudsql-proxy/proxy/dialers/mysql"
	"github.com/memprefetch/benchtab/storage/db"
	_ "github.com/memprefetch/benchtab/storage/db/sqlite3"
)

var (
	flagCloud    = flag.Bool("cloud", false, "run database tests against Cloud SQL")
	flagInstance = flag.String("instance", "memprefetch:us-central1:benchtab", "Cloud SQL `instance` for -cloud")
)

// NewDB returns an empty table database. It is closed, and any
// scratch Cloud SQL database dropped, when t finishes.
func NewDB(t *testing.T) *db.DB {
	t.Helper()
	driver, dsn := "sqlite3", ":memory:"
	if *flagCloud {
		driver, dsn = "mysql", scratchDatabase(t)
	}
	d, err := db.OpenSQL(driver, dsn)
	if err != nil {
		t.Fatalf("open %s database: %v", driver, err)
	}
	t.Cleanup(func() { d.Close() })

	if n, err := d.CountLoads(); err != nil {
		t.Fatal(err)
	} else if n != 0 {
		t.Fatalf("new %s database holds %d loads", driver, n)
	}
	return d
}

// scratchDatabase creates a uniquely named database on the -instance
// server and returns its DSN. The database is dropped during cleanup.
func scratchDatabase(t *testing.T) string {
	t.Helper()
	var suffix [4]byte
	if _, err := rand.Read(suffix[:]); err != nil {
		t.Fatal(err)
	}
	name := "benchtab_test_" + hex.EncodeToString(suffix[:])
	server := fmt.Sprintf("root:@cloudsql(%s)/", *flagInstance)

	conn, err := sql.Open("mysql", server)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := conn.Exec("CREATE DATABASE " + name); err != nil {
		conn.Close()
		t.Fatalf("create scratch database: %v", err)
	}
	t.Logf("scratch database %s", name)
	// Registered before the caller's Close, so it runs after it.
	t.Cleanup(func() {
		defer conn.Close()
		if _, err := conn.Exec("DROP DATABASE " + name); err != nil {
			t.Errorf("drop scratch database: %v", err)
		}
	})
	return server + name
}
