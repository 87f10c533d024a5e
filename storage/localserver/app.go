// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build cgo
// +build cgo

// Localserver runs an HTTP server that stores benchmark tables and
// serves the table viewer.
//
// Usage:
//
//	localserver [-addr address] [-db driver] [-dsn name] [root...]
//
// Each root directory given on the command line is loaded with
// -layout and stored before the server starts. By default the tables
// are kept in an in-memory sqlite3 database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/memprefetch/benchtab"
	analysisapp "github.com/memprefetch/benchtab/analysis/app"
	"github.com/memprefetch/benchtab/benchjson"
	"github.com/memprefetch/benchtab/storage/app"
	"github.com/memprefetch/benchtab/storage/db"
	_ "github.com/memprefetch/benchtab/storage/db/sqlite3"
)

var (
	addr   = flag.String("addr", "localhost:8080", "serve HTTP on `address`")
	driver = flag.String("db", "sqlite3", "database `driver` (sqlite3 or mysql)")
	dsn    = flag.String("dsn", ":memory:", "data source `name` for -db")
	layout = flag.String("layout", "flat", "directory `layout` of each root: flat or hier")
	union  = flag.Bool("union", false, "allow records to add keys")
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage of localserver:
	localserver [flags] [root...]
`)
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	log.SetPrefix("localserver: ")
	flag.Usage = usage
	flag.Parse()

	l, err := benchjson.ParseLayout(*layout)
	if err != nil {
		log.Fatal(err)
	}
	d, err := db.OpenSQL(*driver, *dsn)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer d.Close()

	ctx := context.Background()
	for _, root := range flag.Args() {
		tab, err := benchtab.LoadDir(root, benchtab.Options{Layout: l, Union: *union})
		if err != nil {
			log.Fatalf("%s: %v", root, err)
		}
		id, err := d.InsertTable(ctx, root, l.String(), tab)
		if err != nil {
			log.Fatalf("store %s: %v", root, err)
		}
		log.Printf("stored %s as load %d", root, id)
	}

	mux := http.NewServeMux()
	(&app.App{DB: d}).RegisterOnMux(mux)
	(&analysisapp.App{DB: d}).RegisterOnMux(mux)

	log.Printf("Listening on %s", *addr)

	log.Fatal(http.ListenAndServe(*addr, mux))
}
