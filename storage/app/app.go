// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package app implements the benchmark table storage server. Combine
// an App with a database to get an HTTP server.
//
// The server has three endpoints:
//
//	POST /upload       stores the JSON result files of a multipart
//	                   request as one load
//	GET  /loads        lists the stored loads as JSON
//	GET  /load?id=N    returns load N as JSON, or as CSV with
//	                   format=csv
//	DELETE /load?id=N  deletes load N
package app

import (
	"log"
	"net/http"

	"github.com/memprefetch/benchtab/storage/db"
)

// App manages the storage server logic. Construct an App instance
// using a literal with a DB and call RegisterOnMux to connect it with
// an HTTP server.
type App struct {
	DB *db.DB

	// Errorf, if non-nil, logs errors that occur while serving r.
	// If nil, errors are logged with log.Printf.
	Errorf func(r *http.Request, format string, args ...interface{})
}

// RegisterOnMux registers the app's URLs on mux.
func (a *App) RegisterOnMux(mux *http.ServeMux) {
	mux.HandleFunc("/upload", a.upload)
	mux.HandleFunc("/loads", a.loads)
	mux.HandleFunc("/load", a.load)
}

func (a *App) errorf(r *http.Request, format string, args ...interface{}) {
	if a.Errorf != nil {
		a.Errorf(r, format, args...)
		return
	}
	log.Printf(format, args...)
}

// fail logs err and replies with it as an HTTP error.
func (a *App) fail(w http.ResponseWriter, r *http.Request, code int, err error) {
	a.errorf(r, "%s %s: %v", r.Method, r.URL.Path, err)
	http.Error(w, err.Error(), code)
}
