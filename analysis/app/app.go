// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package app implements a web viewer for stored benchmark tables.
// Combine an App with a database to get an HTTP server.
package app

import (
	"log"
	"net/http"

	"github.com/memprefetch/benchtab/storage/db"
)

// App serves the viewer pages. Construct an App instance using a
// literal with a DB and call RegisterOnMux to connect it with an HTTP
// server.
type App struct {
	DB *db.DB

	// Errorf, if non-nil, logs errors that occur while serving r.
	// If nil, errors are logged with log.Printf.
	Errorf func(r *http.Request, format string, args ...interface{})
}

// RegisterOnMux registers the app's URLs on mux.
func (a *App) RegisterOnMux(mux *http.ServeMux) {
	mux.HandleFunc("/", a.index)
	mux.HandleFunc("/view", a.view)
	mux.HandleFunc("/chart", a.chartImage)
}

func (a *App) errorf(r *http.Request, format string, args ...interface{}) {
	if a.Errorf != nil {
		a.Errorf(r, format, args...)
		return
	}
	log.Printf(format, args...)
}
