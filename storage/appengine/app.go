// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Appengine runs the benchmark table storage server and viewer on App
// Engine, storing tables in a Cloud SQL instance.
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	_ "github.com/GoogleCloudPlatform/cloudsql-proxy/proxy/dialers/mysql"
	_ "github.com/go-sql-driver/mysql"
	analysisapp "github.com/memprefetch/benchtab/analysis/app"
	"github.com/memprefetch/benchtab/storage/app"
	"github.com/memprefetch/benchtab/storage/db"
	"google.golang.org/appengine"
	aelog "google.golang.org/appengine/log"
)

// connectDB returns a DB initialized from the environment variables
// set in app.yaml. CLOUDSQL_CONNECTION_NAME, CLOUDSQL_USER, and
// CLOUDSQL_DATABASE must be set to point to the Cloud SQL instance.
// CLOUDSQL_PASSWORD can be set if needed.
func connectDB() (*db.DB, error) {
	var (
		connectionName = mustGetenv("CLOUDSQL_CONNECTION_NAME")
		user           = mustGetenv("CLOUDSQL_USER")
		password       = os.Getenv("CLOUDSQL_PASSWORD") // may be empty
		dbName         = mustGetenv("CLOUDSQL_DATABASE")
	)
	return db.OpenSQL("mysql", dsn(user, password, connectionName, dbName))
}

// dsn returns the go-sql-driver/mysql data source name of a database
// on a Cloud SQL instance.
func dsn(user, password, connectionName, dbName string) string {
	auth := user
	if password != "" {
		auth += ":" + password
	}
	return fmt.Sprintf("%s@cloudsql(%s)/%s", auth, connectionName, dbName)
}

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Panicf("%s environment variable not set.", k)
	}
	return v
}

// errorf logs to the App Engine request log of r.
func errorf(r *http.Request, format string, args ...interface{}) {
	aelog.Errorf(appengine.NewContext(r), format, args...)
}

func main() {
	d, err := connectDB()
	if err != nil {
		log.Fatalf("connectDB: %v", err)
	}
	defer d.Close()

	(&app.App{DB: d, Errorf: errorf}).RegisterOnMux(http.DefaultServeMux)
	(&analysisapp.App{DB: d, Errorf: errorf}).RegisterOnMux(http.DefaultServeMux)
	appengine.Main()
}
