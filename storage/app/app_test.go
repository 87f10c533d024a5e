// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build cgo
// +build cgo

package app

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/memprefetch/benchtab/storage/db/dbtest"
)

type testApp struct {
	*App
	srv *httptest.Server
}

func (app *testApp) Close() {
	app.srv.Close()
}

// createTestApp returns a testApp corresponding to a new app
// serving from an in-memory database.
func createTestApp(t *testing.T) *testApp {
	app := &App{
		DB:     dbtest.NewDB(t),
		Errorf: func(r *http.Request, format string, args ...interface{}) { t.Logf(format, args...) },
	}
	mux := http.NewServeMux()
	app.RegisterOnMux(mux)
	srv := httptest.NewServer(mux)
	return &testApp{app, srv}
}

// uploadFiles calls the /upload endpoint with the named files and
// returns the response.
func (app *testApp) uploadFiles(t *testing.T, query string, files ...string) *http.Response {
	t.Helper()
	pr, pw := io.Pipe()
	mpw := multipart.NewWriter(pw)
	go func() {
		defer pw.Close()
		defer mpw.Close()
		for i := 0; i+1 < len(files); i += 2 {
			// The server may stop reading early on a bad
			// upload, so write errors are expected.
			w, err := mpw.CreateFormFile("file", files[i])
			if err != nil {
				return
			}
			fmt.Fprint(w, files[i+1])
		}
	}()
	resp, err := http.Post(app.srv.URL+"/upload"+query, mpw.FormDataContentType(), pr)
	if err != nil {
		t.Fatalf("post /upload: %v", err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("%s: %s\n%s", resp.Request.URL, resp.Status, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatal(err)
	}
}

const (
	amdJSON   = `{"results": [{"config": {"batch_size": 1}, "runtime": 0.5}, {"config": {"batch_size": 2}, "runtime": 0.75}]}`
	intelJSON = `{"results": [{"config": {"batch_size": 1}, "runtime": 0.4}]}`
)

func TestUpload(t *testing.T) {
	app := createTestApp(t)
	defer app.Close()

	var status uploadStatus
	decode(t, app.uploadFiles(t, "?root=lfb_batched", "amd.json", amdJSON, "intel.json", intelJSON), &status)
	want := uploadStatus{
		LoadID:  1,
		Files:   []string{"amd.json", "intel.json"},
		Rows:    3,
		Columns: []string{"config.batch_size", "runtime", "id"},
	}
	if diff := cmp.Diff(want, status); diff != "" {
		t.Errorf("/upload response (-want +got):\n%s", diff)
	}

	var loads []loadInfo
	resp, err := http.Get(app.srv.URL + "/loads")
	if err != nil {
		t.Fatal(err)
	}
	decode(t, resp, &loads)
	if diff := cmp.Diff([]loadInfo{{1, "lfb_batched", "flat", 3}}, loads); diff != "" {
		t.Errorf("/loads (-want +got):\n%s", diff)
	}

	var tab jsonTable
	resp, err = http.Get(app.srv.URL + "/load?id=1")
	if err != nil {
		t.Fatal(err)
	}
	decode(t, resp, &tab)
	wantTab := jsonTable{
		Columns: []string{"config.batch_size", "runtime", "id"},
		Rows: [][]interface{}{
			{1.0, 0.5, "amd"},
			{2.0, 0.75, "amd"},
			{1.0, 0.4, "intel"},
		},
	}
	if diff := cmp.Diff(wantTab, tab); diff != "" {
		t.Errorf("/load (-want +got):\n%s", diff)
	}

	resp, err = http.Get(app.srv.URL + "/load?id=1&format=csv")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if want := "config.batch_size,runtime,id\n1,0.5,amd\n2,0.75,amd\n1,0.4,intel\n"; string(body) != want {
		t.Errorf("/load csv = %q, want %q", body, want)
	}
}

func TestUploadErrors(t *testing.T) {
	app := createTestApp(t)
	defer app.Close()

	for _, test := range []struct {
		name  string
		query string
		files []string
	}{
		{"syntax", "", []string{"amd.json", `{"results": 1}`}},
		{"drift", "", []string{"amd.json", amdJSON, "b.json", `{"results": [{"runtime": 1}]}`}},
		{"empty", "", nil},
		{"extension", "", []string{"amd.txt", amdJSON}},
		{"union", "?union=maybe", []string{"amd.json", amdJSON}},
	} {
		t.Run(test.name, func(t *testing.T) {
			resp := app.uploadFiles(t, test.query, test.files...)
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %s, want 400", resp.Status)
			}
		})
	}

	// Nothing was stored.
	if n, err := app.DB.CountLoads(); err != nil || n != 0 {
		t.Errorf("CountLoads = %d, %v, want 0", n, err)
	}

	// With union, the second file may drop keys.
	var status uploadStatus
	decode(t, app.uploadFiles(t, "?union=true", "amd.json", amdJSON, "b.json", `{"results": [{"runtime": 1}]}`), &status)
	if status.Rows != 3 {
		t.Errorf("union upload stored %d rows, want 3", status.Rows)
	}
}

func TestLoadErrors(t *testing.T) {
	app := createTestApp(t)
	defer app.Close()

	for _, test := range []struct {
		method, path string
		code         int
	}{
		{"GET", "/load", http.StatusBadRequest},
		{"GET", "/load?id=x", http.StatusBadRequest},
		{"GET", "/load?id=7", http.StatusNotFound},
		{"PUT", "/load?id=7", http.StatusMethodNotAllowed},
		{"GET", "/upload", http.StatusMethodNotAllowed},
		{"POST", "/loads", http.StatusMethodNotAllowed},
	} {
		req, err := http.NewRequest(test.method, app.srv.URL+test.path, strings.NewReader(""))
		if err != nil {
			t.Fatal(err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != test.code {
			t.Errorf("%s %s: status %s, want %d", test.method, test.path, resp.Status, test.code)
		}
	}
}

func TestDelete(t *testing.T) {
	app := createTestApp(t)
	defer app.Close()

	var status uploadStatus
	decode(t, app.uploadFiles(t, "", "intel.json", intelJSON), &status)

	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/load?id=%d", app.srv.URL, status.LoadID), nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE: %s", resp.Status)
	}

	var loads []loadInfo
	resp, err = http.Get(app.srv.URL + "/loads")
	if err != nil {
		t.Fatal(err)
	}
	decode(t, resp, &loads)
	if len(loads) != 0 {
		t.Errorf("/loads after delete = %v, want none", loads)
	}
}
