// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/memprefetch/benchtab"
	"github.com/memprefetch/benchtab/storage/db"
)

// loadInfo is one entry of the /loads response.
type loadInfo struct {
	ID     int64  `json:"id"`
	Root   string `json:"root"`
	Layout string `json:"layout"`
	Rows   int    `json:"rows"`
}

func (a *App) loads(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "/loads must be called as a GET request", http.StatusMethodNotAllowed)
		return
	}
	loads, err := a.DB.Loads(r.Context())
	if err != nil {
		a.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	out := []loadInfo{}
	for _, l := range loads {
		out = append(out, loadInfo{l.ID, l.Root, l.Layout, l.Rows})
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		a.errorf(r, "encode /loads response: %v", err)
	}
}

// jsonTable is the JSON form of a table served by /load.
type jsonTable struct {
	Columns []string        `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
}

func (a *App) load(w http.ResponseWriter, r *http.Request) {
	id, err := LoadID(r)
	if err != nil {
		a.fail(w, r, http.StatusBadRequest, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
	case http.MethodDelete:
		if err := a.DB.DeleteLoad(r.Context(), id); err != nil {
			a.fail(w, r, http.StatusInternalServerError, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	default:
		http.Error(w, "/load must be called as a GET or DELETE request", http.StatusMethodNotAllowed)
		return
	}

	tab, err := a.DB.Table(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		http.Error(w, fmt.Sprintf("load %d not found", id), http.StatusNotFound)
		return
	} else if err != nil {
		a.fail(w, r, http.StatusInternalServerError, err)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		err = tab.WriteCSV(w)
	case "", "json":
		w.Header().Set("Content-Type", "application/json")
		err = json.NewEncoder(w).Encode(toJSON(tab))
	default:
		http.Error(w, fmt.Sprintf("unknown format %q", format), http.StatusBadRequest)
		return
	}
	if err != nil {
		a.errorf(r, "write load %d: %v", id, err)
	}
}

func toJSON(tab *benchtab.Table) jsonTable {
	out := jsonTable{Columns: tab.Columns(), Rows: make([][]interface{}, tab.Len())}
	for row := range out.Rows {
		vals := make([]interface{}, len(out.Columns))
		for i := range vals {
			vals[i] = tab.ColumnAt(i)[row]
		}
		out.Rows[row] = vals
	}
	return out
}

// LoadID returns the load ID named by the id query parameter of r.
func LoadID(r *http.Request) (int64, error) {
	s := r.URL.Query().Get("id")
	if s == "" {
		return 0, errors.New("missing id parameter")
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad id parameter %q", s)
	}
	return id, nil
}
