// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/safehtml/template"
	"github.com/memprefetch/benchtab"
	"github.com/memprefetch/benchtab/chart"
	"github.com/memprefetch/benchtab/storage/db"
	"gonum.org/v1/plot/vg"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Benchmark tables</title>
</head>
<body>
<h1>Benchmark tables</h1>
{{if .}}<ul>
{{range .}}<li><a href="/view?id={{.ID}}">{{.Root}}</a> ({{.Layout}}, {{.Rows}} rows)
{{end}}</ul>
{{else}}<p>No tables have been stored.
{{end}}</body>
</html>
`))

var viewTemplate = template.Must(template.New("view").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Load.Root}}</title>
<style>
.benchtab { border-collapse: collapse; }
.benchtab th { border-bottom: 1px solid #666; text-align: left; padding: 0em 1em; }
.benchtab td { padding: 0em 1em; }
.benchtab td.num { text-align: right; }
</style>
</head>
<body>
<h1>{{.Load.Root}}</h1>
{{range .Charts}}<img class="chart" src="/chart?id={{$.Load.ID}}&amp;kind={{.Kind}}&amp;name={{.Name}}" alt="{{.Name}}">
{{end -}}
<table class="benchtab">
<tr>{{range .Columns}}<th>{{.}}{{end}}
{{range .Rows -}}
<tr>{{range .}}<td{{if .Num}} class="num"{{end}}>{{.Text}}{{end}}
{{end -}}
</table>
</body>
</html>
`))

func (a *App) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	loads, err := a.DB.Loads(r.Context())
	if err != nil {
		a.errorf(r, "list loads: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	a.render(w, r, indexTemplate, loads)
}

type chartRef struct {
	Kind, Name string
}

type cell struct {
	Text string
	Num  bool
}

func (a *App) view(w http.ResponseWriter, r *http.Request) {
	load, tab, ok := a.table(w, r)
	if !ok {
		return
	}

	// Offer every chart the table has the columns for.
	var charts []chartRef
	for _, kind := range chart.Kinds {
		plots, err := chart.Build(tab, chart.Selection{Kind: kind})
		if err != nil {
			continue
		}
		for _, np := range plots {
			charts = append(charts, chartRef{kind, np.Name})
		}
	}

	data := struct {
		Load    db.Load
		Charts  []chartRef
		Columns []string
		Rows    [][]cell
	}{Load: load, Charts: charts, Columns: tab.Columns()}
	for row := 0; row < tab.Len(); row++ {
		cells := make([]cell, len(data.Columns))
		for i := range cells {
			v := tab.ColumnAt(i)[row]
			_, num := v.(json.Number)
			cells[i] = cell{benchtab.FormatValue(v), num}
		}
		data.Rows = append(data.Rows, cells)
	}
	a.render(w, r, viewTemplate, data)
}

// chartImage serves one chart of a stored table as a PNG image. The kind,
// x, y, scale, and clamp parameters select the charts as in
// chart.Selection; name picks one of them, defaulting to the first.
func (a *App) chartImage(w http.ResponseWriter, r *http.Request) {
	_, tab, ok := a.table(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	sel := chart.Selection{Kind: q.Get("kind"), X: q.Get("x"), Y: q.Get("y")}
	if sel.Kind == "" {
		sel.Kind = "curves"
	}
	for _, f := range []struct {
		name string
		dst  *float64
	}{{"scale", &sel.Scale}, {"clamp", &sel.Clamp}} {
		if s := q.Get(f.name); s != "" {
			x, err := strconv.ParseFloat(s, 64)
			if err != nil {
				http.Error(w, fmt.Sprintf("bad %s parameter %q", f.name, s), http.StatusBadRequest)
				return
			}
			*f.dst = x
		}
	}
	sel.AllPages = q.Get("allpages") == "true"

	plots, err := chart.Build(tab, sel)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var np *chart.Named
	for i := range plots {
		if name := q.Get("name"); name == "" || name == plots[i].Name {
			np = &plots[i]
			break
		}
	}
	if np == nil {
		http.Error(w, fmt.Sprintf("no chart named %q", q.Get("name")), http.StatusNotFound)
		return
	}

	wt, err := np.Plot.WriterTo(8*vg.Inch, 5*vg.Inch, "png")
	if err != nil {
		a.errorf(r, "render %s: %v", np.Name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		a.errorf(r, "render %s: %v", np.Name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

// table reads the load named by the id parameter of r. If it fails, it
// writes an error response and returns false.
func (a *App) table(w http.ResponseWriter, r *http.Request) (db.Load, *benchtab.Table, bool) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		http.Error(w, "missing or bad id parameter", http.StatusBadRequest)
		return db.Load{}, nil, false
	}
	tab, err := a.DB.Table(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		http.Error(w, fmt.Sprintf("load %d not found", id), http.StatusNotFound)
		return db.Load{}, nil, false
	} else if err != nil {
		a.errorf(r, "load %d: %v", id, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return db.Load{}, nil, false
	}
	loads, err := a.DB.Loads(r.Context())
	if err != nil {
		a.errorf(r, "list loads: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return db.Load{}, nil, false
	}
	for _, l := range loads {
		if l.ID == id {
			return l, tab, true
		}
	}
	return db.Load{ID: id}, tab, true
}

func (a *App) render(w http.ResponseWriter, r *http.Request, t *template.Template, data interface{}) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		a.errorf(r, "execute %s: %v", t.Name(), err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
