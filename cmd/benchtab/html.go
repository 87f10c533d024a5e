// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"io"

	"github.com/google/safehtml/template"
	"github.com/memprefetch/benchtab"
)

var htmlTemplate = template.Must(template.New("").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Root}}</title>
<style>
.benchtab { border-collapse: collapse; }
.benchtab th { border-bottom: 1px solid #666; text-align: left; padding: 0em 1em; }
.benchtab td { padding: 0em 1em; }
.benchtab td.num { text-align: right; }
</style>
</head>
<body>
<table class="benchtab">
<tr>{{range .Columns}}<th>{{.}}{{end}}
{{range .Rows -}}
<tr>{{range .}}<td{{if .Num}} class="num"{{end}}>{{.Text}}{{end}}
{{end -}}
</table>
</body>
</html>
`))

type htmlCell struct {
	Text string
	Num  bool
}

// formatHTML writes tab as an HTML page titled with root.
func formatHTML(w io.Writer, root string, tab *benchtab.Table) error {
	data := struct {
		Root    string
		Columns []string
		Rows    [][]htmlCell
	}{Root: root, Columns: tab.Columns()}
	for row := 0; row < tab.Len(); row++ {
		cells := make([]htmlCell, len(data.Columns))
		for i := range cells {
			v := tab.ColumnAt(i)[row]
			cells[i] = htmlCell{Text: benchtab.FormatValue(v), Num: isNumber(v)}
		}
		data.Rows = append(data.Rows, cells)
	}
	return htmlTemplate.Execute(w, data)
}
