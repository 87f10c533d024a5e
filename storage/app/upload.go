// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/memprefetch/benchtab"
	"github.com/memprefetch/benchtab/benchjson"
)

// maxFileSize bounds the size of one uploaded result file.
const maxFileSize = 64 << 20

// upload is the handler for the /upload endpoint. It processes the
// files in a multipart/form-data POST request. Every part must be
// named "file"; the id of its records is its file name without the
// ".json" extension, as in the flat directory layout.
//
// The root query parameter names the load (default "upload"). With
// union=true, records may add keys.
func (a *App) upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "/upload must be called as a POST request", http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()
	root := q.Get("root")
	if root == "" {
		root = "upload"
	}
	union := false
	if s := q.Get("union"); s != "" {
		var err error
		if union, err = strconv.ParseBool(s); err != nil {
			a.fail(w, r, http.StatusBadRequest, fmt.Errorf("bad union parameter: %w", err))
			return
		}
	}

	// We use r.MultipartReader instead of r.ParseMultipartForm to
	// avoid storing uploaded data on disk.
	mr, err := r.MultipartReader()
	if err != nil {
		a.fail(w, r, http.StatusBadRequest, err)
		return
	}

	result, err := a.processUpload(r.Context(), mr, root, union)
	if err != nil {
		a.fail(w, r, uploadErrorCode(err), err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		a.errorf(r, "encode /upload response: %v", err)
	}
}

// uploadStatus is the response to an /upload POST served as JSON.
type uploadStatus struct {
	// LoadID is the ID assigned to the stored load.
	LoadID int64 `json:"loadid"`
	// Files is the list of file names in the upload, in order.
	Files []string `json:"files"`
	// Rows is the number of records stored.
	Rows int `json:"rows"`
	// Columns is the column list of the stored table.
	Columns []string `json:"columns"`
}

// badUploadError reports a malformed request.
type badUploadError struct {
	msg string
}

func (e *badUploadError) Error() string { return e.msg }

// processUpload reads every file of mr, assembles their records into
// one table, and stores it. Nothing is stored unless every file is
// valid.
func (a *App) processUpload(ctx context.Context, mr *multipart.Reader, root string, union bool) (*uploadStatus, error) {
	var status uploadStatus
	asm := benchtab.Assembler{Union: union}
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if name := p.FormName(); name != "file" {
			return nil, &badUploadError{fmt.Sprintf("unexpected field %q", name)}
		}
		name := path.Base(p.FileName())
		if !strings.HasSuffix(name, ".json") {
			return nil, &badUploadError{fmt.Sprintf("file %q is not a .json file", name)}
		}
		data, err := io.ReadAll(io.LimitReader(p, maxFileSize+1))
		if err != nil {
			return nil, err
		}
		if len(data) > maxFileSize {
			return nil, &badUploadError{fmt.Sprintf("file %q is larger than %d bytes", name, maxFileSize)}
		}
		f, err := benchjson.Parse(name, data)
		if err != nil {
			return nil, err
		}
		tag := strings.TrimSuffix(name, ".json")
		for i, tree := range f.Results {
			rec := benchjson.Record{Tree: tree, Tag: tag, Path: name, Index: i}
			if err := asm.Add(rec); err != nil {
				return nil, err
			}
		}
		status.Files = append(status.Files, name)
	}

	tab, err := asm.Table()
	if err != nil {
		return nil, err
	}
	id, err := a.DB.InsertTable(ctx, root, benchjson.Flat.String(), tab)
	if err != nil {
		return nil, err
	}
	status.LoadID = id
	status.Rows = tab.Len()
	status.Columns = tab.Columns()
	return &status, nil
}

// uploadErrorCode returns the HTTP status for an upload that failed
// with err.
func uploadErrorCode(err error) int {
	var (
		bad    *badUploadError
		syntax *benchjson.SyntaxError
		drift  *benchtab.DriftError
	)
	switch {
	case errors.As(err, &bad), errors.As(err, &syntax), errors.As(err, &drift), errors.Is(err, benchtab.ErrEmpty):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
