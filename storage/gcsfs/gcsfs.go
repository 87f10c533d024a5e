// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gcsfs exposes a Google Cloud Storage bucket as a read-only
// io/fs file system so result directories can be loaded straight
// from gs:// URLs.
//
// Object names are split on "/" into directories. A directory exists
// if at least one object name has it as a prefix.
package gcsfs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// NewClient returns a storage client with read-only access. When
// STORAGE_EMULATOR_HOST is set, the client talks to the emulator
// without credentials. Otherwise it uses the application default
// credentials if there are any, and anonymous access to public
// buckets if not.
func NewClient(ctx context.Context, opts ...option.ClientOption) (*storage.Client, error) {
	return storage.NewClient(ctx, append(authOptions(ctx), opts...)...)
}

func authOptions(ctx context.Context) []option.ClientOption {
	if os.Getenv("STORAGE_EMULATOR_HOST") != "" {
		return []option.ClientOption{option.WithoutAuthentication()}
	}
	creds, err := google.FindDefaultCredentials(ctx, storage.ScopeReadOnly)
	if err != nil {
		return []option.ClientOption{option.WithoutAuthentication()}
	}
	return []option.ClientOption{option.WithCredentials(creds)}
}

// ParseURL splits a gs://bucket/prefix URL. It reports false if s is
// not a gs:// URL with a bucket name.
func ParseURL(s string) (bucket, prefix string, ok bool) {
	if !strings.HasPrefix(s, "gs://") {
		return "", "", false
	}
	bucket, prefix, _ = strings.Cut(strings.TrimPrefix(s, "gs://"), "/")
	if bucket == "" {
		return "", "", false
	}
	return bucket, strings.Trim(prefix, "/"), true
}

// FS is a read-only view of the objects below a prefix of a bucket.
// The root directory of FS is the prefix.
type FS struct {
	ctx    context.Context
	bucket *storage.BucketHandle
	prefix string
}

// New returns a file system over the objects of bucket whose names
// start with prefix. ctx bounds every request the file system makes.
func New(ctx context.Context, client *storage.Client, bucket, prefix string) *FS {
	return &FS{ctx: ctx, bucket: client.Bucket(bucket), prefix: strings.Trim(prefix, "/")}
}

var (
	_ fs.ReadDirFS  = (*FS)(nil)
	_ fs.ReadFileFS = (*FS)(nil)
)

// object returns the object name for the fs path name.
func (f *FS) object(name string) string {
	if name == "." {
		return f.prefix
	}
	if f.prefix == "" {
		return name
	}
	return f.prefix + "/" + name
}

// ReadFile returns the contents of the object at name.
func (f *FS) ReadFile(name string) ([]byte, error) {
	if !fs.ValidPath(name) || name == "." {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrInvalid}
	}
	r, err := f.bucket.Object(f.object(name)).NewReader(f.ctx)
	if err != nil {
		return nil, &fs.PathError{Op: "read", Path: name, Err: mapErr(err)}
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &fs.PathError{Op: "read", Path: name, Err: err}
	}
	return data, nil
}

// ReadDir lists the directory name, sorted by entry name.
func (f *FS) ReadDir(name string) ([]fs.DirEntry, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrInvalid}
	}
	dir := f.object(name)
	if dir != "" {
		dir += "/"
	}
	it := f.bucket.Objects(f.ctx, &storage.Query{Prefix: dir, Delimiter: "/"})
	var entries []fs.DirEntry
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, &fs.PathError{Op: "readdir", Path: name, Err: err}
		}
		if attrs.Prefix != "" {
			base := strings.TrimSuffix(strings.TrimPrefix(attrs.Prefix, dir), "/")
			if base != "" {
				entries = append(entries, &info{name: base, dir: true})
			}
			continue
		}
		base := strings.TrimPrefix(attrs.Name, dir)
		if base == "" {
			// Placeholder object for the directory itself.
			continue
		}
		entries = append(entries, &info{name: base, size: attrs.Size, mod: attrs.Updated})
	}
	if len(entries) == 0 && name != "." {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// Open opens the object or directory at name. Files are read fully
// on open.
func (f *FS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if name != "." {
		data, err := f.ReadFile(name)
		if err == nil {
			return &file{info: info{name: path.Base(name), size: int64(len(data))}, r: bytes.NewReader(data)}, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, &fs.PathError{Op: "open", Path: name, Err: errors.Unwrap(err)}
		}
	}
	entries, err := f.ReadDir(name)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: errors.Unwrap(err)}
	}
	return &dirFile{info: info{name: path.Base(name), dir: true}, entries: entries}, nil
}

func mapErr(err error) error {
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return fs.ErrNotExist
	}
	return err
}

// info is both the fs.FileInfo and the fs.DirEntry of an object or
// directory.
type info struct {
	name string
	size int64
	mod  time.Time
	dir  bool
}

func (i *info) Name() string               { return i.name }
func (i *info) Size() int64                { return i.size }
func (i *info) ModTime() time.Time         { return i.mod }
func (i *info) IsDir() bool                { return i.dir }
func (i *info) Sys() interface{}           { return nil }
func (i *info) Type() fs.FileMode          { return i.Mode().Type() }
func (i *info) Info() (fs.FileInfo, error) { return i, nil }

func (i *info) Mode() fs.FileMode {
	if i.dir {
		return fs.ModeDir | 0555
	}
	return 0444
}

type file struct {
	info info
	r    *bytes.Reader
}

func (f *file) Stat() (fs.FileInfo, error) { return &f.info, nil }
func (f *file) Read(b []byte) (int, error) { return f.r.Read(b) }
func (f *file) Close() error               { return nil }

type dirFile struct {
	info    info
	entries []fs.DirEntry
}

func (d *dirFile) Stat() (fs.FileInfo, error) { return &d.info, nil }
func (d *dirFile) Close() error               { return nil }

func (d *dirFile) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.info.name, Err: fs.ErrInvalid}
}

// ReadDir implements fs.ReadDirFile.
func (d *dirFile) ReadDir(n int) ([]fs.DirEntry, error) {
	if n <= 0 {
		entries := d.entries
		d.entries = nil
		return entries, nil
	}
	if len(d.entries) == 0 {
		return nil, io.EOF
	}
	if n > len(d.entries) {
		n = len(d.entries)
	}
	entries := d.entries[:n]
	d.entries = d.entries[n:]
	return entries, nil
}
