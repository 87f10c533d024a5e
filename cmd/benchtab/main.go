// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Benchtab loads a directory of JSON benchmark result files into a
// single table.
//
// Usage:
//
//	benchtab [flags] root
//
// Each result file holds an object with a "results" array of records.
// Benchtab flattens every record into dotted column names such as
// "config.batch_size" and adds an "id" column naming the machine the
// record came from.
//
// With -layout flat (the default), root holds one file per machine,
// for example lfb_batched/amd.json, and the id is the file name
// without ".json". With -layout hier, root holds one directory per
// machine, for example memory_latencies/node1/*.json, and the id is
// the directory name.
//
// Every record must have the same keys as the first one. With -union,
// records may add keys; missing values are printed empty.
//
// Root may also be a Cloud Storage URL of the form gs://bucket/prefix.
//
// The -format flag selects the output: an aligned text table (text),
// CSV (csv), or an HTML page (html). The -summary flag prints summary
// statistics of one column instead, grouped by the -by columns; array
// values such as "runtimes" contribute each of their elements.
//
// The -db and -dsn flags additionally store the table in a sqlite3
// or mysql database. Cloud SQL instances can be reached with a DSN
// of the form user@cloudsql(project:region:instance)/dbname.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"strings"

	_ "github.com/GoogleCloudPlatform/cloudsql-proxy/proxy/dialers/mysql"
	_ "github.com/go-sql-driver/mysql"
	"github.com/memprefetch/benchtab"
	"github.com/memprefetch/benchtab/benchjson"
	"github.com/memprefetch/benchtab/storage/db"
	"github.com/memprefetch/benchtab/storage/gcsfs"
)

func usage(w io.Writer, flags *flag.FlagSet) func() {
	return func() {
		fmt.Fprintf(w, "usage: benchtab [flags] root\n")
		fmt.Fprintf(w, "flags:\n")
		flags.PrintDefaults()
	}
}

func main() {
	log.SetPrefix("benchtab: ")
	log.SetFlags(0)
	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

func run(w, wErr io.Writer, args []string) error {
	flags := flag.NewFlagSet("benchtab", flag.ContinueOnError)
	flags.SetOutput(wErr)
	flags.Usage = usage(wErr, flags)
	var (
		flagLayout  = flags.String("layout", "flat", "directory `layout` of root: flat or hier")
		flagUnion   = flags.Bool("union", false, "allow records to add keys, leaving missing values empty")
		flagFormat  = flags.String("format", "text", "output `format`: text, csv, or html")
		flagSummary = flags.String("summary", "", "print summary statistics of `column` instead of the table")
		flagBy      = flags.String("by", benchtab.IDKey, "group -summary by comma-separated `columns`")
		flagDB      = flags.String("db", "", "also store the table using database `driver` (sqlite3 or mysql)")
		flagDSN     = flags.String("dsn", "", "data source `name` for -db")
		flagV       = flags.Bool("v", false, "log each file as it is read")
	)
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return flag.ErrHelp
	}
	layout, err := benchjson.ParseLayout(*flagLayout)
	if err != nil {
		return err
	}
	root := flags.Arg(0)

	ctx := context.Background()
	fsys, dir, closeFS, err := openRoot(ctx, root)
	if err != nil {
		return err
	}
	defer closeFS()

	opts := benchtab.Options{Layout: layout, Union: *flagUnion}
	if *flagV {
		logger := log.New(wErr, "benchtab: ", 0)
		opts.Logf = logger.Printf
	}
	tab, err := benchtab.Load(fsys, dir, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", root, err)
	}

	if *flagDB != "" {
		if err := store(ctx, wErr, *flagDB, *flagDSN, root, layout, tab); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	if *flagSummary != "" {
		var by []string
		if *flagBy != "" {
			by = strings.Split(*flagBy, ",")
		}
		if err := formatSummary(&buf, tab, *flagSummary, by); err != nil {
			return err
		}
	} else {
		switch *flagFormat {
		case "text":
			err = formatText(&buf, tab)
		case "csv":
			err = tab.WriteCSV(&buf)
		case "html":
			err = formatHTML(&buf, root, tab)
		default:
			return fmt.Errorf("unknown format %q", *flagFormat)
		}
		if err != nil {
			return err
		}
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// openRoot returns the file system and directory within it that root
// names.
func openRoot(ctx context.Context, root string) (fs.FS, string, func(), error) {
	if bucket, prefix, ok := gcsfs.ParseURL(root); ok {
		client, err := gcsfs.NewClient(ctx)
		if err != nil {
			return nil, "", nil, err
		}
		return gcsfs.New(ctx, client, bucket, prefix), ".", func() { client.Close() }, nil
	}
	if strings.HasPrefix(root, "gs://") {
		return nil, "", nil, fmt.Errorf("malformed Cloud Storage URL %q", root)
	}
	return os.DirFS(root), ".", func() {}, nil
}

func store(ctx context.Context, wErr io.Writer, driver, dsn, root string, layout benchjson.Layout, tab *benchtab.Table) error {
	d, err := db.OpenSQL(driver, dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer d.Close()
	id, err := d.InsertTable(ctx, root, layout.String(), tab)
	if err != nil {
		return fmt.Errorf("store table: %w", err)
	}
	fmt.Fprintf(wErr, "stored %d rows as load %d\n", tab.Len(), id)
	return nil
}
