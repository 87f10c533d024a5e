// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db stores assembled benchmark tables in a SQL database.
//
// Each call to InsertTable records one load: the data root and layout
// it came from, its column names in order, and every cell of the
// table. Cells are stored as JSON text so that Table returns exactly
// the raw values that were inserted.
package db

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/memprefetch/benchtab"
)

// ErrNotFound is returned by Table for an unknown load ID.
var ErrNotFound = errors.New("load not found")

// DB is a high-level interface to a database of loaded tables. It's
// safe for concurrent use by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a connection to driverName.
// This is used by the sqlite3 package to register a ConnectHook.
// It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Loads (
	LoadID {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}},
	Root VARCHAR(1024),
	Layout VARCHAR(16),
	NumRows BIGINT
);
CREATE TABLE IF NOT EXISTS LoadColumns (
	LoadID BIGINT UNSIGNED,
	Pos INT,
	Name VARCHAR(1024),
	PRIMARY KEY (LoadID, Pos),
	FOREIGN KEY (LoadID) REFERENCES Loads(LoadID) ON UPDATE CASCADE ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS LoadCells (
	LoadID BIGINT UNSIGNED,
	RowID BIGINT UNSIGNED,
	Pos INT,
	Value {{if .sqlite3}}TEXT{{else}}MEDIUMTEXT{{end}},
	PRIMARY KEY (LoadID, RowID, Pos),
	FOREIGN KEY (LoadID, Pos) REFERENCES LoadColumns(LoadID, Pos) ON UPDATE CASCADE ON DELETE CASCADE
);
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

// cellBatch is the number of cells inserted per statement.
const cellBatch = 100

// InsertTable stores t as a new load of root with the given layout
// and returns the load's ID. The load is written in a single
// transaction.
func (db *DB) InsertTable(ctx context.Context, root, layout string, t *benchtab.Table) (id int64, err error) {
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	res, err := tx.ExecContext(ctx, "INSERT INTO Loads(Root, Layout, NumRows) VALUES (?, ?, ?)", root, layout, t.Len())
	if err != nil {
		return 0, err
	}
	if id, err = res.LastInsertId(); err != nil {
		return 0, err
	}

	var args []interface{}
	for pos, name := range t.Columns() {
		args = append(args, id, pos, name)
	}
	if err := insertRows(ctx, tx, "LoadColumns", 3, args); err != nil {
		return 0, err
	}

	args = args[:0]
	for row := 0; row < t.Len(); row++ {
		for pos := range t.Columns() {
			v, err := json.Marshal(t.ColumnAt(pos)[row])
			if err != nil {
				return 0, fmt.Errorf("row %d column %q: %w", row, t.Columns()[pos], err)
			}
			args = append(args, id, row, pos, string(v))
			if len(args) == 4*cellBatch {
				if err := insertRows(ctx, tx, "LoadCells", 4, args); err != nil {
					return 0, err
				}
				args = args[:0]
			}
		}
	}
	if err := insertRows(ctx, tx, "LoadCells", 4, args); err != nil {
		return 0, err
	}
	return id, nil
}

// insertRows inserts len(args)/width rows into table with a single
// statement.
func insertRows(ctx context.Context, tx *sql.Tx, table string, width int, args []interface{}) error {
	if len(args) == 0 {
		return nil
	}
	row := "(" + strings.TrimSuffix(strings.Repeat("?, ", width), ", ") + ")"
	query := "INSERT INTO " + table + " VALUES " + strings.TrimSuffix(strings.Repeat(row+", ", len(args)/width), ", ")
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// A Load describes one stored table.
type Load struct {
	ID     int64
	Root   string
	Layout string
	Rows   int
}

// Loads returns every stored load in ID order.
func (db *DB) Loads(ctx context.Context) ([]Load, error) {
	rows, err := db.sql.QueryContext(ctx, "SELECT LoadID, Root, Layout, NumRows FROM Loads ORDER BY LoadID")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var loads []Load
	for rows.Next() {
		var l Load
		if err := rows.Scan(&l.ID, &l.Root, &l.Layout, &l.Rows); err != nil {
			return nil, err
		}
		loads = append(loads, l)
	}
	return loads, rows.Err()
}

// Table reconstructs the table stored as load id.
func (db *DB) Table(ctx context.Context, id int64) (*benchtab.Table, error) {
	var n int
	err := db.sql.QueryRowContext(ctx, "SELECT NumRows FROM Loads WHERE LoadID = ?", id).Scan(&n)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	names, err := db.columns(ctx, id)
	if err != nil {
		return nil, err
	}
	cols := make([][]interface{}, len(names))
	for i := range cols {
		cols[i] = make([]interface{}, n)
	}

	rows, err := db.sql.QueryContext(ctx, "SELECT RowID, Pos, Value FROM LoadCells WHERE LoadID = ?", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var row, pos int
		var text string
		if err := rows.Scan(&row, &pos, &text); err != nil {
			return nil, err
		}
		if row < 0 || row >= n || pos < 0 || pos >= len(cols) {
			return nil, fmt.Errorf("load %d: cell (%d, %d) out of range", id, row, pos)
		}
		d := json.NewDecoder(strings.NewReader(text))
		d.UseNumber()
		if err := d.Decode(&cols[pos][row]); err != nil {
			return nil, fmt.Errorf("load %d: cell (%d, %d): %w", id, row, pos, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return benchtab.NewTable(names, cols)
}

func (db *DB) columns(ctx context.Context, id int64) ([]string, error) {
	rows, err := db.sql.QueryContext(ctx, "SELECT Name FROM LoadColumns WHERE LoadID = ? ORDER BY Pos", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// DeleteLoad removes load id and all of its cells.
func (db *DB) DeleteLoad(ctx context.Context, id int64) (err error) {
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	// Children first: foreign keys may not be enforced.
	for _, q := range []string{
		"DELETE FROM LoadCells WHERE LoadID = ?",
		"DELETE FROM LoadColumns WHERE LoadID = ?",
		"DELETE FROM Loads WHERE LoadID = ?",
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	return nil
}

// CountLoads returns the number of stored loads.
func (db *DB) CountLoads() (int, error) {
	var n int
	err := db.sql.QueryRow("SELECT COUNT(*) FROM Loads").Scan(&n)
	return n, err
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	return db.sql.Close()
}
