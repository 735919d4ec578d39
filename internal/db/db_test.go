package db_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	dbpkg "github.com/garnizeh/quartermaster/internal/db"
)

func TestNew_Close_GetConn(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// Use in-memory SQLite
	d, err := dbpkg.New(ctx, "file::memory:?cache=shared", nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	conn := d.GetConn()
	if conn == nil {
		t.Fatalf("expected non-nil sql.DB from GetConn")
	}

	// Close should not error
	if err := d.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
}

func TestExec_QueryRow_QueryRows(t *testing.T) {
	ctx := context.Background()
	d, err := dbpkg.New(ctx, "file::memory:?cache=shared", nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer d.Close()

	// create table
	_, err = d.Exec(ctx, `CREATE TABLE IF NOT EXISTS items (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT);`)
	if err != nil {
		t.Fatalf("Exec create table returned error: %v", err)
	}

	// insert
	res, err := d.Exec(ctx, `INSERT INTO items (name) VALUES (?)`, "foo")
	if err != nil {
		t.Fatalf("Exec insert returned error: %v", err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("LastInsertId returned error: %v", err)
	}
	if lastID == 0 {
		t.Fatalf("expected last insert id > 0")
	}

	// query single row
	row := d.QueryRow(ctx, `SELECT name FROM items WHERE id = ?`, lastID)
	var name string
	if err := row.Scan(&name); err != nil {
		t.Fatalf("QueryRow scan returned error: %v", err)
	}
	if name != "foo" {
		t.Fatalf("expected name 'foo' got %q", name)
	}

	// query many rows
	if _, err := d.Exec(ctx, `INSERT INTO items (name) VALUES (?)`, "bar"); err != nil {
		t.Fatalf("Exec insert returned error: %v", err)
	}
	rows, err := d.QueryRows(ctx, `SELECT name FROM items ORDER BY id`)
	if err != nil {
		t.Fatalf("QueryRows returned error: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			t.Fatalf("rows scan returned error: %v", err)
		}
		names = append(names, n)
	}
	if len(names) != 2 || names[0] != "foo" || names[1] != "bar" {
		t.Fatalf("unexpected rows: %v", names)
	}
}

func TestNew_BadDSN(t *testing.T) {
	ctx := context.Background()
	// a database file inside a directory that does not exist cannot be created
	dsn := filepath.Join(t.TempDir(), "missing-dir", "test.db")
	_, err := dbpkg.New(ctx, dsn, nil)
	if err == nil {
		t.Fatalf("expected error for bad DSN, got nil")
	}
}
