package sink

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ppiankov/crimeetl/internal/model"
)

// SQLiteSink writes every table into one SQLite database in a single
// transaction. Existing tables of the same name are replaced.
type SQLiteSink struct {
	Path string
}

// NewSQLiteSink creates a sink writing to the database at path
func NewSQLiteSink(path string) *SQLiteSink {
	return &SQLiteSink{Path: path}
}

// Write implements Sink
func (s *SQLiteSink) Write(ctx context.Context, tables []*model.Table) error {
	for _, t := range tables {
		if err := checkTable(t); err != nil {
			return err
		}
	}

	db, err := Open(s.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	for _, t := range tables {
		if err := writeTable(ctx, tx, t); err != nil {
			tx.Rollback()
			return fmt.Errorf("writing %s: %w", t.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	slog.Debug("wrote sqlite database", "path", s.Path, "tables", len(tables))
	return nil
}

// Open opens (or creates) the database at path, creating its directory
func Open(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return db, nil
}

func writeTable(ctx context.Context, tx *sql.Tx, t *model.Table) error {
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quote(t.Name)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, createSQL(t)); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, insertSQL(t))
	if err != nil {
		return err
	}
	defer stmt.Close()

	args := make([]any, len(t.Columns))
	for _, row := range t.Rows {
		for i, v := range row {
			args[i] = sqlValue(t.Columns[i].Kind, v)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return err
		}
	}
	return nil
}

func createSQL(t *model.Table) string {
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		typ := "TEXT"
		if c.Kind == model.KindInteger {
			typ = "INTEGER"
		}
		cols[i] = quote(c.Name) + " " + typ
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quote(t.Name), strings.Join(cols, ", "))
}

func insertSQL(t *model.Table) string {
	names := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = quote(c.Name)
		marks[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quote(t.Name), strings.Join(names, ", "), strings.Join(marks, ", "))
}

// sqlValue maps a cell to a driver value; null stays NULL
func sqlValue(kind model.ColumnKind, v model.Value) any {
	if !v.Valid {
		return nil
	}
	if kind == model.KindInteger {
		if n, err := strconv.ParseInt(v.Text, 10, 64); err == nil {
			return n
		}
	}
	return v.Text
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
