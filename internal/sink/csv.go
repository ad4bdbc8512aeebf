package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ppiankov/crimeetl/internal/model"
)

// CSVSink writes one <name>.csv per table into Dir.
//
// Every table is first written to a temp file in Dir; the temp files are
// renamed into place only after all of them were written, so a failed run
// leaves earlier outputs untouched.
type CSVSink struct {
	Dir string
}

// NewCSVSink creates a CSV sink writing into dir
func NewCSVSink(dir string) *CSVSink {
	return &CSVSink{Dir: dir}
}

// Path returns the output file of a table
func (s *CSVSink) Path(table string) string {
	return filepath.Join(s.Dir, table+".csv")
}

// Write implements Sink
func (s *CSVSink) Write(ctx context.Context, tables []*model.Table) error {
	for _, t := range tables {
		if err := checkTable(t); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	temps := make([]string, 0, len(tables))
	cleanup := func() {
		for _, p := range temps {
			os.Remove(p)
		}
	}

	for _, t := range tables {
		if err := ctx.Err(); err != nil {
			cleanup()
			return err
		}
		tmp, err := s.writeTemp(t)
		if tmp != "" {
			temps = append(temps, tmp)
		}
		if err != nil {
			cleanup()
			return fmt.Errorf("writing %s: %w", t.Name, err)
		}
	}

	for i, t := range tables {
		if err := os.Rename(temps[i], s.Path(t.Name)); err != nil {
			cleanup()
			return fmt.Errorf("renaming %s: %w", t.Name, err)
		}
		slog.Debug("wrote table", "table", t.Name, "rows", t.Len(), "path", s.Path(t.Name))
	}

	return nil
}

func (s *CSVSink) writeTemp(t *model.Table) (string, error) {
	f, err := os.CreateTemp(s.Dir, "."+t.Name+"-*.csv.tmp")
	if err != nil {
		return "", err
	}
	name := f.Name()

	if err := Encode(f, t); err != nil {
		f.Close()
		return name, err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return name, err
	}
	if err := f.Close(); err != nil {
		return name, err
	}
	// CreateTemp uses 0600
	if err := os.Chmod(name, 0644); err != nil {
		return name, err
	}
	return name, nil
}

// Encode writes a table as CSV with a header row and \n line endings.
// Null values are empty fields.
func Encode(w io.Writer, t *model.Table) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = false

	if err := cw.Write(t.ColumnNames()); err != nil {
		return err
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, v := range row {
			record[i] = v.String()
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
