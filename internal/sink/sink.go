// Package sink writes the emitted tables of a run.
package sink

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/crimeetl/internal/model"
)

// Sink receives every table of a run in one call
type Sink interface {
	Write(ctx context.Context, tables []*model.Table) error
}

// New returns the sink selected by cfg.Output.Format
func New(cfg *model.Config) (Sink, error) {
	switch strings.ToLower(cfg.Output.Format) {
	case model.FormatCSV, "":
		return NewCSVSink(cfg.Output.Dir), nil
	case model.FormatSQLite:
		return NewSQLiteSink(cfg.Output.SQLitePath), nil
	default:
		return nil, fmt.Errorf("output format %q: %w", cfg.Output.Format, model.ErrUnknownFormat)
	}
}

// checkTable rejects tables a sink cannot lay out
func checkTable(t *model.Table) error {
	if t.Name == "" {
		return fmt.Errorf("table has no name")
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("table %s has no columns", t.Name)
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("table %s row %d has %d values, want %d", t.Name, i+1, len(row), len(t.Columns))
		}
	}
	return nil
}
